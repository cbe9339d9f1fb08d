package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/project-dashboard/internal/credential"
	"github.com/nhle/project-dashboard/internal/logging"
	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/store"
)

// RootOptions holds global flags and the loaded configuration.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"

	Config *model.AppConfig

	deps deps
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// deps are the collaborators commands open at run time.
type deps struct {
	now         func() time.Time
	openStore   func(cfg *model.AppConfig, log *logrus.Logger) (store.Store, error)
	openKeyring func(cfg *model.AppConfig) (*credential.Keyring, error)
}

func defaultDeps() deps {
	return deps{
		now: time.Now,
		openStore: func(cfg *model.AppConfig, log *logrus.Logger) (store.Store, error) {
			return store.NewSQLiteStore(cfg.Database.Path, log)
		},
		openKeyring: func(cfg *model.AppConfig) (*credential.Keyring, error) {
			return credential.Open(filepath.Join(filepath.Dir(cfg.Database.Path), "keyring"))
		},
	}
}

// NewRootCommand creates the root command for the dashboard CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDeps())
}

func newRootCommand(d deps) *cobra.Command {
	opts := &RootOptions{deps: d}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Project dashboard",
		Long: `Track client projects and get warned before domains, servers
and delivery deadlines run out.

Running dashboard without a subcommand opens the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := model.LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", model.DefaultConfigPath(), "config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewNotificationsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// commandLogger logs to errOut regardless of the configured log file, so
// one-shot commands report problems where the user can see them.
func (o *RootOptions) commandLogger(errOut io.Writer) *logrus.Logger {
	cfg := o.Config.Log
	cfg.File = ""
	log, _, _ := logging.New(cfg)
	log.SetOutput(errOut)
	return log
}

// withStore opens the store for the duration of fn.
func (o *RootOptions) withStore(log *logrus.Logger, fn func(s store.Store) error) error {
	s, err := o.deps.openStore(o.Config, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			log.WithError(cerr).Warn("closing store")
		}
	}()
	return fn(s)
}
