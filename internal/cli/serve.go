package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/project-dashboard/internal/service"
	"github.com/nhle/project-dashboard/internal/store"
	"github.com/nhle/project-dashboard/internal/transport"
)

// shutdownTimeout bounds how long in-flight requests may take to finish.
const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve projects, stats and notifications over a local JSON API until
interrupted. Read state is kept in memory for the lifetime of the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = rootOpts.Config.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, addr, rootOpts.commandLogger(cmd.ErrOrStderr()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, addr string, log *logrus.Logger) error {
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	return opts.withStore(log, func(s store.Store) error {
		dash := service.NewDashboard(s, opts.deps.now)
		router := transport.InitRoutes(transport.NewHandler(dash), log)
		srv := transport.NewServer(addr, router, log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Run()
		}()
		log.WithField("addr", addr).Info("api server started")

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	})
}
