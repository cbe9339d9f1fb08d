package cli

import (
	"github.com/spf13/cobra"

	"github.com/nhle/project-dashboard/internal/store"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo projects",
		Long: `Insert a small demo portfolio whose dates are relative to today, so every
kind of notification and every severity shows up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			log := rootOpts.commandLogger(cmd.ErrOrStderr())

			return rootOpts.withStore(log, func(s store.Store) error {
				n, err := store.Seed(cmd.Context(), s, rootOpts.deps.now())
				if err != nil {
					return err
				}
				if out.JSON() {
					return out.WriteJSON(map[string]int{"inserted": n})
				}
				out.Printf("Inserted %d demo projects\n", n)
				return nil
			})
		},
	}
}
