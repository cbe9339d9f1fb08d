package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/project-dashboard/internal/store"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print portfolio summary counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			log := rootOpts.commandLogger(cmd.ErrOrStderr())

			return rootOpts.withStore(log, func(s store.Store) error {
				stats, err := s.GetProjectStats(cmd.Context(), rootOpts.deps.now())
				if err != nil {
					return fmt.Errorf("loading stats: %w", err)
				}
				if out.JSON() {
					return out.WriteJSON(stats)
				}
				out.Printf("Total projects:   %d\n", stats.TotalProjects)
				out.Printf("Pending:          %d\n", stats.PendingProjects)
				out.Printf("Completed:        %d\n", stats.CompletedProjects)
				out.Printf("On hold:          %d\n", stats.OnHoldProjects)
				out.Printf("Expired domains:  %d\n", stats.ExpiredDomains)
				out.Printf("Server issues:    %d\n", stats.ExpiredServers)
				return nil
			})
		},
	}
}
