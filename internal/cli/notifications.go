package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/project-dashboard/internal/model"
	"github.com/nhle/project-dashboard/internal/notify"
	"github.com/nhle/project-dashboard/internal/store"
)

// NotificationsResult is the JSON shape of the notifications command.
type NotificationsResult struct {
	Now           string               `json:"now"`
	Count         int                  `json:"count"`
	Notifications []model.Notification `json:"notifications"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// NewNotificationsCommand creates the notifications command.
func NewNotificationsCommand(rootOpts *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List domain, server and deadline alerts",
		Long: `Derive the alerts that are active today from every stored project.

Domains and servers are reported up to 30 days before they expire, delivery
deadlines up to 7 days before they fall due. Use --now to evaluate another
day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := rootOpts.deps.now()
			if at != "" {
				t, err := model.ParseDate(at)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				now = t
			}
			return runNotifications(cmd, rootOpts, now)
		},
	}

	cmd.Flags().StringVar(&at, "now", "", "evaluate as of this date (YYYY-MM-DD)")

	return cmd
}

func runNotifications(cmd *cobra.Command, opts *RootOptions, now time.Time) error {
	out := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	log := opts.commandLogger(cmd.ErrOrStderr())

	return opts.withStore(log, func(s store.Store) error {
		projects, err := s.GetProjects(cmd.Context(), store.ProjectFilter{})
		if err != nil {
			return fmt.Errorf("loading projects: %w", err)
		}

		entries, derr := notify.Derive(projects, now)
		var warnings []string
		for _, bad := range notify.InvalidDates(derr) {
			warnings = append(warnings, bad.Error())
			out.Warnf("%s", bad.Error())
		}
		if entries == nil {
			entries = []model.Notification{}
		}

		if out.JSON() {
			return out.WriteJSON(NotificationsResult{
				Now:           model.FormatDate(now),
				Count:         len(entries),
				Notifications: entries,
				Warnings:      warnings,
			})
		}

		if len(entries) == 0 {
			out.Printf("No notifications\n")
			return nil
		}
		out.Printf("%-8s %-14s %-12s %4s  %s\n", "SEVERITY", "KIND", "DUE", "DAYS", "MESSAGE")
		for _, n := range entries {
			out.Printf("%-8s %-14s %-12s %4d  %s\n",
				n.Severity, n.Kind, n.DueDate.Format("Jan 2, 2006"), n.DaysRemaining, n.Message)
		}
		return nil
	})
}
