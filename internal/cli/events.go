package cli

import (
	"context"
	"fmt"
	"time"

	"habittracker/services/streak"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the most recent events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withService(cmd, func(ctx context.Context, svc *streak.DefaultStreakService) error {
				events, err := svc.RecentEvents(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(events) == 0 {
					_, _ = fmt.Fprintln(out, "No events recorded")
					return nil
				}
				for _, ev := range events {
					line := fmt.Sprintf("%d\t%s", ev.ID, ev.Timestamp.UTC().Format(time.RFC3339))
					if ev.Name != "" {
						line += "\t" + ev.Name
					}
					_, _ = fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", streak.DefaultEventLimit, "number of events to show")
	return cmd
}
