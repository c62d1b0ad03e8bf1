package cli

import (
	"context"
	"fmt"
	"time"

	"habittracker/services/streak"

	"github.com/spf13/cobra"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a habit event now",
		Long:  `Record a habit event now.

The event is written straight to the database. A running daemon keeps
showing its cached state until the next press or midnight; send it SIGHUP
(for example "pkill -HUP habittracker") to redraw right away.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return withService(cmd, func(ctx context.Context, svc *streak.DefaultStreakService) error {
				ev, err := svc.Record(ctx, name)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded event %d at %s\n", ev.ID, ev.Timestamp.UTC().Format(time.RFC3339))
				return nil
			})
		},
	}
	cmd.Flags().String("name", "", "optional label for the event")
	return cmd
}
