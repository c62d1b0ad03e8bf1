package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"habittracker/models"
	"habittracker/services/streak"

	"github.com/spf13/cobra"
)

func newStreakCmd(use, short string, kind streak.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tz, _ := cmd.Flags().GetString("timezone")
			asJSON, _ := cmd.Flags().GetBool("json")
			loc, err := streak.LoadLocation(tz)
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *streak.DefaultStreakService) error {
				report, err := svc.Report(ctx, loc, kind)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}
				printReport(cmd.OutOrStdout(), kind, report)
				return nil
			})
		},
	}
	cmd.Flags().String("timezone", "UTC", "IANA time zone used for calendar days")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}

var kindLabels = map[streak.Kind]string{
	streak.KindCurrent:  "Current",
	streak.KindPrevious: "Previous",
}

func printReport(w io.Writer, kind streak.Kind, report models.StreakReport) {
	if !report.Active || report.Days == nil {
		_, _ = fmt.Fprintf(w, "No %s streak\n", kind)
		return
	}
	unit := "days"
	if *report.Days == 1 {
		unit = "day"
	}
	_, _ = fmt.Fprintf(w, "%s streak: %d %s (%d events)\n", kindLabels[kind], *report.Days, unit, *report.Count)
	_, _ = fmt.Fprintf(w, "  start: %s\n", *report.Start)
	_, _ = fmt.Fprintf(w, "  end:   %s\n", *report.End)
	if kind == streak.KindCurrent {
		_, _ = fmt.Fprintf(w, "  active today: %t\n", report.ActiveToday)
	}
}
