package cli

import (
	"context"
	"fmt"

	"habittracker/database"
	eventsRepo "habittracker/database/repository/events"
	"habittracker/services/streak"

	"github.com/spf13/cobra"
)

const defaultDBPath = "habit-tracker.db"

// NewRootCmd builds the habitctl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "habitctl",
		Short:        "Inspect and maintain the habit tracker database",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("db", defaultDBPath, "path to the SQLite database file")

	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newStreakCmd("current", "Show the current streak", streak.KindCurrent))
	rootCmd.AddCommand(newStreakCmd("previous", "Show the streak before the current one", streak.KindPrevious))
	rootCmd.AddCommand(newEventsCmd())
	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

// withService opens the database named by --db for the duration of fn.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *streak.DefaultStreakService) error) error {
	path, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := database.Open(ctx, path, 1)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer pool.Close()

	return fn(ctx, &streak.DefaultStreakService{Repo: eventsRepo.NewSQLiteEventRepo(pool)})
}
