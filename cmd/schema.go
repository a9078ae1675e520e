package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/woolinator/bot/woolinator/database"
)

var initSchemaCmd = &cobra.Command{
	Use:   "init-schema",
	Short: "create the reminders table and indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err = db.InitializeSchema(ctx); err != nil {
			return err
		}

		slog.Info("Database schema initialized",
			slog.String("type", "db"),
			slog.String("driver", db.Driver()),
			slog.Duration("took", time.Since(start)),
		)
		return nil
	},
}
