package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/woolinator/bot/internal/gateways/database/repositories"
	"github.com/woolinator/bot/woolinator/database"
	"github.com/woolinator/bot/woolinator/utils"
)

var dueWithin time.Duration

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "inspect stored reminders",
}

var remindersDueCmd = &cobra.Command{
	Use:   "due",
	Short: "print reminders that expire within the given window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		due, err := repositories.NewReminderRepository(db.BunDB()).ListDueBefore(ctx, time.Now().Add(dueWithin))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tOWNER\tEXPIRES\tDM\tCONTENT")
		for _, r := range due {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n",
				r.ID, r.OwnerID, r.ExpiresAt.Format(time.RFC3339), r.IsDirectMessage, utils.TrimString(r.Payload, 40))
		}
		if err = w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d reminder(s) due within %s\n", len(due), dueWithin)
		return nil
	},
}

func init() {
	remindersDueCmd.Flags().DurationVar(&dueWithin, "within", 10*time.Minute, "how far ahead to look")
	remindersCmd.AddCommand(remindersDueCmd)
}
