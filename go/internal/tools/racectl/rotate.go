package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kpcrmv4/AProject/go/internal/accesscode"
	"github.com/kpcrmv4/AProject/go/internal/dbconfig"
	"github.com/kpcrmv4/AProject/go/internal/racedb"
	"github.com/spf13/cobra"
)

func newRotateCodesCmd(opts *globalOptions) *cobra.Command {
	var (
		eventID  string
		timezone string
	)
	cmd := &cobra.Command{
		Use:   "rotate-codes",
		Short: "Issue fresh access codes for every checkpoint of an event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(eventID)
			if err != nil {
				return fmt.Errorf("invalid --event-id: %w", err)
			}
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid --timezone: %w", err)
			}

			db, err := dbconfig.Open(cmd.Context(), opts.dbURL)
			if err != nil {
				return err
			}
			defer db.Close()

			app := accesscode.NewApp(accesscode.NewRepository(racedb.New(db), db), clockwork.NewRealClock(), loc)
			rotated, err := app.RotateEvent(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, cp := range rotated {
				fmt.Fprintf(out, "%-24s %s  (expires %s)\n", cp.Name, cp.AccessCode, cp.CodeExpiresAt.In(loc).Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&eventID, "event-id", "", "event whose checkpoint codes are rotated")
	cmd.Flags().StringVar(&timezone, "timezone", "Asia/Bangkok", "race-day zone for code expiry")
	_ = cmd.MarkFlagRequired("event-id")
	return cmd
}
