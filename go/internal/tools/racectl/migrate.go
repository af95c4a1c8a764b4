package main

import (
	"github.com/kpcrmv4/AProject/go/internal/dbconfig"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dbconfig.Migrate(opts.dbURL)
		},
	}
}
