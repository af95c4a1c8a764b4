package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kpcrmv4/AProject/go/internal/dbconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "RACECTL"

type globalOptions struct {
	dbURL    string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	v := viper.New()

	root := &cobra.Command{
		Use:           "racectl",
		Short:         "Operator tooling for the race timing database",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(cmd, v)
			level, err := zerolog.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.dbURL, "db-url", dbconfig.NewConfigFromEnv().DSN(),
		"Postgres connection URL")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"zerolog level")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newRotateCodesCmd(opts),
	)
	return root
}

// bindFlags lets RACECTL_<FLAG> fill any flag not given on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				fmt.Fprintf(os.Stderr, "could not set flag %s: %v\n", f.Name, err)
			}
		}
	})
}
