// Command storefrontctl runs operational tasks against the storefront
// database: schema migrations, admin provisioning and catalog seeding.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrsteele09/storefront-server/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("storefrontctl failed")
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Storefront operations CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newMigrateCmd(), newCreateAdminCmd(), newSeedCmd())
	return root
}

// loadConfig reads the environment and insists on a real database; the
// in-memory repos would discard whatever the command writes.
func loadConfig() (config.Config, error) {
	c := config.New()
	if c.GetDatabaseURL() == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return c, nil
}
