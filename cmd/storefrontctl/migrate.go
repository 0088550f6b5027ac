package main

import (
	"fmt"

	"github.com/jrsteele09/storefront-server/internal/database"
	"github.com/jrsteele09/storefront-server/migrations/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	cmd.AddCommand(
		newMigrateDirectionCmd(database.Up, "Apply pending migrations", 0),
		newMigrateDirectionCmd(database.Down, "Roll back migrations", 1),
		newMigrateListCmd(),
	)
	return cmd
}

func newMigrateDirectionCmd(direction database.Direction, short string, defaultSteps int) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   string(direction),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := database.Open(ctx, c.GetDatabaseURL())
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.Migrate(ctx, pool, migrations.FS, direction, steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied (%s)\n", applied, direction)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", defaultSteps, "number of migrations to run (0 = all)")
	return cmd
}

func newMigrateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded migrations in apply order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := database.ListMigrations(migrations.FS, database.Up)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}
