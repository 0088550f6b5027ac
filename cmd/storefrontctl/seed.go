package main

import (
	"fmt"
	"os"

	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/internal/app"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create products and subscription plans from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			seed, err := catalog.LoadSeed(f)
			if err != nil {
				return err
			}

			c, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := app.Build(ctx, c)
			if err != nil {
				return err
			}
			defer a.Close()

			products, plans, err := a.Services.Catalog.Seed(ctx, seed)
			fmt.Fprintf(cmd.OutOrStdout(), "created %d product(s), %d subscription plan(s)\n", products, plans)
			return err
		},
	}
}
