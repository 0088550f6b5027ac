package main

import (
	"fmt"

	"github.com/jrsteele09/storefront-server/auth"
	"github.com/jrsteele09/storefront-server/internal/app"
	"github.com/jrsteele09/storefront-server/users"
	"github.com/spf13/cobra"
)

func newCreateAdminCmd() *cobra.Command {
	var spec auth.AdminSpec
	var role string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a dashboard user (no-op when the email exists)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := users.ParseRole(role)
			if err != nil {
				return err
			}
			spec.Role = r

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

			user, generated, err := auth.EnsureAdmin(ctx, a.Repos.Users, spec, c.GetBcryptCost())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (%s)\n", user.ID, user.Email, user.Role)
			if generated != "" {
				fmt.Fprintf(out, "generated password: %s\n", generated)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&spec.Email, "email", "", "login email")
	cmd.Flags().StringVar(&spec.Password, "password", "", "password (generated when empty)")
	cmd.Flags().StringVar(&spec.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&spec.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", string(users.RoleAdmin), "admin, manager or super_admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
