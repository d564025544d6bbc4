package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostelmania/server/app/models"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/config"
	"github.com/hostelmania/server/pkg/auth"
)

// hostelmania users:promote <email>
var usersPromoteCmd = &cobra.Command{
	Use:   "users:promote <email>",
	Short: "Give a registered user the admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(store repositories.Store) error {
			res, err := store.Users().SetRoleByEmail(cmd.Context(), args[0], models.RoleAdmin)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("no user with email %q; they must sign in once first", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
			return nil
		})
	},
}

var tokenNameFlag string

// hostelmania token:issue <email>
var tokenIssueCmd = &cobra.Command{
	Use:   "token:issue <email>",
	Short: "Print an access token for email, valid for one hour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		token, err := auth.NewTokenService(config.TokenSecret()).Issue(auth.Identity{Email: args[0], Name: tokenNameFlag})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenNameFlag, "name", "", "display name to embed")
}
