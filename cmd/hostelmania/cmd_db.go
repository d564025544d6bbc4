package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostelmania/server/app/jobs"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/database/seeders"
	"github.com/hostelmania/server/internal/server"
)

// withStore opens the configured store for the duration of fn.
func withStore(ctx context.Context, fn func(repositories.Store) error) error {
	store, err := server.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	return fn(store)
}

// hostelmania migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create indexes (mongo) or tables (sql)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(store repositories.Store) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Migrating %s store…\n", store.Driver())
			return store.Migrate(cmd.Context())
		})
	},
}

// hostelmania seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo admin, menu and upcoming meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(store repositories.Store) error {
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(cmd.Context(), store, cmd.OutOrStdout())
		})
	},
}

var recountWorkersFlag int

// hostelmania reviews:recount
var reviewsRecountCmd = &cobra.Command{
	Use:   "reviews:recount",
	Short: "Recompute every menu item's review counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(store repositories.Store) error {
			n, err := jobs.RecountAll(cmd.Context(), store, recountWorkersFlag)
			fmt.Fprintf(cmd.OutOrStdout(), "Recounted %d menu items\n", n)
			return err
		})
	},
}

func init() {
	reviewsRecountCmd.Flags().IntVarP(&recountWorkersFlag, "workers", "w", 4, "concurrent recounts")
}
