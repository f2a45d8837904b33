package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/resellbd/resell-api/database/migrations"
	"github.com/resellbd/resell-api/database/seeders"
	"github.com/resellbd/resell-api/internal/server"
	"github.com/resellbd/resell-api/pkg/migration"
)

// withStore opens the configured store, runs fn and disconnects.
func withStore(fn func(ctx context.Context, res *server.Resources) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := server.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer res.Close(context.Background()) //nolint:errcheck

	return fn(ctx, res)
}

// resell migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the collection indexes (run all pending migrations)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, res *server.Resources) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			return res.Migrate(ctx, cmd.OutOrStdout())
		})
	},
}

// resell migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, res *server.Resources) error {
			if res.Conn == nil {
				return fmt.Errorf("migrate:rollback needs STORE_DRIVER=mongo")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return migration.New(res.Conn.DB, cmd.OutOrStdout()).Rollback(ctx)
		})
	},
}

// resell migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, res *server.Resources) error {
			if res.Conn == nil {
				return fmt.Errorf("migrate:status needs STORE_DRIVER=mongo")
			}
			return migration.New(res.Conn.DB, cmd.OutOrStdout()).Status(ctx)
		})
	},
}

// resell seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users and product listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, res *server.Resources) error {
			if err := res.Migrate(ctx, cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(ctx, res.Store, cmd.OutOrStdout())
		})
	},
}

// resell dedupe [--dry-run]
var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate users and orders so the unique indexes can be built",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return withStore(func(ctx context.Context, res *server.Resources) error {
			if res.Conn == nil {
				return fmt.Errorf("dedupe needs STORE_DRIVER=mongo")
			}
			results, err := migrations.Dedupe(ctx, res.Conn.DB, dryRun)
			for _, r := range results {
				verb := "removed"
				if dryRun {
					verb = "would remove"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d duplicate groups, %s %d documents\n", r.Collection, r.Groups, verb, r.Removed)
			}
			return err
		})
	},
}

func init() {
	dedupeCmd.Flags().Bool("dry-run", false, "report duplicates without deleting")
}
