package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register demo seeders.
	_ "github.com/resellbd/resell-api/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "resell",
	Short:         "Resell BD marketplace API",
	Long:          "Resell BD serves the marketplace API for users, product listings, orders and payments.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dedupeCmd)
}
