// Command hostelmania runs the HostelMania API server and its maintenance
// tasks.
//
//	hostelmania serve               # HTTP (+ gRPC when GRPC_PORT is set)
//	hostelmania migrate             # create indexes / tables
//	hostelmania seed                # demo admin, menu and upcoming meals
//	hostelmania route:list
//	hostelmania users:promote <email>
//	hostelmania reviews:recount
//	hostelmania token:issue <email>
//	hostelmania queue:work          # workers only, for QUEUE_DRIVER=redis
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "hostelmania",
	Short:         "HostelMania meal-management server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(queueWorkCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reviewsRecountCmd)

	// Accounts
	rootCmd.AddCommand(usersPromoteCmd)
	rootCmd.AddCommand(tokenIssueCmd)
}
