package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nodehealth",
	Short: "Live health dashboard for a Clearwater node",
	Long: `nodehealth shows the health of the node it runs on: process state,
disk and CPU pressure, cluster membership, and live traffic statistics.

Which checks and statistics are shown depends on the node type, which is
discovered at start-up. Press q to quit.

Must be run as root unless node.ssh points it at another host.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

// Execute runs the root command. Startup failures are printed to stderr and
// exit non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
