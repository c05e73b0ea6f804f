package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "undertow",
	Short: "One-shot environment secret guard",
	Long: `Undertow shields a protect-list of secret environment variables. On first
read through the guarded lookup a token's value is retained in encrypted
in-process storage and the variable is removed from the process environment
table, so /proc/[pid]/environ and other out-of-band dumps no longer expose
it while the process keeps reading the token normally.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
