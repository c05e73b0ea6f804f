package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Real-Fruit-Snacks/Undertow/pkg/version"
)

// versionCmd prints build version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("undertow " + version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
