package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Real-Fruit-Snacks/Undertow/pkg/envguard"
)

// defaultsCmd prints the built-in protect-list, one name per line.
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in protect-list",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		for _, name := range envguard.DefaultProtectList() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
