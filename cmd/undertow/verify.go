package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Real-Fruit-Snacks/Undertow/pkg/envguard"
	"github.com/Real-Fruit-Snacks/Undertow/pkg/procenv"
)

// verifyCmd runs the guard end-to-end inside this process: each protected
// name is read twice through the guarded lookup, then the raw environment
// table is re-scanned. Run it inside a target container to confirm capture,
// replay, and scrubbing all work in that execution context.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Exercise the guard in-process and report capture/replay/scrub status",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runVerify()
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify() error {
	guard := envguard.Default()
	failures := 0

	for _, name := range guard.ProtectedNames() {
		first, ok := guard.Getenv(name)
		if !ok {
			fmt.Printf("%-24s absent\n", name)
			continue
		}

		replay, replayOK := guard.Getenv(name)
		if !replayOK || replay != first {
			fmt.Printf("%-24s FAIL: replay mismatch\n", name)
			failures++
			continue
		}

		if procenv.RuntimeHas(name) {
			fmt.Printf("%-24s FAIL: still in runtime environment table\n", name)
			failures++
			continue
		}

		fmt.Printf("%-24s captured %s, cleared\n", name, maskShort(first))
	}

	if failures > 0 {
		return fmt.Errorf("%d protected name(s) failed verification", failures)
	}
	return nil
}

// maskShort shows at most the first four characters of a captured value,
// sliced by rune so multibyte values stay valid UTF-8.
func maskShort(value string) string {
	if value == "" {
		return "(empty)"
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return value + "..."
	}
	return string(runes[:4]) + "..."
}
