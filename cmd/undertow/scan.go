package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Real-Fruit-Snacks/Undertow/pkg/envguard"
	"github.com/Real-Fruit-Snacks/Undertow/pkg/procenv"
)

// scanCmd walks a process's raw /proc/[pid]/environ and reports which
// protected names are still exposed there. This is the exposure check run
// from outside the guarded process, the same view a forensic dump would get.
var scanCmd = &cobra.Command{
	Use:   "scan [PID]",
	Short: "Report protected names exposed in a process's raw environ",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		pid := os.Getpid()
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed <= 0 {
				return fmt.Errorf("invalid PID %q", args[0])
			}
			pid = parsed
		}
		return runScan(pid)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(pid int) error {
	table, err := procenv.Capture(pid)
	if err != nil {
		return err
	}

	comm := table.Comm
	if comm == "" {
		comm = "?"
	}
	fmt.Printf("pid %d (%s): %d environ entries\n", pid, comm, len(table.Entries))

	var exposed []string
	for _, name := range envguard.Default().ProtectedNames() {
		if table.Has(name) {
			exposed = append(exposed, name)
		}
	}

	if len(exposed) == 0 {
		fmt.Println("no protected names exposed")
		return nil
	}

	for _, name := range exposed {
		fmt.Printf("EXPOSED: %s\n", name)
	}
	return fmt.Errorf("%d protected name(s) exposed in pid %d", len(exposed), pid)
}
