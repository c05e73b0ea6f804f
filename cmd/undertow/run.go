package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Real-Fruit-Snacks/Undertow/pkg/envguard"
)

var (
	runEnvFile string
	runProtect string
	runExpose  []string
)

// runCmd launches a child program after capturing and scrubbing every
// protected token from the environment. The child starts with an environment
// that no longer contains the protected names; --expose re-injects selected
// captured values for children that genuinely need them.
var runCmd = &cobra.Command{
	Use:   "run [flags] -- PROG [ARGS...]",
	Short: "Launch a program with protected tokens captured and scrubbed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runExec(args)
	},
}

func init() {
	runCmd.Flags().StringVar(&runEnvFile, "env-file", "", "load additional variables from a .env file before capturing")
	runCmd.Flags().StringVar(&runProtect, "protect", "", "comma-separated protect-list override")
	runCmd.Flags().StringSliceVar(&runExpose, "expose", nil, "captured names to re-inject into the child environment")
	rootCmd.AddCommand(runCmd)
}

func runExec(args []string) error {
	if runEnvFile != "" {
		if err := godotenv.Load(runEnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", runEnvFile, err)
		}
	}

	// The override must be in place before the guard's lazy initialization
	// reads its configuration.
	if runProtect != "" {
		if err := os.Setenv(envguard.EnvProtectList, runProtect); err != nil {
			return fmt.Errorf("failed to set protect-list override: %w", err)
		}
	}

	guard := envguard.Default()

	// Touch every protected name once: present values are captured and
	// scrubbed from the environment the child will inherit.
	for _, name := range guard.ProtectedNames() {
		_, _ = guard.Getenv(name)
	}

	childEnv := os.Environ()
	for _, name := range runExpose {
		if value, ok := guard.Getenv(name); ok {
			childEnv = append(childEnv, name+"="+value)
		}
	}

	path, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("cannot find program %s: %w", args[0], err)
	}

	// Full image replacement, so no guard process lingers around the child.
	if err := syscall.Exec(path, args, childEnv); err != nil {
		return fmt.Errorf("exec %s failed: %w", path, err)
	}
	return nil
}
