// Package procenv reads and mutates the raw process environment table: the
// NUL-separated startup region the kernel exposes via /proc/[pid]/environ and
// the live runtime table. The guarded lookup path never goes through this
// package; it exists so initialization and verification can bypass
// interception entirely.
package procenv

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Table represents the captured raw environment of a process.
type Table struct {
	PID     int
	Comm    string
	Entries map[string]string
}

// Capture reads the full environment of a target process from
// /proc/[pid]/environ. This is the startup region as the kernel recorded it,
// not the process's live runtime table.
func Capture(pid int) (*Table, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/environ", pid))
	if err != nil {
		return nil, fmt.Errorf("procenv: failed to read environ for pid %d: %w", pid, err)
	}

	comm, _ := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))

	table := &Table{
		PID:     pid,
		Comm:    strings.TrimSpace(string(comm)),
		Entries: make(map[string]string),
	}

	// /proc/[pid]/environ is NUL-separated
	for _, entry := range bytes.Split(data, []byte{0}) {
		if len(entry) == 0 {
			continue
		}
		parts := strings.SplitN(string(entry), "=", 2)
		if len(parts) == 2 {
			table.Entries[parts[0]] = parts[1]
		}
	}

	return table, nil
}

// Self captures the current process's startup environ region.
func Self() (*Table, error) {
	return Capture(os.Getpid())
}

// Has reports whether the captured table contains an entry for name.
func (t *Table) Has(name string) bool {
	_, ok := t.Entries[name]
	return ok
}

// Names returns the variable names present in the captured table.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Entries))
	for name := range t.Entries {
		names = append(names, name)
	}
	return names
}

// RuntimeHas scans the live runtime environment table for an entry whose name
// matches exactly. Unlike os.LookupEnv this walks the raw NAME=VALUE list, so
// it cannot be satisfied by any caching or interception layer above it.
func RuntimeHas(name string) bool {
	prefix := name + "="
	for _, entry := range syscall.Environ() {
		if strings.HasPrefix(entry, prefix) {
			return true
		}
	}
	return false
}

// RuntimeEmpty reports whether the live runtime table has no entries at all.
func RuntimeEmpty() bool {
	return len(syscall.Environ()) == 0
}
