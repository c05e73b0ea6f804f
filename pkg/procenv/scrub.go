package procenv

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ScrubEntry zeroes the NAME=VALUE bytes for a single variable in the
// process's startup environ memory region, so /proc/[pid]/environ no longer
// exposes it. Other entries are left intact.
//
// os.Unsetenv must be called separately — it clears the runtime table that
// getenv-style lookups consult; this function clears the kernel-visible
// memory that external dumps read.
func ScrubEntry(name string) error {
	if name == "" {
		return nil
	}

	start, end, err := environRange()
	if err != nil {
		return err
	}
	if end <= start {
		// Nothing to scrub (empty or already zeroed).
		return nil
	}

	size := int(end - start)

	mem, err := os.OpenFile("/proc/self/mem", os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("procenv: failed to open /proc/self/mem: %w", err)
	}
	defer mem.Close()

	region := make([]byte, size)
	if _, err := mem.ReadAt(region, int64(start)); err != nil {
		return fmt.Errorf("procenv: failed to read environ region: %w", err)
	}

	prefix := []byte(name + "=")

	// Walk NUL-separated entries, zeroing any whose name matches.
	off := 0
	for off < size {
		nul := bytes.IndexByte(region[off:], 0)
		entryLen := nul
		if nul < 0 {
			entryLen = size - off
		}
		if entryLen > 0 && bytes.HasPrefix(region[off:off+entryLen], prefix) {
			zeros := make([]byte, entryLen)
			if _, err := mem.WriteAt(zeros, int64(start)+int64(off)); err != nil {
				return fmt.Errorf("procenv: failed to zero environ entry: %w", err)
			}
		}
		if nul < 0 {
			break
		}
		off += entryLen + 1
	}

	return nil
}

// environRange locates the startup environ memory region from
// /proc/self/stat (kernel fields env_start and env_end).
func environRange() (uint64, uint64, error) {
	statBytes, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0, fmt.Errorf("procenv: failed to read /proc/self/stat: %w", err)
	}
	return parseStatEnvRange(string(statBytes))
}

// parseStatEnvRange extracts env_start and env_end from a /proc/[pid]/stat
// line. The comm field is wrapped in parentheses and may contain spaces or
// nested parens, so parsing skips past the last ')' before splitting fields.
func parseStatEnvRange(stat string) (uint64, uint64, error) {
	lastParen := strings.LastIndex(stat, ")")
	if lastParen < 0 {
		return 0, 0, fmt.Errorf("procenv: malformed stat line: no closing paren")
	}

	// Fields after "pid (comm) " — index 0 = state (kernel field 3).
	// env_start is kernel field 50, index 50-3 = 47.
	// env_end is kernel field 51, index 51-3 = 48.
	remaining := strings.TrimSpace(stat[lastParen+1:])
	fields := strings.Fields(remaining)

	const envStartIdx = 47
	const envEndIdx = 48

	if len(fields) <= envEndIdx {
		return 0, 0, fmt.Errorf("procenv: stat line has too few fields (%d)", len(fields))
	}

	envStart, err := strconv.ParseUint(fields[envStartIdx], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("procenv: failed to parse env_start: %w", err)
	}

	envEnd, err := strconv.ParseUint(fields[envEndIdx], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("procenv: failed to parse env_end: %w", err)
	}

	return envStart, envEnd, nil
}
