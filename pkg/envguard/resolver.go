package envguard

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// LookupFunc is the capability the guard delegates to for genuine environment
// retrieval. Production guards bind it to the platform lookup; tests bind
// fakes so unit tests never mutate the real process environment.
type LookupFunc func(name string) (string, bool)

// platformLookup is the genuine retrieval routine: the raw runtime table
// consulted by the Go runtime, untouched by any guard.
func platformLookup(name string) (string, bool) {
	return syscall.Getenv(name)
}

// AT_SECURE tag in /proc/self/auxv. Set by the kernel when the binary runs
// setuid/setgid or gained capabilities at exec.
const auxvSecureTag = 23

var secureFallbackOnce sync.Once

// newSecureLookup wraps base with privileged-context semantics: retrieval
// reports absence whenever the process runs in secure-execution state, so a
// privileged process never trusts attacker-controllable variables. If the
// privilege state cannot be determined the wrapper degrades to the base
// lookup with a one-time warning.
func newSecureLookup(base LookupFunc) LookupFunc {
	return secureLookupWith(base, privilegedContext)
}

// secureLookupWith is the injectable core of newSecureLookup; tests bind a
// fake privilege probe.
func secureLookupWith(base LookupFunc, probe func() (bool, error)) LookupFunc {
	return func(name string) (string, bool) {
		secure, err := probe()
		if err != nil {
			// Cannot run logging through the guard here: the secure lookup
			// may be exercised before initialization completes.
			secureFallbackOnce.Do(func() {
				fmt.Fprintln(os.Stderr, "undertow: WARNING: cannot determine secure-execution state, falling back to plain lookup")
			})
			return base(name)
		}
		if secure {
			return "", false
		}
		return base(name)
	}
}

// privilegedContext reports whether the process is in secure-execution
// state: effective IDs differing from real IDs, or AT_SECURE set in the
// auxiliary vector.
func privilegedContext() (bool, error) {
	if unix.Geteuid() != unix.Getuid() || unix.Getegid() != unix.Getgid() {
		return true, nil
	}
	return auxvSecure()
}

// auxvSecure reads AT_SECURE from /proc/self/auxv. Entries are
// native-endian (tag, value) word pairs; 64-bit words, matching the
// platforms this library targets.
func auxvSecure() (bool, error) {
	data, err := os.ReadFile("/proc/self/auxv")
	if err != nil {
		return false, fmt.Errorf("envguard: failed to read /proc/self/auxv: %w", err)
	}

	for i := 0; i+16 <= len(data); i += 16 {
		tag := binary.NativeEndian.Uint64(data[i:])
		val := binary.NativeEndian.Uint64(data[i+8:])
		if tag == auxvSecureTag {
			return val != 0, nil
		}
	}

	// No AT_SECURE entry: treat as not secure.
	return false, nil
}
