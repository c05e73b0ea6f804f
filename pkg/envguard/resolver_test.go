package envguard

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformLookup(t *testing.T) {
	t.Run("finds a set variable", func(t *testing.T) {
		t.Setenv("ENVGUARD_PLATFORM_TEST", "value")
		v, ok := platformLookup("ENVGUARD_PLATFORM_TEST")
		require.True(t, ok)
		assert.Equal(t, "value", v)
	})

	t.Run("reports absence", func(t *testing.T) {
		_, ok := platformLookup("ENVGUARD_DEFINITELY_NOT_SET")
		assert.False(t, ok)
	})
}

func TestSecureLookup(t *testing.T) {
	t.Run("delegates in unprivileged context", func(t *testing.T) {
		priv, err := privilegedContext()
		if err != nil {
			t.Skipf("cannot determine secure-execution state: %v", err)
		}
		if priv {
			t.Skip("test process unexpectedly privileged")
		}

		t.Setenv("ENVGUARD_SECURE_TEST", "visible")
		fn := newSecureLookup(platformLookup)
		v, ok := fn("ENVGUARD_SECURE_TEST")
		require.True(t, ok)
		assert.Equal(t, "visible", v)
	})

	t.Run("privileged context suppresses results", func(t *testing.T) {
		calls := 0
		base := func(string) (string, bool) {
			calls++
			return "leaked", true
		}
		fn := secureLookupWith(base, func() (bool, error) { return true, nil })
		_, ok := fn("ANY")
		assert.False(t, ok)
		assert.Equal(t, 0, calls, "secure lookup must not consult the base in privileged context")
	})

	t.Run("undetermined privilege state falls back to base", func(t *testing.T) {
		base := func(string) (string, bool) { return "fallback", true }
		fn := secureLookupWith(base, func() (bool, error) { return false, os.ErrPermission })
		v, ok := fn("ANY")
		require.True(t, ok)
		assert.Equal(t, "fallback", v)
	})
}

func TestAuxvSecure(t *testing.T) {
	if _, err := os.Stat("/proc/self/auxv"); err != nil {
		t.Skip("procfs not available")
	}

	secure, err := auxvSecure()
	require.NoError(t, err)
	// Test binaries are never setuid/setgid.
	assert.False(t, secure)
}
