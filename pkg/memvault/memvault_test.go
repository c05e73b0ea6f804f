package memvault

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

// allZero returns true if every byte in b is 0x00.
func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// NewBlob / Reveal
// --------------------------------------------------------------------------

func TestBlob(t *testing.T) {
	t.Run("empty input returns empty blob", func(t *testing.T) {
		blob, err := NewBlob(nil)
		require.NoError(t, err)
		assert.Nil(t, blob.Reveal())
		assert.Equal(t, 0, blob.Len())
	})

	t.Run("round-trip", func(t *testing.T) {
		original := []byte("ghp_abc123")
		buf := make([]byte, len(original))
		copy(buf, original)

		blob, err := NewBlob(buf)
		require.NoError(t, err)

		got := blob.Reveal()
		defer Shred(got)
		assert.Equal(t, original, got)
		assert.Equal(t, len(original), blob.Len())
	})

	t.Run("plaintext buffer is shredded after creation", func(t *testing.T) {
		buf := []byte("sensitive token material")
		_, err := NewBlob(buf)
		require.NoError(t, err)
		assert.True(t, allZero(buf), "plaintext buffer was not shredded")
	})

	t.Run("data at rest is not plaintext", func(t *testing.T) {
		original := []byte("cleartext-should-not-appear")
		buf := make([]byte, len(original))
		copy(buf, original)

		blob, err := NewBlob(buf)
		require.NoError(t, err)
		assert.NotEqual(t, original, blob.data, "stored data equals plaintext")
	})

	t.Run("binary data round-trip", func(t *testing.T) {
		original := make([]byte, 256)
		for i := range original {
			original[i] = byte(i)
		}
		buf := make([]byte, len(original))
		copy(buf, original)

		blob, err := NewBlob(buf)
		require.NoError(t, err)

		got := blob.Reveal()
		defer Shred(got)
		assert.Equal(t, original, got)
	})

	t.Run("each Reveal returns an independent copy", func(t *testing.T) {
		buf := []byte("copy semantics")
		blob, err := NewBlob(buf)
		require.NoError(t, err)

		first := blob.Reveal()
		Shred(first)

		second := blob.Reveal()
		defer Shred(second)
		assert.Equal(t, []byte("copy semantics"), second)
	})
}

// --------------------------------------------------------------------------
// Secret
// --------------------------------------------------------------------------

func TestSecret(t *testing.T) {
	t.Run("round-trip", func(t *testing.T) {
		s, err := NewSecret("secret-value-123")
		require.NoError(t, err)
		assert.Equal(t, "secret-value-123", s.Get())
	})

	t.Run("empty string", func(t *testing.T) {
		s, err := NewSecret("")
		require.NoError(t, err)
		assert.Equal(t, "", s.Get())
		assert.Equal(t, 0, s.Len())
	})

	t.Run("repeated Get is stable", func(t *testing.T) {
		s, err := NewSecret("ghp_stable")
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			assert.Equal(t, "ghp_stable", s.Get())
		}
	})

	t.Run("unicode round-trip", func(t *testing.T) {
		s, err := NewSecret("hello 世界 \U0001f512")
		require.NoError(t, err)
		assert.Equal(t, "hello 世界 \U0001f512", s.Get())
	})
}

// --------------------------------------------------------------------------
// Shred
// --------------------------------------------------------------------------

func TestShred(t *testing.T) {
	t.Run("zeroes the slice", func(t *testing.T) {
		b := []byte{1, 2, 3, 4, 5}
		Shred(b)
		assert.True(t, allZero(b))
	})

	t.Run("nil slice is safe", func(t *testing.T) {
		Shred(nil)
	})
}

// --------------------------------------------------------------------------
// concurrency
// --------------------------------------------------------------------------

func TestConcurrentReveal(t *testing.T) {
	buf := []byte("concurrent access test data")
	original := make([]byte, len(buf))
	copy(original, buf)

	blob, err := NewBlob(buf)
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)

	errs := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			got := blob.Reveal()
			defer Shred(got)
			if string(got) != string(original) {
				errs <- "reveal mismatch in concurrent goroutine"
			}
		}()
	}

	wg.Wait()
	close(errs)

	for e := range errs {
		t.Fatal(e)
	}
}
