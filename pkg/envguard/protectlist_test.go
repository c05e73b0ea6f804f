package envguard

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// ParseProtectList
// --------------------------------------------------------------------------

func TestParseProtectList(t *testing.T) {
	t.Run("trims whitespace and drops empty tokens", func(t *testing.T) {
		got := ParseProtectList("FOO, BAR ,,BAZ")
		assert.Equal(t, []string{"FOO", "BAR", "BAZ"}, got)
	})

	t.Run("empty string yields nothing", func(t *testing.T) {
		assert.Nil(t, ParseProtectList(""))
	})

	t.Run("whitespace and commas only yields nothing", func(t *testing.T) {
		assert.Nil(t, ParseProtectList(" , , "))
	})

	t.Run("single name", func(t *testing.T) {
		assert.Equal(t, []string{"MY_TOKEN"}, ParseProtectList("MY_TOKEN"))
	})

	t.Run("duplicates are dropped", func(t *testing.T) {
		got := ParseProtectList("A,B,A, B ,C")
		assert.Equal(t, []string{"A", "B", "C"}, got)
	})

	t.Run("names are case-sensitive", func(t *testing.T) {
		got := ParseProtectList("token,TOKEN")
		assert.Equal(t, []string{"token", "TOKEN"}, got)
	})

	t.Run("bound of 100 names is enforced", func(t *testing.T) {
		names := make([]string, 150)
		for i := range names {
			names[i] = fmt.Sprintf("TOKEN_%03d", i)
		}
		got := ParseProtectList(strings.Join(names, ","))
		require.Len(t, got, 100)
		assert.Equal(t, "TOKEN_000", got[0])
		assert.Equal(t, "TOKEN_099", got[99])
		assert.NotContains(t, got, "TOKEN_100")
	})

	t.Run("exactly 100 names all accepted", func(t *testing.T) {
		names := make([]string, 100)
		for i := range names {
			names[i] = fmt.Sprintf("TOKEN_%03d", i)
		}
		got := ParseProtectList(strings.Join(names, ","))
		assert.Len(t, got, 100)
	})
}

// --------------------------------------------------------------------------
// DefaultProtectList
// --------------------------------------------------------------------------

func TestDefaultProtectList(t *testing.T) {
	t.Run("contains the well-known token names", func(t *testing.T) {
		got := DefaultProtectList()
		assert.Contains(t, got, "GITHUB_TOKEN")
		assert.Contains(t, got, "OPENAI_API_KEY")
		assert.Contains(t, got, "ANTHROPIC_API_KEY")
		assert.Contains(t, got, "COPILOT_GITHUB_TOKEN")
		assert.Len(t, got, 11)
	})

	t.Run("within the bound", func(t *testing.T) {
		assert.LessOrEqual(t, len(DefaultProtectList()), maxProtected)
	})

	t.Run("returns an independent copy", func(t *testing.T) {
		first := DefaultProtectList()
		first[0] = "CLOBBERED"
		assert.Equal(t, "COPILOT_GITHUB_TOKEN", DefaultProtectList()[0])
	})
}

// --------------------------------------------------------------------------
// debugFlagEnabled
// --------------------------------------------------------------------------

func TestDebugFlagEnabled(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
		want  bool
	}{
		{"1", true, true},
		{"true", true, true},
		{"TRUE", true, true},
		{"True", true, true},
		{"0", true, false},
		{"false", true, false},
		{"yes", true, false},
		{"", true, false},
		{"", false, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("value=%q ok=%v", tc.value, tc.ok), func(t *testing.T) {
			assert.Equal(t, tc.want, debugFlagEnabled(tc.value, tc.ok))
		})
	}
}
