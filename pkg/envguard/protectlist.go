package envguard

import "strings"

// Configuration variables, always read through the unguarded lookup so
// initialization can never recurse back into the guarded path.
const (
	// EnvProtectList overrides the built-in protect-list with a
	// comma-separated list of variable names.
	EnvProtectList = "UNDERTOW_PROTECT_TOKENS"

	// EnvDebug enables diagnostic logging when set to "1" or "true"
	// (case-insensitive).
	EnvDebug = "UNDERTOW_DEBUG"
)

// maxProtected bounds the protect-list. Generous for any realistic
// deployment while keeping the membership scan and record map small.
const maxProtected = 100

// defaultProtected lists well-known secret variable names guarded when no
// operator override is configured.
var defaultProtected = []string{
	// GitHub tokens
	"COPILOT_GITHUB_TOKEN",
	"GITHUB_TOKEN",
	"GH_TOKEN",
	"GITHUB_API_TOKEN",
	"GITHUB_PAT",
	"GH_ACCESS_TOKEN",
	// OpenAI tokens
	"OPENAI_API_KEY",
	"OPENAI_KEY",
	// Anthropic/Claude tokens
	"ANTHROPIC_API_KEY",
	"CLAUDE_API_KEY",
	// Codex tokens
	"CODEX_API_KEY",
}

// ParseProtectList parses a comma-separated list of variable names: tokens
// are trimmed of surrounding whitespace, empty tokens dropped, duplicates
// ignored, and anything past the bound silently discarded. Returns nil when
// nothing usable remains.
func ParseProtectList(config string) []string {
	var names []string
	seen := make(map[string]struct{})

	for _, token := range strings.Split(config, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		if len(names) >= maxProtected {
			break
		}
		seen[token] = struct{}{}
		names = append(names, token)
	}

	return names
}

// DefaultProtectList returns a copy of the built-in protect-list.
func DefaultProtectList() []string {
	names := make([]string, len(defaultProtected))
	copy(names, defaultProtected)
	return names
}

// debugFlagEnabled interprets the debug flag value: "1" or "true"
// (case-insensitive) enables diagnostics, anything else disables them.
func debugFlagEnabled(value string, ok bool) bool {
	if !ok {
		return false
	}
	switch strings.ToLower(value) {
	case "1", "true":
		return true
	}
	return false
}
