package envguard

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Real-Fruit-Snacks/Undertow/pkg/memvault"
	"github.com/Real-Fruit-Snacks/Undertow/pkg/procenv"
)

// accessRecord is the immutable per-name outcome of a protected name's first
// interception. Exactly one record is created per name for the process
// lifetime; a nil secret marks a name that was never set.
type accessRecord struct {
	secret *memvault.Secret
}

// Guard is the interception state for one process: the protect-list, the
// per-name access records, and the resolved underlying lookup routines. The
// zero Option set binds the platform lookup; tests inject fakes.
//
// Retained secrets are owned by the Guard and never released: callers may
// hold returned values indefinitely, so the backing storage must stay valid
// until process exit.
type Guard struct {
	mu          sync.Mutex
	initialized bool
	debug       bool
	protect     []string
	records     map[string]*accessRecord
	log         *zap.Logger

	resolveOnce sync.Once
	lookup      LookupFunc           // mandatory underlying routine
	secure      LookupFunc           // privileged-context variant
	unset       func(string) error   // runtime-table removal
	scrub       func(string) error   // startup environ region scrub
}

// Option configures a Guard at construction time.
type Option func(*Guard)

// WithLookup binds the mandatory underlying retrieval routine. The same
// routine serves the unguarded configuration reads during initialization.
func WithLookup(fn LookupFunc) Option {
	return func(g *Guard) { g.lookup = fn }
}

// WithSecureLookup binds the privileged-context retrieval variant. When
// unset, a wrapper around the mandatory routine provides the semantics.
func WithSecureLookup(fn LookupFunc) Option {
	return func(g *Guard) { g.secure = fn }
}

// WithRemover binds the environment-table removal routines: unset clears the
// runtime table, scrub clears the kernel-visible startup region. Tests bind
// fakes so capturing a name never mutates the real process environment.
func WithRemover(unset, scrub func(string) error) Option {
	return func(g *Guard) {
		g.unset = unset
		g.scrub = scrub
	}
}

// WithLogger binds a diagnostic logger, overriding the UNDERTOW_DEBUG
// construction. Tests bind an observed logger to assert on emitted
// diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(g *Guard) { g.log = log }
}

// New constructs a Guard. Without options it guards the real process
// environment.
func New(opts ...Option) *Guard {
	g := &Guard{records: make(map[string]*accessRecord)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// resolve binds the underlying routines exactly once, lazily, on first use.
// A guard with no way to reach the genuine lookup aborts the process.
func (g *Guard) resolve() {
	g.resolveOnce.Do(func() {
		if g.lookup == nil {
			g.lookup = platformLookup
		}
		if g.lookup == nil {
			fmt.Fprintln(os.Stderr, "undertow: FATAL: no underlying environment lookup available")
			os.Exit(1)
		}
		if g.secure == nil {
			g.secure = newSecureLookup(g.lookup)
		}
		if g.unset == nil {
			g.unset = os.Unsetenv
		}
		if g.scrub == nil {
			g.scrub = procenv.ScrubEntry
		}
	})
}

// Getenv is the guarded replacement for a single-name environment lookup.
//
// For protected names the first call retains the value, removes the entry
// from the environment table, and returns the retained copy; every later
// call replays the same copy. Unprotected names pass through untouched.
func (g *Guard) Getenv(name string) (string, bool) {
	return g.handle(name, false)
}

// SecureGetenv applies the same protection with privileged-context
// semantics: in secure-execution state every lookup reports absence.
func (g *Guard) SecureGetenv(name string) (string, bool) {
	return g.handle(name, true)
}

func (g *Guard) handle(name string, viaSecure bool) (string, bool) {
	g.resolve()

	underlying := g.lookup
	if viaSecure {
		underlying = g.secure
	}

	// An empty name cannot be a protected variable — delegate unmodified.
	if name == "" {
		return underlying(name)
	}

	g.mu.Lock()
	if !g.initialized {
		g.initLocked()
	}

	if !g.isProtectedLocked(name) {
		// Release the lock before delegating so unrelated high-frequency
		// lookups are not serialized through the guard.
		g.mu.Unlock()
		return underlying(name)
	}
	defer g.mu.Unlock()

	if rec, ok := g.records[name]; ok {
		// Replay policy: every read after the first returns the retained
		// copy without touching the underlying routine or the table again.
		if rec.secret == nil {
			return "", false
		}
		return rec.secret.Get(), true
	}

	// First access: exactly one underlying retrieval.
	value, ok := underlying(name)
	if !ok {
		// Record the absence so later calls skip the underlying routine
		// and diagnostics fire only once per name.
		g.records[name] = &accessRecord{}
		g.log.Debug("protected name not set", zap.String("name", name))
		return "", false
	}

	secret, err := memvault.NewSecret(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "undertow: FATAL: failed to retain value for %s: %v\n", name, err)
		os.Exit(1)
	}

	// Remove the entry before this call returns: runtime table first, then
	// the kernel-visible startup region backing /proc/[pid]/environ.
	_ = g.unset(name)
	_ = g.scrub(name)

	g.verifyCleared(name)

	fields := []zap.Field{
		zap.String("name", name),
		zap.String("value", maskValue(value)),
	}
	if viaSecure {
		fields = append(fields, zap.Bool("secure", true))
	}
	g.log.Info("token captured and cleared", fields...)

	g.records[name] = &accessRecord{secret: secret}
	return secret.Get(), true
}

// initLocked builds the protect-list and debug state exactly once per
// process. Caller holds g.mu. Configuration is read through the unguarded
// lookup so initialization can never recurse into the guarded path.
func (g *Guard) initLocked() {
	if g.initialized {
		return
	}

	g.debug = debugFlagEnabled(g.lookup(EnvDebug))
	if g.log == nil {
		g.log = newDebugLogger(g.debug)
	}

	if config, ok := g.lookup(EnvProtectList); ok && config != "" {
		if names := ParseProtectList(config); len(names) > 0 {
			g.protect = names
			g.initialized = true
			g.log.Info("protect-list initialized",
				zap.String("source", "custom"),
				zap.Int("count", len(names)))
			return
		}
		// Set but parsed to zero names: fall back rather than silently
		// disabling all protection.
		g.log.Warn("protect-list configuration parsed to zero names, falling back to built-in defaults",
			zap.String("variable", EnvProtectList))
	}

	g.protect = DefaultProtectList()
	g.initialized = true
	g.log.Info("protect-list initialized",
		zap.String("source", "default"),
		zap.Int("count", len(g.protect)))
}

// isProtectedLocked reports protect-list membership. Caller holds g.mu.
func (g *Guard) isProtectedLocked(name string) bool {
	for _, p := range g.protect {
		if p == name {
			return true
		}
	}
	return false
}

// ProtectedNames returns a copy of the effective protect-list, initializing
// the guard if no guarded call has run yet.
func (g *Guard) ProtectedNames() []string {
	g.resolve()

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.initialized {
		g.initLocked()
	}

	names := make([]string, len(g.protect))
	copy(names, g.protect)
	return names
}

// ---------------------------------------------------------------------------
// package-level default guard
// ---------------------------------------------------------------------------

var defaultGuard = New()

// Default returns the process-wide guard bound to the real environment.
func Default() *Guard { return defaultGuard }

// Getenv routes a lookup through the process-wide guard.
func Getenv(name string) (string, bool) { return defaultGuard.Getenv(name) }

// SecureGetenv routes a privileged-context lookup through the process-wide
// guard.
func SecureGetenv(name string) (string, bool) { return defaultGuard.SecureGetenv(name) }
