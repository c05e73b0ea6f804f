package envguard

import (
	"go.uber.org/zap"

	"github.com/Real-Fruit-Snacks/Undertow/pkg/procenv"
)

// verifyCleared re-scans the raw environment table for name after removal.
// Diagnostic only: the outcome is reported through the debug logger and
// never changes what the caller receives.
//
// Two surfaces are checked: the live runtime table, and the startup environ
// region backing /proc/[pid]/environ. The second read is best-effort: in
// constrained root filesystems procfs may be absent, and the runtime scan
// has already answered authoritatively for in-process lookups.
func (g *Guard) verifyCleared(name string) {
	if procenv.RuntimeEmpty() {
		g.log.Debug("environment table is empty", zap.String("name", name))
		return
	}

	if procenv.RuntimeHas(name) {
		g.log.Warn("name still exposed in runtime environment table",
			zap.String("name", name))
		return
	}

	table, err := procenv.Self()
	switch {
	case err != nil:
		g.log.Debug("startup environ region unavailable",
			zap.String("name", name), zap.Error(err))
	case table.Has(name):
		g.log.Warn("name still exposed in startup environ region",
			zap.String("name", name))
		return
	}

	g.log.Info("name cleared from process environment", zap.String("name", name))
}
