package economy

import (
	"time"

	"github.com/fallingstars/starlight/internal/models"
)

// OfflineEarnings is the catch-up grant for time spent away
type OfflineEarnings struct {
	Elapsed  time.Duration
	Credited time.Duration // Elapsed clamped to the offline window
	Granted  models.Resources
	Notify   bool
}

// ComputeOfflineEarnings grants rates × min(elapsed, window) × multiplier,
// floored per resource. Notify is set only past the notification threshold;
// shorter absences are still paid.
func ComputeOfflineEarnings(elapsed time.Duration, rates models.Resources, multiplier float64, cfg models.OfflineConfig) OfflineEarnings {
	out := OfflineEarnings{Elapsed: elapsed}
	if elapsed <= 0 {
		return out
	}

	credited := elapsed
	if cfg.MaxWindow > 0 && credited > cfg.MaxWindow {
		credited = cfg.MaxWindow
	}
	out.Credited = credited
	out.Granted = rates.Scale(credited.Seconds() * multiplier).Floor()
	out.Notify = elapsed > cfg.NotifyAfter
	return out
}
