package engine

import (
	"time"

	"github.com/fallingstars/starlight/internal/economy"
	"github.com/fallingstars/starlight/internal/models"
)

// TickReport is what one production step credited
type TickReport struct {
	Produced   models.Resources
	AutoLumen  float64
	ComboReset bool
}

// Tick advances the session by dt: credits production and auto-capture,
// accumulates time played, decays a timed-out combo and prunes expired
// boosts and events
func (e *Engine) Tick(dt time.Duration) TickReport {
	gs := e.state
	now := e.now()
	var rep TickReport
	if dt <= 0 {
		return rep
	}
	secs := dt.Seconds()

	rep.Produced = e.Production().Scale(secs)
	e.credit(rep.Produced)

	if clicks := e.autoClicksPerSecond(now); clicks > 0 {
		rep.AutoLumen = clicks * economy.ClickPower(e.cat, gs, now) * secs
		e.credit(models.Resources{Lumen: rep.AutoLumen})
	}

	gs.Stats.TimePlayed += dt

	if e.comboExpired() {
		gs.Combo.Count = 0
		gs.Combo.Multiplier = 1
		rep.ComboReset = true
	}

	e.pruneBoosts(now)
	e.pruneEvents(now)
	gs.LastTick = now
	return rep
}

// autoClicksPerSecond sums the auto-capture defense and any auto-click boosts
func (e *Engine) autoClicksPerSecond(now time.Time) float64 {
	gs := e.state
	clicks := 0.0
	if d, ok := e.cat.DefenseByEffect(models.EffectAutoCapture); ok {
		clicks += d.EffectAt(gs.Defense[d.Key])
	}
	for _, b := range gs.Boosts {
		if b.Type == models.BoostAutoClick && b.ActiveAt(now) {
			clicks += b.Multiplier
		}
	}
	return clicks
}

func (e *Engine) pruneBoosts(now time.Time) {
	gs := e.state
	kept := gs.Boosts[:0]
	for _, b := range gs.Boosts {
		if b.ActiveAt(now) {
			kept = append(kept, b)
		}
	}
	gs.Boosts = kept
}

// ApplyOfflineEarnings credits production for the time since lastSeen,
// clamped to the offline window and scaled by the offline multiplier
func (e *Engine) ApplyOfflineEarnings(lastSeen time.Time) economy.OfflineEarnings {
	gs := e.state
	now := e.now()
	if lastSeen.IsZero() {
		gs.LastTick = now
		return economy.OfflineEarnings{}
	}
	cfg := e.cat.Tuning.Offline
	earned := economy.ComputeOfflineEarnings(now.Sub(lastSeen), e.Production(), cfg.BaseMultiplier*gs.OfflineMultiplier, cfg)
	e.credit(earned.Granted)
	gs.LastTick = now
	if earned.Notify {
		e.log.Info("offline earnings credited", "elapsed", earned.Elapsed, "lumen", earned.Granted.Lumen, "energy", earned.Granted.Energy)
	}
	return earned
}
