package economy

import (
	"time"

	"github.com/fallingstars/starlight/internal/models"
)

// FragmentSpawnRate returns fragments per second: the base rate, raised by
// the fragment-rate defense and multiplied by every running spawn event
func FragmentSpawnRate(cat *models.Catalog, defense map[string]int, events []models.ActiveEvent, now time.Time) float64 {
	rate := cat.Tuning.FragmentRate
	if d, ok := cat.DefenseByEffect(models.EffectFragmentRate); ok {
		rate *= 1 + d.EffectAt(defense[d.Key])
	}
	for _, ev := range events {
		if ev.Effect == models.EventSpawnRate && ev.ActiveAt(now) {
			rate *= ev.Multiplier
		}
	}
	return rate
}

// ApplyEvents multiplies each resource of a production rate by the running
// resource events that target it
func ApplyEvents(production models.Resources, events []models.ActiveEvent, now time.Time) models.Resources {
	for _, ev := range events {
		if ev.Effect != models.EventResource || !ev.ActiveAt(now) {
			continue
		}
		production.Set(ev.Resource, production.Get(ev.Resource)*ev.Multiplier)
	}
	return production
}

// CompanionBonus is the active companion's production multiplier, 1 without one
func CompanionBonus(cat *models.Catalog, companions models.CompanionState) float64 {
	if companions.Active == "" {
		return 1
	}
	cp, ok := cat.Companion(companions.Active)
	if !ok || cp.BonusMultiplier <= 0 {
		return 1
	}
	return cp.BonusMultiplier
}
