package economy

import (
	"math"
	"time"

	"github.com/fallingstars/starlight/internal/models"
)

// ClickPower returns the lumen multiplier applied to a captured fragment.
// The combo multiplier is applied here and nowhere else.
func ClickPower(cat *models.Catalog, gs *models.GameState, now time.Time) float64 {
	power := gs.ClickPower

	if d, ok := cat.DefenseByEffect(models.EffectClickPower); ok {
		power += d.EffectAt(gs.Defense[d.Key])
	}

	for _, t := range cat.TechnologiesByRole(models.RoleClickDoubling) {
		if lvl := gs.Technologies[t.Key]; lvl > 0 {
			power *= math.Pow(2, float64(lvl))
		}
	}

	for _, t := range cat.TechnologiesByRole(models.RoleLucky) {
		if gs.Technologies[t.Key] > 0 {
			power *= cat.Tuning.LuckyMultiplier
		}
	}

	if m, ok := cat.Mastery(models.MasteryClick); ok {
		if lvl := gs.Masteries[m.Key]; lvl > 0 {
			power *= 1 + float64(lvl)*m.EffectPerLevel
		}
	}

	power *= gs.Combo.Multiplier
	power *= BoostMultiplier(gs.Boosts, models.BoostClickPower, now)

	return math.Floor(power)
}

// ComboMultiplier is 1 + count × step
func ComboMultiplier(count int, step float64) float64 {
	return 1 + float64(count)*step
}
