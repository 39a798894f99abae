package economy

import (
	"time"

	"github.com/fallingstars/starlight/internal/models"
)

// ComputeProduction returns the per-second production rate of a planet.
//
// Order: additive building sum, automation re-adds, synergy, planet bonus,
// prestige, then active production boosts.
func ComputeProduction(
	cat *models.Catalog,
	planetDef *models.PlanetDef,
	planet *models.PlanetState,
	techs map[string]int,
	prestigeLevel int,
	boosts []models.Boost,
	now time.Time,
) models.Resources {
	var production models.Resources
	if planet == nil {
		return production
	}

	production = BaseProduction(cat, planet.Buildings)

	// Automation adds the automated building's lumen output a second time
	for _, t := range cat.TechnologiesByRole(models.RoleAutomation) {
		if techs[t.Key] <= 0 {
			continue
		}
		if b, ok := cat.Building(t.Automates); ok {
			production.Lumen += b.ProductionAt(planet.Buildings[b.Key]).Lumen
		}
	}

	production = production.Scale(SynergyMultiplier(cat, techs))

	if planetDef != nil {
		production = production.Mul(planetDef.Bonus)
	}

	production = production.Scale(PrestigeMultiplier(cat.Tuning.Prestige, prestigeLevel))

	return production.Scale(BoostMultiplier(boosts, models.BoostProduction, now))
}

// BaseProduction sums every building's output at its level, in catalog order
func BaseProduction(cat *models.Catalog, buildings map[string]int) models.Resources {
	var sum models.Resources
	for _, b := range cat.Buildings {
		sum = sum.Add(b.ProductionAt(buildings[b.Key]))
	}
	return sum
}

// SynergyMultiplier is 1 + Σ level × perLevel over synergy technologies
func SynergyMultiplier(cat *models.Catalog, techs map[string]int) float64 {
	m := 1.0
	for _, t := range cat.TechnologiesByRole(models.RoleSynergy) {
		m += float64(techs[t.Key]) * t.SynergyPerLevel
	}
	return m
}

// PrestigeMultiplier is 1 + level × bonusPerLevel / 100
func PrestigeMultiplier(cfg models.PrestigeConfig, level int) float64 {
	return 1 + float64(level)*cfg.BonusPerLevel/100
}

// BoostMultiplier multiplies together every boost of type t active at now
func BoostMultiplier(boosts []models.Boost, t models.BoostType, now time.Time) float64 {
	m := 1.0
	for _, b := range boosts {
		if b.Type == t && b.ActiveAt(now) {
			m *= b.Multiplier
		}
	}
	return m
}
