// Package economy holds the pure formulas of the idle economy: cost curves,
// affordability, production aggregation, click power and offline earnings.
// Nothing here mutates game state.
package economy

import (
	"math"

	"github.com/fallingstars/starlight/internal/models"
)

// GetCost returns the price of buying the next level of an entry currently
// at level. Each resource is floor(base × mult^level × (1 − discount)).
func GetCost(e *models.Entry, level int, discount float64) models.Resources {
	if discount < 0 {
		discount = 0
	}
	if discount > 1 {
		discount = 1
	}
	growth := math.Pow(e.CostMult, float64(level))
	return e.BaseCost.Scale(growth * (1 - discount)).Floor()
}

// CanAfford reports whether balance covers every resource in cost.
// Resources the cost does not mention are unconstrained; a negative
// component makes the cost unaffordable.
func CanAfford(cost, balance models.Resources) bool {
	if !cost.IsValidCost() {
		return false
	}
	ok := true
	cost.Each(func(rt models.ResourceType, v float64) {
		if v > 0 && balance.Get(rt) < v {
			ok = false
		}
	})
	return ok
}

// MeetsRequirement checks an optional prerequisite against technology levels
// and the building levels of the current planet
func MeetsRequirement(req *models.Requirement, techs, buildings map[string]int) bool {
	if req == nil {
		return true
	}
	if req.Tech != "" && techs[req.Tech] < req.MinLevel() {
		return false
	}
	if req.Building != "" && buildings[req.Building] < req.MinLevel() {
		return false
	}
	return true
}

// Discount returns the mastery cost reduction that applies to an entry kind
func Discount(cat *models.Catalog, kind models.EntryKind, masteries map[string]int) float64 {
	var key string
	switch kind {
	case models.KindBuilding:
		key = models.MasteryBuild
	case models.KindTechnology:
		key = models.MasteryTech
	default:
		return 0
	}
	m, ok := cat.Mastery(key)
	if !ok {
		return 0
	}
	return float64(masteries[key]) * m.EffectPerLevel
}

// LumenEquivalent collapses a resource amount to a single number for
// ranking. Energy and antimatter are scarcer, so they weigh more.
func LumenEquivalent(r models.Resources) float64 {
	return r.Lumen + r.Energy*EnergyWeight + r.Antimatter*AntimatterWeight
}

const (
	EnergyWeight     = 10
	AntimatterWeight = 100000
)
