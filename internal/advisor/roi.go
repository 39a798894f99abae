// Package advisor ranks purchases by return on investment and plans idle
// sessions with a greedy simulation.
package advisor

import (
	"fmt"
	"math"
	"sort"

	"github.com/fallingstars/starlight/internal/economy"
	"github.com/fallingstars/starlight/internal/engine"
	"github.com/fallingstars/starlight/internal/models"
)

// ROIMetric represents the components of an ROI calculation
type ROIMetric struct {
	GainPerSecond float64 // lumen-equivalent production gained
	TotalCost     float64 // lumen-equivalent price
}

// Calculate computes the final ROI value
func (m ROIMetric) Calculate() float64 {
	if m.TotalCost <= 0 {
		return m.GainPerSecond * 1000 // Very high ROI if free
	}
	return m.GainPerSecond / m.TotalCost
}

// Candidate is the next level of one building, technology or defense
type Candidate struct {
	Kind    models.EntryKind
	Key     string
	Name    string
	ToLevel int
	Cost    models.Resources
	Gain    models.Resources // production per second gained
	Metric  ROIMetric
	ROI     float64

	Affordable bool
	// WaitSeconds until affordable at current production, +Inf if a missing
	// resource is not produced at all
	WaitSeconds float64
}

// Description returns a short label for the purchase
func (c Candidate) Description() string {
	return fmt.Sprintf("%s %s → %d", c.Kind, c.Name, c.ToLevel)
}

// PaybackSeconds is how long the gain takes to repay the cost
func (c Candidate) PaybackSeconds() float64 {
	if c.Metric.GainPerSecond <= 0 {
		return math.Inf(1)
	}
	return c.Metric.TotalCost / c.Metric.GainPerSecond
}

// Rank lists every purchasable next level on the current planet. Entries
// that raise production come first, best ROI first; the rest follow,
// cheapest first.
func Rank(e *engine.Engine) []Candidate {
	cat := e.Catalog()
	gs := e.State()
	now := e.Now()
	planetDef, _ := cat.Planet(gs.CurrentPlanet)
	planet := gs.Planet()
	rates := e.Production()

	production := func(buildings, techs map[string]int) models.Resources {
		p := &models.PlanetState{Unlocked: true, Buildings: buildings}
		out := economy.ComputeProduction(cat, planetDef, p, techs, gs.Prestige.Level, gs.Boosts, now)
		return economy.ApplyEvents(out, gs.Events, now).Scale(economy.CompanionBonus(cat, gs.Companions))
	}

	var candidates []Candidate
	add := func(entry *models.Entry, level int, cost models.Resources, gain models.Resources) {
		if level >= entry.MaxLevel {
			return
		}
		if !economy.MeetsRequirement(entry.Requires, gs.Technologies, planet.Buildings) {
			return
		}
		metric := ROIMetric{
			GainPerSecond: math.Max(0, economy.LumenEquivalent(gain)),
			TotalCost:     economy.LumenEquivalent(cost),
		}
		candidates = append(candidates, Candidate{
			Kind:        entry.Kind,
			Key:         entry.Key,
			Name:        entry.Name,
			ToLevel:     level + 1,
			Cost:        cost,
			Gain:        gain,
			Metric:      metric,
			ROI:         metric.Calculate(),
			Affordable:  gs.Ledger.CanAfford(cost),
			WaitSeconds: waitSeconds(cost, gs.Ledger.Balance, rates),
		})
	}

	for _, b := range cat.Buildings {
		level := planet.Buildings[b.Key]
		next := withLevel(planet.Buildings, b.Key, level+1)
		cost, _ := e.BuildingCost(b.Key)
		add(&b.Entry, level, cost, production(next, gs.Technologies).Sub(rates))
	}
	for _, t := range cat.Technologies {
		level := gs.Technologies[t.Key]
		next := withLevel(gs.Technologies, t.Key, level+1)
		cost, _ := e.TechnologyCost(t.Key)
		add(&t.Entry, level, cost, production(planet.Buildings, next).Sub(rates))
	}
	for _, d := range cat.Defenses {
		level := gs.Defense[d.Key]
		cost, _ := e.DefenseCost(d.Key)
		var gain models.Resources
		if d.Effect == models.EffectAutoCapture {
			gain.Lumen = d.EffectPerLevel * e.ClickPower()
		}
		add(&d.Entry, level, cost, gain)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if (a.ROI > 0) != (b.ROI > 0) {
			return a.ROI > 0
		}
		if a.ROI > 0 && a.ROI != b.ROI {
			return a.ROI > b.ROI
		}
		if a.Metric.TotalCost != b.Metric.TotalCost {
			return a.Metric.TotalCost < b.Metric.TotalCost
		}
		return a.Key < b.Key
	})
	return candidates
}

// Productive returns the candidates with a positive ROI
func Productive(candidates []Candidate) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.ROI > 0 {
			out = append(out, c)
		}
	}
	return out
}

func withLevel(levels map[string]int, key string, level int) map[string]int {
	out := make(map[string]int, len(levels)+1)
	for k, v := range levels {
		out[k] = v
	}
	out[key] = level
	return out
}

// waitSeconds is the time until balance covers cost at the given rates
func waitSeconds(cost, balance, rates models.Resources) float64 {
	wait := 0.0
	cost.Each(func(rt models.ResourceType, need float64) {
		missing := need - balance.Get(rt)
		if missing <= 0 {
			return
		}
		rate := rates.Get(rt)
		if rate <= 0 {
			wait = math.Inf(1)
			return
		}
		wait = math.Max(wait, missing/rate)
	})
	return wait
}
