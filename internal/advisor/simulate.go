package advisor

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/fallingstars/starlight/internal/engine"
	"github.com/fallingstars/starlight/internal/models"
)

// maxBuysPerStep bounds purchases between two ticks
const maxBuysPerStep = 1000

// Step is one purchase in a simulated plan
type Step struct {
	At      time.Duration
	Kind    models.EntryKind
	Key     string
	Name    string
	ToLevel int
	Cost    models.Resources
}

// Plan is the outcome of a simulated idle session
type Plan struct {
	Steps      []Step
	Final      *models.GameState
	Elapsed    time.Duration
	Production models.Resources // per second at the end
	Earned     float64          // lifetime lumen gained during the run
}

// Simulate plays an idle session of the given duration on a copy of state,
// ticking every step. Between ticks it buys the highest-ROI purchase that
// can ever be afforded, waiting for it rather than settling for a worse one.
// The run is deterministic: the clock is virtual and the random source fixed.
func Simulate(cat *models.Catalog, state *models.GameState, duration, step time.Duration) Plan {
	gs := state.Clone()
	clock := state.LastTick
	if clock.IsZero() {
		clock = time.Unix(0, 0).UTC()
	}
	e := engine.New(cat, gs,
		engine.WithClock(func() time.Time { return clock }),
		engine.WithRand(rand.New(rand.NewPCG(1, 1))),
	)
	startEarned := gs.Prestige.TotalLumenEarned

	var plan Plan
	if step <= 0 {
		step = time.Second
	}
	for plan.Elapsed = 0; plan.Elapsed < duration; plan.Elapsed += step {
		for range maxBuysPerStep {
			c, ok := nextPurchase(Rank(e))
			if !ok || !c.Affordable {
				break
			}
			if err := buy(e, c); err != nil {
				break
			}
			plan.Steps = append(plan.Steps, Step{
				At:      plan.Elapsed,
				Kind:    c.Kind,
				Key:     c.Key,
				Name:    c.Name,
				ToLevel: c.ToLevel,
				Cost:    c.Cost,
			})
		}
		clock = clock.Add(step)
		e.Tick(step)
		e.CheckMasteries()
		e.CheckAchievements()
	}

	plan.Final = gs
	plan.Production = e.Production()
	plan.Earned = gs.Prestige.TotalLumenEarned - startEarned
	return plan
}

// nextPurchase picks the best productive candidate that is reachable at the
// current production
func nextPurchase(candidates []Candidate) (Candidate, bool) {
	for _, c := range Productive(candidates) {
		if !math.IsInf(c.WaitSeconds, 1) {
			return c, true
		}
	}
	return Candidate{}, false
}

func buy(e *engine.Engine, c Candidate) error {
	switch c.Kind {
	case models.KindBuilding:
		return e.BuyBuilding(c.Key)
	case models.KindTechnology:
		return e.BuyTechnology(c.Key)
	default:
		return e.BuyDefense(c.Key)
	}
}
