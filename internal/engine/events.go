package engine

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/fallingstars/starlight/internal/models"
)

// ActivateEvent buys a timed event. Events of the same key stack.
func (e *Engine) ActivateEvent(key string) error {
	def, ok := e.cat.Event(key)
	if !ok {
		return fmt.Errorf("%w: event %q", ErrUnknownEntry, key)
	}
	if !e.state.Ledger.Debit(def.Cost) {
		e.signal(SignalError)
		return fmt.Errorf("%w: event %s", ErrInsufficientResources, key)
	}
	e.state.Events = append(e.state.Events, models.ActiveEvent{
		Key:        def.Key,
		Effect:     def.Effect,
		Resource:   def.Resource,
		Multiplier: def.Multiplier,
		ExpiresAt:  e.now().Add(def.Duration),
	})
	e.log.Debug("event activated", "key", key, "until", e.now().Add(def.Duration))
	e.signal(SignalSuccess)
	return nil
}

func (e *Engine) pruneEvents(now time.Time) {
	gs := e.state
	kept := gs.Events[:0]
	for _, ev := range gs.Events {
		if ev.ActiveAt(now) {
			kept = append(kept, ev)
		}
	}
	gs.Events = kept
}

// NewSpawnLimiter paces interactive captures at the current spawn rate
func (e *Engine) NewSpawnLimiter() *rate.Limiter {
	r := e.FragmentSpawnRate()
	if r <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(r), 1)
}

// DropReport is what happened to the fragments that fell during one step
type DropReport struct {
	Spawned   int
	Collected int
	Missed    int
	Lumen     float64
}

// DropFragments spawns the fragments due over dt at the current spawn rate.
// The active companion captures up to its collect amount once its interval
// has elapsed; every other fragment falls uncaught and counts as a miss.
// Fractional fragments carry over to the next call.
func (e *Engine) DropFragments(dt time.Duration) DropReport {
	var rep DropReport
	if dt <= 0 {
		return rep
	}
	e.spawnCarry += e.FragmentSpawnRate() * dt.Seconds()
	due := math.Floor(e.spawnCarry)
	e.spawnCarry -= due
	rep.Spawned = int(due)
	if rep.Spawned == 0 {
		return rep
	}

	collect := e.companionCollect()
	for range rep.Spawned {
		f := e.SpawnFragment()
		if rep.Collected < collect {
			rep.Lumen += e.CaptureFragment(f).Lumen
			rep.Collected++
			continue
		}
		e.ReportMiss()
		rep.Missed++
	}
	return rep
}
