// Package engine runs a Falling Stars session: purchases, fragment captures,
// combo, prestige, quests, achievements and the production tick.
//
// The engine is single-threaded by contract. Every method runs to completion
// against the injected GameState; callers serialize access (the CLI drives it
// from one goroutine).
package engine

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/fallingstars/starlight/internal/economy"
	"github.com/fallingstars/starlight/internal/models"
)

// Engine is a game session bound to one GameState
type Engine struct {
	cat     *models.Catalog
	state   *models.GameState
	now     func() time.Time
	signals Signaler
	log     *slog.Logger
	rng     *rand.Rand

	resetting  bool
	spawnCarry float64
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSignals routes feedback events to s
func WithSignals(s Signaler) Option {
	return func(e *Engine) { e.signals = s }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRand sets the random source used for quests, fragments and lootboxes
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// New creates an engine over state. The state is normalized against the
// catalog first so partial states are safe to use.
func New(cat *models.Catalog, state *models.GameState, opts ...Option) *Engine {
	e := &Engine{
		cat:     cat,
		state:   state,
		now:     time.Now,
		signals: nopSignaler{},
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(e.now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	state.Normalize(cat)
	return e
}

// State returns the underlying game state
func (e *Engine) State() *models.GameState { return e.state }

// Catalog returns the content tables
func (e *Engine) Catalog() *models.Catalog { return e.cat }

// Now returns the engine clock's current time
func (e *Engine) Now() time.Time { return e.now() }

// Production returns the current planet's per-second production, including
// running resource events and the active companion's bonus
func (e *Engine) Production() models.Resources {
	gs := e.state
	now := e.now()
	def, _ := e.cat.Planet(gs.CurrentPlanet)
	p := economy.ComputeProduction(e.cat, def, gs.Planet(), gs.Technologies, gs.Prestige.Level, gs.Boosts, now)
	p = economy.ApplyEvents(p, gs.Events, now)
	return p.Scale(economy.CompanionBonus(e.cat, gs.Companions))
}

// FragmentSpawnRate returns the current fragments per second
func (e *Engine) FragmentSpawnRate() float64 {
	gs := e.state
	return economy.FragmentSpawnRate(e.cat, gs.Defense, gs.Events, e.now())
}

// ClickPower returns the current effective click power
func (e *Engine) ClickPower() float64 {
	return economy.ClickPower(e.cat, e.state, e.now())
}

// credit adds resources to the ledger and the prestige counter
func (e *Engine) credit(r models.Resources) {
	e.state.Ledger.Credit(r)
	if r.Lumen > 0 {
		e.state.Prestige.TotalLumenEarned += r.Lumen
	}
}

func (e *Engine) signal(s Signal) {
	e.signals.Signal(s)
}
