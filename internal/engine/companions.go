package engine

import (
	"fmt"

	"github.com/fallingstars/starlight/internal/models"
)

// UnlockCompanion buys a companion once the prestige level allows it. The
// first companion unlocked becomes active.
func (e *Engine) UnlockCompanion(key string) error {
	def, ok := e.cat.Companion(key)
	if !ok {
		return fmt.Errorf("%w: companion %q", ErrUnknownEntry, key)
	}
	gs := e.state
	if gs.Companions.Owns(key) {
		return fmt.Errorf("%w: %s", ErrCompanionOwned, key)
	}
	if gs.Prestige.Level < def.UnlockLevel {
		e.signal(SignalError)
		return fmt.Errorf("%w: companion %s needs prestige %d", ErrPrerequisiteNotMet, key, def.UnlockLevel)
	}
	if !gs.Ledger.Debit(def.Cost) {
		e.signal(SignalError)
		return fmt.Errorf("%w: companion %s", ErrInsufficientResources, key)
	}

	gs.Companions.Unlocked = append(gs.Companions.Unlocked, key)
	if gs.Companions.Active == "" {
		// cannot fail: just unlocked
		_ = e.ActivateCompanion(key)
	}
	e.log.Info("companion unlocked", "key", key)
	e.signal(SignalSuccess)
	return nil
}

// ActivateCompanion makes an owned companion the active one
func (e *Engine) ActivateCompanion(key string) error {
	gs := e.state
	if !gs.Companions.Owns(key) {
		return fmt.Errorf("%w: %s", ErrCompanionLocked, key)
	}
	gs.Companions.Active = key
	if _, ok := gs.Companions.LastCollect[key]; !ok {
		gs.Companions.LastCollect[key] = e.now()
	}
	return nil
}

// ActiveCompanion returns the active companion's definition, if any
func (e *Engine) ActiveCompanion() (*models.CompanionDef, bool) {
	key := e.state.Companions.Active
	if key == "" {
		return nil, false
	}
	return e.cat.Companion(key)
}

// companionCollect returns how many falling fragments the active companion
// takes now, and restarts its interval when that is more than zero
func (e *Engine) companionCollect() int {
	def, ok := e.ActiveCompanion()
	if !ok {
		return 0
	}
	now := e.now()
	last := e.state.Companions.LastCollect[def.Key]
	if now.Sub(last) < def.CollectInterval {
		return 0
	}
	e.state.Companions.LastCollect[def.Key] = now
	return def.CollectAmount
}
