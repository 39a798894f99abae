package engine

import (
	"fmt"

	"github.com/fallingstars/starlight/internal/economy"
	"github.com/fallingstars/starlight/internal/models"
)

// BuildingCost returns the price of the next level of a building on the
// current planet
func (e *Engine) BuildingCost(key string) (models.Resources, error) {
	def, ok := e.cat.Building(key)
	if !ok {
		return models.Resources{}, fmt.Errorf("%w: building %q", ErrUnknownEntry, key)
	}
	return e.cost(&def.Entry, e.state.Planet().Buildings[key]), nil
}

// TechnologyCost returns the price of the next level of a technology
func (e *Engine) TechnologyCost(key string) (models.Resources, error) {
	def, ok := e.cat.Technology(key)
	if !ok {
		return models.Resources{}, fmt.Errorf("%w: technology %q", ErrUnknownEntry, key)
	}
	return e.cost(&def.Entry, e.state.Technologies[key]), nil
}

// DefenseCost returns the price of the next level of a defense upgrade
func (e *Engine) DefenseCost(key string) (models.Resources, error) {
	def, ok := e.cat.Defense(key)
	if !ok {
		return models.Resources{}, fmt.Errorf("%w: defense %q", ErrUnknownEntry, key)
	}
	return e.cost(&def.Entry, e.state.Defense[key]), nil
}

func (e *Engine) cost(entry *models.Entry, level int) models.Resources {
	return economy.GetCost(entry, level, economy.Discount(e.cat, entry.Kind, e.state.Masteries))
}

// checkAndDebit runs the cap, prerequisite and affordability checks in that
// order and debits the cost when all pass
func (e *Engine) checkAndDebit(entry *models.Entry, level int) (models.Resources, error) {
	gs := e.state
	if level >= entry.MaxLevel {
		return models.Resources{}, fmt.Errorf("%w: %s %s at %d/%d", ErrLevelCapReached, entry.Kind, entry.Key, level, entry.MaxLevel)
	}
	if !economy.MeetsRequirement(entry.Requires, gs.Technologies, gs.Planet().Buildings) {
		return models.Resources{}, fmt.Errorf("%w: %s %s", ErrPrerequisiteNotMet, entry.Kind, entry.Key)
	}
	cost := e.cost(entry, level)
	if !gs.Ledger.Debit(cost) {
		return cost, fmt.Errorf("%w: %s %s", ErrInsufficientResources, entry.Kind, entry.Key)
	}
	return cost, nil
}

// BuyBuilding buys one level of a building on the current planet
func (e *Engine) BuyBuilding(key string) error {
	def, ok := e.cat.Building(key)
	if !ok {
		e.signal(SignalError)
		return fmt.Errorf("%w: building %q", ErrUnknownEntry, key)
	}
	planet := e.state.Planet()
	level := planet.Buildings[key]
	cost, err := e.checkAndDebit(&def.Entry, level)
	if err != nil {
		e.signal(SignalError)
		return err
	}

	planet.Buildings[key] = level + 1
	e.state.Stats.BuildingsBuilt++
	e.UpdateProgress(models.StatBuilds, 1)
	e.log.Debug("building purchased", "planet", e.state.CurrentPlanet, "key", key, "level", level+1, "lumen", cost.Lumen)
	e.signal(SignalBuild)
	return nil
}

// BuyTechnology researches one level of a technology
func (e *Engine) BuyTechnology(key string) error {
	def, ok := e.cat.Technology(key)
	if !ok {
		e.signal(SignalError)
		return fmt.Errorf("%w: technology %q", ErrUnknownEntry, key)
	}
	level := e.state.Technologies[key]
	cost, err := e.checkAndDebit(&def.Entry, level)
	if err != nil {
		e.signal(SignalError)
		return err
	}

	e.state.Technologies[key] = level + 1
	e.state.Stats.TechsUnlocked++
	e.log.Debug("technology researched", "key", key, "level", level+1, "lumen", cost.Lumen)
	e.signal(SignalSuccess)
	return nil
}

// BuyDefense buys one level of a click upgrade
func (e *Engine) BuyDefense(key string) error {
	def, ok := e.cat.Defense(key)
	if !ok {
		e.signal(SignalError)
		return fmt.Errorf("%w: defense %q", ErrUnknownEntry, key)
	}
	level := e.state.Defense[key]
	cost, err := e.checkAndDebit(&def.Entry, level)
	if err != nil {
		e.signal(SignalError)
		return err
	}

	e.state.Defense[key] = level + 1
	e.state.Stats.BuildingsBuilt++
	e.UpdateProgress(models.StatBuilds, 1)
	e.log.Debug("defense purchased", "key", key, "level", level+1, "lumen", cost.Lumen)
	e.signal(SignalBuild)
	return nil
}

// UnlockPlanet spends the planet's unlock cost. Unlocking is irreversible.
func (e *Engine) UnlockPlanet(key string) error {
	def, ok := e.cat.Planet(key)
	if !ok {
		return fmt.Errorf("%w: planet %q", ErrUnknownEntry, key)
	}
	ps := e.state.Planets[key]
	if ps.Unlocked {
		return fmt.Errorf("%w: %s", ErrPlanetUnlocked, key)
	}
	if !e.state.Ledger.Debit(def.UnlockCost) {
		e.signal(SignalError)
		return fmt.Errorf("%w: planet %s", ErrInsufficientResources, key)
	}
	ps.Unlocked = true
	e.log.Debug("planet unlocked", "key", key)
	e.signal(SignalSuccess)
	return nil
}

// SwitchPlanet makes an unlocked planet current
func (e *Engine) SwitchPlanet(key string) error {
	ps, ok := e.state.Planets[key]
	if !ok {
		return fmt.Errorf("%w: planet %q", ErrUnknownEntry, key)
	}
	if !ps.Unlocked {
		return fmt.Errorf("%w: %s", ErrPlanetLocked, key)
	}
	e.state.CurrentPlanet = key
	return nil
}

// ActivateBoost buys a boost. Permanent offline boosts fold into the
// state's offline multiplier; everything else expires after its duration.
func (e *Engine) ActivateBoost(key string) error {
	def, ok := e.cat.Boost(key)
	if !ok {
		return fmt.Errorf("%w: boost %q", ErrUnknownEntry, key)
	}
	if !e.state.Ledger.Debit(def.Cost) {
		e.signal(SignalError)
		return fmt.Errorf("%w: boost %s", ErrInsufficientResources, key)
	}

	if def.Permanent || def.Type == models.BoostOfflineBonus {
		e.state.OfflineMultiplier *= def.Multiplier
	} else {
		e.state.Boosts = append(e.state.Boosts, models.Boost{
			Key:        def.Key,
			Type:       def.Type,
			Multiplier: def.Multiplier,
			ExpiresAt:  e.now().Add(def.Duration),
		})
	}
	e.log.Debug("boost activated", "key", key)
	e.signal(SignalSuccess)
	return nil
}
