package models

import "math"

// ResourceType represents the different resource types in the game
type ResourceType string

const (
	Lumen      ResourceType = "lumen"
	Energy     ResourceType = "energy"
	Antimatter ResourceType = "antimatter"
)

// AllResourceTypes returns all resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Lumen, Energy, Antimatter}
}

// Resources is a per-resource amount (balances, costs, rates, rewards).
// A struct instead of a map keeps iteration deterministic.
type Resources struct {
	Lumen      float64 `json:"lumen" yaml:"lumen"`
	Energy     float64 `json:"energy" yaml:"energy"`
	Antimatter float64 `json:"antimatter" yaml:"antimatter"`
}

// Get returns the amount for a resource type
func (r Resources) Get(rt ResourceType) float64 {
	switch rt {
	case Lumen:
		return r.Lumen
	case Energy:
		return r.Energy
	case Antimatter:
		return r.Antimatter
	}
	return 0
}

// Set sets the amount for a resource type
func (r *Resources) Set(rt ResourceType, v float64) {
	switch rt {
	case Lumen:
		r.Lumen = v
	case Energy:
		r.Energy = v
	case Antimatter:
		r.Antimatter = v
	}
}

// Each iterates over all resources in deterministic order
func (r Resources) Each(fn func(ResourceType, float64)) {
	fn(Lumen, r.Lumen)
	fn(Energy, r.Energy)
	fn(Antimatter, r.Antimatter)
}

// Add returns the component-wise sum
func (r Resources) Add(o Resources) Resources {
	return Resources{
		Lumen:      r.Lumen + o.Lumen,
		Energy:     r.Energy + o.Energy,
		Antimatter: r.Antimatter + o.Antimatter,
	}
}

// Sub returns the component-wise difference
func (r Resources) Sub(o Resources) Resources {
	return Resources{
		Lumen:      r.Lumen - o.Lumen,
		Energy:     r.Energy - o.Energy,
		Antimatter: r.Antimatter - o.Antimatter,
	}
}

// Scale multiplies every component by f
func (r Resources) Scale(f float64) Resources {
	return Resources{
		Lumen:      r.Lumen * f,
		Energy:     r.Energy * f,
		Antimatter: r.Antimatter * f,
	}
}

// Mul multiplies component-wise
func (r Resources) Mul(o Resources) Resources {
	return Resources{
		Lumen:      r.Lumen * o.Lumen,
		Energy:     r.Energy * o.Energy,
		Antimatter: r.Antimatter * o.Antimatter,
	}
}

// Floor floors every component
func (r Resources) Floor() Resources {
	return Resources{
		Lumen:      math.Floor(r.Lumen),
		Energy:     math.Floor(r.Energy),
		Antimatter: math.Floor(r.Antimatter),
	}
}

// IsZero reports whether all components are zero
func (r Resources) IsZero() bool {
	return r.Lumen == 0 && r.Energy == 0 && r.Antimatter == 0
}

// Ledger tracks current balances and lifetime totals.
// Lifetime totals never decrease; balances are only reduced through Debit.
type Ledger struct {
	Balance  Resources `json:"balance"`
	Lifetime Resources `json:"lifetime"`
}

// Credit adds non-negative amounts to both balance and lifetime totals
func (l *Ledger) Credit(r Resources) {
	r.Each(func(rt ResourceType, v float64) {
		if v <= 0 || math.IsNaN(v) {
			return
		}
		l.Balance.Set(rt, l.Balance.Get(rt)+v)
		l.Lifetime.Set(rt, l.Lifetime.Get(rt)+v)
	})
}

// CanAfford reports whether every component of cost is covered by the
// balance. A negative or NaN component is never affordable.
func (l *Ledger) CanAfford(cost Resources) bool {
	ok := true
	cost.Each(func(rt ResourceType, v float64) {
		if v < 0 || math.IsNaN(v) || l.Balance.Get(rt) < v {
			ok = false
		}
	})
	return ok
}

// IsValidCost reports whether every component is a non-negative number
func (r Resources) IsValidCost() bool {
	ok := true
	r.Each(func(_ ResourceType, v float64) {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			ok = false
		}
	})
	return ok
}

// Debit subtracts cost from the balance if affordable. Returns false without
// touching the balance otherwise.
func (l *Ledger) Debit(cost Resources) bool {
	if !l.CanAfford(cost) {
		return false
	}
	l.Balance = l.Balance.Sub(cost)
	return true
}

// Zero clears the balance, keeping lifetime totals
func (l *Ledger) Zero() {
	l.Balance = Resources{}
}
