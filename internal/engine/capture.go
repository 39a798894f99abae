package engine

import (
	"github.com/fallingstars/starlight/internal/economy"
	"github.com/fallingstars/starlight/internal/models"
)

// Fragment is a falling star the player can capture
type Fragment struct {
	Type  string
	Value float64
}

// CaptureResult is the outcome of one capture
type CaptureResult struct {
	Lumen      float64
	ClickPower float64
	Combo      int
	Multiplier float64
}

// CaptureFragment resolves a capture: yield is value × click power, where
// click power already carries the combo multiplier from before this capture
// (a timed-out streak counts as 1x). The combo is then advanced and the miss
// counter cleared.
func (e *Engine) CaptureFragment(f Fragment) CaptureResult {
	gs := e.state
	now := e.now()
	tuning := e.cat.Tuning

	if e.comboExpired() {
		gs.Combo.Count = 0
		gs.Combo.Multiplier = 1
	}
	power := economy.ClickPower(e.cat, gs, now)
	gained := f.Value * power

	if !gs.Combo.LastCapture.IsZero() && now.Sub(gs.Combo.LastCapture) < tuning.ComboTimeout {
		gs.Combo.Count++
		gs.Combo.Multiplier = economy.ComboMultiplier(gs.Combo.Count, tuning.ComboStep)
	} else {
		gs.Combo.Count = 1
		gs.Combo.Multiplier = 1
	}
	gs.Combo.LastCapture = now
	gs.Combo.Missed = 0

	e.credit(models.Resources{Lumen: gained})
	gs.Stats.TotalClicks++
	gs.Stats.FragmentsCaught++
	e.UpdateProgress(models.StatClicks, 1)
	e.UpdateProgress(models.StatFragmentsCaught, 1)
	e.UpdateProgress(models.StatLumenCollected, gained)
	e.signal(SignalCapture)

	return CaptureResult{
		Lumen:      gained,
		ClickPower: power,
		Combo:      gs.Combo.Count,
		Multiplier: gs.Combo.Multiplier,
	}
}

// ReportMiss records a fragment that fell uncaught. The combo resets once
// the miss limit is reached.
func (e *Engine) ReportMiss() {
	c := &e.state.Combo
	c.Missed++
	if c.Missed >= e.cat.Tuning.ComboMissLimit {
		c.Reset()
	}
}

// Combo returns the combo as seen at the current time. A streak whose last
// capture is older than the timeout reads as count 0, multiplier 1, even
// before the next tick has decayed it.
func (e *Engine) Combo() models.ComboState {
	c := e.state.Combo
	if e.comboExpired() {
		c.Count = 0
		c.Multiplier = 1
	}
	return c
}

func (e *Engine) comboExpired() bool {
	c := e.state.Combo
	if c.Count == 0 || c.LastCapture.IsZero() {
		return false
	}
	return e.now().Sub(c.LastCapture) > e.cat.Tuning.ComboTimeout
}

// SpawnFragment draws a fragment tier by weight and a value within the
// tier's range
func (e *Engine) SpawnFragment() Fragment {
	frags := e.cat.Fragments
	if len(frags) == 0 {
		return Fragment{Type: "normal", Value: 1}
	}
	total := 0.0
	for _, f := range frags {
		total += f.Weight
	}
	roll := e.rng.Float64() * total
	chosen := frags[len(frags)-1]
	for _, f := range frags {
		if roll < f.Weight {
			chosen = f
			break
		}
		roll -= f.Weight
	}
	span := chosen.ValueMax - chosen.ValueMin + 1
	return Fragment{
		Type:  chosen.Type,
		Value: float64(chosen.ValueMin + e.rng.IntN(span)),
	}
}
