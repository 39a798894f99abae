package engine

import (
	"fmt"
	"math"

	"github.com/fallingstars/starlight/internal/models"
)

// PrestigePhase is where the session sits in the prestige cycle
type PrestigePhase int

const (
	Accumulating PrestigePhase = iota
	Eligible
	// Resetting only lasts for the duration of PerformPrestige. Signalers
	// notified from inside the reset read it through PrestigeInfo.
	Resetting
)

func (p PrestigePhase) String() string {
	switch p {
	case Accumulating:
		return "accumulating"
	case Eligible:
		return "eligible"
	case Resetting:
		return "resetting"
	}
	return fmt.Sprintf("PrestigePhase(%d)", int(p))
}

// PrestigeInfo summarizes progress toward the next prestige
type PrestigeInfo struct {
	Level            int
	NextLevel        int
	Requirement      float64
	Earned           float64
	Progress         float64 // 0..1
	Phase            PrestigePhase
	BonusPercent     float64
	NextBonusPercent float64
	MaxLevel         int
}

// CanPrestige reports whether a reset is currently allowed
func (p PrestigeInfo) CanPrestige() bool {
	return p.Phase == Eligible
}

// PrestigeResult is returned by a successful reset
type PrestigeResult struct {
	NewLevel     int
	BonusPercent float64
}

// PrestigeRequirement returns lifetime lumen needed to leave level
func PrestigeRequirement(cfg models.PrestigeConfig, level int) float64 {
	return cfg.BaseRequirement * math.Pow(10, float64(level))
}

// PrestigeInfo reports the current prestige phase and requirement
func (e *Engine) PrestigeInfo() PrestigeInfo {
	cfg := e.cat.Tuning.Prestige
	p := e.state.Prestige
	req := PrestigeRequirement(cfg, p.Level)

	info := PrestigeInfo{
		Level:            p.Level,
		NextLevel:        p.Level + 1,
		Requirement:      req,
		Earned:           p.TotalLumenEarned,
		Progress:         math.Min(1, p.TotalLumenEarned/req),
		BonusPercent:     float64(p.Level) * cfg.BonusPerLevel,
		NextBonusPercent: float64(p.Level+1) * cfg.BonusPerLevel,
		MaxLevel:         cfg.MaxLevel,
	}
	switch {
	case e.resetting:
		info.Phase = Resetting
	case e.ineligibleReason() == "":
		info.Phase = Eligible
	default:
		info.Phase = Accumulating
	}
	return info
}

func (e *Engine) ineligibleReason() string {
	cfg := e.cat.Tuning.Prestige
	p := e.state.Prestige
	if cfg.MaxLevel > 0 && p.Level >= cfg.MaxLevel {
		return fmt.Sprintf("maximum prestige level %d reached", cfg.MaxLevel)
	}
	req := PrestigeRequirement(cfg, p.Level)
	if p.TotalLumenEarned < req {
		return fmt.Sprintf("need %.0f lifetime lumen, have %.0f", req, p.TotalLumenEarned)
	}
	return ""
}

// PerformPrestige resets the run for a permanent production bonus.
// Balances, click power, every building on every planet and every defense
// level go back to zero; technologies, achievements, artifacts, badges and
// lifetime totals survive.
func (e *Engine) PerformPrestige() (PrestigeResult, error) {
	gs := e.state
	cfg := e.cat.Tuning.Prestige

	if reason := e.ineligibleReason(); reason != "" {
		e.signal(SignalError)
		return PrestigeResult{}, &IneligibleError{
			Level:       gs.Prestige.Level,
			Requirement: PrestigeRequirement(cfg, gs.Prestige.Level),
			Earned:      gs.Prestige.TotalLumenEarned,
			Reason:      reason,
		}
	}

	e.resetting = true
	defer func() { e.resetting = false }()

	gs.Ledger.Zero()
	gs.ClickPower = e.cat.Tuning.BaseClickPower
	for _, ps := range gs.Planets {
		for key := range ps.Buildings {
			ps.Buildings[key] = 0
		}
	}
	for key := range gs.Defense {
		gs.Defense[key] = 0
	}
	gs.Combo.Reset()

	gs.Prestige.Level++
	res := PrestigeResult{
		NewLevel:     gs.Prestige.Level,
		BonusPercent: float64(gs.Prestige.Level) * cfg.BonusPerLevel,
	}
	e.log.Info("prestige performed", "level", res.NewLevel, "bonus_percent", res.BonusPercent)
	e.signal(SignalSuccess)
	return res, nil
}
