package engine

import (
	"github.com/fallingstars/starlight/internal/models"
)

// CheckAchievements unlocks every achievement whose predicate holds against
// lifetime stats and grants its reward. Returns the newly unlocked ones.
func (e *Engine) CheckAchievements() []*models.AchievementDef {
	gs := e.state
	var unlocked []*models.AchievementDef
	for _, a := range e.cat.Achievements {
		if gs.Achievements[a.Key] || !e.achieved(a) {
			continue
		}
		gs.Achievements[a.Key] = true
		e.credit(a.Reward)
		unlocked = append(unlocked, a)
		e.log.Info("achievement unlocked", "key", a.Key)
		e.signal(SignalSuccess)
	}
	return unlocked
}

func (e *Engine) achieved(a *models.AchievementDef) bool {
	gs := e.state
	switch a.Category {
	case models.CategoryClicks:
		return float64(gs.Stats.TotalClicks) >= a.Requirement
	case models.CategoryCollection:
		return gs.Ledger.Lifetime.Get(a.Resource) >= a.Requirement
	case models.CategoryBuildings:
		return float64(gs.Stats.BuildingsBuilt) >= a.Requirement
	case models.CategoryTech:
		return float64(gs.TechCount()) >= a.Requirement
	case models.CategoryPlanets:
		if a.Planet != "" {
			ps, ok := gs.Planets[a.Planet]
			return ok && ps.Unlocked
		}
		return float64(gs.UnlockedPlanets()) >= a.Requirement
	case models.CategoryPrestige:
		return float64(gs.Prestige.Level) >= a.Requirement
	}
	return false
}

// CheckMasteries raises each mastery while its tracked lifetime stat covers
// requirementPerLevel × (level+1). Returns the keys that levelled up.
func (e *Engine) CheckMasteries() []string {
	gs := e.state
	var raised []string
	for _, m := range e.cat.Masteries {
		level := gs.Masteries[m.Key]
		start := level
		stat := gs.Stats.Get(m.Stat)
		for level < m.MaxLevel && stat >= m.RequirementPerLevel*float64(level+1) {
			level++
		}
		if level > start {
			gs.Masteries[m.Key] = level
			raised = append(raised, m.Key)
			e.log.Debug("mastery raised", "key", m.Key, "level", level)
		}
	}
	return raised
}

// CheckMilestones grants every milestone whose track value has reached its
// threshold. Each milestone is granted once per save.
func (e *Engine) CheckMilestones() []*models.MilestoneDef {
	gs := e.state
	var reached []*models.MilestoneDef
	for _, m := range e.cat.Milestones {
		id := m.ID()
		if gs.MilestoneReached(id) || e.trackValue(m.Track) < m.Value {
			continue
		}
		gs.Milestones = append(gs.Milestones, id)
		e.credit(m.Reward)
		reached = append(reached, m)
		e.log.Info("milestone reached", "id", id)
		e.signal(SignalSuccess)
	}
	return reached
}

func (e *Engine) trackValue(t models.MilestoneTrack) float64 {
	gs := e.state
	switch t {
	case models.TrackLumen:
		return gs.Ledger.Lifetime.Lumen
	case models.TrackBuildings:
		n := 0
		for _, lvl := range gs.Planet().Buildings {
			n += lvl
		}
		return float64(n)
	case models.TrackTechnologies:
		n := 0
		for _, lvl := range gs.Technologies {
			n += lvl
		}
		return float64(n)
	case models.TrackClicks:
		return float64(gs.Stats.TotalClicks)
	case models.TrackPrestige:
		return float64(gs.Prestige.Level)
	}
	return 0
}
