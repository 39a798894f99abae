package models

import (
	"slices"
	"time"
)

// PlanetState is the mutable part of a planet
type PlanetState struct {
	Unlocked  bool           `json:"unlocked"`
	Buildings map[string]int `json:"buildings"`
}

// ComboState tracks the capture streak of the current session
type ComboState struct {
	Count       int       `json:"count"`
	LastCapture time.Time `json:"lastCapture"`
	Multiplier  float64   `json:"multiplier"`
	Missed      int       `json:"missedFragments"`
}

// Reset clears the streak, including the last capture time so the next
// capture starts a new streak at 1x
func (c *ComboState) Reset() {
	c.Count = 0
	c.LastCapture = time.Time{}
	c.Multiplier = 1
	c.Missed = 0
}

// PrestigeState tracks prestige progression.
// TotalLumenEarned is the gating metric and is never reset.
type PrestigeState struct {
	Level            int     `json:"level"`
	TotalLumenEarned float64 `json:"totalLumenEarned"`
}

// Boost is an active time-limited multiplier
type Boost struct {
	Key        string    `json:"key"`
	Type       BoostType `json:"type"`
	Multiplier float64   `json:"multiplier"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ActiveAt reports whether the boost is still running at now
func (b Boost) ActiveAt(now time.Time) bool {
	return b.ExpiresAt.After(now)
}

// ActiveEvent is a running timed event
type ActiveEvent struct {
	Key        string       `json:"key"`
	Effect     EventEffect  `json:"effect"`
	Resource   ResourceType `json:"resource,omitempty"`
	Multiplier float64      `json:"multiplier"`
	ExpiresAt  time.Time    `json:"expiresAt"`
}

// ActiveAt reports whether the event is still running at now
func (ev ActiveEvent) ActiveAt(now time.Time) bool {
	return ev.ExpiresAt.After(now)
}

// CompanionState tracks owned companions. At most one is active.
type CompanionState struct {
	Unlocked    []string             `json:"unlocked"`
	Active      string               `json:"active"`
	LastCollect map[string]time.Time `json:"lastCollect"`
}

// Owns reports whether key has been unlocked
func (c *CompanionState) Owns(key string) bool {
	return slices.Contains(c.Unlocked, key)
}

// QuestInstance is a selected quest with session progress
type QuestInstance struct {
	ID        string  `json:"id"`
	Key       string  `json:"key"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
	Claimed   bool    `json:"claimed"`
}

// QuestLog holds the active quest batch
type QuestLog struct {
	Active          []QuestInstance  `json:"active"`
	SessionProgress map[Stat]float64 `json:"sessionProgress"`
	LastReset       time.Time        `json:"lastReset"`
}

// Stats are lifetime counters
type Stats struct {
	TotalClicks     int           `json:"totalClicks"`
	BuildingsBuilt  int           `json:"buildingsBuilt"`
	FragmentsCaught int           `json:"fragmentsCaught"`
	TechsUnlocked   int           `json:"techsUnlocked"`
	TimePlayed      time.Duration `json:"timePlayed"`
}

// Get returns a lifetime stat by name
func (s *Stats) Get(stat Stat) float64 {
	switch stat {
	case StatTotalClicks:
		return float64(s.TotalClicks)
	case StatBuildingsBuilt:
		return float64(s.BuildingsBuilt)
	case StatFragmentsCaught:
		return float64(s.FragmentsCaught)
	case StatTechsUnlocked:
		return float64(s.TechsUnlocked)
	}
	return 0
}

// DailyRewards tracks the login streak
type DailyRewards struct {
	LastClaim time.Time `json:"lastClaim"`
	Streak    int       `json:"streak"`
}

// GameState is the whole mutable session aggregate
type GameState struct {
	Username          string                  `json:"username"`
	CurrentPlanet     string                  `json:"currentPlanet"`
	Planets           map[string]*PlanetState `json:"planets"`
	Ledger            Ledger                  `json:"ledger"`
	Technologies      map[string]int          `json:"technologies"`
	Defense           map[string]int          `json:"defense"`
	Masteries         map[string]int          `json:"masteries"`
	ClickPower        float64                 `json:"clickPower"`
	Combo             ComboState              `json:"combo"`
	Prestige          PrestigeState           `json:"prestige"`
	Boosts            []Boost                 `json:"activeBoosts"`
	Events            []ActiveEvent           `json:"activeEvents"`
	OfflineMultiplier float64                 `json:"offlineMultiplier"`
	Achievements      map[string]bool         `json:"achievements"`
	Milestones        []string                `json:"milestonesReached"`
	Companions        CompanionState          `json:"companions"`
	Artifacts         []string                `json:"artifacts"`
	Badges            []string                `json:"badges"`
	Quests            QuestLog                `json:"quests"`
	Stats             Stats                   `json:"stats"`
	DailyRewards      DailyRewards            `json:"dailyRewards"`
	FreeLootboxAt     time.Time               `json:"freeLootboxAt"`
	LastTick          time.Time               `json:"lastTick"`
}

// NewGameState creates a fresh state shaped by the catalog
func NewGameState(cat *Catalog) *GameState {
	gs := &GameState{
		Username:          "Commandant",
		Planets:           make(map[string]*PlanetState),
		Technologies:      make(map[string]int),
		Defense:           make(map[string]int),
		Masteries:         make(map[string]int),
		ClickPower:        cat.Tuning.BaseClickPower,
		Combo:             ComboState{Multiplier: 1},
		OfflineMultiplier: 1,
		Achievements:      make(map[string]bool),
		Milestones:        []string{},
		Companions:        CompanionState{Unlocked: []string{}, LastCollect: make(map[string]time.Time)},
		Artifacts:         []string{},
		Badges:            []string{},
		Quests:            QuestLog{SessionProgress: make(map[Stat]float64)},
	}
	if start := cat.StartingPlanet(); start != nil {
		gs.CurrentPlanet = start.Key
	}
	for _, p := range cat.Planets {
		ps := &PlanetState{Unlocked: p.StartUnlocked, Buildings: make(map[string]int)}
		for key, level := range p.StartingBuildings {
			ps.Buildings[key] = level
		}
		gs.Planets[p.Key] = ps
	}
	gs.Normalize(cat)
	return gs
}

// Normalize backfills anything an older or partial state is missing:
// planets, building and technology keys, nil maps and zero multipliers.
// An active companion that is not owned is dropped.
// It never overwrites values that are present.
func (gs *GameState) Normalize(cat *Catalog) {
	if gs.Planets == nil {
		gs.Planets = make(map[string]*PlanetState)
	}
	for _, p := range cat.Planets {
		ps, ok := gs.Planets[p.Key]
		if !ok || ps == nil {
			ps = &PlanetState{Unlocked: p.StartUnlocked}
			gs.Planets[p.Key] = ps
		}
		if ps.Buildings == nil {
			ps.Buildings = make(map[string]int)
		}
		for _, b := range cat.Buildings {
			if _, ok := ps.Buildings[b.Key]; !ok {
				ps.Buildings[b.Key] = 0
			}
		}
	}
	if _, ok := gs.Planets[gs.CurrentPlanet]; !ok {
		if start := cat.StartingPlanet(); start != nil {
			gs.CurrentPlanet = start.Key
		}
	}
	if gs.Technologies == nil {
		gs.Technologies = make(map[string]int)
	}
	for _, t := range cat.Technologies {
		if _, ok := gs.Technologies[t.Key]; !ok {
			gs.Technologies[t.Key] = 0
		}
	}
	if gs.Defense == nil {
		gs.Defense = make(map[string]int)
	}
	if gs.Masteries == nil {
		gs.Masteries = make(map[string]int)
	}
	if gs.Achievements == nil {
		gs.Achievements = make(map[string]bool)
	}
	if gs.Milestones == nil {
		gs.Milestones = []string{}
	}
	if gs.Companions.Unlocked == nil {
		gs.Companions.Unlocked = []string{}
	}
	if gs.Companions.LastCollect == nil {
		gs.Companions.LastCollect = make(map[string]time.Time)
	}
	if gs.Companions.Active != "" && !gs.Companions.Owns(gs.Companions.Active) {
		gs.Companions.Active = ""
	}
	if gs.Artifacts == nil {
		gs.Artifacts = []string{}
	}
	if gs.Badges == nil {
		gs.Badges = []string{}
	}
	if gs.Quests.SessionProgress == nil {
		gs.Quests.SessionProgress = make(map[Stat]float64)
	}
	if gs.ClickPower == 0 {
		gs.ClickPower = cat.Tuning.BaseClickPower
	}
	if gs.Combo.Multiplier == 0 {
		gs.Combo.Multiplier = 1
	}
	if gs.OfflineMultiplier == 0 {
		gs.OfflineMultiplier = 1
	}
}

// Planet returns the current planet state
func (gs *GameState) Planet() *PlanetState {
	return gs.Planets[gs.CurrentPlanet]
}

// TechLevel returns the level of a technology (0 if unknown)
func (gs *GameState) TechLevel(key string) int {
	return gs.Technologies[key]
}

// TechCount returns how many technologies have at least one level
func (gs *GameState) TechCount() int {
	n := 0
	for _, lvl := range gs.Technologies {
		if lvl > 0 {
			n++
		}
	}
	return n
}

// UnlockedPlanets returns how many planets are unlocked
func (gs *GameState) UnlockedPlanets() int {
	n := 0
	for _, p := range gs.Planets {
		if p.Unlocked {
			n++
		}
	}
	return n
}

// Clone returns a deep copy
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Planets = make(map[string]*PlanetState, len(gs.Planets))
	for k, p := range gs.Planets {
		cp := &PlanetState{Unlocked: p.Unlocked, Buildings: make(map[string]int, len(p.Buildings))}
		for bk, lvl := range p.Buildings {
			cp.Buildings[bk] = lvl
		}
		c.Planets[k] = cp
	}
	c.Technologies = copyLevels(gs.Technologies)
	c.Defense = copyLevels(gs.Defense)
	c.Masteries = copyLevels(gs.Masteries)
	c.Achievements = make(map[string]bool, len(gs.Achievements))
	for k, v := range gs.Achievements {
		c.Achievements[k] = v
	}
	c.Boosts = append([]Boost(nil), gs.Boosts...)
	c.Events = append([]ActiveEvent(nil), gs.Events...)
	c.Milestones = append([]string{}, gs.Milestones...)
	c.Companions.Unlocked = append([]string{}, gs.Companions.Unlocked...)
	c.Companions.LastCollect = make(map[string]time.Time, len(gs.Companions.LastCollect))
	for k, v := range gs.Companions.LastCollect {
		c.Companions.LastCollect[k] = v
	}
	c.Artifacts = append([]string{}, gs.Artifacts...)
	c.Badges = append([]string{}, gs.Badges...)
	c.Quests.Active = append([]QuestInstance(nil), gs.Quests.Active...)
	c.Quests.SessionProgress = make(map[Stat]float64, len(gs.Quests.SessionProgress))
	for k, v := range gs.Quests.SessionProgress {
		c.Quests.SessionProgress[k] = v
	}
	return &c
}

func copyLevels(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MilestoneReached reports whether the milestone id has been granted
func (gs *GameState) MilestoneReached(id string) bool {
	return slices.Contains(gs.Milestones, id)
}
