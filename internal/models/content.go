package models

import (
	"strconv"
	"time"
)

// EntryKind identifies which table an upgradeable entry belongs to
type EntryKind string

const (
	KindBuilding   EntryKind = "building"
	KindTechnology EntryKind = "technology"
	KindDefense    EntryKind = "defense"
)

// Requirement is an optional prerequisite on another entry's level.
// Exactly one of Tech or Building is set. Level defaults to 1.
type Requirement struct {
	Tech     string `yaml:"tech,omitempty"`
	Building string `yaml:"building,omitempty"`
	Level    int    `yaml:"level,omitempty"`
}

// MinLevel returns the declared minimum level (default 1)
func (r *Requirement) MinLevel() int {
	if r.Level <= 0 {
		return 1
	}
	return r.Level
}

// Entry is one purchasable item: building, technology or defense upgrade
type Entry struct {
	Key      string       `yaml:"key"`
	Name     string       `yaml:"name"`
	Kind     EntryKind    `yaml:"-"`
	BaseCost Resources    `yaml:"base_cost"`
	CostMult float64      `yaml:"cost_mult"`
	MaxLevel int          `yaml:"max"`
	Requires *Requirement `yaml:"requires,omitempty"`
}

// BuildingDef is a production building. Output is linear in level.
type BuildingDef struct {
	Entry      `yaml:",inline"`
	Production Resources `yaml:"production"`
}

// ProductionAt returns the per-second yield at the given level
func (b *BuildingDef) ProductionAt(level int) Resources {
	if level <= 0 {
		return Resources{}
	}
	return b.Production.Scale(float64(level))
}

// TechRole describes how a technology affects the economy
type TechRole string

const (
	RoleUnlock        TechRole = "unlock"
	RoleAutomation    TechRole = "automation"
	RoleSynergy       TechRole = "synergy"
	RoleClickDoubling TechRole = "click_doubling"
	RoleLucky         TechRole = "lucky"
	RoleAstra         TechRole = "astra"
)

// TechnologyDef is a researchable technology
type TechnologyDef struct {
	Entry           `yaml:",inline"`
	Role            TechRole `yaml:"role"`
	Automates       string   `yaml:"automates,omitempty"`
	SynergyPerLevel float64  `yaml:"synergy_per_level,omitempty"`
}

// DefenseEffect names what a defense upgrade improves
type DefenseEffect string

const (
	EffectClickPower     DefenseEffect = "click_power"
	EffectCriticalChance DefenseEffect = "critical_chance"
	EffectComboBonus     DefenseEffect = "combo_bonus"
	EffectFragmentRate   DefenseEffect = "fragment_rate"
	EffectFragmentSpeed  DefenseEffect = "fragment_speed"
	EffectFragmentGlow   DefenseEffect = "fragment_glow"
	EffectMagneticField  DefenseEffect = "magnetic_field"
	EffectAutoCapture    DefenseEffect = "auto_capture"
	EffectMultiClick     DefenseEffect = "multi_click"
)

// DefenseDef is a click upgrade
type DefenseDef struct {
	Entry          `yaml:",inline"`
	Effect         DefenseEffect `yaml:"effect"`
	EffectPerLevel float64       `yaml:"effect_per_level"`
}

// EffectAt returns the linear effect value at a level
func (d *DefenseDef) EffectAt(level int) float64 {
	if level <= 0 {
		return 0
	}
	return float64(level) * d.EffectPerLevel
}

// Stat names tracked by masteries, quests and achievements
type Stat string

const (
	StatTotalClicks     Stat = "totalClicks"
	StatBuildingsBuilt  Stat = "buildingsBuilt"
	StatTechsUnlocked   Stat = "techsUnlocked"
	StatFragmentsCaught Stat = "fragmentsCaught"

	// session-scoped quest stats
	StatClicks         Stat = "clicks"
	StatBuilds         Stat = "builds"
	StatLumenCollected Stat = "lumenCollected"
)

// MasteryDef is a permanent progression track driven by a lifetime stat
type MasteryDef struct {
	Key                 string  `yaml:"key"`
	Name                string  `yaml:"name"`
	Stat                Stat    `yaml:"stat"`
	MaxLevel            int     `yaml:"max"`
	RequirementPerLevel float64 `yaml:"requirement_per_level"`
	EffectPerLevel      float64 `yaml:"effect_per_level"`
}

// Mastery keys referenced by the economy
const (
	MasteryClick = "clickMastery"
	MasteryBuild = "buildMastery"
	MasteryTech  = "techMastery"
)

// PlanetDef is a location with its own buildings and a flat production bonus
type PlanetDef struct {
	Key               string         `yaml:"key"`
	Name              string         `yaml:"name"`
	Bonus             Resources      `yaml:"bonus"`
	UnlockCost        Resources      `yaml:"unlock_cost"`
	StartUnlocked     bool           `yaml:"start_unlocked"`
	StartingBuildings map[string]int `yaml:"starting_buildings,omitempty"`
}

// AchievementCategory selects the predicate used to evaluate an achievement
type AchievementCategory string

const (
	CategoryClicks     AchievementCategory = "clicks"
	CategoryCollection AchievementCategory = "collection"
	CategoryBuildings  AchievementCategory = "buildings"
	CategoryTech       AchievementCategory = "tech"
	CategoryPlanets    AchievementCategory = "planets"
	CategoryPrestige   AchievementCategory = "prestige"
)

// AchievementDef is a one-time unlock. Planet achievements set Planet to
// require a specific planet, otherwise Requirement counts unlocked planets.
type AchievementDef struct {
	Key         string              `yaml:"key"`
	Name        string              `yaml:"name"`
	Category    AchievementCategory `yaml:"category"`
	Requirement float64             `yaml:"requirement"`
	Resource    ResourceType        `yaml:"resource,omitempty"`
	Planet      string              `yaml:"planet,omitempty"`
	Reward      Resources           `yaml:"reward"`
}

// QuestDef is a daily quest template
type QuestDef struct {
	Key         string    `yaml:"key"`
	Name        string    `yaml:"name"`
	Stat        Stat      `yaml:"stat"`
	Requirement float64   `yaml:"requirement"`
	Reward      Resources `yaml:"reward"`
}

// BoostType identifies what a boost multiplies
type BoostType string

const (
	BoostProduction   BoostType = "production"
	BoostClickPower   BoostType = "click_power"
	BoostAutoClick    BoostType = "auto_click"
	BoostOfflineBonus BoostType = "offline_bonus"
)

// BoostDef is a purchasable temporary (or permanent) multiplier
type BoostDef struct {
	Key        string        `yaml:"key"`
	Name       string        `yaml:"name"`
	Type       BoostType     `yaml:"type"`
	Cost       Resources     `yaml:"cost"`
	Duration   time.Duration `yaml:"duration"`
	Permanent  bool          `yaml:"permanent,omitempty"`
	Multiplier float64       `yaml:"multiplier"`
}

// EventEffect names what a timed event multiplies
type EventEffect string

const (
	EventResource  EventEffect = "resource"
	EventSpawnRate EventEffect = "spawn_rate"
)

// EventDef is a purchasable timed event. Resource events multiply the
// production of one resource, spawn events the fragment spawn rate.
type EventDef struct {
	Key        string        `yaml:"key"`
	Name       string        `yaml:"name"`
	Effect     EventEffect   `yaml:"effect"`
	Resource   ResourceType  `yaml:"resource,omitempty"`
	Cost       Resources     `yaml:"cost"`
	Duration   time.Duration `yaml:"duration"`
	Multiplier float64       `yaml:"multiplier"`
}

// MilestoneTrack is the progress value a milestone is measured against
type MilestoneTrack string

const (
	TrackLumen        MilestoneTrack = "lumen"
	TrackBuildings    MilestoneTrack = "buildings"
	TrackTechnologies MilestoneTrack = "technologies"
	TrackClicks       MilestoneTrack = "clicks"
	TrackPrestige     MilestoneTrack = "prestige"
)

// MilestoneDef is a one-time threshold celebration with an optional reward
type MilestoneDef struct {
	Track  MilestoneTrack `yaml:"track"`
	Value  float64        `yaml:"value"`
	Title  string         `yaml:"title"`
	Reward Resources      `yaml:"reward"`
}

// ID identifies the milestone in saves, e.g. "lumen_1000"
func (m *MilestoneDef) ID() string {
	return string(m.Track) + "_" + strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// CompanionDef is a pet unlocked by prestige that collects falling
// fragments on an interval and adds a flat production multiplier
type CompanionDef struct {
	Key             string        `yaml:"key"`
	Name            string        `yaml:"name"`
	UnlockLevel     int           `yaml:"unlock_level"`
	Cost            Resources     `yaml:"cost"`
	CollectInterval time.Duration `yaml:"collect_interval"`
	CollectAmount   int           `yaml:"collect_amount"`
	BonusMultiplier float64       `yaml:"bonus_multiplier"`
}

// FragmentDef is a fragment rarity tier
type FragmentDef struct {
	Type     string  `yaml:"type"`
	ValueMin int     `yaml:"value_min"`
	ValueMax int     `yaml:"value_max"`
	Weight   float64 `yaml:"weight"`
}

// PrestigeConfig holds prestige tuning
type PrestigeConfig struct {
	BaseRequirement float64 `yaml:"base_requirement"`
	BonusPerLevel   float64 `yaml:"bonus_per_level"`
	MaxLevel        int     `yaml:"max_level"`
}

// OfflineConfig holds offline earnings tuning
type OfflineConfig struct {
	MaxWindow      time.Duration `yaml:"max_window"`
	BaseMultiplier float64       `yaml:"base_multiplier"`
	NotifyAfter    time.Duration `yaml:"notify_after"`
}

// Tuning holds the timing and balance constants of a session
type Tuning struct {
	TickRate        time.Duration  `yaml:"tick_rate"`
	SaveInterval    time.Duration  `yaml:"save_interval"`
	ComboTimeout    time.Duration  `yaml:"combo_timeout"`
	ComboStep       float64        `yaml:"combo_step"`
	ComboMissLimit  int            `yaml:"combo_miss_limit"`
	BaseClickPower  float64        `yaml:"base_click_power"`
	LuckyMultiplier float64        `yaml:"lucky_multiplier"`
	QuestBatch      int            `yaml:"quest_batch"`
	QuestReset      time.Duration  `yaml:"quest_reset"`
	LootboxCooldown time.Duration  `yaml:"lootbox_cooldown"`
	HoldInterval    time.Duration  `yaml:"hold_interval"`
	FragmentRate    float64        `yaml:"fragment_spawn_rate"`
	Prestige        PrestigeConfig `yaml:"prestige"`
	Offline         OfflineConfig  `yaml:"offline"`
}

// Catalog is the full set of static content tables
type Catalog struct {
	Tuning       Tuning
	Buildings    []*BuildingDef
	Technologies []*TechnologyDef
	Defenses     []*DefenseDef
	Masteries    []*MasteryDef
	Planets      []*PlanetDef
	Achievements []*AchievementDef
	Quests       []*QuestDef
	Boosts       []*BoostDef
	Events       []*EventDef
	Milestones   []*MilestoneDef
	Companions   []*CompanionDef
	Fragments    []*FragmentDef

	buildings    map[string]*BuildingDef
	technologies map[string]*TechnologyDef
	defenses     map[string]*DefenseDef
	masteries    map[string]*MasteryDef
	planets      map[string]*PlanetDef
	quests       map[string]*QuestDef
	boosts       map[string]*BoostDef
	events       map[string]*EventDef
	companions   map[string]*CompanionDef
}

// Index builds the key lookups and stamps entry kinds. Call after the
// slices are populated.
func (c *Catalog) Index() {
	c.buildings = make(map[string]*BuildingDef, len(c.Buildings))
	for _, b := range c.Buildings {
		b.Kind = KindBuilding
		c.buildings[b.Key] = b
	}
	c.technologies = make(map[string]*TechnologyDef, len(c.Technologies))
	for _, t := range c.Technologies {
		t.Kind = KindTechnology
		c.technologies[t.Key] = t
	}
	c.defenses = make(map[string]*DefenseDef, len(c.Defenses))
	for _, d := range c.Defenses {
		d.Kind = KindDefense
		c.defenses[d.Key] = d
	}
	c.masteries = make(map[string]*MasteryDef, len(c.Masteries))
	for _, m := range c.Masteries {
		c.masteries[m.Key] = m
	}
	c.planets = make(map[string]*PlanetDef, len(c.Planets))
	for _, p := range c.Planets {
		c.planets[p.Key] = p
	}
	c.quests = make(map[string]*QuestDef, len(c.Quests))
	for _, q := range c.Quests {
		c.quests[q.Key] = q
	}
	c.boosts = make(map[string]*BoostDef, len(c.Boosts))
	for _, b := range c.Boosts {
		c.boosts[b.Key] = b
	}
	c.events = make(map[string]*EventDef, len(c.Events))
	for _, ev := range c.Events {
		c.events[ev.Key] = ev
	}
	c.companions = make(map[string]*CompanionDef, len(c.Companions))
	for _, cp := range c.Companions {
		c.companions[cp.Key] = cp
	}
}

// Building returns the building definition for key
func (c *Catalog) Building(key string) (*BuildingDef, bool) {
	b, ok := c.buildings[key]
	return b, ok
}

// Technology returns the technology definition for key
func (c *Catalog) Technology(key string) (*TechnologyDef, bool) {
	t, ok := c.technologies[key]
	return t, ok
}

// Defense returns the defense definition for key
func (c *Catalog) Defense(key string) (*DefenseDef, bool) {
	d, ok := c.defenses[key]
	return d, ok
}

// Mastery returns the mastery definition for key
func (c *Catalog) Mastery(key string) (*MasteryDef, bool) {
	m, ok := c.masteries[key]
	return m, ok
}

// Planet returns the planet definition for key
func (c *Catalog) Planet(key string) (*PlanetDef, bool) {
	p, ok := c.planets[key]
	return p, ok
}

// Quest returns the quest definition for key
func (c *Catalog) Quest(key string) (*QuestDef, bool) {
	q, ok := c.quests[key]
	return q, ok
}

// Boost returns the boost definition for key
func (c *Catalog) Boost(key string) (*BoostDef, bool) {
	b, ok := c.boosts[key]
	return b, ok
}

// Event returns the timed event definition for key
func (c *Catalog) Event(key string) (*EventDef, bool) {
	ev, ok := c.events[key]
	return ev, ok
}

// Companion returns the companion definition for key
func (c *Catalog) Companion(key string) (*CompanionDef, bool) {
	cp, ok := c.companions[key]
	return cp, ok
}

// StartingPlanet returns the first planet flagged as unlocked at start
func (c *Catalog) StartingPlanet() *PlanetDef {
	for _, p := range c.Planets {
		if p.StartUnlocked {
			return p
		}
	}
	return nil
}

// DefenseByEffect returns the first defense upgrade with the given effect
func (c *Catalog) DefenseByEffect(effect DefenseEffect) (*DefenseDef, bool) {
	for _, d := range c.Defenses {
		if d.Effect == effect {
			return d, true
		}
	}
	return nil, false
}

// TechnologiesByRole returns technologies with the given role in catalog order
func (c *Catalog) TechnologiesByRole(role TechRole) []*TechnologyDef {
	var out []*TechnologyDef
	for _, t := range c.Technologies {
		if t.Role == role {
			out = append(out, t)
		}
	}
	return out
}
