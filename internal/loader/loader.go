package loader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fallingstars/starlight/internal/models"
)

//go:embed data/content.yaml
var defaultContent []byte

// ContentYAML represents the YAML structure of the content tables
type ContentYAML struct {
	Tuning       models.Tuning            `yaml:"tuning"`
	Buildings    []*models.BuildingDef    `yaml:"buildings"`
	Technologies []*models.TechnologyDef  `yaml:"technologies"`
	Defenses     []*models.DefenseDef     `yaml:"defenses"`
	Masteries    []*models.MasteryDef     `yaml:"masteries"`
	Planets      []*models.PlanetDef      `yaml:"planets"`
	Achievements []*models.AchievementDef `yaml:"achievements"`
	Quests       []*models.QuestDef       `yaml:"quests"`
	Boosts       []*models.BoostDef       `yaml:"boosts"`
	Events       []*models.EventDef       `yaml:"events"`
	Milestones   []*models.MilestoneDef   `yaml:"milestones"`
	Companions   []*models.CompanionDef   `yaml:"companions"`
	Fragments    []*models.FragmentDef    `yaml:"fragments"`
}

// DefaultContent returns the raw embedded content tables
func DefaultContent() []byte {
	return defaultContent
}

// Default returns the embedded catalog. The embedded data is validated by
// tests, so a failure here is a build defect.
func Default() *models.Catalog {
	cat, err := Parse(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("embedded content is invalid: %v", err))
	}
	return cat
}

// Load reads a content file. Sections present in the file replace the
// embedded sections of the same name; absent sections keep the defaults.
func Load(path string) (*models.Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var base ContentYAML
	if err := yaml.Unmarshal(defaultContent, &base); err != nil {
		return nil, fmt.Errorf("failed to parse embedded content: %w", err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return build(&base)
}

// Parse builds a catalog from YAML bytes
func Parse(data []byte) (*models.Catalog, error) {
	var raw ContentYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	return build(&raw)
}

func build(raw *ContentYAML) (*models.Catalog, error) {
	cat := &models.Catalog{
		Tuning:       raw.Tuning,
		Buildings:    raw.Buildings,
		Technologies: raw.Technologies,
		Defenses:     raw.Defenses,
		Masteries:    raw.Masteries,
		Planets:      raw.Planets,
		Achievements: raw.Achievements,
		Quests:       raw.Quests,
		Boosts:       raw.Boosts,
		Events:       raw.Events,
		Milestones:   raw.Milestones,
		Companions:   raw.Companions,
		Fragments:    raw.Fragments,
	}

	// A planet bonus only lists the resources it changes
	for _, p := range cat.Planets {
		for _, rt := range models.AllResourceTypes() {
			if p.Bonus.Get(rt) == 0 {
				p.Bonus.Set(rt, 1)
			}
		}
	}

	cat.Index()
	if err := Validate(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ErrInvalidContent is wrapped by every validation failure
var ErrInvalidContent = errors.New("invalid content")

// Validate checks keys, prerequisites and curves
func Validate(cat *models.Catalog) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidContent}, args...)...))
	}

	seen := make(map[string]bool)
	checkEntry := func(e *models.Entry) {
		if e.Key == "" {
			fail("%s without key", e.Kind)
			return
		}
		id := string(e.Kind) + "/" + e.Key
		if seen[id] {
			fail("duplicate %s", id)
		}
		seen[id] = true
		if !e.BaseCost.IsValidCost() {
			fail("%s: negative base_cost %+v", id, e.BaseCost)
		}
		if e.CostMult < 1 {
			fail("%s: cost_mult %.2f < 1", id, e.CostMult)
		}
		if e.MaxLevel < 1 {
			fail("%s: max level %d < 1", id, e.MaxLevel)
		}
		if r := e.Requires; r != nil {
			switch {
			case r.Tech != "" && r.Building != "":
				fail("%s: requirement names both tech and building", id)
			case r.Tech != "":
				if _, ok := cat.Technology(r.Tech); !ok {
					fail("%s: unknown required tech %q", id, r.Tech)
				}
			case r.Building != "":
				if _, ok := cat.Building(r.Building); !ok {
					fail("%s: unknown required building %q", id, r.Building)
				}
			default:
				fail("%s: empty requirement", id)
			}
		}
	}

	for _, b := range cat.Buildings {
		checkEntry(&b.Entry)
	}
	for _, t := range cat.Technologies {
		checkEntry(&t.Entry)
		if t.Role == models.RoleAutomation {
			if _, ok := cat.Building(t.Automates); !ok {
				fail("technology/%s: automates unknown building %q", t.Key, t.Automates)
			}
		}
	}
	for _, d := range cat.Defenses {
		checkEntry(&d.Entry)
	}

	starting := 0
	for _, p := range cat.Planets {
		if p.StartUnlocked {
			starting++
		}
		if !p.UnlockCost.IsValidCost() {
			fail("planet/%s: negative unlock_cost %+v", p.Key, p.UnlockCost)
		}
		for key := range p.StartingBuildings {
			if _, ok := cat.Building(key); !ok {
				fail("planet/%s: unknown starting building %q", p.Key, key)
			}
		}
	}
	if starting != 1 {
		fail("want exactly one starting planet, got %d", starting)
	}

	for _, a := range cat.Achievements {
		if a.Category == models.CategoryPlanets && a.Planet != "" {
			if _, ok := cat.Planet(a.Planet); !ok {
				fail("achievement/%s: unknown planet %q", a.Key, a.Planet)
			}
		}
	}

	for _, b := range cat.Boosts {
		if !b.Cost.IsValidCost() {
			fail("boost/%s: negative cost %+v", b.Key, b.Cost)
		}
	}

	for _, ev := range cat.Events {
		id := "event/" + ev.Key
		if seen[id] {
			fail("duplicate %s", id)
		}
		seen[id] = true
		switch ev.Effect {
		case models.EventResource:
			if ev.Resource != models.Lumen && ev.Resource != models.Energy && ev.Resource != models.Antimatter {
				fail("%s: unknown resource %q", id, ev.Resource)
			}
		case models.EventSpawnRate:
		default:
			fail("%s: unknown effect %q", id, ev.Effect)
		}
		if !ev.Cost.IsValidCost() {
			fail("%s: negative cost %+v", id, ev.Cost)
		}
		if ev.Duration <= 0 || ev.Multiplier <= 0 {
			fail("%s: duration and multiplier must be positive", id)
		}
	}

	for _, m := range cat.Milestones {
		switch m.Track {
		case models.TrackLumen, models.TrackBuildings, models.TrackTechnologies, models.TrackClicks, models.TrackPrestige:
		default:
			fail("milestone/%s: unknown track %q", m.ID(), m.Track)
		}
		if m.Value <= 0 {
			fail("milestone/%s: value must be positive", m.ID())
		}
		id := "milestone/" + m.ID()
		if seen[id] {
			fail("duplicate %s", id)
		}
		seen[id] = true
	}

	for _, cp := range cat.Companions {
		id := "companion/" + cp.Key
		if seen[id] {
			fail("duplicate %s", id)
		}
		seen[id] = true
		if !cp.Cost.IsValidCost() {
			fail("%s: negative cost %+v", id, cp.Cost)
		}
		if cp.CollectInterval <= 0 || cp.CollectAmount < 1 {
			fail("%s: needs a positive collect_interval and collect_amount", id)
		}
		if cp.BonusMultiplier < 1 {
			fail("%s: bonus_multiplier %.2f < 1", id, cp.BonusMultiplier)
		}
	}

	if cat.Tuning.FragmentRate < 0 {
		fail("fragment_spawn_rate %.2f < 0", cat.Tuning.FragmentRate)
	}

	var total float64
	for _, f := range cat.Fragments {
		if f.ValueMax < f.ValueMin {
			fail("fragment/%s: value_max < value_min", f.Type)
		}
		total += f.Weight
	}
	if len(cat.Fragments) > 0 && total <= 0 {
		fail("fragment weights sum to %.2f", total)
	}

	if cat.Tuning.QuestBatch > len(cat.Quests) {
		fail("quest_batch %d exceeds %d quest definitions", cat.Tuning.QuestBatch, len(cat.Quests))
	}

	return errors.Join(errs...)
}
