package models_test

import (
	"math"
	"testing"
	"time"

	"github.com/fallingstars/starlight/internal/loader"
	"github.com/fallingstars/starlight/internal/models"
)

func TestLedgerCreditDebit(t *testing.T) {
	var l models.Ledger
	l.Credit(models.Resources{Lumen: 100, Energy: 5})
	l.Credit(models.Resources{Lumen: -50, Energy: math.NaN()})

	if l.Balance.Lumen != 100 || l.Balance.Energy != 5 {
		t.Fatalf("balance = %+v, negative or NaN credits must be ignored", l.Balance)
	}

	if l.Debit(models.Resources{Lumen: 60, Energy: 6}) {
		t.Fatal("debit succeeded without enough energy")
	}
	if l.Balance.Lumen != 100 {
		t.Fatalf("failed debit touched the balance: %+v", l.Balance)
	}

	if !l.Debit(models.Resources{Lumen: 60, Energy: 5}) {
		t.Fatal("affordable debit failed")
	}
	if l.Balance != (models.Resources{Lumen: 40}) {
		t.Errorf("balance = %+v", l.Balance)
	}
	if l.Lifetime != (models.Resources{Lumen: 100, Energy: 5}) {
		t.Errorf("lifetime = %+v, debits must not reduce it", l.Lifetime)
	}

	if l.Debit(models.Resources{Lumen: 5, Energy: -100}) {
		t.Error("debit with a negative component succeeded")
	}
	if l.Balance != (models.Resources{Lumen: 40}) {
		t.Errorf("negative debit changed the balance: %+v", l.Balance)
	}

	l.Zero()
	if !l.Balance.IsZero() || l.Lifetime.Lumen != 100 {
		t.Errorf("Zero() = %+v / %+v", l.Balance, l.Lifetime)
	}
}

func TestResourcesArithmetic(t *testing.T) {
	a := models.Resources{Lumen: 1.5, Energy: 2, Antimatter: 0.25}
	b := models.Resources{Lumen: 2, Energy: 3, Antimatter: 4}

	tests := []struct {
		name string
		got  models.Resources
		want models.Resources
	}{
		{"add", a.Add(b), models.Resources{Lumen: 3.5, Energy: 5, Antimatter: 4.25}},
		{"sub", b.Sub(a), models.Resources{Lumen: 0.5, Energy: 1, Antimatter: 3.75}},
		{"scale", a.Scale(2), models.Resources{Lumen: 3, Energy: 4, Antimatter: 0.5}},
		{"mul", a.Mul(b), models.Resources{Lumen: 3, Energy: 6, Antimatter: 1}},
		{"floor", a.Floor(), models.Resources{Lumen: 1, Energy: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}

	var r models.Resources
	for _, rt := range models.AllResourceTypes() {
		r.Set(rt, 7)
		if r.Get(rt) != 7 {
			t.Errorf("Get(%s) after Set = %v", rt, r.Get(rt))
		}
	}
}

func TestNewGameState(t *testing.T) {
	cat := loader.Default()
	gs := models.NewGameState(cat)

	if gs.CurrentPlanet != "earth" {
		t.Errorf("current planet = %q", gs.CurrentPlanet)
	}
	if !gs.Planets["earth"].Unlocked || gs.Planets["mars"].Unlocked {
		t.Error("only the starting planet should be unlocked")
	}
	if gs.Planet().Buildings["lumenMine"] != 1 {
		t.Errorf("starting lumenMine = %d, want 1", gs.Planet().Buildings["lumenMine"])
	}
	if gs.ClickPower != cat.Tuning.BaseClickPower {
		t.Errorf("click power = %v", gs.ClickPower)
	}
	if gs.Combo.Multiplier != 1 || gs.OfflineMultiplier != 1 {
		t.Error("multipliers must start at 1")
	}
	for _, b := range cat.Buildings {
		for key, p := range gs.Planets {
			if _, ok := p.Buildings[b.Key]; !ok {
				t.Errorf("planet %s missing building %s", key, b.Key)
			}
		}
	}
	if gs.UnlockedPlanets() != 1 || gs.TechCount() != 0 {
		t.Errorf("unlocked=%d techs=%d", gs.UnlockedPlanets(), gs.TechCount())
	}
}

func TestNormalizeKeepsPresentValues(t *testing.T) {
	cat := loader.Default()
	gs := &models.GameState{
		CurrentPlanet: "nowhere",
		Planets: map[string]*models.PlanetState{
			"earth": {Unlocked: true, Buildings: map[string]int{"lumenMine": 7}},
		},
		Technologies: map[string]int{"automationI": 1},
		ClickPower:   42,
	}
	gs.Normalize(cat)

	if gs.CurrentPlanet != "earth" {
		t.Errorf("unknown current planet not reset: %q", gs.CurrentPlanet)
	}
	if gs.Planets["earth"].Buildings["lumenMine"] != 7 {
		t.Error("present building level overwritten")
	}
	if _, ok := gs.Planets["titan"]; !ok {
		t.Error("missing planet not backfilled")
	}
	if gs.Technologies["automationI"] != 1 || gs.TechCount() != 1 {
		t.Error("present technology overwritten")
	}
	if gs.ClickPower != 42 {
		t.Errorf("click power = %v, want 42", gs.ClickPower)
	}
	if gs.Defense == nil || gs.Masteries == nil || gs.Achievements == nil || gs.Quests.SessionProgress == nil {
		t.Error("nil maps not backfilled")
	}
	if gs.Combo.Multiplier != 1 || gs.OfflineMultiplier != 1 {
		t.Error("zero multipliers not backfilled")
	}
	if gs.Milestones == nil || gs.Companions.Unlocked == nil || gs.Companions.LastCollect == nil {
		t.Error("milestone or companion state not backfilled")
	}
}

func TestNormalizeDropsUnownedCompanion(t *testing.T) {
	gs := &models.GameState{Companions: models.CompanionState{Active: "cometCub"}}
	gs.Normalize(loader.Default())
	if gs.Companions.Active != "" {
		t.Errorf("active companion = %q, want none", gs.Companions.Active)
	}

	gs.Companions = models.CompanionState{Unlocked: []string{"cometCub"}, Active: "cometCub"}
	gs.Normalize(loader.Default())
	if gs.Companions.Active != "cometCub" {
		t.Errorf("owned active companion dropped")
	}
}

func TestMilestoneID(t *testing.T) {
	tests := []struct {
		def  models.MilestoneDef
		want string
	}{
		{models.MilestoneDef{Track: models.TrackLumen, Value: 1000}, "lumen_1000"},
		{models.MilestoneDef{Track: models.TrackLumen, Value: 10000000}, "lumen_10000000"},
		{models.MilestoneDef{Track: models.TrackPrestige, Value: 1}, "prestige_1"},
	}
	for _, tt := range tests {
		if got := tt.def.ID(); got != tt.want {
			t.Errorf("ID() = %q, want %q", got, tt.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	cat := loader.Default()
	gs := models.NewGameState(cat)
	gs.Boosts = []models.Boost{{Key: "production2x", Multiplier: 2}}
	gs.Quests.Active = []models.QuestInstance{{Key: "click100"}}
	gs.Events = []models.ActiveEvent{{Key: "starRain", Multiplier: 2}}
	gs.Companions.Unlocked = []string{"cometCub"}

	c := gs.Clone()
	c.Events[0].Multiplier = 9
	c.Companions.Unlocked[0] = "quasarOwl"
	c.Companions.LastCollect["cometCub"] = time.Unix(1, 0)
	c.Milestones = append(c.Milestones, "lumen_100")
	c.Planet().Buildings["lumenMine"] = 50
	c.Technologies["automationI"] = 1
	c.Achievements["firstClick"] = true
	c.Boosts[0].Multiplier = 9
	c.Quests.Active[0].Progress = 99
	c.Quests.SessionProgress[models.StatClicks] = 5
	c.Ledger.Balance.Lumen = 1e6

	if gs.Planet().Buildings["lumenMine"] != 1 ||
		gs.Technologies["automationI"] != 0 ||
		gs.Achievements["firstClick"] ||
		gs.Boosts[0].Multiplier != 2 ||
		gs.Quests.Active[0].Progress != 0 ||
		gs.Quests.SessionProgress[models.StatClicks] != 0 ||
		gs.Ledger.Balance.Lumen != 0 ||
		gs.Events[0].Multiplier != 2 ||
		gs.Companions.Unlocked[0] != "cometCub" ||
		len(gs.Companions.LastCollect) != 0 ||
		len(gs.Milestones) != 0 {
		t.Error("mutating the clone changed the original")
	}
}
