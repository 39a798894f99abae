package engine

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/fallingstars/starlight/internal/models"
)

func TestGenerateQuests(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()
	gs.Quests.SessionProgress[models.StatClicks] = 42

	active := e.GenerateQuests()
	if len(active) != 3 {
		t.Fatalf("got %d quests, want 3", len(active))
	}
	seen := map[string]bool{}
	for _, q := range active {
		if q.ID == "" {
			t.Error("quest without id")
		}
		if seen[q.Key] {
			t.Errorf("duplicate quest %s", q.Key)
		}
		seen[q.Key] = true
		if _, ok := e.Catalog().Quest(q.Key); !ok {
			t.Errorf("unknown quest %s", q.Key)
		}
	}
	if len(gs.Quests.SessionProgress) != 0 {
		t.Errorf("session progress not reset: %v", gs.Quests.SessionProgress)
	}
	if !gs.Quests.LastReset.Equal(e.Now()) {
		t.Errorf("last reset = %v", gs.Quests.LastReset)
	}
}

func TestQuestClaimExactlyOnce(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()
	gs.Quests.Active = []models.QuestInstance{{ID: "q1", Key: "build3"}}

	if _, err := e.ClaimQuestReward(0); !errors.Is(err, ErrQuestNotCompleted) {
		t.Fatalf("claim before completion: %v", err)
	}

	e.UpdateProgress(models.StatBuilds, 2)
	if gs.Quests.Active[0].Completed {
		t.Fatal("completed below requirement")
	}
	e.UpdateProgress(models.StatBuilds, 1)
	if !gs.Quests.Active[0].Completed {
		t.Fatal("not completed at requirement")
	}

	reward, err := e.ClaimQuestReward(0)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	want := models.Resources{Lumen: 500, Energy: 100}
	if reward != want || gs.Ledger.Balance != want {
		t.Errorf("reward %+v, balance %+v, want %+v", reward, gs.Ledger.Balance, want)
	}

	if _, err := e.ClaimQuestReward(0); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("second claim: %v", err)
	}
	if gs.Ledger.Balance != want {
		t.Errorf("second claim changed balance to %+v", gs.Ledger.Balance)
	}
	if _, err := e.ClaimQuestReward(5); !errors.Is(err, ErrUnknownQuest) {
		t.Errorf("out of range claim: %v", err)
	}
}

func TestPurchasesProgressBuildQuest(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()
	gs.Quests.Active = []models.QuestInstance{{ID: "q1", Key: "build3"}}
	gs.Ledger.Balance.Lumen = 1000

	for range 3 {
		if err := e.BuyBuilding("lumenMine"); err != nil {
			t.Fatalf("BuyBuilding: %v", err)
		}
	}
	if q := gs.Quests.Active[0]; !q.Completed || q.Progress != 3 {
		t.Errorf("quest = %+v", q)
	}
}

func TestCheckQuestReset(t *testing.T) {
	e, clock := newTestEngine(t)
	gs := e.State()
	e.GenerateQuests()
	first := slices.Clone(gs.Quests.Active)
	complete := func() {
		for i := range gs.Quests.Active {
			gs.Quests.Active[i].Completed = true
		}
	}

	complete()
	clock.Advance(5 * time.Minute)
	if e.CheckQuestReset() {
		t.Fatal("reset before interval")
	}

	gs.Quests.Active[0].Completed = false
	clock.Advance(11 * time.Minute)
	if e.CheckQuestReset() {
		t.Fatal("reset with an incomplete quest")
	}

	complete()
	if !e.CheckQuestReset() {
		t.Fatal("no reset after interval with all quests done")
	}
	for _, q := range gs.Quests.Active {
		if q.Completed {
			t.Errorf("new batch has completed quest %s", q.Key)
		}
		for _, old := range first {
			if q.ID == old.ID {
				t.Errorf("quest id %s reused", q.ID)
			}
		}
	}
}

func TestCheckAchievements(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()

	if got := e.CheckAchievements(); len(got) != 0 {
		t.Fatalf("fresh state unlocked %d achievements", len(got))
	}

	gs.Ledger.Balance.Energy = 5000
	if err := e.UnlockPlanet("mars"); err != nil {
		t.Fatalf("UnlockPlanet: %v", err)
	}
	got := e.CheckAchievements()
	if len(got) != 1 || got[0].Key != "colonizeMars" {
		t.Fatalf("unlocked %v, want [colonizeMars]", keys(got))
	}
	want := models.Resources{Lumen: 10000, Energy: 2000}
	if gs.Ledger.Balance != want {
		t.Errorf("balance = %+v, want %+v", gs.Ledger.Balance, want)
	}

	// reward lumen pushed lifetime past 1k; the mars reward is not granted again
	got = e.CheckAchievements()
	if len(got) != 1 || got[0].Key != "lumen1k" {
		t.Fatalf("second pass unlocked %v, want [lumen1k]", keys(got))
	}
	if got := e.CheckAchievements(); len(got) != 0 {
		t.Errorf("third pass unlocked %v", keys(got))
	}
	if !gs.Achievements["colonizeMars"] || !gs.Achievements["lumen1k"] {
		t.Errorf("achievements = %v", gs.Achievements)
	}
}

func TestAchievementCategories(t *testing.T) {
	tests := []struct {
		key   string
		setup func(gs *models.GameState)
	}{
		{"firstClick", func(gs *models.GameState) { gs.Stats.TotalClicks = 1 }},
		{"buildings10", func(gs *models.GameState) { gs.Stats.BuildingsBuilt = 10 }},
		{"firstTech", func(gs *models.GameState) { gs.Technologies["synergy"] = 1 }},
		{"energy10k", func(gs *models.GameState) { gs.Ledger.Lifetime.Energy = 10000 }},
		{"prestige5", func(gs *models.GameState) { gs.Prestige.Level = 5 }},
		{"allPlanets", func(gs *models.GameState) {
			for _, ps := range gs.Planets {
				ps.Unlocked = true
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			e, _ := newTestEngine(t)
			tt.setup(e.State())
			if !slices.Contains(keys(e.CheckAchievements()), tt.key) {
				t.Errorf("%s not unlocked", tt.key)
			}
		})
	}
}

func TestCheckMasteries(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()
	gs.Stats.TotalClicks = 1200
	gs.Stats.BuildingsBuilt = 35
	gs.Stats.TechsUnlocked = 100

	raised := e.CheckMasteries()
	if len(raised) != 3 {
		t.Fatalf("raised %v", raised)
	}
	want := map[string]int{models.MasteryClick: 2, models.MasteryBuild: 3, models.MasteryTech: 5}
	for key, lvl := range want {
		if gs.Masteries[key] != lvl {
			t.Errorf("%s = %d, want %d", key, gs.Masteries[key], lvl)
		}
	}
	if again := e.CheckMasteries(); len(again) != 0 {
		t.Errorf("second check raised %v", again)
	}

	// build mastery discounts the next building
	gs.Planet().Buildings["lumenMine"] = 0
	cost, _ := e.BuildingCost("lumenMine")
	if cost.Lumen != 9 {
		t.Errorf("discounted cost = %v, want 9", cost.Lumen)
	}
}

func TestCheckMilestones(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()

	// the starting mine counts toward the building track
	if got := milestoneIDs(e.CheckMilestones()); !slices.Equal(got, []string{"buildings_1"}) {
		t.Fatalf("fresh state reached %v, want [buildings_1]", got)
	}

	gs.Ledger.Credit(models.Resources{Lumen: 1000})
	if got := milestoneIDs(e.CheckMilestones()); !slices.Equal(got, []string{"lumen_100", "lumen_1000"}) {
		t.Fatalf("reached %v, want [lumen_100 lumen_1000]", got)
	}
	if gs.Ledger.Balance.Energy != 60 {
		t.Errorf("energy = %v, want 60 from both rewards", gs.Ledger.Balance.Energy)
	}
	if got := e.CheckMilestones(); len(got) != 0 {
		t.Errorf("second pass reached %v", milestoneIDs(got))
	}

	gs.Prestige.Level = 1
	gs.Stats.TotalClicks = 100
	got := milestoneIDs(e.CheckMilestones())
	if !slices.Equal(got, []string{"clicks_100", "prestige_1"}) {
		t.Errorf("reached %v, want [clicks_100 prestige_1]", got)
	}
	if gs.Ledger.Balance.Antimatter != 10 {
		t.Errorf("antimatter = %v, want 10", gs.Ledger.Balance.Antimatter)
	}
	if len(gs.Milestones) != 5 {
		t.Errorf("recorded milestones = %v", gs.Milestones)
	}
}

func milestoneIDs(defs []*models.MilestoneDef) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ID()
	}
	return out
}

func keys(defs []*models.AchievementDef) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Key
	}
	return out
}
