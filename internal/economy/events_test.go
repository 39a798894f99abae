package economy

import (
	"testing"
	"time"

	"github.com/fallingstars/starlight/internal/loader"
	"github.com/fallingstars/starlight/internal/models"
)

func TestFragmentSpawnRate(t *testing.T) {
	cat := loader.Default()
	now := time.Unix(1000, 0)
	spawn := models.ActiveEvent{Key: "superSpawn", Effect: models.EventSpawnRate, Multiplier: 2, ExpiresAt: now.Add(time.Minute)}
	lumen := models.ActiveEvent{Key: "starRain", Effect: models.EventResource, Resource: models.Lumen, Multiplier: 2, ExpiresAt: now.Add(time.Minute)}

	tests := []struct {
		name    string
		defense map[string]int
		events  []models.ActiveEvent
		want    float64
	}{
		{"base", nil, nil, 1},
		{"attractor level 3", map[string]int{"fragmentRate": 3}, nil, 1.3},
		{"spawn event", nil, []models.ActiveEvent{spawn}, 2},
		{"attractor and event", map[string]int{"fragmentRate": 5}, []models.ActiveEvent{spawn}, 3},
		{"resource event ignored", nil, []models.ActiveEvent{lumen}, 1},
		{"expired event", nil, []models.ActiveEvent{{Effect: models.EventSpawnRate, Multiplier: 2, ExpiresAt: now}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FragmentSpawnRate(cat, tt.defense, tt.events, now); !approx(got, tt.want) {
				t.Errorf("FragmentSpawnRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyEvents(t *testing.T) {
	now := time.Unix(1000, 0)
	base := models.Resources{Lumen: 10, Energy: 4}
	events := []models.ActiveEvent{
		{Effect: models.EventResource, Resource: models.Energy, Multiplier: 2, ExpiresAt: now.Add(time.Hour)},
		{Effect: models.EventResource, Resource: models.Lumen, Multiplier: 3, ExpiresAt: now.Add(-time.Second)},
		{Effect: models.EventSpawnRate, Multiplier: 5, ExpiresAt: now.Add(time.Hour)},
	}

	got := ApplyEvents(base, events, now)
	if got != (models.Resources{Lumen: 10, Energy: 8}) {
		t.Errorf("ApplyEvents() = %+v", got)
	}
	if base.Energy != 4 {
		t.Error("input production mutated")
	}
}

func TestCompanionBonus(t *testing.T) {
	cat := loader.Default()
	if got := CompanionBonus(cat, models.CompanionState{}); got != 1 {
		t.Errorf("no companion = %v, want 1", got)
	}
	if got := CompanionBonus(cat, models.CompanionState{Active: "nebulaFox"}); got != 1.1 {
		t.Errorf("nebulaFox = %v, want 1.1", got)
	}
	if got := CompanionBonus(cat, models.CompanionState{Active: "ghost"}); got != 1 {
		t.Errorf("unknown companion = %v, want 1", got)
	}
}
