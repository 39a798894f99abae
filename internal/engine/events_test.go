package engine

import (
	"errors"
	"testing"
	"time"
)

func TestActivateEvent(t *testing.T) {
	e, clock := newTestEngine(t)
	gs := e.State()
	base := e.Production()

	if err := e.ActivateEvent("starRain"); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("event without energy: %v", err)
	}
	if err := e.ActivateEvent("meteorShower"); !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("unknown event: %v", err)
	}

	gs.Ledger.Balance.Energy = 1000
	if err := e.ActivateEvent("starRain"); err != nil {
		t.Fatalf("ActivateEvent: %v", err)
	}
	if gs.Ledger.Balance.Energy != 0 {
		t.Errorf("energy = %v, want 0", gs.Ledger.Balance.Energy)
	}
	got := e.Production()
	if !approx(got.Lumen, 2*base.Lumen) || got.Energy != base.Energy {
		t.Errorf("production during star rain = %+v, base %+v", got, base)
	}

	clock.Advance(time.Hour + time.Second)
	e.Tick(100 * time.Millisecond)
	if len(gs.Events) != 0 {
		t.Errorf("expired event not pruned: %+v", gs.Events)
	}
	if got := e.Production(); !approx(got.Lumen, base.Lumen) {
		t.Errorf("production after expiry = %v, want %v", got.Lumen, base.Lumen)
	}
}

func TestSpawnRateFollowsDefenseAndEvents(t *testing.T) {
	e, clock := newTestEngine(t)
	gs := e.State()

	if got := e.FragmentSpawnRate(); got != 1 {
		t.Fatalf("base spawn rate = %v, want 1", got)
	}

	gs.Defense["fragmentRate"] = 5
	gs.Ledger.Balance.Energy = 500
	if err := e.ActivateEvent("superSpawn"); err != nil {
		t.Fatalf("ActivateEvent: %v", err)
	}
	if got := e.FragmentSpawnRate(); !approx(got, 3) {
		t.Errorf("spawn rate = %v, want 3", got)
	}

	clock.Advance(5 * time.Minute)
	if got := e.FragmentSpawnRate(); !approx(got, 1.5) {
		t.Errorf("spawn rate after the event = %v, want 1.5", got)
	}
}

func TestDropFragmentsWithoutCompanion(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()

	if rep := e.DropFragments(0); rep.Spawned != 0 {
		t.Fatalf("zero step spawned %d", rep.Spawned)
	}

	rep := e.DropFragments(2500 * time.Millisecond)
	if rep.Spawned != 2 || rep.Missed != 2 || rep.Collected != 0 {
		t.Fatalf("report = %+v, want 2 spawned and missed", rep)
	}
	if gs.Combo.Missed != 2 {
		t.Errorf("combo misses = %d, want 2", gs.Combo.Missed)
	}

	// the half fragment carried over completes here
	rep = e.DropFragments(500 * time.Millisecond)
	if rep.Spawned != 1 {
		t.Errorf("carry-over spawned %d, want 1", rep.Spawned)
	}
	if gs.Combo.Missed != 0 {
		t.Errorf("third miss should have reset the combo, misses = %d", gs.Combo.Missed)
	}
	if gs.Ledger.Lifetime.Lumen != 0 {
		t.Errorf("uncaught fragments credited %v lumen", gs.Ledger.Lifetime.Lumen)
	}
}

func TestUnlockCompanion(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()

	if err := e.UnlockCompanion("cometCub"); !errors.Is(err, ErrPrerequisiteNotMet) {
		t.Fatalf("unlock below prestige level: %v", err)
	}
	gs.Prestige.Level = 1
	if err := e.UnlockCompanion("cometCub"); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("unlock without antimatter: %v", err)
	}

	base := e.Production()
	gs.Ledger.Balance.Antimatter = 10
	if err := e.UnlockCompanion("cometCub"); err != nil {
		t.Fatalf("UnlockCompanion: %v", err)
	}
	if gs.Companions.Active != "cometCub" || gs.Ledger.Balance.Antimatter != 0 {
		t.Errorf("companions = %+v, antimatter %v", gs.Companions, gs.Ledger.Balance.Antimatter)
	}
	if got := e.Production().Lumen; !approx(got, base.Lumen*1.05) {
		t.Errorf("lumen/s with companion = %v, want %v", got, base.Lumen*1.05)
	}

	if err := e.UnlockCompanion("cometCub"); !errors.Is(err, ErrCompanionOwned) {
		t.Errorf("second unlock: %v", err)
	}
	if err := e.ActivateCompanion("nebulaFox"); !errors.Is(err, ErrCompanionLocked) {
		t.Errorf("activate unowned companion: %v", err)
	}
	if err := e.UnlockCompanion("ghost"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("unknown companion: %v", err)
	}
}

func TestCompanionCollectsFallingFragments(t *testing.T) {
	e, clock := newTestEngine(t)
	gs := e.State()
	gs.Prestige.Level = 1
	gs.Ledger.Balance.Antimatter = 10
	if err := e.UnlockCompanion("cometCub"); err != nil {
		t.Fatalf("UnlockCompanion: %v", err)
	}

	// interval has not elapsed since activation
	rep := e.DropFragments(time.Second)
	if rep.Collected != 0 || rep.Missed != 1 {
		t.Fatalf("report before interval = %+v", rep)
	}

	clock.Advance(5 * time.Second)
	rep = e.DropFragments(2 * time.Second)
	if rep.Spawned != 2 || rep.Collected != 1 || rep.Missed != 1 {
		t.Fatalf("report = %+v, want 1 collected and 1 missed", rep)
	}
	if rep.Lumen <= 0 || gs.Stats.FragmentsCaught != 1 {
		t.Errorf("collection credited %v lumen, caught %d", rep.Lumen, gs.Stats.FragmentsCaught)
	}
	if !gs.Companions.LastCollect["cometCub"].Equal(e.Now()) {
		t.Errorf("last collect = %v", gs.Companions.LastCollect["cometCub"])
	}
}
