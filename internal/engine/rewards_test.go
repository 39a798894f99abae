package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/fallingstars/starlight/internal/models"
)

func TestClaimDailyReward(t *testing.T) {
	e, clock := newTestEngine(t)
	gs := e.State()

	r, err := e.ClaimDailyReward()
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if r.Day != 1 || r.Reward != (models.Resources{Lumen: 100, Energy: 50}) {
		t.Errorf("day 1 = %+v", r)
	}

	clock.Advance(23 * time.Hour)
	if _, err := e.ClaimDailyReward(); !errors.Is(err, ErrOnCooldown) {
		t.Fatalf("claim inside 24h: %v", err)
	}

	clock.Advance(2 * time.Hour)
	r, err = e.ClaimDailyReward()
	if err != nil || r.Day != 2 || r.Reward.Lumen != 200 {
		t.Fatalf("day 2 = %+v, %v", r, err)
	}

	clock.Advance(49 * time.Hour)
	r, err = e.ClaimDailyReward()
	if err != nil || r.Day != 1 || r.Streak != 1 {
		t.Errorf("after a broken streak = %+v, %v", r, err)
	}
	if gs.DailyRewards.Streak != 1 {
		t.Errorf("stored streak = %d", gs.DailyRewards.Streak)
	}
}

func TestDailyRewardCycle(t *testing.T) {
	e, clock := newTestEngine(t)
	var last DailyReward
	for day := 1; day <= 8; day++ {
		r, err := e.ClaimDailyReward()
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if day == 7 {
			last = r
		}
		if day == 8 && r.Day != 1 {
			t.Errorf("day 8 maps to cycle day %d, want 1", r.Day)
		}
		clock.Advance(25 * time.Hour)
	}
	want := models.Resources{Lumen: 10000, Energy: 5000, Antimatter: 1}
	if last.Day != 7 || last.Reward != want {
		t.Errorf("day 7 = %+v, want %+v", last, want)
	}
}

func TestOpenFreeLootbox(t *testing.T) {
	e, clock := newTestEngine(t)

	r, err := e.OpenFreeLootbox()
	if err != nil {
		t.Fatalf("OpenFreeLootbox: %v", err)
	}
	if r.Lumen < 200 || r.Lumen > 999 || r.Energy < 50 || r.Energy > 199 {
		t.Errorf("reward out of range: %+v", r)
	}
	if e.State().Ledger.Balance != r {
		t.Errorf("balance %+v, want %+v", e.State().Ledger.Balance, r)
	}

	clock.Advance(14 * time.Minute)
	if _, err := e.OpenFreeLootbox(); !errors.Is(err, ErrOnCooldown) {
		t.Fatalf("second lootbox inside cooldown: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := e.OpenFreeLootbox(); err != nil {
		t.Fatalf("lootbox after cooldown: %v", err)
	}
}

func TestHoldPurchaseStopsWhenBroke(t *testing.T) {
	e, _ := newTestEngine(t)
	gs := e.State()
	gs.Planet().Buildings["lumenMine"] = 0
	gs.Ledger.Balance.Lumen = 10 + 11 + 13

	limiter := rate.NewLimiter(rate.Inf, 1)
	n, err := HoldPurchase(context.Background(), limiter, 0, func() error { return e.BuyBuilding("lumenMine") })
	if !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("err = %v, want insufficient resources", err)
	}
	if n != 3 || gs.Planet().Buildings["lumenMine"] != 3 {
		t.Errorf("bought %d, level %d, want 3", n, gs.Planet().Buildings["lumenMine"])
	}
	if gs.Ledger.Balance.Lumen != 0 {
		t.Errorf("balance = %v", gs.Ledger.Balance.Lumen)
	}
}

func TestHoldPurchaseLimitAndCancel(t *testing.T) {
	calls := 0
	buy := func() error { calls++; return nil }

	n, err := HoldPurchase(context.Background(), rate.NewLimiter(rate.Inf, 1), 2, buy)
	if err != nil || n != 2 {
		t.Fatalf("limited hold = %d, %v", n, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err = HoldPurchase(ctx, NewHoldLimiter(time.Hour), 0, buy)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Errorf("cancelled hold = %d, %v", n, err)
	}
	if calls != 2 {
		t.Errorf("buy called %d times, want 2", calls)
	}
}
