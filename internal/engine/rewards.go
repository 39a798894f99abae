package engine

import (
	"fmt"
	"time"

	"github.com/fallingstars/starlight/internal/models"
)

const (
	dailyCooldown = 24 * time.Hour
	streakWindow  = 48 * time.Hour
)

var (
	dailyLumen  = [7]float64{100, 200, 500, 1000, 2000, 5000, 10000}
	dailyEnergy = [7]float64{50, 100, 250, 500, 1000, 2500, 5000}
)

// DailyReward is a claimed login reward
type DailyReward struct {
	Day    int
	Streak int
	Reward models.Resources
}

// DailyRewardFor returns the reward for a day of the 7-day cycle (1..7)
func DailyRewardFor(day int) models.Resources {
	i := (day - 1) % 7
	r := models.Resources{Lumen: dailyLumen[i], Energy: dailyEnergy[i]}
	if i == 6 {
		r.Antimatter = 1
	}
	return r
}

// ClaimDailyReward grants today's login reward. Claims are 24h apart; a
// gap longer than 48h restarts the streak.
func (e *Engine) ClaimDailyReward() (DailyReward, error) {
	d := &e.state.DailyRewards
	now := e.now()
	if !d.LastClaim.IsZero() {
		since := now.Sub(d.LastClaim)
		if since < dailyCooldown {
			return DailyReward{}, fmt.Errorf("%w: daily reward in %s", ErrOnCooldown, (dailyCooldown - since).Round(time.Second))
		}
		if since > streakWindow {
			d.Streak = 0
		}
	}

	d.Streak++
	d.LastClaim = now
	day := (d.Streak-1)%7 + 1
	reward := DailyRewardFor(day)
	e.credit(reward)
	e.signal(SignalSuccess)
	return DailyReward{Day: day, Streak: d.Streak, Reward: reward}, nil
}

// OpenFreeLootbox grants a random lumen and energy bundle on a cooldown
func (e *Engine) OpenFreeLootbox() (models.Resources, error) {
	gs := e.state
	now := e.now()
	if !gs.FreeLootboxAt.IsZero() {
		if wait := e.cat.Tuning.LootboxCooldown - now.Sub(gs.FreeLootboxAt); wait > 0 {
			return models.Resources{}, fmt.Errorf("%w: free lootbox in %s", ErrOnCooldown, wait.Round(time.Second))
		}
	}

	reward := models.Resources{
		Lumen:  float64(200 + e.rng.IntN(800)),
		Energy: float64(50 + e.rng.IntN(150)),
	}
	gs.FreeLootboxAt = now
	e.credit(reward)
	e.signal(SignalSuccess)
	return reward, nil
}
