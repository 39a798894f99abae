package economy

import (
	"testing"
	"time"

	"github.com/fallingstars/starlight/internal/models"
)

func TestComputeOfflineEarnings(t *testing.T) {
	cfg := models.OfflineConfig{MaxWindow: 4 * time.Hour, BaseMultiplier: 0.5, NotifyAfter: time.Minute}
	rates := models.Resources{Lumen: 10, Energy: 0.5}

	tests := []struct {
		name       string
		elapsed    time.Duration
		multiplier float64
		want       models.Resources
		credited   time.Duration
		notify     bool
	}{
		{"nothing", 0, 0.5, models.Resources{}, 0, false},
		{"under threshold still paid", 30 * time.Second, 0.5, models.Resources{Lumen: 150, Energy: 7}, 30 * time.Second, false},
		{"one hour", time.Hour, 0.5, models.Resources{Lumen: 18000, Energy: 900}, time.Hour, true},
		{"clamped to window", 10 * time.Hour, 1, models.Resources{Lumen: 144000, Energy: 7200}, 4 * time.Hour, true},
		{"permanent upgrade", time.Hour, 0.75, models.Resources{Lumen: 27000, Energy: 1350}, time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOfflineEarnings(tt.elapsed, rates, tt.multiplier, cfg)
			if got.Granted != tt.want {
				t.Errorf("granted %+v, want %+v", got.Granted, tt.want)
			}
			if got.Credited != tt.credited {
				t.Errorf("credited %v, want %v", got.Credited, tt.credited)
			}
			if got.Notify != tt.notify {
				t.Errorf("notify %v, want %v", got.Notify, tt.notify)
			}
		})
	}
}
