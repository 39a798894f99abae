package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// migration rewrites a decoded game object from one version to the next
type migration func(game map[string]any) error

var migrations = map[int]migration{
	1: migrateV1,
}

// Migrate upgrades a decoded game object in place from version from to
// CurrentVersion, one step at a time
func Migrate(game map[string]any, from int) error {
	if from < 1 || from > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, from)
	}
	for v := from; v < CurrentVersion; v++ {
		m, ok := migrations[v]
		if !ok {
			return fmt.Errorf("%w: no migration from %d", ErrUnsupportedVersion, v)
		}
		if err := m(game); err != nil {
			return fmt.Errorf("migrate v%d: %w", v, err)
		}
	}
	return nil
}

var legacyBoostTypes = map[string]string{
	"production": "production",
	"clickPower": "click_power",
	"autoClick":  "auto_click",
}

// migrateV1 converts the legacy layout: top-level resources and
// totalResources, millisecond timestamps, effect-shaped boosts and the
// nested artifact and permanent boost objects
func migrateV1(g map[string]any) error {
	ledger := map[string]any{}
	if r, ok := g["resources"]; ok {
		ledger["balance"] = r
	}
	if r, ok := g["totalResources"]; ok {
		ledger["lifetime"] = r
	}
	delete(g, "resources")
	delete(g, "totalResources")
	g["ledger"] = ledger

	moveMillis(g, "lastTick", "lastTick")
	if combo, ok := g["combo"].(map[string]any); ok {
		moveMillis(combo, "lastClick", "lastCapture")
	}
	if d, ok := g["dailyRewards"].(map[string]any); ok {
		moveMillis(d, "lastClaim", "lastClaim")
	}
	if fl, ok := g["freeLootbox"].(map[string]any); ok {
		moveMillis(fl, "lastOpen", "at")
		if at, ok := fl["at"]; ok {
			g["freeLootboxAt"] = at
		}
		delete(g, "freeLootbox")
	}
	if st, ok := g["stats"].(map[string]any); ok {
		if ms, ok := st["timePlayed"].(float64); ok {
			st["timePlayed"] = int64(ms) * int64(time.Millisecond)
		}
	}

	if q, ok := g["quests"].(map[string]any); ok {
		moveMillis(q, "lastReset", "lastReset")
		delete(q, "daily")
		if active, ok := q["active"].([]any); ok {
			for _, item := range active {
				if inst, ok := item.(map[string]any); ok {
					if _, ok := inst["id"]; !ok {
						inst["id"] = uuid.NewString()
					}
				}
			}
		}
	}

	if list, ok := g["activeBoosts"].([]any); ok {
		boosts := make([]any, 0, len(list))
		for _, item := range list {
			b, ok := item.(map[string]any)
			if !ok {
				continue
			}
			end, _ := b["endTime"].(float64)
			if end <= 0 {
				continue
			}
			eff, _ := b["effect"].(map[string]any)
			typ, _ := eff["type"].(string)
			if mapped, ok := legacyBoostTypes[typ]; ok {
				typ = mapped
			}
			mult := 1.0
			if m, ok := eff["multiplier"].(float64); ok {
				mult = m
			} else if v, ok := eff["value"].(float64); ok {
				mult = v
			}
			boosts = append(boosts, map[string]any{
				"key":        b["key"],
				"type":       typ,
				"multiplier": mult,
				"expiresAt":  millisToTime(end),
			})
		}
		g["activeBoosts"] = boosts
	}

	if list, ok := g["activeEvents"].([]any); ok {
		events := make([]any, 0, len(list))
		for _, item := range list {
			ev, ok := item.(map[string]any)
			if !ok {
				continue
			}
			end, _ := ev["endTime"].(float64)
			if end <= 0 {
				continue
			}
			eff, _ := ev["effect"].(map[string]any)
			mult, _ := eff["multiplier"].(float64)
			out := map[string]any{
				"key":        ev["key"],
				"multiplier": mult,
				"expiresAt":  millisToTime(end),
			}
			if res, ok := eff["resource"].(string); ok {
				out["effect"] = "resource"
				out["resource"] = res
			} else {
				out["effect"] = "spawn_rate"
			}
			events = append(events, out)
		}
		g["activeEvents"] = events
	}

	if c, ok := g["companions"].(map[string]any); ok {
		if last, ok := c["lastCollect"].(map[string]any); ok {
			for key := range last {
				moveMillis(last, key, key)
			}
		}
		if c["active"] == nil {
			c["active"] = ""
		}
	}

	if pb, ok := g["permanentBoosts"].(map[string]any); ok {
		if m, ok := pb["offlineBonus"].(float64); ok && m > 0 {
			g["offlineMultiplier"] = m
		}
		delete(g, "permanentBoosts")
	}

	if a, ok := g["artifacts"].(map[string]any); ok {
		if discovered, ok := a["discovered"].([]any); ok {
			g["artifacts"] = discovered
		} else {
			g["artifacts"] = []any{}
		}
	}
	return nil
}

// moveMillis replaces a millisecond epoch field with an RFC 3339 time under
// to. Zero or missing timestamps are dropped.
func moveMillis(m map[string]any, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	ms, isNum := v.(float64)
	if !isNum {
		return
	}
	delete(m, from)
	if ms > 0 {
		m[to] = millisToTime(ms)
	}
}

func millisToTime(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339Nano)
}
