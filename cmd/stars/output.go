package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/fallingstars/starlight/internal/advisor"
	"github.com/fallingstars/starlight/internal/economy"
	"github.com/fallingstars/starlight/internal/engine"
	"github.com/fallingstars/starlight/internal/models"
)

var amountSuffixes = []string{"", "K", "M", "B", "T", "Q", "Qt"}

func printBanner() {
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  ✦  Falling Stars  ✦      │")
	titleColor.Println("│  Idle Economy Engine      │")
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()
}

func printStatus(e *engine.Engine) {
	infoColor := color.New(color.FgYellow)
	gs := e.State()
	cat := e.Catalog()
	rates := e.Production()

	planetName := gs.CurrentPlanet
	if def, ok := cat.Planet(gs.CurrentPlanet); ok {
		planetName = def.Name
	}
	infoColor.Printf("🪐 %s | prestige %d | played %s\n", planetName, gs.Prestige.Level, formatDuration(gs.Stats.TimePlayed))
	fmt.Printf("   %s\n", stateSummary(gs))
	fmt.Printf("   Production: %s/s | Click power: %s", formatResources(rates), formatAmount(e.ClickPower()))
	if c := e.Combo(); c.Count > 1 {
		fmt.Printf(" | Combo %d (x%.1f)", c.Count, c.Multiplier)
	}
	fmt.Println()
	fmt.Println()

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Kind", "Name", "Level", "Next cost", ""}),
	)
	addRow := func(kind models.EntryKind, entry *models.Entry, level int, cost models.Resources) {
		if level == 0 && !economy.MeetsRequirement(entry.Requires, gs.Technologies, gs.Planet().Buildings) {
			return
		}
		mark := ""
		switch {
		case level >= entry.MaxLevel:
			mark = "max"
		case gs.Ledger.CanAfford(cost):
			mark = "✓"
		}
		_ = table.Append([]string{
			string(kind), entry.Name,
			fmt.Sprintf("%d/%d", level, entry.MaxLevel),
			formatResources(cost), mark,
		})
	}
	for _, b := range cat.Buildings {
		cost, _ := e.BuildingCost(b.Key)
		addRow(models.KindBuilding, &b.Entry, gs.Planet().Buildings[b.Key], cost)
	}
	for _, t := range cat.Technologies {
		cost, _ := e.TechnologyCost(t.Key)
		addRow(models.KindTechnology, &t.Entry, gs.Technologies[t.Key], cost)
	}
	for _, d := range cat.Defenses {
		cost, _ := e.DefenseCost(d.Key)
		addRow(models.KindDefense, &d.Entry, gs.Defense[d.Key], cost)
	}
	_ = table.Render()
}

func printLedgerLine(e *engine.Engine) {
	fmt.Printf("💾 %s | %s/s\n", stateSummary(e.State()), formatResources(e.Production()))
}

func printOffline(o economy.OfflineEarnings) {
	infoColor := color.New(color.FgYellow)
	infoColor.Printf("🌙 Away for %s", formatDuration(o.Elapsed))
	if o.Credited < o.Elapsed {
		infoColor.Printf(" (credited %s)", formatDuration(o.Credited))
	}
	infoColor.Printf(": +%s\n", formatResources(o.Granted))
}

func printPrestige(info engine.PrestigeInfo) {
	infoColor := color.New(color.FgYellow)
	infoColor.Printf("🌟 Prestige level %d (+%.0f%% production), %s\n", info.Level, info.BonusPercent, info.Phase)
	if info.Level >= info.MaxLevel {
		fmt.Println("   Maximum level reached")
		return
	}
	fmt.Printf("   Lifetime lumen: %s / %s (%.1f%%)\n",
		formatAmount(info.Earned), formatAmount(info.Requirement), info.Progress*100)
	fmt.Printf("   Next level %d grants +%.0f%% production\n", info.NextLevel, info.NextBonusPercent)
}

func printQuests(e *engine.Engine) {
	gs := e.State()
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Quest", "Progress", "Reward", "State"}),
	)
	for i, q := range gs.Quests.Active {
		def, ok := e.Catalog().Quest(q.Key)
		if !ok {
			continue
		}
		state := ""
		switch {
		case q.Claimed:
			state = "claimed"
		case q.Completed:
			state = "ready"
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			def.Name,
			fmt.Sprintf("%s/%s", formatAmount(math.Min(q.Progress, def.Requirement)), formatAmount(def.Requirement)),
			formatResources(def.Reward),
			state,
		})
	}
	_ = table.Render()
	if !gs.Quests.LastReset.IsZero() {
		next := gs.Quests.LastReset.Add(e.Catalog().Tuning.QuestReset)
		if wait := next.Sub(e.Now()); wait > 0 {
			fmt.Printf("\n   New quests in %s once all are complete\n", formatDuration(wait))
		}
	}
}

func printAchievements(e *engine.Engine) {
	gs := e.State()
	cat := e.Catalog()
	successColor := color.New(color.FgGreen)

	unlocked := 0
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"", "Achievement", "Category", "Reward"}),
	)
	for _, a := range cat.Achievements {
		mark := " "
		if gs.Achievements[a.Key] {
			mark = "✓"
			unlocked++
		}
		_ = table.Append([]string{mark, a.Name, string(a.Category), formatResources(a.Reward)})
	}
	_ = table.Render()
	successColor.Printf("\n✓ %d/%d unlocked\n\n", unlocked, len(cat.Achievements))

	fmt.Println("📈 Masteries:")
	for _, m := range cat.Masteries {
		fmt.Printf("   • %-16s level %d/%d (%s: %s)\n",
			m.Name, gs.Masteries[m.Key], m.MaxLevel, m.Stat, formatAmount(gs.Stats.Get(m.Stat)))
	}

	fmt.Printf("\n🎉 Milestones: %d/%d reached\n", len(gs.Milestones), len(cat.Milestones))
	for _, m := range cat.Milestones {
		if gs.MilestoneReached(m.ID()) {
			fmt.Printf("   ✓ %-24s %s %s\n", m.Title, m.Track, formatAmount(m.Value))
		}
	}
}

func printBoosts(e *engine.Engine) {
	gs := e.State()
	now := e.Now()
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Key", "Boost", "Effect", "Cost", "Active"}),
	)
	for _, b := range e.Catalog().Boosts {
		active := ""
		for _, ab := range gs.Boosts {
			if ab.Key == b.Key && ab.ActiveAt(now) {
				active = formatDuration(ab.ExpiresAt.Sub(now))
			}
		}
		dur := "permanent"
		if !b.Permanent {
			dur = formatDuration(b.Duration)
		}
		_ = table.Append([]string{
			b.Key, b.Name,
			fmt.Sprintf("%s x%.1f, %s", b.Type, b.Multiplier, dur),
			formatResources(b.Cost), active,
		})
	}
	_ = table.Render()
	fmt.Printf("\n   Offline multiplier: x%.2f\n", e.Catalog().Tuning.Offline.BaseMultiplier*gs.OfflineMultiplier)
}

func printEvents(e *engine.Engine) {
	gs := e.State()
	now := e.Now()
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Key", "Event", "Effect", "Cost", "Active"}),
	)
	for _, ev := range e.Catalog().Events {
		active := ""
		for _, ae := range gs.Events {
			if ae.Key == ev.Key && ae.ActiveAt(now) {
				active = formatDuration(ae.ExpiresAt.Sub(now))
			}
		}
		target := string(ev.Effect)
		if ev.Effect == models.EventResource {
			target = string(ev.Resource)
		}
		_ = table.Append([]string{
			ev.Key, ev.Name,
			fmt.Sprintf("%s x%.1f, %s", target, ev.Multiplier, formatDuration(ev.Duration)),
			formatResources(ev.Cost), active,
		})
	}
	_ = table.Render()
	fmt.Printf("\n   Fragment spawn rate: %.2f/s\n", e.FragmentSpawnRate())
}

func printCompanions(e *engine.Engine) {
	gs := e.State()
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Key", "Companion", "Prestige", "Collects", "Bonus", "Cost", ""}),
	)
	for _, cp := range e.Catalog().Companions {
		mark := ""
		switch {
		case gs.Companions.Active == cp.Key:
			mark = "active"
		case gs.Companions.Owns(cp.Key):
			mark = "owned"
		case gs.Prestige.Level < cp.UnlockLevel:
			mark = "locked"
		}
		_ = table.Append([]string{
			cp.Key, cp.Name, fmt.Sprint(cp.UnlockLevel),
			fmt.Sprintf("%d every %s", cp.CollectAmount, cp.CollectInterval),
			fmt.Sprintf("x%.2f", cp.BonusMultiplier),
			formatResources(cp.Cost), mark,
		})
	}
	_ = table.Render()
}

func printPlanets(e *engine.Engine) {
	gs := e.State()
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"", "Key", "Planet", "Bonus", "Unlock cost"}),
	)
	for _, p := range e.Catalog().Planets {
		mark := ""
		switch {
		case p.Key == gs.CurrentPlanet:
			mark = "▶"
		case gs.Planets[p.Key] != nil && gs.Planets[p.Key].Unlocked:
			mark = "✓"
		}
		_ = table.Append([]string{
			mark, p.Key, p.Name,
			fmt.Sprintf("x%.1f lumen, x%.1f energy", p.Bonus.Lumen, p.Bonus.Energy),
			formatResources(p.UnlockCost),
		})
	}
	_ = table.Render()
}

func printNextPurchase(ranked []advisor.Candidate) {
	if len(ranked) == 0 {
		fmt.Println("none")
		return
	}
	c := ranked[0]
	fmt.Printf("%s:%s:%d\n", c.Kind, c.Key, c.ToLevel)
}

func printCandidates(ranked []advisor.Candidate) {
	if len(ranked) == 0 {
		color.Yellow("Nothing left to buy")
		return
	}
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Purchase", "Cost", "Gain/s", "Payback", "Wait"}),
	)
	for i, c := range ranked {
		payback := "-"
		if p := c.PaybackSeconds(); !math.IsInf(p, 1) {
			payback = formatDuration(time.Duration(p * float64(time.Second)))
		}
		gain := "-"
		if !c.Gain.IsZero() {
			gain = formatResources(c.Gain)
		}
		wait := "now"
		switch {
		case math.IsInf(c.WaitSeconds, 1):
			wait = "never"
		case !c.Affordable:
			wait = formatDuration(time.Duration(c.WaitSeconds * float64(time.Second)))
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			c.Description(),
			formatResources(c.Cost),
			gain,
			payback,
			wait,
		})
	}
	_ = table.Render()
}

func printPlan(plan advisor.Plan) {
	if !quiet && len(plan.Steps) > 0 {
		table := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"#", "At", "Purchase", "Cost"}),
		)
		for i, s := range plan.Steps {
			_ = table.Append([]string{
				fmt.Sprintf("%d", i+1),
				formatDuration(s.At),
				fmt.Sprintf("%s %s → %d", s.Kind, s.Name, s.ToLevel),
				formatResources(s.Cost),
			})
		}
		_ = table.Render()
	}

	successColor := color.New(color.FgGreen, color.Bold)
	successColor.Printf("\n✓ %d purchases over %s\n", len(plan.Steps), formatDuration(plan.Elapsed))
	fmt.Printf("   • Lumen earned: %s\n", formatAmount(plan.Earned))
	fmt.Printf("   • Final production: %s/s\n", formatResources(plan.Production))
	fmt.Printf("   • Final balance: %s\n", stateSummary(plan.Final))
}

func stateSummary(gs *models.GameState) string {
	b := gs.Ledger.Balance
	return fmt.Sprintf("Lumen=%s Energy=%s Antimatter=%s",
		formatAmount(b.Lumen), formatAmount(b.Energy), formatAmount(b.Antimatter))
}

// formatAmount abbreviates large numbers with K, M, B, T suffixes
func formatAmount(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v < 1000 {
		if v < 10 && v != math.Floor(v) {
			return fmt.Sprintf("%s%.1f", sign, v)
		}
		return fmt.Sprintf("%s%.0f", sign, math.Floor(v))
	}
	i := 0
	for v >= 1000 && i < len(amountSuffixes)-1 {
		v /= 1000
		i++
	}
	return fmt.Sprintf("%s%.1f%s", sign, v, amountSuffixes[i])
}

func formatResources(r models.Resources) string {
	if r.IsZero() {
		return "free"
	}
	var parts []string
	r.Each(func(rt models.ResourceType, v float64) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%s %s", formatAmount(v), rt))
		}
	})
	return strings.Join(parts, ", ")
}

// formatDuration renders d as HH:MM:SS, with a day count past 24h
func formatDuration(d time.Duration) string {
	seconds := int(d.Round(time.Second) / time.Second)
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
