package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fallingstars/starlight/internal/advisor"
	"github.com/fallingstars/starlight/internal/engine"
)

var (
	holdCount    int
	captureCount int
	missCount    int
	idleFor      time.Duration
	nextOnly     bool
	simDuration  time.Duration
	simStep      time.Duration
	exportFile   string
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show balances, production and levels",
		Args:  cobra.NoArgs,
		Run:   runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.close()

	if !quiet {
		printBanner()
	}
	printStatus(s.engine)
	s.save(ctx)
}

func newBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <building|tech|defense> <key>",
		Short: "Buy the next level of a building, technology or defense",
		Args:  cobra.ExactArgs(2),
		Run:   runBuy,
	}
	cmd.Flags().IntVarP(&holdCount, "hold", "H", 1, "Keep buying up to N levels, 0 until broke")
	return cmd
}

func runBuy(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.close()

	kind, key := args[0], args[1]
	var buy func() error
	switch kind {
	case "building", "b":
		buy = func() error { return s.engine.BuyBuilding(key) }
	case "tech", "technology", "t":
		buy = func() error { return s.engine.BuyTechnology(key) }
	case "defense", "d":
		buy = func() error { return s.engine.BuyDefense(key) }
	default:
		s.fail("Error: %v", fmt.Errorf("unknown kind %q (want building, tech or defense)", kind))
	}

	successColor := color.New(color.FgGreen, color.Bold)
	if holdCount == 1 {
		if err := buy(); err != nil {
			s.fail("Purchase failed: %v", err)
		}
		successColor.Printf("✓ Bought %s %s\n", kind, key)
		s.save(ctx)
		return
	}

	limiter := engine.NewHoldLimiter(s.cat.Tuning.HoldInterval)
	n, err := engine.HoldPurchase(ctx, limiter, holdCount, buy)
	if n > 0 {
		successColor.Printf("✓ Bought %d level(s) of %s\n", n, key)
	}
	if err != nil && !quiet {
		color.New(color.FgYellow).Printf("⏹  Stopped: %v\n", err)
	}
	s.save(ctx)
}

func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Spawn and capture falling fragments",
		Args:  cobra.NoArgs,
		Run:   runCapture,
	}
	cmd.Flags().IntVarP(&captureCount, "count", "n", 10, "Fragments to capture")
	cmd.Flags().IntVar(&missCount, "miss", 0, "Fragments to let fall before capturing")
	return cmd
}

func runCapture(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	s := openSession(ctx)
	defer s.close()

	for range missCount {
		s.engine.SpawnFragment()
		s.engine.ReportMiss()
	}

	// one capture per spawned fragment
	limiter := s.engine.NewSpawnLimiter()
	if !quiet && captureCount > 1 {
		color.New(color.FgYellow).Printf("🌠 %.2f fragments/s\n", s.engine.FragmentSpawnRate())
	}

	var total float64
	var last engine.CaptureResult
	captured := 0
	for range captureCount {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		f := s.engine.SpawnFragment()
		last = s.engine.CaptureFragment(f)
		total += last.Lumen
		captured++
		if verbose {
			fmt.Printf("   • %-8s value %-3.0f → %s lumen (combo %d, x%.1f)\n",
				f.Type, f.Value, formatAmount(last.Lumen), last.Combo, last.Multiplier)
		}
	}

	color.New(color.FgGreen, color.Bold).Printf("✓ Captured %d fragments for %s lumen\n", captured, formatAmount(total))
	if !quiet && captured > 0 {
		fmt.Printf("   Combo: %d (x%.1f)\n", last.Combo, last.Multiplier)
	}
	s.checkpoint(ctx)
}

func newIdleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idle",
		Short: "Run the production loop in real time",
		Long: `Ticks production at the content tick rate and autosaves on the save
interval until the duration elapses or the process is interrupted.
Fragments keep falling at the spawn rate; only an active companion
collects them.`,
		Args: cobra.NoArgs,
		Run:  runIdle,
	}
	cmd.Flags().DurationVarP(&idleFor, "for", "f", 0, "Stop after this long, 0 runs until interrupted")
	return cmd
}

func runIdle(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if idleFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, idleFor)
		defer cancel()
	}

	s := openSession(ctx)
	defer s.close()

	tuning := s.cat.Tuning
	tick := time.NewTicker(tuning.TickRate)
	defer tick.Stop()
	autosave := time.NewTicker(tuning.SaveInterval)
	defer autosave.Stop()

	infoColor := color.New(color.FgYellow)
	if !quiet {
		infoColor.Printf("🔄 Idling at %s/tick, autosave every %s (Ctrl-C to stop)\n", tuning.TickRate, tuning.SaveInterval)
	}

	start := time.Now()
	before := s.engine.State().Prestige.TotalLumenEarned
	last := start
	var drops engine.DropReport
	for {
		select {
		case <-ctx.Done():
			s.checkpoint(ctx)
			earned := s.engine.State().Prestige.TotalLumenEarned - before
			color.New(color.FgGreen, color.Bold).Printf("\n✓ Idled %s, earned %s lumen\n",
				time.Since(start).Round(time.Second), formatAmount(earned))
			if !quiet && drops.Spawned > 0 {
				fmt.Printf("   Fragments: %d fell, %d collected by companion\n", drops.Spawned, drops.Collected)
			}
			return
		case now := <-tick.C:
			dt := now.Sub(last)
			s.engine.Tick(dt)
			rep := s.engine.DropFragments(dt)
			drops.Spawned += rep.Spawned
			drops.Collected += rep.Collected
			last = now
		case <-autosave.C:
			s.checkpoint(ctx)
			if !quiet {
				printLedgerLine(s.engine)
			}
		}
	}
}

func newPrestigeCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "prestige",
		Short: "Show prestige progress, or reset with --confirm",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()

			info := s.engine.PrestigeInfo()
			printPrestige(info)
			if !confirm {
				return
			}
			res, err := s.engine.PerformPrestige()
			if err != nil {
				var inel *engine.IneligibleError
				if errors.As(err, &inel) {
					s.fail("Cannot prestige: %v", errors.New(inel.Reason))
				}
				s.fail("Prestige failed: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Printf("\n✓ Prestige %d reached: +%.0f%% production\n", res.NewLevel, res.BonusPercent)
			s.save(ctx)
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Perform the reset")
	return cmd
}

func newQuestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quests",
		Short: "List active quests",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			printQuests(s.engine)
			s.save(ctx)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "claim <index>",
		Short: "Claim a completed quest's reward",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			i, err := strconv.Atoi(args[0])
			if err != nil {
				s.fail("Invalid index: %v", err)
			}
			reward, err := s.engine.ClaimQuestReward(i - 1)
			if err != nil {
				s.fail("Claim failed: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ Claimed %s\n", formatResources(reward))
			if s.engine.CheckQuestReset() && !quiet {
				color.New(color.FgYellow).Println("🔄 New quests drawn")
			}
			s.save(ctx)
		},
	})
	return cmd
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and masteries",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			s.save(ctx)
			printAchievements(s.engine)
		},
	}
}

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Claim the daily login reward",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			r, err := s.engine.ClaimDailyReward()
			if err != nil {
				s.fail("Daily reward: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ Day %d (streak %d): %s\n", r.Day, r.Streak, formatResources(r.Reward))
			s.save(ctx)
		},
	}
}

func newLootboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lootbox",
		Short: "Open the free lootbox",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			r, err := s.engine.OpenFreeLootbox()
			if err != nil {
				s.fail("Lootbox: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Printf("🎁 %s\n", formatResources(r))
			s.save(ctx)
		},
	}
}

func newBoostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boost [key]",
		Short: "List boosts, or activate one",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			if len(args) == 0 {
				printBoosts(s.engine)
				return
			}
			if err := s.engine.ActivateBoost(args[0]); err != nil {
				s.fail("Boost failed: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ %s active\n", args[0])
			s.save(ctx)
		},
	}
}

func newEventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event [key]",
		Short: "List timed events, or start one",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			if len(args) == 0 {
				printEvents(s.engine)
				return
			}
			if err := s.engine.ActivateEvent(args[0]); err != nil {
				s.fail("Event failed: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ %s started\n", args[0])
			s.save(ctx)
		},
	}
}

func newCompanionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companion",
		Short: "List companions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			printCompanions(s.engine)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "unlock <key>",
			Short: "Unlock a companion",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				ctx := cmd.Context()
				s := openSession(ctx)
				defer s.close()
				if err := s.engine.UnlockCompanion(args[0]); err != nil {
					s.fail("Unlock failed: %v", err)
				}
				color.New(color.FgGreen, color.Bold).Printf("🐾 %s joined you\n", args[0])
				s.save(ctx)
			},
		},
		&cobra.Command{
			Use:   "use <key>",
			Short: "Make an owned companion active",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				ctx := cmd.Context()
				s := openSession(ctx)
				defer s.close()
				if err := s.engine.ActivateCompanion(args[0]); err != nil {
					s.fail("Switch failed: %v", err)
				}
				color.New(color.FgGreen, color.Bold).Printf("🐾 %s is active\n", args[0])
				s.save(ctx)
			},
		},
	)
	return cmd
}

func newPlanetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planet",
		Short: "List planets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			printPlanets(s.engine)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "unlock <key>",
			Short: "Unlock a planet",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				ctx := cmd.Context()
				s := openSession(ctx)
				defer s.close()
				if err := s.engine.UnlockPlanet(args[0]); err != nil {
					s.fail("Unlock failed: %v", err)
				}
				color.New(color.FgGreen, color.Bold).Printf("🪐 %s unlocked\n", args[0])
				s.save(ctx)
			},
		},
		&cobra.Command{
			Use:   "switch <key>",
			Short: "Make an unlocked planet current",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				ctx := cmd.Context()
				s := openSession(ctx)
				defer s.close()
				if err := s.engine.SwitchPlanet(args[0]); err != nil {
					s.fail("Switch failed: %v", err)
				}
				color.New(color.FgGreen, color.Bold).Printf("🪐 Now on %s\n", args[0])
				s.save(ctx)
			},
		},
	)
	return cmd
}

func newAdviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Rank the next purchases by return on investment",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			ranked := advisor.Rank(s.engine)
			if nextOnly {
				printNextPurchase(ranked)
				return
			}
			printCandidates(ranked)
		},
	}
	cmd.Flags().BoolVarP(&nextOnly, "next", "n", false, "Show only the next purchase")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Plan an idle session with the greedy advisor",
		Long: `Plays the given duration on a copy of the save, always buying the
best-ROI purchase. The save itself is not changed.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()

			if !quiet {
				color.New(color.FgYellow).Printf("🔄 Simulating %s in %s steps...\n\n", simDuration, simStep)
			}
			plan := advisor.Simulate(s.cat, s.engine.State(), simDuration, simStep)
			printPlan(plan)
		},
	}
	cmd.Flags().DurationVarP(&simDuration, "duration", "d", time.Hour, "Simulated play time")
	cmd.Flags().DurationVarP(&simStep, "step", "s", time.Second, "Tick length")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the save as JSON",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			s.save(ctx)
			raw, err := s.saver.Export(ctx)
			if err != nil {
				s.fail("Export failed: %v", err)
			}
			if exportFile == "" || exportFile == "-" {
				fmt.Println(raw)
				return
			}
			if err := os.WriteFile(exportFile, []byte(raw), 0o644); err != nil {
				s.fail("Export failed: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ Exported to %s\n", exportFile)
		},
	}
	cmd.Flags().StringVarP(&exportFile, "out", "o", "", "Output file, stdout if empty")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the save with an exported one",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				color.Red("Error reading %s: %v", args[0], err)
				os.Exit(1)
			}
			s := openSession(ctx)
			defer s.close()
			loaded, err := s.saver.Import(ctx, string(data))
			if err != nil {
				s.fail("Import failed: %v", err)
			}
			successColor := color.New(color.FgGreen, color.Bold)
			successColor.Printf("✓ Imported save %s\n", loaded.SaveID)
			if loaded.Migrated() {
				successColor.Printf("✓ Upgraded from version %d\n", loaded.Version)
			}
		},
	}
}

func newResetCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the save",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if !confirm {
				color.Yellow("Refusing to delete the save without --confirm")
				return
			}
			ctx := cmd.Context()
			s := openSession(ctx)
			defer s.close()
			if err := s.saver.Clear(ctx); err != nil {
				s.fail("Reset failed: %v", err)
			}
			color.New(color.FgGreen, color.Bold).Println("✓ Save deleted")
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Really delete")
	return cmd
}
