package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/fallingstars/starlight/internal/engine"
	"github.com/fallingstars/starlight/internal/loader"
	"github.com/fallingstars/starlight/internal/models"
	"github.com/fallingstars/starlight/internal/persistence"
)

// session is one loaded save bound to an engine
type session struct {
	cat    *models.Catalog
	store  persistence.Store
	saver  *persistence.Saver
	engine *engine.Engine
	log    *slog.Logger
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openSession loads content and the save, credits offline time and makes
// sure a quest batch is active. Errors end the process.
func openSession(ctx context.Context) *session {
	log := newLogger()

	cat, err := loader.Load(contentFile)
	if err != nil {
		color.Red("Error loading content: %v", err)
		os.Exit(1)
	}

	store, err := persistence.OpenSQLite(dbPath)
	if err != nil {
		color.Red("Error opening save database: %v", err)
		os.Exit(1)
	}
	saver := persistence.NewSaver(store, cat, persistence.WithLogger(log))

	s := &session{cat: cat, store: store, saver: saver, log: log}

	var gs *models.GameState
	loaded, err := saver.Load(ctx)
	switch {
	case errors.Is(err, persistence.ErrNoSave):
		gs = models.NewGameState(cat)
	case err != nil:
		store.Close()
		color.Red("Error loading save: %v", err)
		os.Exit(1)
	default:
		gs = loaded.State
	}

	s.engine = engine.New(cat, gs,
		engine.WithLogger(log),
		engine.WithSignals(engine.SignalFunc(func(sig engine.Signal) {
			log.Debug("signal", "kind", string(sig))
		})),
	)

	if loaded != nil {
		if loaded.Migrated() && !quiet {
			color.New(color.FgYellow).Printf("🔄 Upgraded save from version %d\n", loaded.Version)
		}
		earned := s.engine.ApplyOfflineEarnings(loaded.SavedAt)
		if earned.Notify && !quiet {
			printOffline(earned)
		}
	} else if !quiet {
		color.New(color.FgYellow).Println("✨ New game started")
	}

	s.engine.CheckQuestReset()
	if len(gs.Quests.Active) == 0 {
		s.engine.GenerateQuests()
	}
	return s
}

// save stamps progress checks and writes the snapshot
func (s *session) save(ctx context.Context) {
	s.engine.CheckMasteries()
	for _, a := range s.engine.CheckAchievements() {
		if !quiet {
			color.New(color.FgGreen, color.Bold).Printf("🏆 Achievement unlocked: %s (+%s)\n", a.Name, formatResources(a.Reward))
		}
	}
	for _, m := range s.engine.CheckMilestones() {
		if quiet {
			continue
		}
		if m.Reward.IsZero() {
			color.New(color.FgMagenta, color.Bold).Printf("🎉 Milestone: %s\n", m.Title)
		} else {
			color.New(color.FgMagenta, color.Bold).Printf("🎉 Milestone: %s (+%s)\n", m.Title, formatResources(m.Reward))
		}
	}
	if err := s.saver.Save(ctx, s.engine.State()); err != nil {
		color.Red("Error saving: %v", err)
		os.Exit(1)
	}
}

// checkpoint saves from inside a loop whose context may be cancelled or
// about to time out. The write itself must not be interrupted.
func (s *session) checkpoint(ctx context.Context) {
	s.save(context.WithoutCancel(ctx))
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.log.Warn("closing store", "err", err)
	}
}

// fail prints err in red, closes the session and exits
func (s *session) fail(format string, err error) {
	s.close()
	color.Red(format, err)
	os.Exit(1)
}
