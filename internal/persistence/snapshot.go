package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fallingstars/starlight/internal/models"
)

const (
	// SaveKey is the store key holding the current save
	SaveKey = "fallingStars_save"
	// CurrentVersion is the snapshot version written by Encode
	CurrentVersion = 2
)

var (
	ErrNoSave             = errors.New("no saved game")
	ErrCorruptSave        = errors.New("corrupt save")
	ErrUnsupportedVersion = errors.New("unsupported save version")
)

// Snapshot is the envelope written under SaveKey
type Snapshot struct {
	Version   int               `json:"version"`
	SaveID    string            `json:"save_id"`
	Timestamp time.Time         `json:"timestamp"`
	Game      *models.GameState `json:"game"`
}

// Loaded is a decoded and migrated save
type Loaded struct {
	State   *models.GameState
	SaveID  string
	SavedAt time.Time
	Version int // version found in the save, before migration
}

// Migrated reports whether the save was upgraded on load
func (l *Loaded) Migrated() bool {
	return l.Version < CurrentVersion
}

// Encode serializes a game state into a current-version snapshot
func Encode(gs *models.GameState, saveID string, at time.Time) (string, error) {
	data, err := json.Marshal(Snapshot{
		Version:   CurrentVersion,
		SaveID:    saveID,
		Timestamp: at.UTC(),
		Game:      gs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode save: %w", err)
	}
	return string(data), nil
}

// Decode parses a snapshot of any supported version. The game object is
// migrated to the current layout, decoded over a fresh state so missing
// fields keep their defaults, then normalized against the catalog.
func Decode(cat *models.Catalog, raw string) (*Loaded, error) {
	var env struct {
		Version   json.RawMessage `json:"version"`
		SaveID    string          `json:"save_id"`
		Timestamp json.RawMessage `json:"timestamp"`
		Game      map[string]any  `json:"game"`
	}
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if env.Game == nil {
		return nil, fmt.Errorf("%w: missing game object", ErrCorruptSave)
	}

	version, err := parseVersion(env.Version)
	if err != nil {
		return nil, err
	}
	savedAt, err := parseTimestamp(env.Timestamp)
	if err != nil {
		return nil, err
	}
	if err := Migrate(env.Game, version); err != nil {
		return nil, err
	}

	data, err := json.Marshal(env.Game)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	gs := models.NewGameState(cat)
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	gs.Normalize(cat)

	return &Loaded{State: gs, SaveID: env.SaveID, SavedAt: savedAt, Version: version}, nil
}

// parseVersion accepts the current integer versions and the legacy
// semver strings ("1.0.0" is version 1). A missing version is legacy.
func parseVersion(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 1, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: version %s", ErrCorruptSave, raw)
	}
	major, _, _ := strings.Cut(s, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("%w: version %q", ErrUnsupportedVersion, s)
	}
	return n, nil
}

// parseTimestamp accepts RFC 3339 strings and legacy millisecond epochs
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC(), nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %s", ErrCorruptSave, raw)
	}
	return t, nil
}

// Saver reads and writes the game save through a Store
type Saver struct {
	store  Store
	cat    *models.Catalog
	log    *slog.Logger
	now    func() time.Time
	saveID string
}

// SaverOption configures a Saver
type SaverOption func(*Saver)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) SaverOption {
	return func(s *Saver) { s.log = l }
}

// WithClock replaces time.Now for snapshot timestamps
func WithClock(now func() time.Time) SaverOption {
	return func(s *Saver) { s.now = now }
}

// NewSaver creates a Saver over store
func NewSaver(store Store, cat *models.Catalog, opts ...SaverOption) *Saver {
	s := &Saver{
		store: store,
		cat:   cat,
		log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveID returns the identifier of the save this Saver writes, or "" before
// the first Save or Load
func (s *Saver) SaveID() string { return s.saveID }

// Save writes gs as the current save
func (s *Saver) Save(ctx context.Context, gs *models.GameState) error {
	if s.saveID == "" {
		s.saveID = uuid.NewString()
	}
	raw, err := Encode(gs, s.saveID, s.now())
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, SaveKey, raw); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	s.log.Debug("game saved", "save_id", s.saveID, "bytes", len(raw))
	return nil
}

// Load reads and migrates the current save. Returns ErrNoSave when the
// store holds none.
func (s *Saver) Load(ctx context.Context) (*Loaded, error) {
	raw, ok, err := s.store.Get(ctx, SaveKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	if !ok {
		return nil, ErrNoSave
	}
	loaded, err := Decode(s.cat, raw)
	if err != nil {
		return nil, err
	}
	s.adopt(loaded)
	return loaded, nil
}

// Clear deletes the current save
func (s *Saver) Clear(ctx context.Context) error {
	s.saveID = ""
	return s.store.Delete(ctx, SaveKey)
}

// Export returns the raw current save
func (s *Saver) Export(ctx context.Context) (string, error) {
	raw, ok, err := s.store.Get(ctx, SaveKey)
	if err != nil {
		return "", fmt.Errorf("failed to read save: %w", err)
	}
	if !ok {
		return "", ErrNoSave
	}
	return raw, nil
}

// Import validates a raw save, migrates it and stores it as the current
// save in the current version
func (s *Saver) Import(ctx context.Context, raw string) (*Loaded, error) {
	loaded, err := Decode(s.cat, strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	s.adopt(loaded)
	if err := s.Save(ctx, loaded.State); err != nil {
		return nil, err
	}
	loaded.SaveID = s.saveID
	return loaded, nil
}

func (s *Saver) adopt(l *Loaded) {
	if l.SaveID != "" {
		s.saveID = l.SaveID
	}
	if l.Migrated() {
		s.log.Info("save migrated", "from", l.Version, "to", CurrentVersion)
	}
}
