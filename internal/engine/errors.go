package engine

import (
	"errors"
	"fmt"
)

// Expected, recoverable failures. Every operation that returns one of these
// leaves the game state untouched.
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrLevelCapReached       = errors.New("level cap reached")
	ErrPrerequisiteNotMet    = errors.New("prerequisite not met")
	ErrPrestigeIneligible    = errors.New("prestige not available")
	ErrQuestNotCompleted     = errors.New("quest not completed")
	ErrAlreadyClaimed        = errors.New("reward already claimed")
	ErrUnknownQuest          = errors.New("unknown quest")
	ErrUnknownEntry          = errors.New("unknown entry")
	ErrPlanetLocked          = errors.New("planet locked")
	ErrPlanetUnlocked        = errors.New("planet already unlocked")
	ErrOnCooldown            = errors.New("on cooldown")
	ErrCompanionLocked       = errors.New("companion not unlocked")
	ErrCompanionOwned        = errors.New("companion already unlocked")
)

// IneligibleError explains why a prestige was refused
type IneligibleError struct {
	Level       int
	Requirement float64
	Earned      float64
	Reason      string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("prestige %d unavailable: %s", e.Level+1, e.Reason)
}

func (e *IneligibleError) Unwrap() error {
	return ErrPrestigeIneligible
}
