package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fallingstars/starlight/internal/models"
)

// GenerateQuests replaces the active quests with a fresh random batch and
// clears the session counters
func (e *Engine) GenerateQuests() []models.QuestInstance {
	gs := e.state
	defs := e.cat.Quests
	n := min(e.cat.Tuning.QuestBatch, len(defs))

	active := make([]models.QuestInstance, 0, n)
	for _, i := range e.rng.Perm(len(defs))[:n] {
		active = append(active, models.QuestInstance{
			ID:  uuid.NewString(),
			Key: defs[i].Key,
		})
	}
	gs.Quests.Active = active
	gs.Quests.SessionProgress = make(map[models.Stat]float64)
	gs.Quests.LastReset = e.now()
	e.log.Debug("quests generated", "count", n)
	return active
}

// UpdateProgress adds delta to a session counter and refreshes every active
// quest tracking that stat
func (e *Engine) UpdateProgress(stat models.Stat, delta float64) {
	q := &e.state.Quests
	if q.SessionProgress == nil {
		q.SessionProgress = make(map[models.Stat]float64)
	}
	q.SessionProgress[stat] += delta
	counter := q.SessionProgress[stat]

	for i := range q.Active {
		inst := &q.Active[i]
		if inst.Completed {
			continue
		}
		def, ok := e.cat.Quest(inst.Key)
		if !ok || def.Stat != stat {
			continue
		}
		inst.Progress = counter
		if inst.Progress >= def.Requirement {
			inst.Completed = true
			e.signal(SignalSuccess)
		}
	}
}

// ClaimQuestReward grants a completed quest's reward exactly once
func (e *Engine) ClaimQuestReward(index int) (models.Resources, error) {
	q := &e.state.Quests
	if index < 0 || index >= len(q.Active) {
		return models.Resources{}, fmt.Errorf("%w: index %d", ErrUnknownQuest, index)
	}
	inst := &q.Active[index]
	def, ok := e.cat.Quest(inst.Key)
	if !ok {
		return models.Resources{}, fmt.Errorf("%w: %s", ErrUnknownQuest, inst.Key)
	}
	if !inst.Completed {
		return models.Resources{}, fmt.Errorf("%w: %s", ErrQuestNotCompleted, inst.Key)
	}
	if inst.Claimed {
		return models.Resources{}, fmt.Errorf("%w: quest %s", ErrAlreadyClaimed, inst.Key)
	}

	inst.Claimed = true
	e.credit(def.Reward)
	e.log.Debug("quest claimed", "key", inst.Key)
	e.signal(SignalSuccess)
	return def.Reward, nil
}

// CheckQuestReset regenerates quests once the reset interval has passed and
// every active quest is completed. It reports whether a new batch was drawn.
func (e *Engine) CheckQuestReset() bool {
	q := e.state.Quests
	if !q.LastReset.IsZero() && e.now().Sub(q.LastReset) < e.cat.Tuning.QuestReset {
		return false
	}
	for _, inst := range q.Active {
		if !inst.Completed {
			return false
		}
	}
	e.GenerateQuests()
	return true
}
