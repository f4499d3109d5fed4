package entities

import "time"

// UserProgress is the per-user aggregate owned by the progression ledger.
// Level is a cache of ResolveLevel(TotalXP).Level.
type UserProgress struct {
	UserID         int64
	GamesPlayed    int
	CorrectAnswers int
	TotalXP        int64
	Level          int
	UpdatedAt      time.Time
}

// ProgressDelta is a relative change applied to UserProgress in one atomic update.
type ProgressDelta struct {
	GamesPlayed    int
	CorrectAnswers int
	XP             int64
}

// Validate rejects deltas that would decrement any counter.
func (d ProgressDelta) Validate() error {
	switch {
	case d.GamesPlayed < 0:
		return InvalidInput("games_played", "must not be negative")
	case d.CorrectAnswers < 0:
		return InvalidInput("correct_answers", "must not be negative")
	case d.XP < 0:
		return InvalidInput("xp", "must not be negative")
	}
	return nil
}

// LevelInfo resolves the cached totals through the leveling function.
func (p *UserProgress) LevelInfo() LevelInfo {
	return MustResolveLevel(max(0, p.TotalXP))
}
