package entities

import "time"

// LearnedThreshold is the read-time convention for "learned": answered correctly at least this many times.
const LearnedThreshold = 2

// WordMastery counts correct answers for a (user, word) pair. TimesCorrect never decreases.
type WordMastery struct {
	UserID          int64     `json:"user_id"`
	WordID          int64     `json:"word_id"`
	TimesCorrect    int       `json:"times_correct"`
	LastPracticedAt time.Time `json:"last_practiced_at"`
}

// IsLearned reports whether the word passed the learned threshold.
func (m *WordMastery) IsLearned() bool {
	return m.TimesCorrect >= LearnedThreshold
}
