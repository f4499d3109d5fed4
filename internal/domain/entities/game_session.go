package entities

import (
	"time"

	"github.com/google/uuid"
)

// XPPerCorrectAnswer is the flat session reward; speed, streaks and difficulty earn nothing extra.
const XPPerCorrectAnswer int64 = 10

// GameSession is one completed playthrough, written once and never updated.
type GameSession struct {
	ID               int64     `json:"id"`
	Token            uuid.UUID `json:"session_token"` // client idempotency key
	UserID           int64     `json:"user_id"`
	GameType         string    `json:"game_type"` // opaque tag: "multiple_choice", "typing", "listening", ...
	TotalQuestions   int       `json:"total_questions"`
	CorrectAnswers   int       `json:"correct_answers"`
	WordsLearned     int       `json:"words_learned"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	XPEarned         int64     `json:"xp_earned"`
	CreatedAt        time.Time `json:"created_at"`
}

// WordResult is the outcome of a single question. WordID is nil when the
// client could not attribute the answer to a catalog word.
type WordResult struct {
	WordID     *int64 `json:"word_id"`
	WasCorrect bool   `json:"was_correct"`
}

// SessionXP computes the XP reward for a session.
func SessionXP(correctAnswers int) int64 {
	return int64(correctAnswers) * XPPerCorrectAnswer
}

// NewGameSession builds the row to append for a validated submission.
func NewGameSession(token uuid.UUID, userID int64, gameType string, total, correct, wordsLearned, timeSpent int) *GameSession {
	return &GameSession{
		Token:            token,
		UserID:           userID,
		GameType:         gameType,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		WordsLearned:     wordsLearned,
		TimeSpentSeconds: timeSpent,
		XPEarned:         SessionXP(correct),
		CreatedAt:        time.Now(),
	}
}
