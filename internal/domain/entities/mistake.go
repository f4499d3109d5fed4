package entities

import (
	"fmt"
	"time"
)

// MistakeRecord is one entry of the practice queue. A row exists only while Mistakes >= 1.
type MistakeRecord struct {
	UserID          int64     `json:"-"`
	WordID          int64     `json:"word_id"`
	Mistakes        int       `json:"mistakes"`
	CreatedAt       time.Time `json:"created_at"`
	LastPracticedAt time.Time `json:"last_practiced"`
}

// MistakeEntry is a queue entry joined with the word catalog.
type MistakeEntry struct {
	MistakeRecord
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Example     string `json:"example"`
}

// MistakeAction selects how an adjustment changes the counter.
type MistakeAction string

const (
	MistakeIncrement MistakeAction = "increment"
	MistakeSet       MistakeAction = "set"
)

// MistakeAdjustment is a practice-mode change to an existing queue entry.
type MistakeAdjustment struct {
	Action MistakeAction `json:"action"`
	Value  int           `json:"value"` // used by MistakeSet only
}

// Validate checks the adjustment before it reaches storage.
func (a MistakeAdjustment) Validate() error {
	switch a.Action {
	case MistakeIncrement:
		return nil
	case MistakeSet:
		if a.Value < 1 {
			return InvalidInput("value", "must be at least 1")
		}
		return nil
	case "":
		return MissingField("action")
	default:
		return InvalidInput("action", fmt.Sprintf("unknown action %q", a.Action))
	}
}
