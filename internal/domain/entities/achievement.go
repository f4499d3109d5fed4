package entities

import "time"

// Achievement is a definition managed outside this service. Unlocking is
// likewise external; rows here are only read.
type Achievement struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ConditionType  string    `json:"condition_type"`
	ConditionValue int       `json:"condition_value"`
	XPReward       int       `json:"xp_reward"`
	Badge          string    `json:"badge,omitempty"`
	UnlockedAt     time.Time `json:"unlocked_at"`
}
