package entities

// ProgressSummary is the read-only aggregation shown on profile screens.
type ProgressSummary struct {
	UserID            int64     `json:"user_id"`
	GamesPlayed       int       `json:"games_played"`
	CorrectAnswers    int       `json:"correct_answers"`
	TotalXP           int64     `json:"total_xp"`
	Level             int       `json:"level"`
	LevelProgress     LevelInfo `json:"level_progress"`
	AchievementsCount int       `json:"achievements_count"`
	WordsLearnedCount int       `json:"words_learned_count"`
}
