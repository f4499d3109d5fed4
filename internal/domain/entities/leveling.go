package entities

import "math"

const (
	BaseLevelXP         int64 = 250 // XP to advance from level 1 to level 2
	LevelXPIncrement    int64 = 100 // extra XP each following level costs
	maxProgressPercent        = 100.0
	progressPercentBase       = 10.0 // one decimal place

	// maxCompletedLevels bounds the search; xpForLevels(maxCompletedLevels)
	// exceeds math.MaxInt64 and still fits in a uint64.
	maxCompletedLevels uint64 = 500_000_000
)

// LevelInfo is the resolved view of a cumulative XP total.
type LevelInfo struct {
	Level            int     `json:"level"`
	TotalXP          int64   `json:"total_xp"`
	XPAccumulated    int64   `json:"xp_accumulated"`     // XP consumed by completed levels
	XPInCurrentLevel int64   `json:"xp_in_current_level"` // XP earned since reaching Level
	XPForNextLevel   int64   `json:"xp_for_next_level"`   // size of the current level
	XPNeeded         int64   `json:"xp_needed"`           // XP left until Level+1
	ProgressPercent  float64 `json:"progress_percent"`
}

// LevelThreshold returns the XP it costs to advance from level to level+1.
func LevelThreshold(level int) int64 {
	if level < 1 {
		level = 1
	}
	return BaseLevelXP + int64(level-1)*LevelXPIncrement
}

// ResolveLevel maps cumulative XP to a level. It is the only place a level is
// derived from XP; every stored level must equal ResolveLevel(totalXP).Level.
func ResolveLevel(totalXP int64) (LevelInfo, error) {
	if totalXP < 0 {
		return LevelInfo{}, InvalidInput("total_xp", "must not be negative")
	}

	completed := completedLevels(uint64(totalXP))
	level := int(completed) + 1
	accumulated := int64(xpForLevels(completed))

	inLevel := totalXP - accumulated
	next := LevelThreshold(level)

	percent := float64(inLevel) / float64(next) * maxProgressPercent
	percent = math.Max(0, math.Min(maxProgressPercent, percent))
	percent = math.Round(percent*progressPercentBase) / progressPercentBase

	return LevelInfo{
		Level:            level,
		TotalXP:          totalXP,
		XPAccumulated:    accumulated,
		XPInCurrentLevel: inLevel,
		XPForNextLevel:   next,
		XPNeeded:         max(0, next-inLevel),
		ProgressPercent:  percent,
	}, nil
}

// MustResolveLevel is ResolveLevel for values already known to be non-negative.
func MustResolveLevel(totalXP int64) LevelInfo {
	info, err := ResolveLevel(totalXP)
	if err != nil {
		panic(err)
	}
	return info
}

// xpForLevels returns the XP consumed by the first n completed levels.
func xpForLevels(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return uint64(BaseLevelXP)*n + uint64(LevelXPIncrement)*(n*(n-1)/2)
}

// completedLevels returns the largest n with xpForLevels(n) <= xp. The float
// estimate solves the quadratic; the integer steps correct its rounding.
func completedLevels(xp uint64) uint64 {
	half := float64(LevelXPIncrement) / 2
	b := float64(BaseLevelXP) - half
	estimate := (math.Sqrt(b*b+2*float64(LevelXPIncrement)*float64(xp)) - b) / float64(LevelXPIncrement)

	n := min(uint64(math.Max(0, estimate)), maxCompletedLevels)
	for n > 0 && xpForLevels(n) > xp {
		n--
	}
	for n < maxCompletedLevels && xpForLevels(n+1) <= xp {
		n++
	}
	return n
}
