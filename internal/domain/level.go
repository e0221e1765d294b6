package domain

// Level math: 100 points per level, starting at level 1. Level is derived
// from points on every read and never stored as authoritative — two
// profiles with equal points always have equal level.

// PointsPerLevel is the flat level span.
const PointsPerLevel = 100

// LevelForPoints returns the level for a points total.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// PointsIntoLevel returns how far into the current level the total is.
func PointsIntoLevel(points int) int {
	if points < 0 {
		return 0
	}
	return points % PointsPerLevel
}

// PointsToNextLevel returns points remaining until the next level.
func PointsToNextLevel(points int) int {
	return PointsPerLevel - PointsIntoLevel(points)
}

// ProgressPct returns progress toward the next level (0.0–100.0).
func ProgressPct(points int) float64 {
	return float64(PointsIntoLevel(points)) / float64(PointsPerLevel) * 100.0
}
