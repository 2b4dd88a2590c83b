package gamification

// levelThresholds is the fixed ascending point sequence. Level n requires
// levelThresholds[n-1] points; points beyond the last threshold stay at the
// max level.
var levelThresholds = []int{0, 100, 250, 500, 1000, 2000, 3500, 5000, 7500, 10000}

// MaxLevel is the highest reachable level.
var MaxLevel = len(levelThresholds)

// LevelFor derives the level for a cumulative point total. Pure and
// monotonic non-decreasing in points.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// ThresholdFor returns the point total required to reach the given level.
func ThresholdFor(level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}
