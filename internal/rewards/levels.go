package rewards

// levelThresholds maps cumulative points to levels 1..6. Level N requires
// at least levelThresholds[N-1] points.
var levelThresholds = []int{0, 100, 250, 500, 1000, 2000}

// LevelForPoints returns the level (>= 1) for a point total as a pure
// step function over the threshold table.
func LevelForPoints(points int) int {
	level := 1
	for i, min := range levelThresholds {
		if points >= min {
			level = i + 1
		}
	}
	return level
}
