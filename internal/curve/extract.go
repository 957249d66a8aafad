package curve

// Effort holds one activity's best rolling averages for a single ladder
// duration. Watts of 0 means the stream never reached that duration.
type Effort struct {
	Watts     int
	Heartrate int
}

// ExtractBestEfforts computes, for every ladder duration, the best rolling
// average of the power stream and of the heart-rate stream.
//
// The heart-rate value is the heart-rate stream's own best average for that
// duration, not the heart rate sampled where the power maximum occurred.
// The two scans are deliberately independent.
func ExtractBestEfforts(watts, heartrate []int) map[int]Effort {
	out := make(map[int]Effort, len(Ladder))
	for _, d := range Ladder {
		out[d.Seconds] = Effort{
			Watts:     MaxRollingAverage(watts, d.Seconds),
			Heartrate: MaxRollingAverage(heartrate, d.Seconds),
		}
	}
	return out
}
