package curve

// MaxRollingAverage returns the maximum average of any contiguous
// windowSeconds-long span of samples, using truncating integer division.
// Returns 0 when the stream is shorter than the window.
//
// The window sum slides in O(1) per offset, so the whole scan is O(n); the
// result is identical to recomputing every window sum from scratch.
func MaxRollingAverage(samples []int, windowSeconds int) int {
	if windowSeconds <= 0 || len(samples) < windowSeconds {
		return 0
	}

	sum := 0
	for _, v := range samples[:windowSeconds] {
		sum += v
	}
	best := sum / windowSeconds

	for i := windowSeconds; i < len(samples); i++ {
		sum += samples[i] - samples[i-windowSeconds]
		if avg := sum / windowSeconds; avg > best {
			best = avg
		}
	}

	return best
}
