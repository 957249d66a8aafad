package curve

import (
	"math/rand"
	"testing"
)

// bruteForceMax recomputes every window sum from scratch, the O(n*d)
// definition the sliding implementation must match exactly.
func bruteForceMax(samples []int, windowSeconds int) int {
	if windowSeconds <= 0 || len(samples) < windowSeconds {
		return 0
	}
	best := 0
	for i := 0; i+windowSeconds <= len(samples); i++ {
		sum := 0
		for _, v := range samples[i : i+windowSeconds] {
			sum += v
		}
		if avg := sum / windowSeconds; avg > best {
			best = avg
		}
	}
	return best
}

func TestMaxRollingAverage_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// A few stream lengths that straddle the ladder boundaries.
	for _, n := range []int{5, 9, 10, 61, 300, 1337, 4000} {
		samples := make([]int, n)
		for i := range samples {
			samples[i] = rng.Intn(1200)
		}

		for _, d := range Ladder {
			got := MaxRollingAverage(samples, d.Seconds)
			want := bruteForceMax(samples, d.Seconds)
			if got != want {
				t.Errorf("n=%d d=%s: sliding=%d brute=%d", n, d.Label, got, want)
			}
		}
	}
}

func TestMaxRollingAverage_StepStream(t *testing.T) {
	// Five seconds at 100W followed by five at 300W: the best 5s window is
	// the final all-300 one.
	samples := []int{100, 100, 100, 100, 100, 300, 300, 300, 300, 300}

	if got := MaxRollingAverage(samples, 5); got != 300 {
		t.Errorf("expected 300, got %d", got)
	}
}

func TestMaxRollingAverage_TruncatesDivision(t *testing.T) {
	// Sum 5 over a 2s window: 5/2 must truncate to 2, never round to 3.
	if got := MaxRollingAverage([]int{2, 3}, 2); got != 2 {
		t.Errorf("expected truncated 2, got %d", got)
	}
}

func TestMaxRollingAverage_StreamShorterThanWindow(t *testing.T) {
	if got := MaxRollingAverage([]int{400, 400, 400}, 5); got != 0 {
		t.Errorf("expected 0 for short stream, got %d", got)
	}
}

func TestMaxRollingAverage_EmptyStream(t *testing.T) {
	if got := MaxRollingAverage(nil, 5); got != 0 {
		t.Errorf("expected 0 for empty stream, got %d", got)
	}
}

func TestMaxRollingAverage_ExactWindowLength(t *testing.T) {
	samples := []int{200, 250, 300, 250, 200}
	if got := MaxRollingAverage(samples, 5); got != 240 {
		t.Errorf("expected 240, got %d", got)
	}
}
