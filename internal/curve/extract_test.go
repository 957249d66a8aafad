package curve

import "testing"

func TestExtractBestEfforts_IndependentStreams(t *testing.T) {
	// Power peaks in the last 5 seconds, heart rate in the first 5. The
	// reported heart rate is the HR stream's own best window, not the HR
	// where the power maximum happened.
	watts := []int{100, 100, 100, 100, 100, 400, 400, 400, 400, 400}
	heartrate := []int{180, 180, 180, 180, 180, 120, 120, 120, 120, 120}

	efforts := ExtractBestEfforts(watts, heartrate)

	e := efforts[5]
	if e.Watts != 400 {
		t.Errorf("expected 400W for 5s, got %d", e.Watts)
	}
	if e.Heartrate != 180 {
		t.Errorf("expected 180bpm for 5s, got %d", e.Heartrate)
	}
}

func TestExtractBestEfforts_CoversWholeLadder(t *testing.T) {
	efforts := ExtractBestEfforts(make([]int, 20), nil)

	if len(efforts) != len(Ladder) {
		t.Fatalf("expected %d entries, got %d", len(Ladder), len(efforts))
	}
	for _, d := range Ladder {
		if _, ok := efforts[d.Seconds]; !ok {
			t.Errorf("missing entry for %s", d.Label)
		}
	}
}

func TestExtractBestEfforts_ShortHeartrateStream(t *testing.T) {
	// HR stream shorter than the window: heart rate falls back to 0 while
	// the power result stands.
	watts := []int{250, 250, 250, 250, 250, 250, 250, 250, 250, 250}
	heartrate := []int{150, 150, 150}

	efforts := ExtractBestEfforts(watts, heartrate)

	e := efforts[5]
	if e.Watts != 250 {
		t.Errorf("expected 250W, got %d", e.Watts)
	}
	if e.Heartrate != 0 {
		t.Errorf("expected 0bpm for short HR stream, got %d", e.Heartrate)
	}
}

func TestExtractBestEfforts_StreamTooShortForDuration(t *testing.T) {
	watts := make([]int, 30)
	for i := range watts {
		watts[i] = 300
	}

	efforts := ExtractBestEfforts(watts, nil)

	if efforts[30].Watts != 300 {
		t.Errorf("expected 300W for 30s, got %d", efforts[30].Watts)
	}
	if efforts[60].Watts != 0 {
		t.Errorf("expected absent (0) for 1m, got %d", efforts[60].Watts)
	}
}
