package fitfile

import (
	"math"
	"testing"
	"time"

	"github.com/tormoder/fit"
)

func TestRecordStreams_OrdersByTimestamp(t *testing.T) {
	base := time.Date(2025, 5, 4, 9, 0, 0, 0, time.UTC)
	records := []*fit.RecordMsg{
		{Timestamp: base.Add(2 * time.Second), Power: 300, HeartRate: 150},
		{Timestamp: base, Power: 100, HeartRate: 130},
		nil,
		{Timestamp: base.Add(time.Second), Power: 200, HeartRate: 140},
	}

	watts, heartrate := recordStreams(records)

	wantWatts := []int{100, 200, 300}
	wantHR := []int{130, 140, 150}
	for i := range wantWatts {
		if watts[i] != wantWatts[i] {
			t.Errorf("watts[%d] = %d, want %d", i, watts[i], wantWatts[i])
		}
		if heartrate[i] != wantHR[i] {
			t.Errorf("heartrate[%d] = %d, want %d", i, heartrate[i], wantHR[i])
		}
	}
}

func TestRecordStreams_InvalidSentinelsDecodeToZero(t *testing.T) {
	base := time.Date(2025, 5, 4, 9, 0, 0, 0, time.UTC)
	records := []*fit.RecordMsg{
		{Timestamp: base, Power: math.MaxUint16, HeartRate: math.MaxUint8},
		{Timestamp: base.Add(time.Second), Power: 250, HeartRate: 155},
	}

	watts, heartrate := recordStreams(records)

	if watts[0] != 0 || heartrate[0] != 0 {
		t.Errorf("got %d/%d for invalid samples, want 0/0", watts[0], heartrate[0])
	}
	if watts[1] != 250 || heartrate[1] != 155 {
		t.Errorf("got %d/%d for valid samples, want 250/155", watts[1], heartrate[1])
	}
}
