package store

import (
	"errors"
	"testing"
	"time"

	"github.com/paoloacx/wattlet/internal/curve"
)

func TestPowerCurveCachesWrittenTogether(t *testing.T) {
	s := NewTestStore(t)

	snap := curve.NewSnapshot(time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC))
	snap.Merge(map[int]curve.Effort{
		300:  {Watts: 310, Heartrate: 168},
		1200: {Watts: 285, Heartrate: 160},
	}, time.Date(2025, 6, 10, 7, 30, 0, 0, time.UTC), "Tempo intervals")

	if err := s.SavePowerCurve(snap); err != nil {
		t.Fatalf("SavePowerCurve failed: %v", err)
	}

	points, pointsAt, err := s.GetPowerCurve()
	if err != nil {
		t.Fatalf("GetPowerCurve failed: %v", err)
	}
	if len(points) != len(curve.Ladder) {
		t.Fatalf("got %d points, want %d", len(points), len(curve.Ladder))
	}
	if !pointsAt.Equal(snap.CapturedAt) {
		t.Errorf("points written at %v, want %v", pointsAt, snap.CapturedAt)
	}

	got, effortsAt, err := s.GetBestEfforts()
	if err != nil {
		t.Fatalf("GetBestEfforts failed: %v", err)
	}
	if !effortsAt.Equal(snap.CapturedAt) {
		t.Errorf("efforts written at %v, want %v", effortsAt, snap.CapturedAt)
	}
	effort, ok := got.Effort(300)
	if !ok || effort.Watts != 310 || effort.Heartrate != 168 {
		t.Errorf("got 5m effort %+v ok=%v, want 310w/168bpm", effort, ok)
	}
	if effort.ActivityName != "Tempo intervals" {
		t.Errorf("got activity %q, want %q", effort.ActivityName, "Tempo intervals")
	}
}

func TestYearHistoryRoundTrip(t *testing.T) {
	s := NewTestStore(t)

	if has, err := s.HasYearHistory(); err != nil || has {
		t.Fatalf("fresh store has=%v err=%v, want false/nil", has, err)
	}
	if _, err := s.GetYearHistory(); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("got %v on empty store, want ErrCacheMiss", err)
	}

	rideDate := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	records := []curve.HistoryRecord{
		{ActivityID: 1, ActivityName: "Morning ride", Date: rideDate, DurationSeconds: 300, Watts: 295, Heartrate: 170},
		{ActivityID: 1, ActivityName: "Morning ride", Date: rideDate, DurationSeconds: 1200, Watts: 260, Heartrate: 162},
	}
	if err := s.SaveYearHistory(records, time.Now()); err != nil {
		t.Fatalf("SaveYearHistory failed: %v", err)
	}

	if has, err := s.HasYearHistory(); err != nil || !has {
		t.Fatalf("has=%v err=%v after save, want true/nil", has, err)
	}
	got, err := s.GetYearHistory()
	if err != nil {
		t.Fatalf("GetYearHistory failed: %v", err)
	}
	if len(got) != 2 || got[0].Watts != 295 || got[1].DurationSeconds != 1200 {
		t.Errorf("got %+v, want saved records", got)
	}
}

func TestClearYearHistory(t *testing.T) {
	s := NewTestStore(t)

	if err := s.SaveYearHistory([]curve.HistoryRecord{{ActivityID: 9, Watts: 200}}, time.Now()); err != nil {
		t.Fatalf("SaveYearHistory failed: %v", err)
	}
	if err := s.ClearYearHistory(); err != nil {
		t.Fatalf("ClearYearHistory failed: %v", err)
	}
	if has, err := s.HasYearHistory(); err != nil || has {
		t.Fatalf("has=%v err=%v after clear, want false/nil", has, err)
	}
}
