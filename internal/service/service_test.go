package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/paoloacx/wattlet/internal/curve"
	"github.com/paoloacx/wattlet/internal/store"
	"github.com/paoloacx/wattlet/internal/strava"
)

// fakeClient serves canned activities and streams and counts every call.
type fakeClient struct {
	activities []strava.Activity
	streams    map[int64]*strava.Streams
	streamErr  map[int64]error

	listCalls   int
	streamCalls int
}

func (f *fakeClient) ListActivities(ctx context.Context, after time.Time, page, perPage int) ([]strava.Activity, error) {
	f.listCalls++
	start := (page - 1) * perPage
	if start >= len(f.activities) {
		return nil, nil
	}
	end := start + perPage
	if end > len(f.activities) {
		end = len(f.activities)
	}
	return f.activities[start:end], nil
}

func (f *fakeClient) GetActivityStreams(ctx context.Context, activityID int64) (*strava.Streams, error) {
	f.streamCalls++
	if err := f.streamErr[activityID]; err != nil {
		return nil, err
	}
	return f.streams[activityID], nil
}

func (f *fakeClient) networkCalls() int {
	return f.listCalls + f.streamCalls
}

func powerStreams(watts []int, heartrate []int) *strava.Streams {
	s := &strava.Streams{
		Watts: &strava.StreamData[int]{Data: watts},
	}
	if heartrate != nil {
		s.Heartrate = &strava.StreamData[int]{Data: heartrate}
	}
	return s
}

func flatStream(value, seconds int) []int {
	s := make([]int, seconds)
	for i := range s {
		s[i] = value
	}
	return s
}

func newTestService(t *testing.T, client Client) (*Service, *store.Store) {
	t.Helper()
	st := store.NewTestStore(t)
	svc := New(client, st)
	return svc, st
}

func saveTestAuth(t *testing.T, st *store.Store) {
	t.Helper()
	err := st.SaveAuth(&store.Auth{
		AthleteID:    1,
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("SaveAuth failed: %v", err)
	}
}

func TestRefreshPowerCurve_BuildsSnapshotFromStreams(t *testing.T) {
	rideDate := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	client := &fakeClient{
		activities: []strava.Activity{
			{ID: 1, Name: "Sweet spot", StartDate: rideDate, DeviceWatts: true},
		},
		streams: map[int64]*strava.Streams{
			1: powerStreams(flatStream(260, 600), flatStream(155, 600)),
		},
	}
	svc, _ := newTestService(t, client)

	snap, err := svc.RefreshPowerCurve(context.Background(), nil)
	if err != nil {
		t.Fatalf("RefreshPowerCurve failed: %v", err)
	}

	e, ok := snap.Effort(300)
	if !ok {
		t.Fatal("expected a 5m effort")
	}
	if e.Watts != 260 || e.Heartrate != 155 {
		t.Errorf("got 5m effort %dw/%dbpm, want 260/155", e.Watts, e.Heartrate)
	}
	if e.ActivityName != "Sweet spot" || !e.Date.Equal(rideDate) {
		t.Errorf("got metadata %q/%v, want Sweet spot/%v", e.ActivityName, e.Date, rideDate)
	}

	// Ten minutes of samples cannot produce a 20-minute effort.
	if _, ok := snap.Effort(1200); ok {
		t.Error("20m effort should be absent for a 10-minute ride")
	}
}

func TestRefreshPowerCurve_SkipsRidesWithoutPowerMeter(t *testing.T) {
	client := &fakeClient{
		activities: []strava.Activity{
			{ID: 1, Name: "Estimated watts", DeviceWatts: false},
			{ID: 2, Name: "Power meter ride", DeviceWatts: true},
		},
		streams: map[int64]*strava.Streams{
			2: powerStreams(flatStream(200, 60), nil),
		},
	}
	svc, _ := newTestService(t, client)

	snap, err := svc.RefreshPowerCurve(context.Background(), nil)
	if err != nil {
		t.Fatalf("RefreshPowerCurve failed: %v", err)
	}

	if client.streamCalls != 1 {
		t.Errorf("fetched %d streams, want 1 (estimated-power ride skipped)", client.streamCalls)
	}
	if e, ok := snap.Effort(60); !ok || e.ActivityName != "Power meter ride" {
		t.Errorf("got 1m effort %+v ok=%v, want Power meter ride", e, ok)
	}
}

func TestRefreshPowerCurve_FailureWritesNothing(t *testing.T) {
	client := &fakeClient{
		activities: []strava.Activity{
			{ID: 1, Name: "Good", DeviceWatts: true},
			{ID: 2, Name: "Bad", DeviceWatts: true},
		},
		streams: map[int64]*strava.Streams{
			1: powerStreams(flatStream(250, 60), nil),
		},
		streamErr: map[int64]error{
			2: errors.New("network down"),
		},
	}
	svc, st := newTestService(t, client)

	if _, err := svc.RefreshPowerCurve(context.Background(), nil); err == nil {
		t.Fatal("expected refresh to fail")
	}

	if _, _, err := st.GetBestEfforts(); !errors.Is(err, store.ErrCacheMiss) {
		t.Fatalf("got %v reading cache after failed refresh, want ErrCacheMiss", err)
	}
}

func TestPowerCurve_FreshCacheServedWithoutNetwork(t *testing.T) {
	client := &fakeClient{}
	svc, st := newTestService(t, client)
	saveTestAuth(t, st)

	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	seedSnapshot(t, svc, client, now.Add(-24*time.Hour))
	client.listCalls, client.streamCalls = 0, 0

	svc.now = func() time.Time { return now }
	if _, err := svc.PowerCurve(context.Background()); err != nil {
		t.Fatalf("PowerCurve failed: %v", err)
	}
	if calls := client.networkCalls(); calls != 0 {
		t.Errorf("made %d network calls for a day-old cache, want 0", calls)
	}
}

func TestPowerCurve_StaleCacheWithAuthRefetches(t *testing.T) {
	client := &fakeClient{}
	svc, st := newTestService(t, client)
	saveTestAuth(t, st)

	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	seedSnapshot(t, svc, client, now.Add(-8*24*time.Hour))
	client.listCalls, client.streamCalls = 0, 0

	svc.now = func() time.Time { return now }
	if _, err := svc.PowerCurve(context.Background()); err != nil {
		t.Fatalf("PowerCurve failed: %v", err)
	}
	if client.listCalls == 0 {
		t.Error("an 8-day-old cache with stored auth should refetch")
	}
}

func TestPowerCurve_StaleCacheWithoutAuthServedUnchanged(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(t, client)

	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	capturedAt := now.Add(-8 * 24 * time.Hour)
	seedSnapshot(t, svc, client, capturedAt)
	client.listCalls, client.streamCalls = 0, 0

	svc.now = func() time.Time { return now }
	snap, err := svc.PowerCurve(context.Background())
	if err != nil {
		t.Fatalf("PowerCurve failed: %v", err)
	}
	if calls := client.networkCalls(); calls != 0 {
		t.Errorf("made %d network calls with no stored auth, want 0", calls)
	}
	if !snap.CapturedAt.Equal(capturedAt) {
		t.Errorf("served snapshot from %v, want the stale one from %v", snap.CapturedAt, capturedAt)
	}
}

func TestPowerCurvePoints_ReadsSlimCurveCache(t *testing.T) {
	client := &fakeClient{}
	svc, st := newTestService(t, client)
	saveTestAuth(t, st)

	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	seedSnapshot(t, svc, client, now.Add(-24*time.Hour))
	client.listCalls, client.streamCalls = 0, 0

	svc.now = func() time.Time { return now }
	points, err := svc.PowerCurvePoints(context.Background())
	if err != nil {
		t.Fatalf("PowerCurvePoints failed: %v", err)
	}
	if calls := client.networkCalls(); calls != 0 {
		t.Errorf("made %d network calls for a day-old cache, want 0", calls)
	}

	if len(points) != len(curve.Ladder) {
		t.Fatalf("got %d points, want one per ladder duration", len(points))
	}
	byDuration := make(map[int]curve.PowerPoint, len(points))
	for _, p := range points {
		byDuration[p.DurationSeconds] = p
	}
	if p := byDuration[60]; p.Watts != 240 || p.Label != "1m" {
		t.Errorf("got 1m point %+v, want 240W labelled 1m", p)
	}
	if p := byDuration[300]; p.Watts != 0 {
		t.Errorf("got 5m point %+v, want 0W for a 2-minute seed ride", p)
	}
}

// seedSnapshot runs a refresh with the clock pinned to capturedAt so the
// cache holds a snapshot of that age.
func seedSnapshot(t *testing.T, svc *Service, client *fakeClient, capturedAt time.Time) {
	t.Helper()
	client.activities = []strava.Activity{
		{ID: 1, Name: "Seed ride", StartDate: capturedAt, DeviceWatts: true},
	}
	client.streams = map[int64]*strava.Streams{
		1: powerStreams(flatStream(240, 120), flatStream(150, 120)),
	}
	svc.now = func() time.Time { return capturedAt }
	if _, err := svc.RefreshPowerCurve(context.Background(), nil); err != nil {
		t.Fatalf("seeding snapshot: %v", err)
	}
}

func TestLoadYearHistory_RecordPerPositiveDuration(t *testing.T) {
	rideDate := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	client := &fakeClient{
		activities: []strava.Activity{
			{
				ID: 7, Name: "Threshold work", StartDate: rideDate, DeviceWatts: true,
				Distance: 42000, MovingTime: 5400, Calories: 1200,
				AverageSpeed: 7.7, MaxHeartrate: 182, AverageHeartrate: 154,
			},
		},
		streams: map[int64]*strava.Streams{
			// 2 minutes of samples: positive results for 5s through 2m only.
			7: powerStreams(flatStream(280, 120), flatStream(160, 120)),
		},
	}
	svc, _ := newTestService(t, client)

	var messages []string
	records, err := svc.LoadYearHistory(context.Background(), func(msg string) {
		messages = append(messages, msg)
	})
	if err != nil {
		t.Fatalf("LoadYearHistory failed: %v", err)
	}

	// Ladder durations 5s, 10s, 30s, 1m and 2m fit in a 2-minute stream.
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	for _, r := range records {
		if r.Watts != 280 || r.Heartrate != 160 {
			t.Errorf("record %s: got %dw/%dbpm, want 280/160", r.ActivityName, r.Watts, r.Heartrate)
		}
		if r.MaxHeartrate != 182 || r.AvgHeartrate != 154 || r.MovingTime != 5400 {
			t.Errorf("record carries wrong ride metrics: %+v", r)
		}
	}

	if len(messages) != 1 || messages[0] != "Processing 1/1: Threshold work" {
		t.Errorf("got progress %v, want one Processing message", messages)
	}
}

func TestLoadYearHistory_SecondCallShortCircuits(t *testing.T) {
	client := &fakeClient{
		activities: []strava.Activity{
			{ID: 1, Name: "Ride", DeviceWatts: true},
		},
		streams: map[int64]*strava.Streams{
			1: powerStreams(flatStream(230, 60), nil),
		},
	}
	svc, _ := newTestService(t, client)

	if _, err := svc.LoadYearHistory(context.Background(), nil); err != nil {
		t.Fatalf("first LoadYearHistory failed: %v", err)
	}
	client.listCalls, client.streamCalls = 0, 0

	var messages []string
	records, err := svc.LoadYearHistory(context.Background(), func(msg string) {
		messages = append(messages, msg)
	})
	if err != nil {
		t.Fatalf("second LoadYearHistory failed: %v", err)
	}

	if calls := client.networkCalls(); calls != 0 {
		t.Errorf("second call made %d network calls, want 0", calls)
	}
	if len(messages) != 1 || !strings.Contains(messages[0], "already loaded") {
		t.Errorf("got progress %v, want a single already-loaded message", messages)
	}
	if len(records) == 0 {
		t.Error("second call should return the cached records")
	}
}

func TestLoadYearHistory_FailureDiscardsPartialAccumulation(t *testing.T) {
	client := &fakeClient{
		activities: []strava.Activity{
			{ID: 1, Name: "Good", DeviceWatts: true},
			{ID: 2, Name: "Bad", DeviceWatts: true},
		},
		streams: map[int64]*strava.Streams{
			1: powerStreams(flatStream(250, 60), nil),
		},
		streamErr: map[int64]error{
			2: errors.New("rate limited"),
		},
	}
	svc, st := newTestService(t, client)

	if _, err := svc.LoadYearHistory(context.Background(), nil); err == nil {
		t.Fatal("expected accumulation to fail")
	}

	if has, err := st.HasYearHistory(); err != nil || has {
		t.Fatalf("has=%v err=%v after failed run, want false/nil", has, err)
	}
}

func TestLoadYearHistory_ResetForcesRebuild(t *testing.T) {
	client := &fakeClient{
		activities: []strava.Activity{
			{ID: 1, Name: "Ride", DeviceWatts: true},
		},
		streams: map[int64]*strava.Streams{
			1: powerStreams(flatStream(230, 60), nil),
		},
	}
	svc, _ := newTestService(t, client)

	if _, err := svc.LoadYearHistory(context.Background(), nil); err != nil {
		t.Fatalf("first LoadYearHistory failed: %v", err)
	}
	if err := svc.ResetYearHistory(); err != nil {
		t.Fatalf("ResetYearHistory failed: %v", err)
	}
	client.listCalls, client.streamCalls = 0, 0

	if _, err := svc.LoadYearHistory(context.Background(), nil); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if client.listCalls == 0 {
		t.Error("rebuild after reset should hit the network")
	}
}
