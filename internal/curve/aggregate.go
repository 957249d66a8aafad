package curve

import (
	"sort"
	"time"
)

// BestEffort is the winning entry for one ladder duration across a set of
// activities. Watts of 0 means no activity stream reached that duration.
type BestEffort struct {
	DurationSeconds int       `json:"duration"`
	Label           string    `json:"label"`
	Watts           int       `json:"watts"`
	Heartrate       int       `json:"heartrate"`
	Date            time.Time `json:"date"`
	ActivityName    string    `json:"activity_name"`
}

// Snapshot is the full duration ladder of best efforts for one trailing
// window, tagged with the time it was captured. It always holds exactly one
// entry per ladder duration, in ladder order.
type Snapshot struct {
	CapturedAt time.Time    `json:"captured_at"`
	Efforts    []BestEffort `json:"efforts"`
}

// PowerPoint is the slim per-duration view kept in the power-curve cache
// and plotted by the UI.
type PowerPoint struct {
	DurationSeconds int    `json:"duration"`
	Label           string `json:"label"`
	Watts           int    `json:"watts"`
}

// NewSnapshot returns an empty snapshot with a zero entry for every ladder
// duration.
func NewSnapshot(capturedAt time.Time) *Snapshot {
	s := &Snapshot{
		CapturedAt: capturedAt,
		Efforts:    make([]BestEffort, len(Ladder)),
	}
	for i, d := range Ladder {
		s.Efforts[i] = BestEffort{DurationSeconds: d.Seconds, Label: d.Label}
	}
	return s
}

// Merge folds one activity's extracted efforts into the snapshot. An entry
// is superseded only by strictly greater watts, so ties keep the entry seen
// first and merge order does not change the result. The winner's heart
// rate, date and activity name travel with its watts.
func (s *Snapshot) Merge(efforts map[int]Effort, date time.Time, activityName string) {
	for i := range s.Efforts {
		e, ok := efforts[s.Efforts[i].DurationSeconds]
		if !ok || e.Watts <= s.Efforts[i].Watts {
			continue
		}
		s.Efforts[i].Watts = e.Watts
		s.Efforts[i].Heartrate = e.Heartrate
		s.Efforts[i].Date = date
		s.Efforts[i].ActivityName = activityName
	}
}

// Effort returns the entry for a ladder duration. The second result is
// false when the duration is absent (no stream reached it) or not on the
// ladder at all.
func (s *Snapshot) Effort(durationSeconds int) (BestEffort, bool) {
	for _, e := range s.Efforts {
		if e.DurationSeconds == durationSeconds {
			return e, e.Watts > 0
		}
	}
	return BestEffort{}, false
}

// HasData reports whether any duration holds a positive watts value.
func (s *Snapshot) HasData() bool {
	for _, e := range s.Efforts {
		if e.Watts > 0 {
			return true
		}
	}
	return false
}

// Points returns the slim per-duration view of the snapshot.
func (s *Snapshot) Points() []PowerPoint {
	points := make([]PowerPoint, len(s.Efforts))
	for i, e := range s.Efforts {
		points[i] = PowerPoint{
			DurationSeconds: e.DurationSeconds,
			Label:           e.Label,
			Watts:           e.Watts,
		}
	}
	return points
}

// RecentEfforts returns up to n entries with positive watts, most recent
// activity date first.
func (s *Snapshot) RecentEfforts(n int) []BestEffort {
	var out []BestEffort
	for _, e := range s.Efforts {
		if e.Watts > 0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
