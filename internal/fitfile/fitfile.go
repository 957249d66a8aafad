// Package fitfile decodes local FIT activity files into the per-second
// sample streams the curve engine consumes, for rides that never reached
// Strava.
package fitfile

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/tormoder/fit"
)

// Ride is one decoded activity: the two sample streams plus the session
// metadata shown alongside the results.
type Ride struct {
	Sport          string
	StartTime      time.Time
	ElapsedSeconds float64
	DistanceMeters float64
	Calories       int

	Watts     []int
	Heartrate []int
}

// DecodeFile decodes the FIT activity at path.
func DecodeFile(path string) (*Ride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	ride := &Ride{}
	if len(activity.Sessions) > 0 {
		session := activity.Sessions[0]
		ride.Sport = fmt.Sprint(session.Sport)
		ride.StartTime = validTimeOrZero(session.StartTime)
		ride.ElapsedSeconds = session.GetTotalTimerTimeScaled()
		ride.DistanceMeters = session.GetTotalDistanceScaled()
		ride.Calories = int(validUint16(session.TotalCalories))
	}

	ride.Watts, ride.Heartrate = recordStreams(activity.Records)
	if ride.StartTime.IsZero() && len(activity.Records) > 0 {
		ride.StartTime = validTimeOrZero(activity.Records[0].Timestamp)
	}

	return ride, nil
}

// recordStreams flattens the record messages into per-sample power and
// heart-rate streams in timestamp order. Invalid sentinel values decode
// to 0, matching how absent samples are treated elsewhere.
func recordStreams(records []*fit.RecordMsg) (watts, heartrate []int) {
	rows := make([]*fit.RecordMsg, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rows = append(rows, rec)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	watts = make([]int, 0, len(rows))
	heartrate = make([]int, 0, len(rows))
	for _, rec := range rows {
		watts = append(watts, powerSample(rec))
		heartrate = append(heartrate, heartrateSample(rec))
	}
	return watts, heartrate
}

func powerSample(rec *fit.RecordMsg) int {
	if rec.Power == math.MaxUint16 {
		return 0
	}
	return int(rec.Power)
}

func heartrateSample(rec *fit.RecordMsg) int {
	if rec.HeartRate == math.MaxUint8 {
		return 0
	}
	return int(rec.HeartRate)
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func validUint16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}
