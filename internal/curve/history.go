package curve

import "time"

// HistoryRecord is one observation in the year-long population: a single
// (activity, duration) pair with a positive watts value, plus the ride
// metrics carried along for display.
type HistoryRecord struct {
	ActivityID      int64     `json:"activity_id"`
	ActivityName    string    `json:"name"`
	Date            time.Time `json:"date"`
	DurationSeconds int       `json:"duration"`
	Watts           int       `json:"watts"`
	Heartrate       int       `json:"heartrate"`
	Distance        float64   `json:"distance"`
	MovingTime      int       `json:"moving_time"`
	Calories        float64   `json:"calories"`
	AverageSpeed    float64   `json:"average_speed"`
	MaxHeartrate    int       `json:"max_hr"`
	AvgHeartrate    int       `json:"avg_hr"`
}

// WattsForDuration collects the watts of every record for one ladder
// duration, in record order.
func WattsForDuration(records []HistoryRecord, durationSeconds int) []int {
	var out []int
	for _, r := range records {
		if r.DurationSeconds == durationSeconds {
			out = append(out, r.Watts)
		}
	}
	return out
}
