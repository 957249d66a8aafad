package strava

import "time"

// Activity is a summary row from /athlete/activities. Fields absent from
// the response decode to their zero values; nothing here is required.
type Activity struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	StartDate        time.Time `json:"start_date"`
	Distance         float64   `json:"distance"`    // meters
	MovingTime       int       `json:"moving_time"` // seconds
	Calories         float64   `json:"calories"`
	AverageSpeed     float64   `json:"average_speed"`     // m/s
	AverageHeartrate float64   `json:"average_heartrate"` // bpm
	MaxHeartrate     float64   `json:"max_heartrate"`     // bpm
	DeviceWatts      bool      `json:"device_watts"`
}

// Streams is the response of /activities/{id}/streams with key_by_type set.
// Only the two stream types the curve engine consumes are requested.
type Streams struct {
	Watts     *StreamData[int] `json:"watts"`
	Heartrate *StreamData[int] `json:"heartrate"`
}

// StreamData is a single stream type.
type StreamData[T any] struct {
	Data         []T    `json:"data"`
	SeriesType   string `json:"series_type"`
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

// WattsData returns the power samples, or nil when the activity has none.
func (s *Streams) WattsData() []int {
	if s == nil || s.Watts == nil {
		return nil
	}
	return s.Watts.Data
}

// HeartrateData returns the heart-rate samples, or nil when absent.
func (s *Streams) HeartrateData() []int {
	if s == nil || s.Heartrate == nil {
		return nil
	}
	return s.Heartrate.Data
}

// Athlete is the subset of /athlete the app reads: the rider's configured
// FTP, used once to seed the local profile.
type Athlete struct {
	ID  int64 `json:"id"`
	FTP int   `json:"ftp"`
}
