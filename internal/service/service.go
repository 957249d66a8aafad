package service

import (
	"context"
	"time"

	"github.com/paoloacx/wattlet/internal/store"
	"github.com/paoloacx/wattlet/internal/strava"
)

// Trailing windows and staleness rules for the cached datasets.
const (
	CurveWindow = 12 * 7 * 24 * time.Hour
	CurveTTL    = 7 * 24 * time.Hour
	YearWindow  = 365 * 24 * time.Hour
)

// Client is the slice of the Strava API the curve engine consumes.
type Client interface {
	ListActivities(ctx context.Context, after time.Time, page, perPage int) ([]strava.Activity, error)
	GetActivityStreams(ctx context.Context, activityID int64) (*strava.Streams, error)
}

// Service orchestrates fetching ride data, reducing it to the power curve
// and the year-history population, and enforcing the cache rules.
type Service struct {
	client Client
	store  *store.Store

	// now is swapped out in tests to pin staleness boundaries.
	now func() time.Time
}

// New creates a Service backed by the given API client and store.
func New(client Client, st *store.Store) *Service {
	return &Service{
		client: client,
		store:  st,
		now:    time.Now,
	}
}
