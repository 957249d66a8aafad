package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paoloacx/wattlet/internal/curve"
	"github.com/paoloacx/wattlet/internal/store"
	"github.com/paoloacx/wattlet/internal/strava"
)

// PowerCurve returns the current 12-week snapshot. A cached snapshot
// younger than a week is served directly. An older one triggers a refetch
// only when a credential is stored; without one the stale snapshot is
// served unchanged so the app keeps working offline.
func (s *Service) PowerCurve(ctx context.Context) (*curve.Snapshot, error) {
	snap, writtenAt, err := s.store.GetBestEfforts()
	if errors.Is(err, store.ErrCacheMiss) {
		return s.RefreshPowerCurve(ctx, nil)
	}
	if err != nil {
		return nil, err
	}

	if s.now().Sub(writtenAt) < CurveTTL {
		return snap, nil
	}
	if !s.store.HasAuth() {
		return snap, nil
	}
	return s.RefreshPowerCurve(ctx, nil)
}

// RefreshPowerCurve rebuilds the snapshot from every power-meter ride in
// the trailing 12 weeks, fetching streams one activity at a time. Nothing
// is written until the whole pass succeeds, so a failure mid-run leaves
// the previous snapshot intact. The progress sink, when non-nil, receives
// one message per processed activity.
func (s *Service) RefreshPowerCurve(ctx context.Context, progress func(string)) (*curve.Snapshot, error) {
	capturedAt := s.now()
	activities, err := s.listPowerRides(ctx, capturedAt.Add(-CurveWindow))
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	snap := curve.NewSnapshot(capturedAt)
	for i, a := range activities {
		if progress != nil {
			progress(fmt.Sprintf("Processing %d/%d: %s", i+1, len(activities), a.Name))
		}

		streams, err := s.client.GetActivityStreams(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching streams for activity %d: %w", a.ID, err)
		}

		efforts := curve.ExtractBestEfforts(streams.WattsData(), streams.HeartrateData())
		snap.Merge(efforts, a.StartDate, a.Name)
	}

	if err := s.store.SavePowerCurve(snap); err != nil {
		return nil, fmt.Errorf("caching power curve: %w", err)
	}
	return snap, nil
}

// PowerCurvePoints returns the chart-ready per-duration points from the
// slim curve cache, applying the same staleness policy as PowerCurve.
func (s *Service) PowerCurvePoints(ctx context.Context) ([]curve.PowerPoint, error) {
	if _, err := s.PowerCurve(ctx); err != nil {
		return nil, err
	}
	points, _, err := s.store.GetPowerCurve()
	if err != nil {
		return nil, err
	}
	return points, nil
}

// InvalidatePowerCurve drops both curve caches so the next read refetches.
func (s *Service) InvalidatePowerCurve() error {
	if err := s.store.RemoveCache(store.PowerCurveKey); err != nil {
		return err
	}
	return s.store.RemoveCache(store.BestEffortsKey)
}

// listPowerRides pages through the activity list from after to now and
// keeps the activities recorded with a power meter.
func (s *Service) listPowerRides(ctx context.Context, after time.Time) ([]strava.Activity, error) {
	var rides []strava.Activity
	for page := 1; ; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		activities, err := s.client.ListActivities(ctx, after, page, strava.PerPage)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if len(activities) == 0 {
			break
		}

		for _, a := range activities {
			if a.DeviceWatts {
				rides = append(rides, a)
			}
		}

		if len(activities) < strava.PerPage {
			break
		}
	}
	return rides, nil
}
