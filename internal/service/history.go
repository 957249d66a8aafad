package service

import (
	"context"
	"fmt"

	"github.com/paoloacx/wattlet/internal/curve"
)

// LoadYearHistory builds the historical population: one record per
// (activity, duration) pair with positive watts, over the trailing 365
// days of power-meter rides. If a population is already cached the call
// short-circuits with a single "already loaded" message and no network
// activity; ResetYearHistory forces the next call to rebuild. The progress
// sink, when non-nil, is invoked once per activity in processing order.
// A failure anywhere discards the partial accumulation.
func (s *Service) LoadYearHistory(ctx context.Context, progress func(string)) ([]curve.HistoryRecord, error) {
	has, err := s.store.HasYearHistory()
	if err != nil {
		return nil, err
	}
	if has {
		if progress != nil {
			progress("Year history already loaded")
		}
		return s.store.GetYearHistory()
	}

	loadedAt := s.now()
	activities, err := s.listPowerRides(ctx, loadedAt.Add(-YearWindow))
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	var records []curve.HistoryRecord
	for i, a := range activities {
		if progress != nil {
			progress(fmt.Sprintf("Processing %d/%d: %s", i+1, len(activities), a.Name))
		}

		streams, err := s.client.GetActivityStreams(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching streams for activity %d: %w", a.ID, err)
		}

		efforts := curve.ExtractBestEfforts(streams.WattsData(), streams.HeartrateData())
		for _, d := range curve.Ladder {
			e, ok := efforts[d.Seconds]
			if !ok || e.Watts <= 0 {
				continue
			}
			records = append(records, curve.HistoryRecord{
				ActivityID:      a.ID,
				ActivityName:    a.Name,
				Date:            a.StartDate,
				DurationSeconds: d.Seconds,
				Watts:           e.Watts,
				Heartrate:       e.Heartrate,
				Distance:        a.Distance,
				MovingTime:      a.MovingTime,
				Calories:        a.Calories,
				AverageSpeed:    a.AverageSpeed,
				MaxHeartrate:    int(a.MaxHeartrate),
				AvgHeartrate:    int(a.AverageHeartrate),
			})
		}
	}

	if err := s.store.SaveYearHistory(records, loadedAt); err != nil {
		return nil, fmt.Errorf("caching year history: %w", err)
	}
	return records, nil
}

// YearHistory returns the cached population without triggering a build.
func (s *Service) YearHistory() ([]curve.HistoryRecord, error) {
	return s.store.GetYearHistory()
}

// HasYearHistory reports whether a population is cached.
func (s *Service) HasYearHistory() (bool, error) {
	return s.store.HasYearHistory()
}

// ResetYearHistory clears the population so the next LoadYearHistory
// rebuilds from the network.
func (s *Service) ResetYearHistory() error {
	return s.store.ClearYearHistory()
}
