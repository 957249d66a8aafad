package service

import (
	"context"
	"errors"

	"github.com/paoloacx/wattlet/internal/curve"
	"github.com/paoloacx/wattlet/internal/store"
)

// ErrNoHistory is returned by rank lookups when no year-history
// population has been loaded.
var ErrNoHistory = errors.New("year history not loaded")

// HistoricalRank places candidateWatts within the year-history population
// for one ladder duration. The second result is false when the population
// holds no entries for that duration.
func (s *Service) HistoricalRank(durationSeconds, candidateWatts int) (curve.Rank, bool, error) {
	records, err := s.store.GetYearHistory()
	if errors.Is(err, store.ErrCacheMiss) {
		return curve.Rank{}, false, ErrNoHistory
	}
	if err != nil {
		return curve.Rank{}, false, err
	}

	population := curve.WattsForDuration(records, durationSeconds)
	rank, ok := curve.RankAgainst(population, candidateWatts)
	return rank, ok, nil
}

// SnapshotRanks ranks every present effort of the snapshot against the
// year history, keyed by duration. Durations with no population are
// omitted.
func (s *Service) SnapshotRanks(snap *curve.Snapshot) (map[int]curve.Rank, error) {
	records, err := s.store.GetYearHistory()
	if errors.Is(err, store.ErrCacheMiss) {
		return nil, ErrNoHistory
	}
	if err != nil {
		return nil, err
	}

	ranks := make(map[int]curve.Rank)
	for _, e := range snap.Efforts {
		if e.Watts <= 0 {
			continue
		}
		population := curve.WattsForDuration(records, e.DurationSeconds)
		if rank, ok := curve.RankAgainst(population, e.Watts); ok {
			ranks[e.DurationSeconds] = rank
		}
	}
	return ranks, nil
}

// Thresholds derives the FTP/VT1/VT2 estimates from the current 12-week
// snapshot. The second result is false when the snapshot holds no usable
// 5-minute, 20-minute or 1-hour power.
func (s *Service) Thresholds(ctx context.Context) (curve.Thresholds, bool, error) {
	snap, err := s.PowerCurve(ctx)
	if err != nil {
		return curve.Thresholds{}, false, err
	}
	t, ok := curve.EstimateThresholds(snap)
	return t, ok, nil
}
