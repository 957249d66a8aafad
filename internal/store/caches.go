package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paoloacx/wattlet/internal/curve"
)

// SavePowerCurve writes both curve caches in lockstep: the slim
// per-duration points under the power-curve key and the full best-effort
// entries under the best-efforts key. Both carry the snapshot's capture
// time as their write time.
func (s *Store) SavePowerCurve(snap *curve.Snapshot) error {
	points, err := json.Marshal(snap.Points())
	if err != nil {
		return fmt.Errorf("encoding power curve: %w", err)
	}
	if err := s.SetCache(PowerCurveKey, points, snap.CapturedAt); err != nil {
		return fmt.Errorf("writing power curve cache: %w", err)
	}

	efforts, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding best efforts: %w", err)
	}
	if err := s.SetCache(BestEffortsKey, efforts, snap.CapturedAt); err != nil {
		return fmt.Errorf("writing best efforts cache: %w", err)
	}
	return nil
}

// GetPowerCurve reads the slim per-duration points cache.
func (s *Store) GetPowerCurve() ([]curve.PowerPoint, time.Time, error) {
	blob, writtenAt, err := s.GetCache(PowerCurveKey)
	if err != nil {
		return nil, time.Time{}, err
	}
	var points []curve.PowerPoint
	if err := json.Unmarshal(blob, &points); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding power curve cache: %w", err)
	}
	return points, writtenAt, nil
}

// GetBestEfforts reads the full 12-week snapshot.
func (s *Store) GetBestEfforts() (*curve.Snapshot, time.Time, error) {
	blob, writtenAt, err := s.GetCache(BestEffortsKey)
	if err != nil {
		return nil, time.Time{}, err
	}
	var snap curve.Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding best efforts cache: %w", err)
	}
	return &snap, writtenAt, nil
}

// SaveYearHistory replaces the year-history population as a whole.
func (s *Store) SaveYearHistory(records []curve.HistoryRecord, writtenAt time.Time) error {
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding year history: %w", err)
	}
	if err := s.SetCache(YearHistoryKey, blob, writtenAt); err != nil {
		return fmt.Errorf("writing year history cache: %w", err)
	}
	return nil
}

// GetYearHistory reads the accumulated population. Returns ErrCacheMiss
// when no accumulation has run since the last clear.
func (s *Store) GetYearHistory() ([]curve.HistoryRecord, error) {
	blob, _, err := s.GetCache(YearHistoryKey)
	if err != nil {
		return nil, err
	}
	var records []curve.HistoryRecord
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("decoding year history cache: %w", err)
	}
	return records, nil
}

// HasYearHistory reports whether a year-history population is cached.
func (s *Store) HasYearHistory() (bool, error) {
	_, _, err := s.GetCache(YearHistoryKey)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearYearHistory removes the population so the next accumulation starts
// from scratch.
func (s *Store) ClearYearHistory() error {
	return s.RemoveCache(YearHistoryKey)
}
