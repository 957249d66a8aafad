package store

import (
	"database/sql"
	"errors"
	"time"
)

// Cache keys, one per cached dataset. The names mirror the datasets they
// hold and double as the invalidation handles the caller passes to
// RemoveCache.
const (
	PowerCurveKey  = "power_curve_cache"
	BestEffortsKey = "best_efforts_cache"
	YearHistoryKey = "year_history_cache"
)

// ErrCacheMiss is returned when a cache key holds no value.
var ErrCacheMiss = errors.New("cache entry not found")

// GetCache returns the blob stored under key and the time it was written.
func (s *Store) GetCache(key string) ([]byte, time.Time, error) {
	var value []byte
	var updatedAt int64
	err := s.db.QueryRow(`
		SELECT value, updated_at FROM cache WHERE key = ?
	`, key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return value, time.Unix(updatedAt, 0), nil
}

// SetCache replaces the value under key as a whole.
func (s *Store) SetCache(key string, value []byte, writtenAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO cache (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, writtenAt.Unix())
	return err
}

// RemoveCache deletes the value under key. Removing an absent key is not
// an error.
func (s *Store) RemoveCache(key string) error {
	_, err := s.db.Exec(`DELETE FROM cache WHERE key = ?`, key)
	return err
}
