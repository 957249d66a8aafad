package store

import (
	"errors"
	"testing"
	"time"
)

func TestAuthRoundTrip(t *testing.T) {
	s := NewTestStore(t)

	if s.HasAuth() {
		t.Fatal("fresh store should have no auth")
	}
	if _, err := s.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("got %v, want ErrNoAuth", err)
	}

	expires := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	auth := &Auth{
		AthleteID:    12345,
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    expires,
	}
	if err := s.SaveAuth(auth); err != nil {
		t.Fatalf("SaveAuth failed: %v", err)
	}

	got, err := s.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth failed: %v", err)
	}
	if got.AthleteID != 12345 || got.AccessToken != "access" || got.RefreshToken != "refresh" {
		t.Errorf("got %+v, want saved credentials", got)
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Errorf("got expiry %v, want %v", got.ExpiresAt, expires)
	}
	if !s.HasAuth() {
		t.Error("HasAuth should be true after save")
	}
}

func TestUpdateTokens(t *testing.T) {
	s := NewTestStore(t)

	if err := s.UpdateTokens("a", "r", time.Now()); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("got %v updating tokens on empty store, want ErrNoAuth", err)
	}

	if err := s.SaveAuth(&Auth{AthleteID: 7, AccessToken: "old", RefreshToken: "old-r", ExpiresAt: time.Now()}); err != nil {
		t.Fatalf("SaveAuth failed: %v", err)
	}

	newExpiry := time.Now().Add(6 * time.Hour).Truncate(time.Second)
	if err := s.UpdateTokens("new", "new-r", newExpiry); err != nil {
		t.Fatalf("UpdateTokens failed: %v", err)
	}

	got, err := s.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth failed: %v", err)
	}
	if got.AccessToken != "new" || got.RefreshToken != "new-r" {
		t.Errorf("got tokens %q/%q, want new/new-r", got.AccessToken, got.RefreshToken)
	}
	if got.AthleteID != 7 {
		t.Errorf("athlete ID changed to %d during token update", got.AthleteID)
	}
}

func TestDeleteAuth(t *testing.T) {
	s := NewTestStore(t)

	if err := s.SaveAuth(&Auth{AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now()}); err != nil {
		t.Fatalf("SaveAuth failed: %v", err)
	}
	if err := s.DeleteAuth(); err != nil {
		t.Fatalf("DeleteAuth failed: %v", err)
	}
	if s.HasAuth() {
		t.Error("HasAuth should be false after delete")
	}
}
