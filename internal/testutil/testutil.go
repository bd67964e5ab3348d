// Package testutil provides shared test helpers for setting up databases and services.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/screentime/internal/store"
)

// TestStore opens a migrated SQLite store in a temporary directory that is
// automatically cleaned up.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "screentime-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// At returns a fixed UTC instant offset by the given number of minutes.
// Tests use it to give records distinct, ordered creation times.
func At(minutes int) *time.Time {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
	return &ts
}
