package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/brewshell/internal/infrastructure/database"
	"github.com/nerrad567/brewshell/internal/telemetry"
	"github.com/nerrad567/brewshell/migrations"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestCreateAndRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)

	entries := []Entry{
		{SessionID: "s1", DeviceID: "relay1", Driver: "Waveshare", Command: "set_state", Args: "on", OK: true, At: base},
		{SessionID: "s1", DeviceID: "tank1", Driver: "CN7500", Command: "set", Args: "65.5", OK: true, At: base.Add(time.Second)},
		{SessionID: "s2", DeviceID: "tank1", Driver: "CN7500", Command: "read", OK: false, Error: "timeout", At: base.Add(2 * time.Second)},
	}
	for i := range entries {
		if err := repo.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if entries[i].ID == 0 {
			t.Errorf("Create() did not set ID")
		}
	}

	tests := []struct {
		name     string
		filter   Filter
		wantCmds []string
	}{
		{"all newest first", Filter{}, []string{"read", "set", "set_state"}},
		{"by device", Filter{DeviceID: "tank1"}, []string{"read", "set"}},
		{"by session", Filter{SessionID: "s1"}, []string{"set", "set_state"}},
		{"limit", Filter{Limit: 1}, []string{"read"}},
		{"no match", Filter{DeviceID: "ghost"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Recent(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(got) != len(tt.wantCmds) {
				t.Fatalf("Recent() returned %d entries, want %d", len(got), len(tt.wantCmds))
			}
			for i, cmd := range tt.wantCmds {
				if got[i].Command != cmd {
					t.Errorf("entry %d command = %q, want %q", i, got[i].Command, cmd)
				}
			}
		})
	}

	got, err := repo.Recent(ctx, Filter{DeviceID: "tank1", Limit: 1})
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	e := got[0]
	if e.OK || e.Error != "timeout" || e.SessionID != "s2" || !e.At.Equal(base.Add(2*time.Second)) {
		t.Errorf("entry = %+v", e)
	}
}

func TestRecorder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := NewRecorder(repo, "session-1")

	rec.Record(ctx, telemetry.Event{
		DeviceID: "tank1",
		Driver:   "CN7500",
		Command:  "set",
		Args:     []string{"65.5"},
		State:    map[string]any{"sv": 65.5},
		At:       time.Now(),
	})
	rec.Record(ctx, telemetry.Event{
		DeviceID: "tank1",
		Command:  "watch",
		Snapshot: true,
		At:       time.Now(),
	})
	rec.Record(ctx, telemetry.Event{
		DeviceID: "relay9",
		Driver:   "STR1",
		Command:  "get_cn",
		Err:      errors.New("drivers: operation not supported by this board"),
		At:       time.Now(),
	})

	got, err := repo.Recent(ctx, Filter{})
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("logged %d entries, want 2 (snapshot skipped)", len(got))
	}
	if got[0].Command != "get_cn" || got[0].OK || got[0].SessionID != "session-1" {
		t.Errorf("latest = %+v", got[0])
	}
	if got[1].Args != "65.5" || !got[1].OK {
		t.Errorf("first = %+v", got[1])
	}
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *Entry) error { return errors.New("disk full") }
func (failingRepo) Recent(context.Context, Filter) ([]Entry, error) {
	return nil, nil
}

type warnLogger struct{ warnings int }

func (w *warnLogger) Warn(string, ...any) { w.warnings++ }

func TestRecorder_WriteFailureIsLogged(t *testing.T) {
	logger := &warnLogger{}
	rec := NewRecorder(failingRepo{}, "s")
	rec.SetLogger(logger)

	rec.Record(context.Background(), telemetry.Event{DeviceID: "relay1", Command: "read"})

	if logger.warnings != 1 {
		t.Errorf("warnings = %d, want 1", logger.warnings)
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == "" || a == b {
		t.Errorf("NewSessionID() = %q, %q; want distinct non-empty ids", a, b)
	}
}
