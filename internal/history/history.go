// Package history keeps a SQLite log of the device commands run through
// brewshell, for the shell's history built-in.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/brewshell/internal/telemetry"
)

// Query limits.
const (
	DefaultLimit = 20
	MaxLimit     = 500
)

// Entry is one logged command.
type Entry struct {
	ID        int64
	SessionID string
	DeviceID  string
	Driver    string
	Command   string
	Args      string
	OK        bool
	Error     string
	At        time.Time
}

// Filter controls which entries Recent returns.
type Filter struct {
	DeviceID  string // optional
	SessionID string // optional
	Limit     int    // default DefaultLimit, max MaxLimit
}

// Repository defines the command log operations.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, filter Filter) ([]Entry, error)
}

// SQLiteRepository stores entries in the command_log table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository on an open, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// NewSessionID returns an identifier for one shell or run invocation.
func NewSessionID() string {
	return uuid.NewString()
}

// Create inserts an entry. At defaults to now; ID is set from the database.
func (r *SQLiteRepository) Create(ctx context.Context, e *Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO command_log (session_id, device_id, driver, command, args, ok, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.DeviceID, e.Driver, e.Command, e.Args,
		boolToInt(e.OK), e.Error,
		e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting command log entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading command log id: %w", err)
	}
	e.ID = id
	return nil
}

// Recent returns matching entries, most recent first.
func (r *SQLiteRepository) Recent(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}

	var conditions []string
	var args []any
	if filter.DeviceID != "" {
		conditions = append(conditions, "device_id = ?")
		args = append(args, filter.DeviceID)
	}
	if filter.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, filter.SessionID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions, not user input
		"SELECT id, session_id, device_id, driver, command, args, ok, error, created_at FROM command_log %s ORDER BY id DESC LIMIT ?",
		where,
	)
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying command log: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var ok int
		var createdAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.DeviceID, &e.Driver,
			&e.Command, &e.Args, &ok, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning command log entry: %w", err)
		}
		e.OK = ok == 1

		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing command log timestamp %q: %w", createdAt, err)
		}
		e.At = t

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating command log: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Logger is the logging surface Recorder uses for write failures.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Recorder logs routed commands through a Repository. Watch snapshots are
// not logged; the watch command is logged once when it ends.
type Recorder struct {
	repo      Repository
	sessionID string
	logger    Logger
}

// NewRecorder creates a Recorder tagging entries with sessionID.
func NewRecorder(repo Repository, sessionID string) *Recorder {
	return &Recorder{repo: repo, sessionID: sessionID, logger: noopLogger{}}
}

// SetLogger sets the logger for write failures.
func (r *Recorder) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Record implements telemetry.Recorder.
func (r *Recorder) Record(ctx context.Context, ev telemetry.Event) {
	if ev.Snapshot {
		return
	}

	e := &Entry{
		SessionID: r.sessionID,
		DeviceID:  ev.DeviceID,
		Driver:    ev.Driver,
		Command:   ev.Command,
		Args:      strings.Join(ev.Args, " "),
		OK:        ev.OK(),
		At:        ev.At,
	}
	if ev.Err != nil {
		e.Error = ev.Err.Error()
	}

	if err := r.repo.Create(ctx, e); err != nil {
		r.logger.Warn("logging command", "device", ev.DeviceID, "command", ev.Command, "error", err)
	}
}
