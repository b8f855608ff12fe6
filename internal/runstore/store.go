package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"slate/internal/config"
	"slate/internal/pipeline"
)

// Store persists run history in SQLite. A file lock guards the database so
// concurrent slate invocations against the same data directory serialize
// their writes instead of tripping over each other.
type Store struct {
	db       *sql.DB
	path     string
	lock     *flock.Flock
	lockPath string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the run database under the configured data
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "runs.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run store lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another slate process holds the run store")
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "runs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock, lockPath: lockPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the store lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && dbErr == nil {
			dbErr = unlockErr
		}
	}
	return dbErr
}

// Save persists a finished run.
func (s *Store) Save(ctx context.Context, run *pipeline.Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	stagesJSON, err := json.Marshal(run.Stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}
	var artifactJSON any
	if run.Artifact != nil {
		data, err := json.Marshal(run.Artifact)
		if err != nil {
			return fmt.Errorf("marshal artifact: %w", err)
		}
		artifactJSON = string(data)
	}

	return s.execWithRetry(
		ctx,
		`INSERT INTO runs (
            id, kind, title, scene_count, success, error, confidence,
            stages_json, artifact_json, started_at, finished_at, processing_ms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Kind),
		run.Title,
		run.SceneCount,
		boolToInt(run.Success),
		nullableString(run.Error),
		run.MaxConfidence(),
		string(stagesJSON),
		artifactJSON,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.ProcessingTime.Milliseconds(),
	)
}

// Get fetches one run by identifier. Prefix matches are accepted so the CLI
// can address runs by a shortened id; an ambiguous prefix is an error.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("run id required")
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 2`,
		id, id+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return &records[0], nil
	default:
		if records[0].ID == id {
			return &records[0], nil
		}
		return nil, fmt.Errorf("run id %q is ambiguous", id)
	}
}

// List returns the most recent runs, newest first. A non-empty kind filters
// by pipeline; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, kind string, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM runs`
	args := []any{}
	if kind = strings.TrimSpace(kind); kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Prune deletes all but the newest keep runs and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(
			ctx,
			`DELETE FROM runs WHERE id NOT IN (
                SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
            )`,
			keep,
		)
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}

const recordColumns = `id, kind, title, scene_count, success, error, confidence,
    stages_json, artifact_json, started_at, finished_at, processing_ms`

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var (
			record     Record
			success    int
			errText    sql.NullString
			stages     string
			artifact   sql.NullString
			startedAt  string
			finishedAt string
			millis     int64
		)
		if err := rows.Scan(
			&record.ID, &record.Kind, &record.Title, &record.SceneCount,
			&success, &errText, &record.Confidence,
			&stages, &artifact, &startedAt, &finishedAt, &millis,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		record.Success = success != 0
		record.Error = errText.String
		record.Stages = json.RawMessage(stages)
		if artifact.Valid {
			record.Artifact = json.RawMessage(artifact.String)
		}
		record.ProcessingTime = time.Duration(millis) * time.Millisecond
		var err error
		if record.StartedAt, err = parseTimestamp(startedAt); err != nil {
			return nil, err
		}
		if record.FinishedAt, err = parseTimestamp(finishedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed.UTC(), nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
