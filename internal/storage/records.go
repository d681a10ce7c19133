package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DefaultRecordName is used when a record is saved or renamed with a blank name.
const DefaultRecordName = "Untitled session"

var (
	// ErrRecordNotFound indicates an id that matches no stored record.
	ErrRecordNotFound = errors.New("session record not found")
	// ErrInvalidRecord indicates a record with a negative duration or actual time.
	ErrInvalidRecord = errors.New("invalid session record")
)

// Record is one saved work session.
type Record struct {
	ID         string
	Name       string
	Duration   time.Duration
	ActualTime time.Duration
	CreatedAt  time.Time
}

// DaySummary lists the records of one calendar day.
type DaySummary struct {
	Records []Record
	Total   time.Duration
}

// RecordOptions configures a RecordStore.
type RecordOptions struct {
	Now func() time.Time
}

// RecordStore persists session records in SQLite.
type RecordStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenRecordStore opens or creates the record database at path.
func OpenRecordStore(path string, options RecordOptions) (*RecordStore, error) {
	if options.Now == nil {
		options.Now = time.Now
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create records directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open records database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &RecordStore{db: db, now: options.Now}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate records database: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (store *RecordStore) Close() error {
	return store.db.Close()
}

func (store *RecordStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_records (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			actual_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_session_records_created_at ON session_records(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := store.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save stores a new record created now.
func (store *RecordStore) Save(ctx context.Context, name string, duration, actualTime time.Duration) (Record, error) {
	if duration < 0 || actualTime < 0 {
		return Record{}, fmt.Errorf("save %q: %w", name, ErrInvalidRecord)
	}
	record := Record{
		ID:         uuid.New().String(),
		Name:       normalizeName(name),
		Duration:   duration.Truncate(time.Millisecond),
		ActualTime: actualTime.Truncate(time.Millisecond),
		CreatedAt:  store.now(),
	}

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO session_records (id, name, duration_ms, actual_ms, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID,
		record.Name,
		record.Duration.Milliseconds(),
		record.ActualTime.Milliseconds(),
		record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert session record: %w", err)
	}
	return record, nil
}

// All returns every record, newest first.
func (store *RecordStore) All(ctx context.Context) ([]Record, error) {
	return store.query(ctx,
		`SELECT id, name, duration_ms, actual_ms, created_at FROM session_records
		 ORDER BY created_at DESC, rowid DESC`)
}

// Today returns the records created on the local calendar day of now.
func (store *RecordStore) Today(ctx context.Context, now time.Time) (DaySummary, error) {
	year, month, day := now.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	records, err := store.query(ctx,
		`SELECT id, name, duration_ms, actual_ms, created_at FROM session_records
		 WHERE created_at >= ? AND created_at < ?
		 ORDER BY created_at DESC, rowid DESC`,
		start.UnixNano(), end.UnixNano())
	if err != nil {
		return DaySummary{}, err
	}

	summary := DaySummary{Records: records}
	for _, record := range records {
		summary.Total += record.ActualTime
	}
	return summary, nil
}

// Get returns the record with id.
func (store *RecordStore) Get(ctx context.Context, id string) (Record, error) {
	records, err := store.query(ctx,
		`SELECT id, name, duration_ms, actual_ms, created_at FROM session_records WHERE id = ?`, id)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("get %q: %w", id, ErrRecordNotFound)
	}
	return records[0], nil
}

// Rename changes the name of the record with id.
func (store *RecordStore) Rename(ctx context.Context, id, name string) (Record, error) {
	res, err := store.db.ExecContext(ctx,
		`UPDATE session_records SET name = ? WHERE id = ?`, normalizeName(name), id)
	if err != nil {
		return Record{}, fmt.Errorf("rename session record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Record{}, fmt.Errorf("rename session record: %w", err)
	}
	if affected == 0 {
		return Record{}, fmt.Errorf("rename %q: %w", id, ErrRecordNotFound)
	}
	return store.Get(ctx, id)
}

// Delete removes the record with id and reports whether it existed.
func (store *RecordStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := store.db.ExecContext(ctx, `DELETE FROM session_records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session record: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every record.
func (store *RecordStore) Clear(ctx context.Context) error {
	if _, err := store.db.ExecContext(ctx, `DELETE FROM session_records`); err != nil {
		return fmt.Errorf("clear session records: %w", err)
	}
	return nil
}

func (store *RecordStore) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		var record Record
		var durationMs, actualMs, createdAt int64
		if err := rows.Scan(&record.ID, &record.Name, &durationMs, &actualMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan session record: %w", err)
		}
		record.Duration = time.Duration(durationMs) * time.Millisecond
		record.ActualTime = time.Duration(actualMs) * time.Millisecond
		record.CreatedAt = time.Unix(0, createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session records: %w", err)
	}
	return records, nil
}

func normalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultRecordName
	}
	return trimmed
}
