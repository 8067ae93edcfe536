package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	apperrors "genaidash/internal/errors"
	"genaidash/pkg/contracts/domain"
)

//go:embed schema.sql
var schemaSQL string

// DefaultListLimit caps List when no positive limit is given
const DefaultListLimit = 50

// Store is a SQLite ledger of dashboard generation runs
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the ledger at path. ":memory:" gives a private
// in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "history"))

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, apperrors.NewStorageError("cannot create history directory", err).WithContext("path", path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open history database", err).WithContext("path", path)
	}
	// One connection keeps ":memory:" databases shared and serialises writes.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to apply history schema", err).WithContext("path", path)
	}

	logger.Debug("history store opened", slog.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Record stores one run. Recording the same id twice is a STORAGE error.
func (s *Store) Record(ctx context.Context, run domain.GenerationRun) error {
	sources, err := json.Marshal(run.Sources)
	if err != nil {
		return apperrors.NewStorageError("cannot encode run sources", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, region, sources, output_bucket, row_count, url, status, error, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Region, string(sources), run.OutputBucket, run.Rows, run.URL,
		string(run.Status), run.Error, run.StartedAt.UnixNano(), int64(run.Duration))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record run",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to record run", err).WithContext("run_id", run.ID)
	}

	s.logger.DebugContext(ctx, "run recorded", slog.String("run_id", run.ID))
	return nil
}

// List returns the most recent runs, newest first. A limit <= 0 uses
// DefaultListLimit.
func (s *Store) List(ctx context.Context, limit int) ([]domain.GenerationRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list runs", err)
	}
	defer rows.Close()

	runs := []domain.GenerationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to list runs", err)
	}

	return runs, nil
}

// Get returns the run with the given id, or a NOT_FOUND error
func (s *Store) Get(ctx context.Context, id string) (domain.GenerationRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GenerationRun{}, apperrors.NewNotFoundError(fmt.Sprintf("run %s", id)).WithContext("run_id", id)
	}
	if err != nil {
		return domain.GenerationRun{}, err
	}
	return run, nil
}

const runColumns = "id, region, sources, output_bucket, row_count, url, status, error, started_at, duration_ns"

type scanner interface {
	Scan(dest ...any) error
}

// scanRun decodes one row selected with runColumns. sql.ErrNoRows is
// returned unwrapped.
func scanRun(sc scanner) (domain.GenerationRun, error) {
	var (
		run      domain.GenerationRun
		sources  string
		status   string
		started  int64
		duration int64
	)
	err := sc.Scan(&run.ID, &run.Region, &sources, &run.OutputBucket, &run.Rows,
		&run.URL, &status, &run.Error, &started, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return run, err
	}
	if err != nil {
		return run, apperrors.NewStorageError("failed to scan run", err)
	}
	if err := json.Unmarshal([]byte(sources), &run.Sources); err != nil {
		return run, apperrors.NewStorageError("corrupt run sources", err).WithContext("run_id", run.ID)
	}
	run.Status = domain.RunStatus(status)
	run.StartedAt = time.Unix(0, started).UTC()
	run.Duration = time.Duration(duration)
	return run, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
