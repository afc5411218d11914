package simulation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/aceshigh/pkg/db/migrations"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository and applies the embedded schema
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	// Open the database
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Apply migrations
	if _, err := migrations.NewEmbeddedMigrator(db).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRun stores a run, replacing any run with the same ID
func (r *SQLiteRepository) SaveRun(ctx context.Context, run *entities.SimulationRun) error {
	histogramJSON, err := json.Marshal(run.Histogram)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO simulation_runs
			(id, mode, iterations, workers, seed, histogram, started_at, completed_at, elapsed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id)
		DO UPDATE SET mode = excluded.mode, iterations = excluded.iterations,
			workers = excluded.workers, seed = excluded.seed, histogram = excluded.histogram,
			started_at = excluded.started_at, completed_at = excluded.completed_at,
			elapsed = excluded.elapsed`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, string(run.Mode), run.Iterations, run.Workers, run.Seed, string(histogramJSON),
		run.StartedAt.UnixNano(), run.CompletedAt.UnixNano(), int64(run.Elapsed))
	return err
}

const selectRunColumns = `SELECT id, mode, iterations, workers, seed, histogram, started_at, completed_at, elapsed FROM simulation_runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*entities.SimulationRun, error) {
	var (
		run           entities.SimulationRun
		mode          string
		histogramJSON string
		startedAt     int64
		completedAt   int64
		elapsed       int64
	)
	if err := row.Scan(&run.ID, &mode, &run.Iterations, &run.Workers, &run.Seed,
		&histogramJSON, &startedAt, &completedAt, &elapsed); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(histogramJSON), &run.Histogram); err != nil {
		return nil, fmt.Errorf("error decoding histogram of run %s: %w", run.ID, err)
	}
	if run.Histogram == nil {
		run.Histogram = make(entities.Histogram)
	}
	run.Mode = entities.Mode(mode)
	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.CompletedAt = time.Unix(0, completedAt).UTC()
	run.Elapsed = time.Duration(elapsed)
	return &run, nil
}

// GetRun retrieves a run by ID
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*entities.SimulationRun, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, selectRunColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, runNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, optionally for one mode
func (r *SQLiteRepository) ListRuns(ctx context.Context, mode entities.Mode, limit int) ([]*entities.SimulationRun, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative limit as no limit
	}

	query := selectRunColumns + `
		WHERE (? = '' OR mode = ?)
		ORDER BY completed_at DESC, id ASC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, string(mode), string(mode), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*entities.SimulationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveCribHands appends collected hands to a run in one transaction
func (r *SQLiteRepository) SaveCribHands(ctx context.Context, runID string, hands []*entities.CribHandRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO crib_hands (run_id, full_hand, kept_hand, cut, discarded, pre_cut_score, score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range hands {
		if _, err := stmt.ExecContext(ctx, runID,
			h.FullHand.String(), h.KeptHand.String(), h.Cut.String(), h.Discarded.String(),
			h.PreCutScore, h.Score); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetCribHands retrieves the first limit hands collected by a run
func (r *SQLiteRepository) GetCribHands(ctx context.Context, runID string, limit int) ([]*entities.CribHandRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, full_hand, kept_hand, cut, discarded, pre_cut_score, score
		FROM crib_hands
		WHERE run_id = ?
		ORDER BY id ASC
		LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hands := []*entities.CribHandRecord{}
	for rows.Next() {
		var h entities.CribHandRecord
		var full, kept, cut, discarded string
		if err := rows.Scan(&h.RunID, &full, &kept, &cut, &discarded, &h.PreCutScore, &h.Score); err != nil {
			return nil, err
		}
		if h.FullHand, err = entities.ParseHand(full); err != nil {
			return nil, err
		}
		if h.KeptHand, err = entities.ParseHand(kept); err != nil {
			return nil, err
		}
		if h.Cut, err = entities.ParseCard(cut); err != nil {
			return nil, err
		}
		if h.Discarded, err = entities.ParseHand(discarded); err != nil {
			return nil, err
		}
		hands = append(hands, &h)
	}
	return hands, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
