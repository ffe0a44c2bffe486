package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cgreplay/internal/verify"
)

// Run is one persisted verification pass.
type Run struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	CatalogHash   uint32    `json:"catalog_hash"`
	CatalogSource string    `json:"catalog_source"`
	Fallback      bool      `json:"fallback"`
	Users         int       `json:"users"`
	Mismatched    int       `json:"mismatched"`
}

// RunResult is the per-user outcome stored with a run.
type RunResult struct {
	UserID       string       `json:"user_id"`
	Seed         uint32       `json:"seed"`
	Cause        verify.Cause `json:"cause,omitempty"`
	Mismatches   int          `json:"mismatches"`
	HashMismatch bool         `json:"hash_mismatch,omitempty"`
}

// RunMismatch is one stored mismatch row.
type RunMismatch struct {
	UserID string `json:"user_id"`
	verify.Mismatch
}

const runColumns = `id, started_at, catalog_hash, catalog_source, fallback, users, mismatched`

// SaveRun persists a run and its reports. ID and StartedAt are assigned when
// empty; Users and Mismatched are derived from reports.
func (s *Store) SaveRun(ctx context.Context, run Run, reports []verify.Report) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	summary := verify.Summarize(reports)
	run.Users = summary.Users
	run.Mismatched = summary.Mismatched

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, formatTime(run.StartedAt), int64(run.CatalogHash),
			nullableString(run.CatalogSource), boolToInt(run.Fallback), run.Users, run.Mismatched,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		for _, r := range reports {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_results (run_id, user_id, seed, cause, mismatches, hash_mismatch)
                 VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, r.UserID, int64(r.Seed), nullableString(string(r.Cause)),
				len(r.Mismatches), boolToInt(r.HashMismatch),
			); err != nil {
				return fmt.Errorf("insert result %s: %w", r.UserID, err)
			}
			for _, m := range r.Mismatches {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO run_mismatches (
                        run_id, user_id, position, kind, expected_label, actual_label,
                        expected_a, actual_a, expected_b, actual_b
                    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					run.ID, r.UserID, m.Position, string(m.Kind),
					nullableString(m.ExpectedLabel), nullableString(m.ActualLabel),
					nullableString(m.ExpectedA), nullableString(m.ActualA),
					nullableString(m.ExpectedB), nullableString(m.ActualB),
				); err != nil {
					return fmt.Errorf("insert mismatch %s#%d: %w", r.UserID, m.Position, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns runs newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// RunResults returns the per-user outcomes of a run sorted by user.
func (s *Store) RunResults(ctx context.Context, runID string) ([]RunResult, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT user_id, seed, cause, mismatches, hash_mismatch
         FROM run_results WHERE run_id = ? ORDER BY user_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run results: %w", err)
	}
	defer rows.Close()

	results := []RunResult{}
	for rows.Next() {
		var (
			r            RunResult
			seedValue    int64
			cause        sql.NullString
			hashMismatch int
		)
		if err := rows.Scan(&r.UserID, &seedValue, &cause, &r.Mismatches, &hashMismatch); err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}
		r.Seed = uint32(seedValue)
		r.Cause = verify.Cause(cause.String)
		r.HashMismatch = hashMismatch != 0
		results = append(results, r)
	}
	return results, rows.Err()
}

// RunMismatches returns the stored mismatches of a run ordered by user and
// position.
func (s *Store) RunMismatches(ctx context.Context, runID string) ([]RunMismatch, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT user_id, position, kind, expected_label, actual_label,
                expected_a, actual_a, expected_b, actual_b
         FROM run_mismatches WHERE run_id = ? ORDER BY user_id, position, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run mismatches: %w", err)
	}
	defer rows.Close()

	out := []RunMismatch{}
	for rows.Next() {
		var (
			m                  RunMismatch
			kind               string
			expLabel, actLabel sql.NullString
			expA, actA         sql.NullString
			expB, actB         sql.NullString
		)
		if err := rows.Scan(&m.UserID, &m.Position, &kind, &expLabel, &actLabel, &expA, &actA, &expB, &actB); err != nil {
			return nil, fmt.Errorf("scan mismatch: %w", err)
		}
		m.Kind = verify.Kind(kind)
		m.ExpectedLabel = expLabel.String
		m.ActualLabel = actLabel.String
		m.ExpectedA = expA.String
		m.ActualA = actA.String
		m.ExpectedB = expB.String
		m.ActualB = actB.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run       Run
		startedAt string
		hash      int64
		source    sql.NullString
		fallback  int
	)
	if err := scanner.Scan(&run.ID, &startedAt, &hash, &source, &fallback, &run.Users, &run.Mismatched); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(startedAt)
	run.CatalogHash = uint32(hash)
	run.CatalogSource = source.String
	run.Fallback = fallback != 0
	return run, nil
}
