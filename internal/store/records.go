package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cgreplay/internal/reference"
)

// ImportResult summarizes one ImportRecords call.
type ImportResult struct {
	BatchID    string    `json:"batch_id"`
	Source     string    `json:"source"`
	ImportedAt time.Time `json:"imported_at"`
	Users      int       `json:"users"`
	Entries    int       `json:"entries"`
}

// ImportRecords stores records under a new batch id. A user's previously
// imported entries are replaced wholesale. Returns ErrLocked when another
// import is running.
func (s *Store) ImportRecords(ctx context.Context, source string, records []reference.Record) (ImportResult, error) {
	if len(records) == 0 {
		return ImportResult{}, reference.ErrNoRecords
	}
	release, err := s.acquireImportLock()
	if err != nil {
		return ImportResult{}, err
	}
	defer release()

	result := ImportResult{
		BatchID:    uuid.NewString(),
		Source:     source,
		ImportedAt: time.Now().UTC(),
	}
	for _, rec := range records {
		if rec.UserID == "" {
			continue
		}
		result.Users++
		result.Entries += len(rec.Entries)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO imports (id, source, imported_at, users, entries) VALUES (?, ?, ?, ?, ?)`,
			result.BatchID, source, formatTime(result.ImportedAt), result.Users, result.Entries,
		); err != nil {
			return fmt.Errorf("insert import: %w", err)
		}
		for _, rec := range records {
			if rec.UserID == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM reference_entries WHERE user_id = ?`, rec.UserID); err != nil {
				return fmt.Errorf("clear entries for %s: %w", rec.UserID, err)
			}
			for i, e := range rec.Entries {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO reference_entries (
                        user_id, position, scene, video_a, video_b, swapped, list_hash, import_id
                    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
					rec.UserID, i+1, e.Label, e.VideoA, e.VideoB,
					nullableBool(e.Swapped), nullableString(rec.ListHash), result.BatchID,
				); err != nil {
					return fmt.Errorf("insert entry %s#%d: %w", rec.UserID, i+1, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// Users returns every user with imported entries, sorted.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT DISTINCT user_id FROM reference_entries ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// Record returns the stored session of one user in logged order.
func (s *Store) Record(ctx context.Context, userID string) (reference.Record, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT scene, video_a, video_b, swapped, list_hash
         FROM reference_entries WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return reference.Record{}, fmt.Errorf("query record: %w", err)
	}
	defer rows.Close()

	rec := reference.Record{UserID: userID}
	for rows.Next() {
		var (
			e        reference.Entry
			swapped  sql.NullInt64
			listHash sql.NullString
		)
		if err := rows.Scan(&e.Label, &e.VideoA, &e.VideoB, &swapped, &listHash); err != nil {
			return reference.Record{}, fmt.Errorf("scan entry: %w", err)
		}
		if swapped.Valid {
			e.Swapped = reference.BoolPtr(swapped.Int64 != 0)
		}
		if listHash.Valid && rec.ListHash == "" {
			rec.ListHash = listHash.String
		}
		rec.Entries = append(rec.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return reference.Record{}, err
	}
	if len(rec.Entries) == 0 {
		return reference.Record{}, fmt.Errorf("record %q: %w", userID, ErrNotFound)
	}
	return rec, nil
}

// Records returns every stored record sorted by user.
func (s *Store) Records(ctx context.Context) ([]reference.Record, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reference.Record, 0, len(users))
	for _, u := range users {
		rec, err := s.Record(ctx, u)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
