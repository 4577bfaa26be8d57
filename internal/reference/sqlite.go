package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/formkiosk/internal/dbx"
)

// SQLiteCounterStore keeps the generator state in a single-row table.
// The read and the upsert run inside one transaction, so the persisted
// pair is always from the same issuing call even across processes.
type SQLiteCounterStore struct {
	db *sql.DB
}

func NewSQLiteCounterStore(db *sql.DB) *SQLiteCounterStore {
	return &SQLiteCounterStore{db: db}
}

func (s *SQLiteCounterStore) Next(ctx context.Context, date string) (int, error) {
	var seq int

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var lastDate string
		var lastSeq int

		query := `SELECT last_date, last_sequence FROM reference_counter WHERE id = 1`
		err := tx.QueryRowContext(ctx, query).Scan(&lastDate, &lastSeq)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to load reference counter: %w", err)
		}

		seq = 1
		if lastDate == date {
			seq = lastSeq + 1
		}

		upsert := `INSERT INTO reference_counter (id, last_date, last_sequence)
			VALUES (1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET last_date = excluded.last_date,
				last_sequence = excluded.last_sequence
	`
		if _, err := tx.ExecContext(ctx, upsert, date, seq); err != nil {
			return fmt.Errorf("failed to store reference counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}
