package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pulse/internal/call"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateCall(ctx context.Context, c *call.Call) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO calls (id, date) VALUES ($1, $2)`, c.ID, c.Date); err != nil {
		return fmt.Errorf("creating call: %w", err)
	}

	return nil
}

func (s *Store) ListCalls(ctx context.Context) ([]*call.Call, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date FROM calls ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing calls: %w", err)
	}
	defer rows.Close()

	var calls []*call.Call

	for rows.Next() {
		var c call.Call
		if err := rows.Scan(&c.ID, &c.Date); err != nil {
			return nil, fmt.Errorf("scanning call: %w", err)
		}

		calls = append(calls, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating call rows: %w", err)
	}

	return calls, nil
}

func (s *Store) DeleteCall(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting call: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting call: %w", err)
	}

	if n == 0 {
		return call.ErrNotFound
	}

	return nil
}
