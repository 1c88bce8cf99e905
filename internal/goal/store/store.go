package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pulse/internal/goal"
	"github.com/MrJamesThe3rd/pulse/internal/month"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListGoals(ctx context.Context) ([]*goal.MonthGoal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, revenue, count FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.MonthGoal

	for rows.Next() {
		var g goal.MonthGoal
		if err := rows.Scan(&g.ID, &g.Revenue, &g.Count); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goal rows: %w", err)
	}

	return goals, nil
}

func (s *Store) GetGoal(ctx context.Context, id month.Key) (*goal.MonthGoal, error) {
	var g goal.MonthGoal

	err := s.db.QueryRowContext(ctx, `SELECT id, revenue, count FROM goals WHERE id = $1`, id).
		Scan(&g.ID, &g.Revenue, &g.Count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return &g, nil
}

func (s *Store) UpsertGoal(ctx context.Context, g *goal.MonthGoal) error {
	query := `
		INSERT INTO goals (id, revenue, count, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET revenue = EXCLUDED.revenue, count = EXCLUDED.count, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, g.ID, g.Revenue, g.Count); err != nil {
		return fmt.Errorf("upserting goal: %w", err)
	}

	return nil
}
