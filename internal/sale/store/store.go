package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, amount, date, description, status, receipt, created_at, updated_at
func scanSale(s scanner) (*sale.Sale, error) {
	var (
		out       sale.Sale
		statusStr string
		receipt   sql.NullString
	)

	if err := s.Scan(
		&out.ID, &out.Amount, &out.Date, &out.Description, &statusStr, &receipt,
		&out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, err
	}

	out.Status = sale.Status(statusStr)
	out.Receipt = receipt.String

	return &out, nil
}

const selectSaleColumns = `id, amount, date, description, status, receipt, created_at, updated_at`

const insertSale = `
	INSERT INTO sales (id, amount, date, description, status, receipt, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW(), NOW())
	RETURNING created_at, updated_at
`

func (s *Store) CreateSale(ctx context.Context, sl *sale.Sale) error {
	err := s.db.QueryRowContext(ctx, insertSale,
		sl.ID, sl.Amount, sl.Date, sl.Description, sl.Status, sl.Receipt,
	).Scan(&sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating sale: %w", err)
	}

	return nil
}

// CreateSales inserts every sale in a single database transaction.
func (s *Store) CreateSales(ctx context.Context, sales []*sale.Sale) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, insertSale)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, sl := range sales {
		err := stmt.QueryRowContext(ctx,
			sl.ID, sl.Amount, sl.Date, sl.Description, sl.Status, sl.Receipt,
		).Scan(&sl.CreatedAt, &sl.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating sale: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetSale(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales WHERE id = $1`

	sl, err := scanSale(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	return sl, nil
}

func (s *Store) ListSales(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date < $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		sl, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, nil
}

func (s *Store) UpdateSale(ctx context.Context, sl *sale.Sale) error {
	query := `
		UPDATE sales
		SET amount = $1, date = $2, description = $3, status = $4, receipt = NULLIF($5, ''), updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sl.Amount, sl.Date, sl.Description, sl.Status, sl.Receipt, sl.ID,
	).Scan(&sl.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sale.ErrNotFound
		}

		return fmt.Errorf("updating sale: %w", err)
	}

	return nil
}

func (s *Store) DeleteSale(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	if n == 0 {
		return sale.ErrNotFound
	}

	return nil
}
