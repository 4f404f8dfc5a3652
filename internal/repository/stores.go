package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pizza-store/internal/domain"
)

type StoresRepo interface {
	List(ctx context.Context) ([]domain.Store, error)
	Exists(ctx context.Context, storeID int) (bool, error)
}

type storesRepo struct {
	db *sql.DB
}

func NewStoresRepo(db *sql.DB) StoresRepo {
	return &storesRepo{db: db}
}

func (r *storesRepo) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT storeID, address, city, state, isOpen, reviewScore
		FROM Store ORDER BY storeID
	`)
	if err != nil {
		return nil, fmt.Errorf("select stores: %w", err)
	}
	defer rows.Close()

	var out []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.StoreID, &s.Address, &s.City, &s.State, &s.IsOpen, &s.ReviewScore); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", err)
	}
	return out, nil
}

func (r *storesRepo) Exists(ctx context.Context, storeID int) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM Store WHERE storeID = $1)`, storeID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check store: %w", err)
	}
	return ok, nil
}
