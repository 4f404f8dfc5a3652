package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"pizza-store/internal/domain"
)

// ItemFilter narrows the menu listing. Zero values mean "no constraint".
type ItemFilter struct {
	TypeOfItem string
	MaxPrice   *decimal.Decimal
	PriceSort  string // "asc", "desc" or ""
}

type ItemsRepo interface {
	GetByName(ctx context.Context, name string) (domain.Item, error)
	List(ctx context.Context, f ItemFilter) ([]domain.Item, error)
	Insert(ctx context.Context, it domain.Item) error
	Update(ctx context.Context, it domain.Item) error
}

type itemsRepo struct {
	db *sql.DB
}

func NewItemsRepo(db *sql.DB) ItemsRepo {
	return &itemsRepo{db: db}
}

func (r *itemsRepo) GetByName(ctx context.Context, name string) (domain.Item, error) {
	var it domain.Item
	err := r.db.QueryRowContext(ctx, `
		SELECT itemName, ingredients, typeOfItem, price, description
		FROM Items WHERE itemName = $1
	`, name).Scan(&it.ItemName, &it.Ingredients, &it.TypeOfItem, &it.Price, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("select item: %w", err)
	}
	return it, nil
}

func (r *itemsRepo) List(ctx context.Context, f ItemFilter) ([]domain.Item, error) {
	query := `
		SELECT itemName, ingredients, typeOfItem, price, description
		FROM Items WHERE 1=1`
	var args []any
	if f.TypeOfItem != "" {
		args = append(args, f.TypeOfItem)
		query += fmt.Sprintf(" AND typeOfItem = $%d", len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		query += fmt.Sprintf(" AND price < $%d", len(args))
	}
	// sort direction cannot be bound as a parameter; whitelist it
	switch f.PriceSort {
	case "asc":
		query += " ORDER BY price ASC"
	case "desc":
		query += " ORDER BY price DESC"
	case "":
		query += " ORDER BY itemName"
	default:
		return nil, fmt.Errorf("invalid price sort %q", f.PriceSort)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ItemName, &it.Ingredients, &it.TypeOfItem, &it.Price, &it.Description); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

func (r *itemsRepo) Insert(ctx context.Context, it domain.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO Items (itemName, ingredients, typeOfItem, price, description)
		VALUES ($1, $2, $3, $4, $5)
	`, it.ItemName, it.Ingredients, it.TypeOfItem, it.Price, it.Description)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *itemsRepo) Update(ctx context.Context, it domain.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE Items SET ingredients = $2, typeOfItem = $3, price = $4, description = $5
		WHERE itemName = $1
	`, it.ItemName, it.Ingredients, it.TypeOfItem, it.Price, it.Description)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
