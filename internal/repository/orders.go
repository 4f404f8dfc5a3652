package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"pizza-store/internal/domain"
)

// OrderTx is one in-flight order placement. The header row is inserted when
// the transaction opens; item lookups, line inserts and the final total
// write-back all ride the same transaction, so a failure anywhere leaves no
// partial order behind. Mid-order reads must go through GetItem rather than
// the items repository: the pool holds a single connection and the open
// transaction owns it, so a pool-level query would wait forever.
type OrderTx interface {
	GetItem(ctx context.Context, name string) (domain.Item, error)
	AddLine(ctx context.Context, itemName string, quantity int) error
	Finalize(ctx context.Context, total decimal.Decimal) error
	Rollback() error
}

type OrdersRepo interface {
	MaxOrderID(ctx context.Context) (int64, error)
	Begin(ctx context.Context, header domain.Order) (OrderTx, error)
	Get(ctx context.Context, orderID int64) (domain.Order, error)
	Lines(ctx context.Context, orderID int64) ([]domain.OrderLine, error)
	IDsByLogin(ctx context.Context, login string) ([]int64, error)
	AllIDs(ctx context.Context) ([]int64, error)
	RecentIDs(ctx context.Context, login string, limit int) ([]int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

type ordersRepo struct {
	db *sql.DB
}

func NewOrdersRepo(db *sql.DB) OrdersRepo {
	return &ordersRepo{db: db}
}

func (r *ordersRepo) MaxOrderID(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(orderID), 0) FROM FoodOrder`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("select max order id: %w", err)
	}
	return max, nil
}

func (r *ordersRepo) Begin(ctx context.Context, header domain.Order) (OrderTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin order transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO FoodOrder (orderID, login, storeID, totalPrice, orderTimestamp, orderStatus)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, header.OrderID, header.Login, header.StoreID, header.TotalPrice, header.OrderTime, header.Status)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("insert order header: %w", err)
	}

	return &orderTx{tx: tx, orderID: header.OrderID}, nil
}

type orderTx struct {
	tx      *sql.Tx
	orderID int64
}

func (t *orderTx) GetItem(ctx context.Context, name string) (domain.Item, error) {
	var it domain.Item
	err := t.tx.QueryRowContext(ctx, `
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

func (t *orderTx) AddLine(ctx context.Context, itemName string, quantity int) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO ItemsInOrder (orderID, itemName, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (orderID, itemName)
		DO UPDATE SET quantity = ItemsInOrder.quantity + EXCLUDED.quantity
	`, t.orderID, itemName, quantity)
	if err != nil {
		return fmt.Errorf("insert order line %s: %w", itemName, err)
	}
	return nil
}

func (t *orderTx) Finalize(ctx context.Context, total decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE FoodOrder SET totalPrice = $2 WHERE orderID = $1`, t.orderID, total)
	if err != nil {
		return fmt.Errorf("write order total: %w", err)
	}
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (t *orderTx) Rollback() error {
	return t.tx.Rollback()
}

func (r *ordersRepo) Get(ctx context.Context, orderID int64) (domain.Order, error) {
	var o domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT orderID, login, storeID, totalPrice, orderTimestamp, orderStatus
		FROM FoodOrder WHERE orderID = $1
	`, orderID).Scan(&o.OrderID, &o.Login, &o.StoreID, &o.TotalPrice, &o.OrderTime, &o.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

func (r *ordersRepo) Lines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT orderID, itemName, quantity
		FROM ItemsInOrder WHERE orderID = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order lines: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ItemName, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return out, nil
}

func (r *ordersRepo) IDsByLogin(ctx context.Context, login string) ([]int64, error) {
	return r.scanIDs(ctx,
		`SELECT orderID FROM FoodOrder WHERE login = $1 ORDER BY orderID DESC`, login)
}

func (r *ordersRepo) AllIDs(ctx context.Context) ([]int64, error) {
	return r.scanIDs(ctx, `SELECT orderID FROM FoodOrder ORDER BY orderID DESC`)
}

func (r *ordersRepo) RecentIDs(ctx context.Context, login string, limit int) ([]int64, error) {
	return r.scanIDs(ctx,
		`SELECT orderID FROM FoodOrder WHERE login = $1 ORDER BY orderID DESC LIMIT $2`, login, limit)
}

func (r *ordersRepo) scanIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select order ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order ids: %w", err)
	}
	return out, nil
}

func (r *ordersRepo) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE FoodOrder SET orderStatus = $2 WHERE orderID = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
