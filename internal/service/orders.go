package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pizza-store/internal/domain"
	"pizza-store/internal/events"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
	"pizza-store/internal/sequence"
)

// LineItemSource drives the interactive part of order placement. The engine
// pulls item names from it, validates each one, and asks for a quantity only
// once the item is known to exist.
type LineItemSource interface {
	// NextItem returns the next requested item name, or false when the
	// caller is done adding items. A non-nil error means the source broke
	// mid-order; the engine rolls the whole order back.
	NextItem() (string, bool, error)
	// Quantity asks for a positive quantity for a validated item. Returning
	// false skips the item.
	Quantity(item domain.Item) (int, bool)
	// Reject reports a recoverable validation failure for the named item.
	// The loop continues afterwards; nothing was written.
	Reject(name string, reason error)
}

type OrderService struct {
	orders repository.OrdersRepo
	stores repository.StoresRepo
	gate   *UserService
	alloc  *sequence.Allocator
	pub    events.Publisher
	lg     *logger.Logger
}

func NewOrderService(
	orders repository.OrdersRepo,
	stores repository.StoresRepo,
	gate *UserService,
	alloc *sequence.Allocator,
	pub events.Publisher,
	lg *logger.Logger,
) *OrderService {
	return &OrderService{
		orders: orders,
		stores: stores,
		gate:   gate,
		alloc:  alloc,
		pub:    pub,
		lg:     lg,
	}
}

// PlaceOrder runs the whole placement workflow: store validation, header
// insert, the caller-driven line-item loop, the total write-back, and the
// allocator advance. Header, lines and total ride one transaction, so a
// failure at any point leaves no partial order. The allocator moves only
// after the commit succeeds.
func (s *OrderService) PlaceOrder(ctx context.Context, login string, storeID int, src LineItemSource) (domain.Receipt, error) {
	ok, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("validate store %d: %w", storeID, err)
	}
	if !ok {
		return domain.Receipt{}, domain.ErrStoreNotFound
	}

	orderID := s.alloc.Next()
	header := domain.Order{
		OrderID:    orderID,
		Login:      login,
		StoreID:    storeID,
		TotalPrice: decimal.Zero,
		OrderTime:  time.Now().UTC(),
		Status:     domain.StatusPlaced,
	}
	otx, err := s.orders.Begin(ctx, header)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("open order %d: %w", orderID, err)
	}

	total := decimal.Zero
	var lines []domain.OrderLine
	lineIdx := make(map[string]int)
	for {
		name, more, err := src.NextItem()
		if err != nil {
			_ = otx.Rollback()
			return domain.Receipt{}, fmt.Errorf("read next item for order %d: %w", orderID, err)
		}
		if !more {
			break
		}

		// lookups ride the order transaction: the pool has one connection
		// and the open transaction holds it
		item, err := otx.GetItem(ctx, name)
		if errors.Is(err, domain.ErrItemNotFound) {
			src.Reject(name, domain.ErrItemNotFound)
			continue
		}
		if err != nil {
			_ = otx.Rollback()
			return domain.Receipt{}, fmt.Errorf("look up item %q: %w", name, err)
		}

		qty, ok := src.Quantity(item)
		if !ok {
			continue
		}
		if qty <= 0 {
			src.Reject(name, domain.ErrInvalidQuantity)
			continue
		}

		if err := otx.AddLine(ctx, item.ItemName, qty); err != nil {
			_ = otx.Rollback()
			return domain.Receipt{}, fmt.Errorf("add line for order %d: %w", orderID, err)
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
		// repeated items fold into one line, matching the stored row
		if i, seen := lineIdx[item.ItemName]; seen {
			lines[i].Quantity += qty
		} else {
			lineIdx[item.ItemName] = len(lines)
			lines = append(lines, domain.OrderLine{OrderID: orderID, ItemName: item.ItemName, Quantity: qty})
		}
	}

	if err := otx.Finalize(ctx, total); err != nil {
		_ = otx.Rollback()
		return domain.Receipt{}, fmt.Errorf("finalize order %d: %w", orderID, err)
	}
	s.alloc.Advance()

	header.TotalPrice = total
	if err := s.pub.OrderPlaced(ctx, header, lines); err != nil {
		// the order is committed; a broker hiccup must not fail it
		s.lg.Error("order_event_publish_failed", err, map[string]any{"order_id": orderID})
	}
	s.lg.Info("order_placed", map[string]any{
		"order_id": orderID, "login": login, "store_id": storeID,
		"total": total.StringFixed(2), "lines": len(lines),
	})

	return domain.Receipt{OrderID: orderID, Total: total, Lines: lines}, nil
}

// OrderIDs lists order ids visible to the login: customers see their own,
// drivers and managers see everything.
func (s *OrderService) OrderIDs(ctx context.Context, login string) ([]int64, error) {
	switch s.gate.RoleOf(ctx, login) {
	case domain.RoleDriver, domain.RoleManager:
		return s.orders.AllIDs(ctx)
	default:
		// customers and unclassifiable logins only ever see their own
		return s.orders.IDsByLogin(ctx, login)
	}
}

func (s *OrderService) RecentOrderIDs(ctx context.Context, login string, limit int) ([]int64, error) {
	return s.orders.RecentIDs(ctx, login, limit)
}

// OrderInfo returns the order header and, for privileged actors, its line
// items. Customers may only inspect their own orders.
func (s *OrderService) OrderInfo(ctx context.Context, login string, orderID int64) (domain.Order, []domain.OrderLine, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	privileged := s.gate.CanUpdateOrderStatus(ctx, login)
	if !privileged && o.Login != login {
		return domain.Order{}, nil, domain.ErrNotAuthorized
	}
	var lines []domain.OrderLine
	if privileged {
		lines, err = s.orders.Lines(ctx, orderID)
		if err != nil {
			return domain.Order{}, nil, err
		}
	}
	return o, lines, nil
}

// UpdateStatus is restricted to drivers and managers.
func (s *OrderService) UpdateStatus(ctx context.Context, actor string, orderID int64, status string) error {
	if !s.gate.CanUpdateOrderStatus(ctx, actor) {
		return domain.ErrNotAuthorized
	}
	if status == "" {
		return errors.New("status is required")
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}
	if err := s.pub.OrderStatusChanged(ctx, orderID, status); err != nil {
		s.lg.Error("status_event_publish_failed", err, map[string]any{"order_id": orderID})
	}
	s.lg.Info("order_status_updated", map[string]any{
		"order_id": orderID, "status": status, "actor": actor,
	})
	return nil
}
