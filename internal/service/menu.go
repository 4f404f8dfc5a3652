package service

import (
	"context"
	"errors"
	"fmt"

	"pizza-store/internal/cache"
	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
)

type MenuService struct {
	items repository.ItemsRepo
	gate  *UserService
	cache cache.MenuCache
	lg    *logger.Logger
}

func NewMenuService(items repository.ItemsRepo, gate *UserService, menuCache cache.MenuCache, lg *logger.Logger) *MenuService {
	return &MenuService{items: items, gate: gate, cache: menuCache, lg: lg}
}

func filterKey(f repository.ItemFilter) string {
	max := "-"
	if f.MaxPrice != nil {
		max = f.MaxPrice.String()
	}
	return fmt.Sprintf("%s|%s|%s", f.TypeOfItem, max, f.PriceSort)
}

// View lists menu items matching the filter, through the read cache.
func (s *MenuService) View(ctx context.Context, f repository.ItemFilter) ([]domain.Item, error) {
	key := filterKey(f)
	if items, ok := s.cache.Get(ctx, key); ok {
		return items, nil
	}
	items, err := s.items.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, items)
	return items, nil
}

func (s *MenuService) Item(ctx context.Context, name string) (domain.Item, error) {
	return s.items.GetByName(ctx, name)
}

// AddItem is manager-only. Cached listings are invalidated on success.
func (s *MenuService) AddItem(ctx context.Context, actor string, it domain.Item) error {
	if !s.gate.CanManage(ctx, actor) {
		return domain.ErrNotAuthorized
	}
	if err := validateItem(it); err != nil {
		return err
	}
	if err := s.items.Insert(ctx, it); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.lg.Info("menu_item_added", map[string]any{"actor": actor, "item": it.ItemName})
	return nil
}

// UpdateItem is manager-only. Cached listings are invalidated on success.
func (s *MenuService) UpdateItem(ctx context.Context, actor string, it domain.Item) error {
	if !s.gate.CanManage(ctx, actor) {
		return domain.ErrNotAuthorized
	}
	if err := validateItem(it); err != nil {
		return err
	}
	if err := s.items.Update(ctx, it); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.lg.Info("menu_item_updated", map[string]any{"actor": actor, "item": it.ItemName})
	return nil
}

func validateItem(it domain.Item) error {
	if it.ItemName == "" {
		return errors.New("item name is required")
	}
	if !it.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	return nil
}
