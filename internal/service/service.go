package service

import (
	"pizza-store/internal/cache"
	"pizza-store/internal/events"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
	"pizza-store/internal/sequence"
)

// Service bundles the application services behind one constructor, the way
// the handlers expect to receive them.
type Service struct {
	Users  *UserService
	Menu   *MenuService
	Stores *StoreService
	Orders *OrderService
}

func New(repo *repository.Repository, alloc *sequence.Allocator, pub events.Publisher, menuCache cache.MenuCache, lg *logger.Logger) *Service {
	users := NewUserService(repo.Users, lg)
	return &Service{
		Users:  users,
		Menu:   NewMenuService(repo.Items, users, menuCache, lg),
		Stores: NewStoreService(repo.Stores),
		Orders: NewOrderService(repo.Orders, repo.Stores, users, alloc, pub, lg),
	}
}
