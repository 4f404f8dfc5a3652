package service

import (
	"context"

	"pizza-store/internal/domain"
	"pizza-store/internal/repository"
)

type StoreService struct {
	stores repository.StoresRepo
}

func NewStoreService(stores repository.StoresRepo) *StoreService {
	return &StoreService{stores: stores}
}

func (s *StoreService) List(ctx context.Context) ([]domain.Store, error) {
	return s.stores.List(ctx)
}
