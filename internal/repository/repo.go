package repository

import "database/sql"

// Repository bundles the per-table repositories over the shared connection.
type Repository struct {
	Users  UsersRepo
	Stores StoresRepo
	Items  ItemsRepo
	Orders OrdersRepo
}

func New(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUsersRepo(db),
		Stores: NewStoresRepo(db),
		Items:  NewItemsRepo(db),
		Orders: NewOrdersRepo(db),
	}
}
