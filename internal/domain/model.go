package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleManager  Role = "manager"
	RoleUnknown  Role = "unknown"
)

// ParseRole maps a stored role value to the enum. The legacy schema padded
// role values with trailing spaces, so the comparison trims first; it is
// still an exact match, not a substring check.
func ParseRole(s string) Role {
	switch Role(strings.TrimSpace(s)) {
	case RoleCustomer:
		return RoleCustomer
	case RoleDriver:
		return RoleDriver
	case RoleManager:
		return RoleManager
	default:
		return RoleUnknown
	}
}

type User struct {
	Login         string `json:"login"`
	Password      string `json:"-"`
	Role          Role   `json:"role"`
	FavoriteItems string `json:"favorite_items"`
	PhoneNum      string `json:"phone_num"`
}

type Store struct {
	StoreID     int     `json:"store_id"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	IsOpen      bool    `json:"is_open"`
	ReviewScore float64 `json:"review_score"`
}

type Item struct {
	ItemName    string          `json:"item_name"`
	Ingredients string          `json:"ingredients"`
	TypeOfItem  string          `json:"type_of_item"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

const StatusPlaced = "placed"

type Order struct {
	OrderID    int64           `json:"order_id"`
	Login      string          `json:"login"`
	StoreID    int             `json:"store_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OrderTime  time.Time       `json:"order_timestamp"`
	Status     string          `json:"order_status"`
}

type OrderLine struct {
	OrderID  int64  `json:"order_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// Receipt is what a completed order placement hands back to the caller.
type Receipt struct {
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
	Lines   []OrderLine     `json:"lines"`
}
