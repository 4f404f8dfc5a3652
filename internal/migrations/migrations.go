package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// Apply bootstraps the schema. Statements are idempotent so startup can run
// them unconditionally against an already-populated database.
func Apply(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS Users (
			login         VARCHAR(50) PRIMARY KEY,
			password      VARCHAR(30) NOT NULL,
			role          VARCHAR(20) NOT NULL,
			favoriteItems TEXT,
			phoneNum      VARCHAR(20) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS Store (
			storeID     INTEGER PRIMARY KEY,
			address     VARCHAR(100) NOT NULL,
			city        VARCHAR(50) NOT NULL,
			state       VARCHAR(20) NOT NULL,
			isOpen      BOOLEAN NOT NULL DEFAULT TRUE,
			reviewScore REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS Items (
			itemName    VARCHAR(50) PRIMARY KEY,
			ingredients VARCHAR(300) NOT NULL,
			typeOfItem  VARCHAR(30) NOT NULL,
			price       NUMERIC(10,2) NOT NULL CHECK (price > 0),
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS FoodOrder (
			orderID        BIGINT PRIMARY KEY,
			login          VARCHAR(50) NOT NULL REFERENCES Users(login) ON UPDATE CASCADE,
			storeID        INTEGER NOT NULL REFERENCES Store(storeID),
			totalPrice     NUMERIC(10,2) NOT NULL DEFAULT 0,
			orderTimestamp TIMESTAMPTZ NOT NULL,
			orderStatus    VARCHAR(50) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ItemsInOrder (
			orderID  BIGINT NOT NULL REFERENCES FoodOrder(orderID),
			itemName VARCHAR(50) NOT NULL REFERENCES Items(itemName),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			PRIMARY KEY (orderID, itemName)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_foodorder_login ON FoodOrder(login)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
