package sqlstore

import (
	"context"
	"fmt"

	"shop-backoffice/internal/database"
)

// schemaStatements is the logical schema from the data model, expressed in
// the SQL dialect subset both Postgres and MySQL accept.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS product_categories (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT,
		price DECIMAL(10, 2) NOT NULL,
		category_id VARCHAR(36) NOT NULL REFERENCES product_categories(id),
		stock_quantity INT NOT NULL CHECK (stock_quantity >= 0),
		gender VARCHAR(10) NOT NULL,
		brand VARCHAR(100) NOT NULL,
		size VARCHAR(50) NOT NULL,
		created_by VARCHAR(36)
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		email VARCHAR(254) NOT NULL UNIQUE,
		phone VARCHAR(15)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(36) PRIMARY KEY,
		client_id VARCHAR(36) NOT NULL REFERENCES clients(id),
		date_ordered TIMESTAMP NOT NULL,
		status VARCHAR(50) NOT NULL,
		total_price DECIMAL(10, 2) NOT NULL,
		date_received TIMESTAMP NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id VARCHAR(36) PRIMARY KEY,
		order_id VARCHAR(36) NOT NULL REFERENCES orders(id),
		product_id VARCHAR(36) NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		added_to_cart_date TIMESTAMP NOT NULL,
		ordered BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id VARCHAR(36) PRIMARY KEY,
		order_id VARCHAR(36) NOT NULL UNIQUE REFERENCES orders(id),
		payment_date TIMESTAMP NOT NULL,
		amount DECIMAL(10, 2) NOT NULL,
		payment_method VARCHAR(50) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		position VARCHAR(100) NOT NULL,
		hire_date DATE NOT NULL
	)`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, db database.Driver) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
