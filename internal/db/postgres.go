package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(pool); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return pool
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	statements := []string{
		// -------------------------------
		// STAFF
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS staff (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'CASHIER',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// -------------------------------
		// CATALOG
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS menu_categories (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sort_order INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY,
			category_id UUID REFERENCES menu_categories(id),
			name VARCHAR(255) NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			prep_time_minutes INT NOT NULL DEFAULT 10,
			station VARCHAR(50) NOT NULL DEFAULT 'expo',
			image_url VARCHAR(500)
		)`,
		`CREATE TABLE IF NOT EXISTS menu_modifiers (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			price_delta NUMERIC(10,2) NOT NULL DEFAULT 0
		)`,

		// -------------------------------
		// ORDERS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_number VARCHAR(50) UNIQUE NOT NULL,
			idempotency_key VARCHAR(100) UNIQUE,
			table_id UUID,
			waiter_id UUID,
			order_type VARCHAR(50) NOT NULL DEFAULT 'dine_in',
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			subtotal NUMERIC(10,2) NOT NULL DEFAULT 0,
			discount NUMERIC(10,2) NOT NULL DEFAULT 0,
			tax NUMERIC(10,2) NOT NULL DEFAULT 0,
			service_charge NUMERIC(10,2) NOT NULL DEFAULT 0,
			total NUMERIC(10,2) NOT NULL DEFAULT 0,
			tax_rate NUMERIC(6,4) NOT NULL DEFAULT 0,
			service_charge_rate NUMERIC(6,4) NOT NULL DEFAULT 0,
			discount_applied JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id VARCHAR(100) NOT NULL,
			name VARCHAR(255) NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			quantity INT NOT NULL,
			modifiers JSONB NOT NULL DEFAULT '[]',
			note TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS order_timeline (
			id SERIAL PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			status VARCHAR(50) NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// -------------------------------
		// INVENTORY
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			unit VARCHAR(50) NOT NULL,
			stock NUMERIC(12,3) NOT NULL DEFAULT 0,
			reorder_level NUMERIC(12,3) NOT NULL DEFAULT 0,
			cost_per_unit NUMERIC(10,2) NOT NULL DEFAULT 0,
			supplier_id UUID REFERENCES suppliers(id),
			expiry_date TIMESTAMP,
			last_restocked TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT stock_non_negative CHECK (stock >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_ingredients (
			menu_item_id VARCHAR(100) NOT NULL,
			item_id UUID NOT NULL REFERENCES inventory_items(id),
			quantity NUMERIC(12,3) NOT NULL,
			PRIMARY KEY (menu_item_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL REFERENCES inventory_items(id),
			movement_type VARCHAR(50) NOT NULL,
			quantity NUMERIC(12,3) NOT NULL,
			balance_after NUMERIC(12,3) NOT NULL DEFAULT 0,
			reference TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// -------------------------------
		// PAYMENTS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS payment_transactions (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL,
			order_number VARCHAR(50) NOT NULL DEFAULT '',
			idempotency_key VARCHAR(100) UNIQUE,
			status VARCHAR(50) NOT NULL,
			amount_due NUMERIC(10,2) NOT NULL DEFAULT 0,
			amount_paid NUMERIC(10,2) NOT NULL DEFAULT 0,
			tip_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			change_due NUMERIC(10,2) NOT NULL DEFAULT 0,
			refunded_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			legs JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// -------------------------------
		// TABLES
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS dining_tables (
			id UUID PRIMARY KEY,
			table_number INT UNIQUE NOT NULL,
			seats INT NOT NULL DEFAULT 2,
			section VARCHAR(100) NOT NULL DEFAULT '',
			state VARCHAR(50) NOT NULL DEFAULT 'free',
			order_id UUID,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Println("Schema initialized successfully")
	return nil
}
