package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS storage_centers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		address VARCHAR(256) NOT NULL,
		city VARCHAR(128) NOT NULL,
		postal_code VARCHAR(16) NOT NULL,
		phone VARCHAR(32) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS storage_units (
		id BIGSERIAL PRIMARY KEY,
		center_id UUID NOT NULL REFERENCES storage_centers(id),
		box_number VARCHAR(32) NOT NULL,
		volume_m3 NUMERIC(8,2) NOT NULL,
		surface_m2 NUMERIC(8,2) NOT NULL,
		price_per_month NUMERIC(10,2) NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		features TEXT NOT NULL DEFAULT '',
		images TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_storage_units_center_box ON storage_units (center_id, box_number);`,
	`CREATE TABLE IF NOT EXISTS services (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL,
		position INT NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		first_name VARCHAR(128) NOT NULL,
		last_name VARCHAR(128) NOT NULL,
		email VARCHAR(256) NOT NULL,
		phone VARCHAR(32) NOT NULL DEFAULT '',
		address VARCHAR(256) NOT NULL DEFAULT '',
		city VARCHAR(128) NOT NULL DEFAULT '',
		postal_code VARCHAR(16) NOT NULL DEFAULT '',
		country VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_customers_email ON customers (email);`,
	`CREATE TABLE IF NOT EXISTS soldes (
		customer_id UUID PRIMARY KEY REFERENCES customers(id),
		percent NUMERIC(5,2) NOT NULL DEFAULT 0
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'booking_status') THEN
			CREATE TYPE booking_status AS ENUM ('PENDING', 'CONFIRMED', 'CANCELED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		reference VARCHAR(32) NOT NULL,
		unit_id BIGINT NOT NULL REFERENCES storage_units(id),
		customer_id UUID NOT NULL REFERENCES customers(id),
		start_date DATE NOT NULL,
		duration_months INT NOT NULL,
		monthly_payment BOOLEAN NOT NULL DEFAULT FALSE,
		base_price NUMERIC(10,2) NOT NULL,
		services_total NUMERIC(10,2) NOT NULL,
		discount_amount NUMERIC(10,2) NOT NULL,
		total_price NUMERIC(10,2) NOT NULL,
		status booking_status NOT NULL DEFAULT 'PENDING',
		checkout_session_id VARCHAR(128) NOT NULL DEFAULT '',
		payment_status VARCHAR(32) NOT NULL DEFAULT 'unpaid',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_reference ON bookings (reference);`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_checkout_session ON bookings (checkout_session_id) WHERE checkout_session_id <> '';`,
	`CREATE TABLE IF NOT EXISTS booking_services (
		booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		service_id BIGINT NOT NULL REFERENCES services(id),
		PRIMARY KEY (booking_id, service_id)
	);`,
	`CREATE TABLE IF NOT EXISTS booking_signatures (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		signature TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_booking_signatures_booking ON booking_signatures (booking_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
