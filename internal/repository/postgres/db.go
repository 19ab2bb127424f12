package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jwalitptl/clinic-api/config"
)

func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS staff (
	id             BIGSERIAL PRIMARY KEY,
	username       TEXT NOT NULL UNIQUE,
	name           TEXT NOT NULL DEFAULT '',
	password       TEXT NOT NULL,
	role           TEXT NOT NULL CHECK (role IN ('Doctor', 'Receptionist', 'Admin')),
	available_days TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS patients (
	id        BIGSERIAL PRIMARY KEY,
	name      TEXT NOT NULL,
	age       INTEGER NOT NULL DEFAULT 0,
	condition TEXT NOT NULL DEFAULT ''
);

-- doctor_id holds the staff code, not staff.id, and is not a foreign key:
-- appointments may be booked against codes or patients that do not exist.
CREATE TABLE IF NOT EXISTS appointments (
	id         BIGSERIAL PRIMARY KEY,
	patient_id BIGINT NOT NULL,
	doctor_id  TEXT NOT NULL,
	"date"     TEXT NOT NULL DEFAULT '',
	"time"     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS appointments_doctor_id_idx ON appointments (doctor_id);
`

// Migrate creates the clinic tables when they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
