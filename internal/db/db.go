package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type DB struct {
	*sqlx.DB
}

// Open connects to PostgreSQL through lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*DB, error) {
	xdb, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := xdb.PingContext(ctx); err != nil {
		_ = xdb.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	xdb.SetMaxOpenConns(25)
	xdb.SetMaxIdleConns(5)
	return &DB{DB: xdb}, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, s := range schema {
		if _, err := d.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// EnsureDefaultAdmin creates the admin account, or resets its password and
// role when it already exists. Empty credentials are a no-op.
func (d *DB) EnsureDefaultAdmin(ctx context.Context, account, password string) error {
	if account == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = d.ExecContext(ctx, `
		INSERT INTO users (account, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (account) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`,
		account, string(hash), RoleAdmin)
	return err
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS parking_lots (
		parking_lot_id BIGSERIAL PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		spot_counts    INT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS areas (
		area_id        BIGSERIAL PRIMARY KEY,
		parking_lot_id BIGINT NOT NULL REFERENCES parking_lots (parking_lot_id) ON DELETE CASCADE,
		name           VARCHAR(255) NOT NULL,
		floor          INT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS parking_spots (
		parking_spot_id BIGSERIAL PRIMARY KEY,
		area_id         BIGINT NOT NULL REFERENCES areas (area_id) ON DELETE CASCADE,
		number          INT NOT NULL,
		available       BOOLEAN NOT NULL DEFAULT TRUE,
		priority        VARCHAR(32) NOT NULL DEFAULT 'Normal'
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGSERIAL PRIMARY KEY,
		account       VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL DEFAULT '',
		phone         VARCHAR(32) NOT NULL DEFAULT '',
		role          VARCHAR(16) NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS cars (
		car_id  BIGSERIAL PRIMARY KEY,
		license VARCHAR(32) NOT NULL UNIQUE,
		user_id BIGINT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE
	)`,

	// one reservation per car and per spot
	`CREATE TABLE IF NOT EXISTS reservations (
		reservation_id   BIGSERIAL PRIMARY KEY,
		car_id           BIGINT NOT NULL UNIQUE REFERENCES cars (car_id) ON DELETE CASCADE,
		parking_spot_id  BIGINT NOT NULL UNIQUE REFERENCES parking_spots (parking_spot_id) ON DELETE CASCADE,
		reservation_time TIMESTAMP NOT NULL,
		expired_time     TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS attendances (
		attendance_id   BIGSERIAL PRIMARY KEY,
		car_id          BIGINT NOT NULL REFERENCES cars (car_id) ON DELETE CASCADE,
		parking_spot_id BIGINT NOT NULL REFERENCES parking_spots (parking_spot_id) ON DELETE CASCADE,
		start_time      TIMESTAMP NOT NULL,
		end_time        TIMESTAMP NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS attendances_active_spot
		ON attendances (parking_spot_id) WHERE end_time IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS attendances_active_car
		ON attendances (car_id) WHERE end_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS reservations_expired_time ON reservations (expired_time)`,

	// one parking profile per user
	`CREATE TABLE IF NOT EXISTS profiles (
		profile_id         BIGSERIAL PRIMARY KEY,
		user_id            BIGINT NOT NULL UNIQUE REFERENCES users (user_id) ON DELETE CASCADE,
		preference_area_id BIGINT NOT NULL REFERENCES areas (area_id),
		role               VARCHAR(32) NOT NULL,
		priority           VARCHAR(32) NOT NULL DEFAULT 'Normal',
		expired            TIMESTAMP NOT NULL
	)`,
}
