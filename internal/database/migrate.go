package database

import (
	"context"
	"fmt"
)

// schema contains the idempotent DDL applied at startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS access_codes (
		id          UUID PRIMARY KEY,
		code        TEXT NOT NULL,
		role        TEXT NOT NULL,
		payment_id  TEXT,
		expires_at  TIMESTAMPTZ NOT NULL,
		consumed_at TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT access_codes_code_key UNIQUE (code),
		CONSTRAINT access_codes_payment_id_key UNIQUE (payment_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_access_codes_expires_at ON access_codes (expires_at)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id              UUID PRIMARY KEY,
		name            TEXT NOT NULL,
		age             INT NOT NULL,
		gender          TEXT NOT NULL,
		bio             TEXT NOT NULL,
		interests       TEXT NOT NULL,
		phone           TEXT NOT NULL,
		city            TEXT NOT NULL,
		state           TEXT NOT NULL,
		country         TEXT NOT NULL,
		profile_picture TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id              UUID PRIMARY KEY,
		name            TEXT NOT NULL DEFAULT '',
		age             INT NOT NULL DEFAULT 0,
		gender          TEXT NOT NULL DEFAULT '',
		bio             TEXT NOT NULL DEFAULT '',
		interests       TEXT NOT NULL DEFAULT '',
		profile_picture TEXT NOT NULL DEFAULT '',
		phone           TEXT NOT NULL DEFAULT '',
		city            TEXT NOT NULL DEFAULT '',
		state           TEXT NOT NULL DEFAULT '',
		country         TEXT NOT NULL DEFAULT '',
		login_code      TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_login_code ON users (login_code) WHERE login_code IS NOT NULL`,
}

// Migrate applies the schema. All statements are idempotent, so this is safe
// to run on every startup.
func Migrate(ctx context.Context, db Service) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
