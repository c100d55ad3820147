package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Items and activities are unrelated tables: an activity names
// its item but carries no foreign key, so either side may exist without the
// other. taken_by and item_name on activities are nullable so that rows
// written by older clients without them can be found and reconciled.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    TEXT NOT NULL,
    deleted_at    TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    bought_date TEXT NOT NULL,
    expiry_date TEXT NOT NULL,
    price       REAL NOT NULL CHECK (price >= 0),
    taken_by    TEXT,
    added_by    TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_bought_date ON items(bought_date);
CREATE INDEX IF NOT EXISTS idx_items_expiry_date ON items(expiry_date);

CREATE TABLE IF NOT EXISTS item_images (
    item_id    INTEGER PRIMARY KEY REFERENCES items(id),
    image      BLOB NOT NULL,
    image_mime TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
    id        INTEGER PRIMARY KEY,
    taken_by  TEXT,
    item_name TEXT,
    date      TEXT NOT NULL,
    message   TEXT
);

CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at TEXT NOT NULL
);
`

// migrations are applied in order after the schema. Each must be idempotent.
// Append new migrations at the end.
var migrations = []string{}

// EnsureSchema creates all tables and indexes if they don't already exist
// and applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
