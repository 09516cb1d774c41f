package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/d-okonkwo/fridgewise/internal/inventory"
)

const (
	SchemaVersion = 1
)

// DB is the sqlite-backed inventory store.
type DB struct {
	conn *sql.DB
}

// NewDB opens the database at path and applies migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=10000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// migrate applies database migrations
func (db *DB) migrate() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	for version < SchemaVersion {
		version++
		switch version {
		case 1:
			if err := applySchemaV1(tx); err != nil {
				return fmt.Errorf("failed to apply schema v%d: %w", version, err)
			}
		default:
			return fmt.Errorf("unknown schema version: %d", version)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func applySchemaV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_items_expires_at ON items(expires_at);
	`)
	return err
}

// AddItem inserts a new food item and returns it with its assigned ID.
func (db *DB) AddItem(ctx context.Context, name string, expiresAt time.Time) (*inventory.Item, error) {
	addedAt := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx,
		"INSERT INTO items (name, expires_at, added_at) VALUES (?, ?, ?)",
		name, expiresAt.UTC(), addedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &inventory.Item{
		ID:        id,
		Name:      name,
		ExpiresAt: expiresAt,
		AddedAt:   addedAt,
	}, nil
}

// ListItems returns the full inventory ordered by expiration date.
func (db *DB) ListItems(ctx context.Context) ([]*inventory.Item, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, name, expires_at, added_at FROM items ORDER BY expires_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*inventory.Item
	for rows.Next() {
		var item inventory.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.ExpiresAt, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// RemoveItem deletes an item by ID.
func (db *DB) RemoveItem(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("item %d not found", id)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

var _ inventory.Store = (*DB)(nil)
