// Package sqlite persists the inventory and the sales log in a single
// embedded SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
)

const timestampLayout = "2006-01-02 15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS items (
	position INTEGER PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	price    REAL NOT NULL,
	quantity INTEGER NOT NULL,
	expiry   TEXT
);
CREATE TABLE IF NOT EXISTS sale_lines (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	datetime    TEXT NOT NULL,
	item_id     TEXT NOT NULL,
	item_name   TEXT NOT NULL,
	quantity    INTEGER NOT NULL,
	unit_price  REAL NOT NULL,
	total_price REAL NOT NULL
);
`

// Store implements inventory.Storage and ledger.Storage over SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database file and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadItems returns all items in insertion order.
func (s *Store) LoadItems() ([]inventory.Item, error) {
	rows, err := s.sqlDB.Query(`
		SELECT id, name, category, price, quantity, expiry
		FROM items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		var item inventory.Item
		var expiry sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Quantity, &expiry); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if expiry.Valid && expiry.String != "" {
			t, err := time.ParseInLocation(time.DateOnly, expiry.String, time.Local)
			if err != nil {
				return nil, fmt.Errorf("bad expiry %q for item %s: %w", expiry.String, item.ID, err)
			}
			item.Expiry = &t
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveItems replaces the item collection in one transaction, keeping the
// given order as insertion order.
func (s *Store) SaveItems(items []inventory.Item) error {
	tx, err := s.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	for i, item := range items {
		var expiry any
		if item.Expiry != nil {
			expiry = item.Expiry.Format(time.DateOnly)
		}
		_, err := tx.Exec(`
			INSERT INTO items (position, id, name, category, price, quantity, expiry)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, item.ID, item.Name, string(item.Category), item.Price, item.Quantity, expiry,
		)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", item.ID, err)
		}
	}
	return tx.Commit()
}

// LoadRecords returns the full sales log, oldest first.
func (s *Store) LoadRecords() ([]ledger.SaleLine, error) {
	rows, err := s.sqlDB.Query(`
		SELECT datetime, item_id, item_name, quantity, unit_price, total_price
		FROM sale_lines ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query sale lines: %w", err)
	}
	defer rows.Close()

	var records []ledger.SaleLine
	for rows.Next() {
		var r ledger.SaleLine
		var ts string
		if err := rows.Scan(&ts, &r.ItemID, &r.ItemName, &r.Quantity, &r.UnitPrice, &r.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		r.Timestamp, err = time.ParseInLocation(timestampLayout, ts, time.Local)
		if err != nil {
			return nil, fmt.Errorf("bad datetime %q: %w", ts, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// AppendRecords inserts a batch of records in one transaction.
func (s *Store) AppendRecords(records []ledger.SaleLine) error {
	tx, err := s.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.Exec(`
			INSERT INTO sale_lines (datetime, item_id, item_name, quantity, unit_price, total_price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.Timestamp.Format(timestampLayout), r.ItemID, r.ItemName, r.Quantity, r.UnitPrice, r.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return tx.Commit()
}
