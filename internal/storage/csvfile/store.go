// Package csvfile persists the inventory and the sales log as flat CSV
// files, the store's historical on-disk format.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
)

const (
	inventoryFile = "inventory.csv"
	salesLogFile  = "sales_log.csv"

	timestampLayout = "2006-01-02 15:04:05"
)

var inventoryHeader = []string{"id", "name", "category", "price", "quantity", "expiry"}
var salesHeader = []string{"datetime", "item_id", "item_name", "quantity", "unit_price", "total_price"}

// Store reads and writes both collections under a single data directory.
// It implements inventory.Storage and ledger.Storage.
type Store struct {
	inventoryPath string
	salesPath     string
}

// Open prepares a CSV store rooted at dir, creating the directory if
// needed. Missing files read as empty collections.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		inventoryPath: filepath.Join(dir, inventoryFile),
		salesPath:     filepath.Join(dir, salesLogFile),
	}, nil
}

// LoadItems reads the full inventory file in row order.
func (s *Store) LoadItems() ([]inventory.Item, error) {
	rows, err := readAll(s.inventoryPath)
	if err != nil {
		return nil, err
	}

	items := make([]inventory.Item, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(inventoryHeader) {
			return nil, fmt.Errorf("inventory row %d: expected %d columns, got %d", i+1, len(inventoryHeader), len(row))
		}
		price, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: bad price %q: %w", i+1, row[3], err)
		}
		quantity, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: bad quantity %q: %w", i+1, row[4], err)
		}
		var expiry *time.Time
		if row[5] != "" {
			t, err := time.ParseInLocation(time.DateOnly, row[5], time.Local)
			if err != nil {
				return nil, fmt.Errorf("inventory row %d: bad expiry %q: %w", i+1, row[5], err)
			}
			expiry = &t
		}
		items = append(items, inventory.Item{
			ID:       row[0],
			Name:     row[1],
			Category: inventory.Category(row[2]),
			Price:    price,
			Quantity: quantity,
			Expiry:   expiry,
		})
	}
	return items, nil
}

// SaveItems rewrites the inventory file with the full collection.
func (s *Store) SaveItems(items []inventory.Item) error {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		expiry := ""
		if item.Expiry != nil {
			expiry = item.Expiry.Format(time.DateOnly)
		}
		rows = append(rows, []string{
			item.ID,
			item.Name,
			string(item.Category),
			strconv.FormatFloat(item.Price, 'f', -1, 64),
			strconv.Itoa(item.Quantity),
			expiry,
		})
	}
	return writeAll(s.inventoryPath, inventoryHeader, rows)
}

// LoadRecords reads the full sales log in row order.
func (s *Store) LoadRecords() ([]ledger.SaleLine, error) {
	rows, err := readAll(s.salesPath)
	if err != nil {
		return nil, err
	}

	records := make([]ledger.SaleLine, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(salesHeader) {
			return nil, fmt.Errorf("sales row %d: expected %d columns, got %d", i+1, len(salesHeader), len(row))
		}
		ts, err := time.ParseInLocation(timestampLayout, row[0], time.Local)
		if err != nil {
			return nil, fmt.Errorf("sales row %d: bad datetime %q: %w", i+1, row[0], err)
		}
		quantity, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("sales row %d: bad quantity %q: %w", i+1, row[3], err)
		}
		unitPrice, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("sales row %d: bad unit price %q: %w", i+1, row[4], err)
		}
		totalPrice, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, fmt.Errorf("sales row %d: bad total price %q: %w", i+1, row[5], err)
		}
		records = append(records, ledger.SaleLine{
			Timestamp:  ts,
			ItemID:     row[1],
			ItemName:   row[2],
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
		})
	}
	return records, nil
}

// AppendRecords adds records to the end of the sales log, writing the
// header first when the file does not exist yet.
func (s *Store) AppendRecords(records []ledger.SaleLine) error {
	writeHeader := false
	if _, err := os.Stat(s.salesPath); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(s.salesPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sales log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(salesHeader); err != nil {
			return err
		}
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(timestampLayout),
			r.ItemID,
			r.ItemName,
			strconv.Itoa(r.Quantity),
			strconv.FormatFloat(r.UnitPrice, 'f', -1, 64),
			strconv.FormatFloat(r.TotalPrice, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// readAll returns the data rows of a CSV file, skipping the header. A
// missing file reads as an empty collection.
func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// writeAll atomically replaces a CSV file with a header plus rows.
func writeAll(path string, header []string, rows [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(tmp), err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
