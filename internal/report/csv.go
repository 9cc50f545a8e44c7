package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
)

// timestampLayout matches the sales log's on-disk datetime format.
const timestampLayout = "2006-01-02 15:04:05"

// WriteSummaryCSV writes the summary table as CSV.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "total"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Period, strconv.FormatFloat(row.Total, 'f', 2, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSalesCSV writes sale records as CSV in the fixed column order
// datetime, item_id, item_name, quantity, unit_price, total_price.
func WriteSalesCSV(w io.Writer, records []ledger.SaleLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"datetime", "item_id", "item_name", "quantity", "unit_price", "total_price"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format(timestampLayout),
			r.ItemID,
			r.ItemName,
			strconv.Itoa(r.Quantity),
			strconv.FormatFloat(r.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(r.TotalPrice, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInventoryCSV writes items as CSV in the fixed column order
// id, name, category, price, quantity, expiry.
func WriteInventoryCSV(w io.Writer, items []inventory.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "category", "price", "quantity", "expiry"}); err != nil {
		return err
	}
	for _, item := range items {
		expiry := ""
		if item.Expiry != nil {
			expiry = item.Expiry.Format(time.DateOnly)
		}
		row := []string{
			item.ID,
			item.Name,
			string(item.Category),
			strconv.FormatFloat(item.Price, 'f', 2, 64),
			strconv.Itoa(item.Quantity),
			expiry,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
