package ledger

import "time"

// SaleLine is one item/quantity pairing within a committed checkout.
// Records are historical snapshots: item name and unit price are copied at
// sale time and never track later inventory edits.
type SaleLine struct {
	Timestamp  time.Time `json:"datetime"`
	ItemID     string    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}

// SameDate reports whether the record's timestamp falls on the given
// calendar date.
func (r SaleLine) SameDate(date time.Time) bool {
	y1, m1, d1 := r.Timestamp.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
