package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
)

func newTestService(t *testing.T, records []ledger.SaleLine) *Service {
	t.Helper()
	logger := zaptest.NewLogger(t)

	inv, err := inventory.NewService(inventory.NewLocalStorage(), logger)
	if err != nil {
		t.Fatalf("inventory.NewService failed: %v", err)
	}
	led, err := ledger.NewService(ledger.NewLocalStorage(), logger)
	if err != nil {
		t.Fatalf("ledger.NewService failed: %v", err)
	}
	if len(records) > 0 {
		if err := led.Append(records); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return NewService(inv, led)
}

func sale(ts time.Time, total float64) ledger.SaleLine {
	return ledger.SaleLine{
		Timestamp:  ts,
		ItemID:     "1001",
		ItemName:   "Milk",
		Quantity:   1,
		UnitPrice:  total,
		TotalPrice: total,
	}
}

func TestDailyTotal(t *testing.T) {
	day := time.Date(2026, 8, 31, 11, 0, 0, 0, time.Local)
	other := time.Date(2026, 8, 30, 11, 0, 0, 0, time.Local)

	svc := newTestService(t, []ledger.SaleLine{
		sale(day, 19.50),
		sale(day, 3.20),
		sale(other, 100.00),
	})

	total, records := svc.DailyTotal(day)
	if math.Abs(total-22.70) > 1e-9 {
		t.Errorf("expected total 22.70, got %f", total)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestDailyTotal_NoSales(t *testing.T) {
	svc := newTestService(t, nil)

	total, records := svc.DailyTotal(time.Now())
	if total != 0 {
		t.Errorf("expected zero total, got %f", total)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

// The sum over HistoryForDate must always reconcile with DailyTotal.
func TestHistoryMatchesDailyTotal(t *testing.T) {
	day := time.Date(2026, 8, 31, 11, 0, 0, 0, time.Local)
	svc := newTestService(t, []ledger.SaleLine{
		sale(day, 19.50),
		sale(day, 3.20),
		sale(day, 1.10),
	})

	dailyTotal, _ := svc.DailyTotal(day)
	records, historyTotal := svc.HistoryForDate(day)

	sum := 0.0
	for _, r := range records {
		sum += r.TotalPrice
	}
	if math.Abs(sum-dailyTotal) > 1e-9 {
		t.Errorf("history sum %f does not match daily total %f", sum, dailyTotal)
	}
	if math.Abs(historyTotal-dailyTotal) > 1e-9 {
		t.Errorf("history total %f does not match daily total %f", historyTotal, dailyTotal)
	}
}

func TestPeriodSummary(t *testing.T) {
	ref := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

	svc := newTestService(t, []ledger.SaleLine{
		sale(ref.Add(-2*time.Hour), 10.00),                              // today
		sale(time.Date(2026, 8, 5, 9, 0, 0, 0, time.Local), 20.00),      // this month and year
		sale(time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local), 40.00),      // this year only
		sale(time.Date(2025, 8, 5, 9, 0, 0, 0, time.Local), 80.00),      // month number match, previous year
		sale(time.Date(2025, 2, 5, 9, 0, 0, 0, time.Local), 160.00),     // nothing
	})

	sum := svc.PeriodSummary(ref)
	if math.Abs(sum.Today-10.00) > 1e-9 {
		t.Errorf("expected today 10.00, got %f", sum.Today)
	}
	// The month total matches on month number regardless of year, so the
	// August 2025 sale counts too. Documented behavior.
	if math.Abs(sum.ThisMonth-110.00) > 1e-9 {
		t.Errorf("expected this month 110.00, got %f", sum.ThisMonth)
	}
	if math.Abs(sum.ThisYear-70.00) > 1e-9 {
		t.Errorf("expected this year 70.00, got %f", sum.ThisYear)
	}
}

func TestExportSummary(t *testing.T) {
	ref := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	svc := newTestService(t, []ledger.SaleLine{sale(ref, 19.50)})

	rows := svc.ExportSummary(ref)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	wantPeriods := []string{"Today", "This Month", "This Year"}
	for i, want := range wantPeriods {
		if rows[i].Period != want {
			t.Errorf("row %d: expected period %q, got %q", i, want, rows[i].Period)
		}
		if math.Abs(rows[i].Total-19.50) > 1e-9 {
			t.Errorf("row %d: expected total 19.50, got %f", i, rows[i].Total)
		}
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []SummaryRow{
		{Period: "Today", Total: 19.50},
		{Period: "This Month", Total: 22.70},
		{Period: "This Year", Total: 122.70},
	}
	if err := WriteSummaryCSV(&buf, rows); err != nil {
		t.Fatalf("WriteSummaryCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "period,total" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "Today,19.50" {
		t.Errorf("unexpected first row: %q", lines[1])
	}
}

func TestWriteInventoryCSV(t *testing.T) {
	var buf bytes.Buffer
	expiry := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	items := []inventory.Item{
		{ID: "1001", Name: "Milk", Category: inventory.CategoryDairy, Price: 6.50, Quantity: 7, Expiry: &expiry},
		{ID: "1003", Name: "Soap", Category: inventory.CategoryHousehold, Price: 2.00, Quantity: 50},
	}
	if err := WriteInventoryCSV(&buf, items); err != nil {
		t.Fatalf("WriteInventoryCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "id,name,category,price,quantity,expiry" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1001,Milk,Dairy,6.50,7,2026-09-15" {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if lines[2] != "1003,Soap,Household,2.00,50," {
		t.Errorf("unexpected second row: %q", lines[2])
	}
}

func TestWriteSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	records := []ledger.SaleLine{{
		Timestamp:  time.Date(2026, 8, 31, 14, 30, 5, 0, time.Local),
		ItemID:     "1001",
		ItemName:   "Milk",
		Quantity:   3,
		UnitPrice:  6.50,
		TotalPrice: 19.50,
	}}
	if err := WriteSalesCSV(&buf, records); err != nil {
		t.Fatalf("WriteSalesCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "datetime,item_id,item_name,quantity,unit_price,total_price" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2026-08-31 14:30:05,1001,Milk,3,6.50,19.50" {
		t.Errorf("unexpected row: %q", lines[1])
	}
}
