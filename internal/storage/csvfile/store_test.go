package csvfile

import (
	"testing"
	"time"

	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
)

func TestItemsRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	expiry := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	items := []inventory.Item{
		{ID: "1001", Name: "Milk", Category: inventory.CategoryDairy, Price: 6.50, Quantity: 10, Expiry: &expiry},
		{ID: "1002", Name: "Dish Soap", Category: inventory.CategoryHousehold, Price: 3.20, Quantity: 4},
	}
	if err := store.SaveItems(items); err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}

	loaded, err := store.LoadItems()
	if err != nil {
		t.Fatalf("LoadItems failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 items, got %d", len(loaded))
	}
	for i, want := range items {
		got := loaded[i]
		if got.ID != want.ID || got.Name != want.Name || got.Category != want.Category {
			t.Errorf("item %d: got %+v, want %+v", i, got, want)
		}
		if got.Price != want.Price || got.Quantity != want.Quantity {
			t.Errorf("item %d: got %+v, want %+v", i, got, want)
		}
	}
	if loaded[0].Expiry == nil || !loaded[0].Expiry.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, loaded[0].Expiry)
	}
	if loaded[1].Expiry != nil {
		t.Errorf("expected nil expiry, got %v", loaded[1].Expiry)
	}
}

func TestLoadItems_MissingFile(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	items, err := store.LoadItems()
	if err != nil {
		t.Fatalf("LoadItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty collection, got %d items", len(items))
	}
}

func TestAppendRecords(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	ts := time.Date(2026, 8, 31, 14, 30, 5, 0, time.Local)
	first := []ledger.SaleLine{
		{Timestamp: ts, ItemID: "1001", ItemName: "Milk", Quantity: 3, UnitPrice: 6.50, TotalPrice: 19.50},
	}
	second := []ledger.SaleLine{
		{Timestamp: ts.Add(time.Minute), ItemID: "1002", ItemName: "Apples", Quantity: 2, UnitPrice: 3.20, TotalPrice: 6.40},
		{Timestamp: ts.Add(time.Minute), ItemID: "1001", ItemName: "Milk", Quantity: 1, UnitPrice: 6.50, TotalPrice: 6.50},
	}
	if err := store.AppendRecords(first); err != nil {
		t.Fatalf("AppendRecords failed: %v", err)
	}
	if err := store.AppendRecords(second); err != nil {
		t.Fatalf("AppendRecords failed: %v", err)
	}

	loaded, err := store.LoadRecords()
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 records, got %d", len(loaded))
	}
	if loaded[0].ItemID != "1001" || loaded[1].ItemID != "1002" || loaded[2].ItemID != "1001" {
		t.Error("records must come back in append order")
	}
	if !loaded[0].Timestamp.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, loaded[0].Timestamp)
	}
	if loaded[1].TotalPrice != 6.40 {
		t.Errorf("expected total 6.40, got %f", loaded[1].TotalPrice)
	}
}
