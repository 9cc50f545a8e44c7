package inventory

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service provides high-level inventory management operations on a Storage
// backend. The collection is loaded once at construction and persisted in
// full on every mutation; reads are served from memory.
type Service struct {
	mu      sync.Mutex
	storage Storage
	items   []Item
	index   map[string]int
	logger  *zap.Logger
}

// NewService creates a new Service and loads the current collection.
func NewService(storage Storage, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	items, err := storage.LoadItems()
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	s := &Service{
		storage: storage,
		items:   items,
		index:   make(map[string]int, len(items)),
		logger:  logger,
	}
	for i, item := range items {
		s.index[item.ID] = i
	}
	return s, nil
}

func validID(id string) bool {
	if len(id) != 4 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Create adds a new item to the collection and persists it.
func (s *Service) Create(item Item) (*Item, error) {
	if !validID(item.ID) {
		return nil, ErrInvalidID
	}
	if item.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidField)
	}
	if item.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidField)
	}
	if item.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidField)
	}
	if _, err := ParseCategory(string(item.Category)); err != nil {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidField, item.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[item.ID]; ok {
		return nil, fmt.Errorf("%w: %s is already used for item %q", ErrDuplicateID, item.ID, s.items[i].Name)
	}

	updated := append(s.snapshot(), item)
	if err := s.storage.SaveItems(updated); err != nil {
		s.logger.Error("failed to save inventory", zap.String("item_id", item.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save inventory: %w", err)
	}
	s.commit(updated)

	s.logger.Info("item created", zap.String("item_id", item.ID), zap.String("name", item.Name))
	return &item, nil
}

// Update sets a new quantity and, optionally, a new price for an item.
// The price is passed as a raw string; when it does not parse as a
// non-negative decimal the quantity update still goes through, the price
// is left unchanged and the returned warning flag is set. This partial
// success is deliberate, not an error.
func (s *Service) Update(id string, quantity int, price string) (*Item, bool, error) {
	if quantity < 0 {
		return nil, false, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := s.snapshot()
	updated[i].Quantity = quantity

	warning := false
	if price != "" {
		val, err := strconv.ParseFloat(price, 64)
		if err != nil || val < 0 {
			warning = true
			s.logger.Warn("invalid price ignored on stock update", zap.String("item_id", id), zap.String("price", price))
		} else {
			updated[i].Price = val
		}
	}

	if err := s.storage.SaveItems(updated); err != nil {
		s.logger.Error("failed to save inventory", zap.String("item_id", id), zap.Error(err))
		return nil, false, fmt.Errorf("failed to save inventory: %w", err)
	}
	s.commit(updated)

	item := updated[i]
	s.logger.Info("stock updated", zap.String("item_id", id), zap.Int("quantity", quantity), zap.Bool("price_warning", warning))
	return &item, warning, nil
}

// Delete removes an item from the collection. Deleting an unknown id,
// including a repeat delete, fails with ErrNotFound.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := s.snapshot()
	updated = append(updated[:i], updated[i+1:]...)
	if err := s.storage.SaveItems(updated); err != nil {
		s.logger.Error("failed to save inventory", zap.String("item_id", id), zap.Error(err))
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	s.commit(updated)

	s.logger.Info("item deleted", zap.String("item_id", id))
	return nil
}

// Get returns a copy of the item with the given id.
func (s *Service) Get(id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	item := s.items[i]
	return &item, nil
}

// List returns a snapshot of all items in insertion order.
func (s *Service) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Decrement reduces the quantity of a single item.
func (s *Service) Decrement(id string, qty int) error {
	_, err := s.DecrementBatch([]Line{{ItemID: id, Quantity: qty}})
	return err
}

// DecrementBatch validates every line, then decrements all of them and
// persists the collection exactly once. If any line fails validation
// nothing is mutated. The returned snapshots carry each line's item as it
// was when the sale was taken (name and unit price for ledger records).
func (s *Service) DecrementBatch(lines []Line) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needed := make(map[string]int, len(lines))
	snapshots := make([]Item, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for %s must be positive", ErrInvalidQuantity, line.ItemID)
		}
		i, ok := s.index[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, line.ItemID)
		}
		item := s.items[i]
		needed[line.ItemID] += line.Quantity
		if needed[line.ItemID] > item.Quantity {
			return nil, fmt.Errorf("%w: %q has %d on hand, requested %d",
				ErrInsufficientStock, item.Name, item.Quantity, needed[line.ItemID])
		}
		snapshots = append(snapshots, item)
	}

	updated := s.snapshot()
	for _, line := range lines {
		updated[s.index[line.ItemID]].Quantity -= line.Quantity
	}
	if err := s.storage.SaveItems(updated); err != nil {
		s.logger.Error("failed to save inventory", zap.Error(err))
		return nil, fmt.Errorf("failed to save inventory: %w", err)
	}
	s.commit(updated)

	return snapshots, nil
}

// LowStockOrExpiring returns the items with at most qtyThreshold units on
// hand or an expiry date within daysThreshold days from now. Items without
// an expiry date only qualify through the quantity clause.
func (s *Service) LowStockOrExpiring(qtyThreshold, daysThreshold int) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, daysThreshold)
	out := make([]Item, 0)
	for _, item := range s.items {
		if item.Quantity <= qtyThreshold {
			out = append(out, item)
			continue
		}
		if item.Expiry != nil && !item.Expiry.After(cutoff) {
			out = append(out, item)
		}
	}
	return out
}

// snapshot copies the collection; callers must hold s.mu.
func (s *Service) snapshot() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// commit swaps in a persisted collection and rebuilds the id index;
// callers must hold s.mu.
func (s *Service) commit(items []Item) {
	s.items = items
	s.index = make(map[string]int, len(items))
	for i, item := range items {
		s.index[item.ID] = i
	}
}
