package inventory

import "errors"

// ErrNotFound is returned when no item with the given ID exists.
var ErrNotFound = errors.New("item not found")

// ErrDuplicateID is returned when creating an item whose ID is already taken.
var ErrDuplicateID = errors.New("item id already in use")

// ErrInvalidID is returned when an item ID is not exactly four digits.
var ErrInvalidID = errors.New("item id must be exactly 4 digits")

// ErrInvalidField is returned when a field fails validation on create.
var ErrInvalidField = errors.New("invalid item field")

// ErrInvalidQuantity is returned when a quantity would become negative.
var ErrInvalidQuantity = errors.New("quantity must be zero or positive")

// ErrInsufficientStock is returned when a decrement exceeds units on hand.
var ErrInsufficientStock = errors.New("insufficient stock")

// Storage is the persistence contract for the item collection.
// Implementations persist the full collection in insertion order.
type Storage interface {
	LoadItems() ([]Item, error)
	SaveItems(items []Item) error
}

// LocalStorage provides an in-memory implementation for storing items.
type LocalStorage struct {
	items []Item
}

// NewLocalStorage instantiates a new LocalStorage with an empty collection.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// LoadItems returns a copy of the stored collection.
func (l *LocalStorage) LoadItems() ([]Item, error) {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out, nil
}

// SaveItems replaces the stored collection.
func (l *LocalStorage) SaveItems(items []Item) error {
	l.items = make([]Item, len(items))
	copy(l.items, items)
	return nil
}
