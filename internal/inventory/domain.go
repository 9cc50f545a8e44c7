package inventory

import "time"

// Category classifies an item into one of the store's fixed sections.
type Category string

const (
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy"
	CategoryHousehold Category = "Household"
	CategoryOther     Category = "Other"
)

// ParseCategory validates a category name against the fixed set.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryProduce, CategoryDairy, CategoryHousehold, CategoryOther:
		return Category(s), nil
	}
	return "", ErrInvalidField
}

// Item represents one stock-keeping unit in the store.
// Expiry is nil for non-perishables.
type Item struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Category Category   `json:"category"`
	Price    float64    `json:"price"`
	Quantity int        `json:"quantity"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}

// Line pairs an item id with a quantity, used for batch decrements.
type Line struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
