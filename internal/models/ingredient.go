package models

import "fmt"

// IngredientKind identifies one of the ingredient tables
type IngredientKind string

const (
	KindBase    IngredientKind = "base"
	KindSauce   IngredientKind = "sauce"
	KindCheese  IngredientKind = "cheese"
	KindTopping IngredientKind = "topping"
)

// IngredientKinds lists every kind in catalog order
var IngredientKinds = []IngredientKind{KindBase, KindSauce, KindCheese, KindTopping}

type kindInfo struct {
	table string
	label string
	path  string
}

var kinds = map[IngredientKind]kindInfo{
	KindBase:    {table: "pizza_bases", label: "Pizza Base", path: "bases"},
	KindSauce:   {table: "sauces", label: "Sauce", path: "sauces"},
	KindCheese:  {table: "cheeses", label: "Cheese", path: "cheeses"},
	KindTopping: {table: "toppings", label: "Topping", path: "toppings"},
}

// ParseIngredientKind converts the inventory type used by the admin API
func ParseIngredientKind(s string) (IngredientKind, error) {
	k := IngredientKind(s)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("invalid ingredient kind %q", s)
	}
	return k, nil
}

// KindFromPath maps the plural catalog path segment ("bases", "toppings", ...) to a kind
func KindFromPath(segment string) (IngredientKind, bool) {
	for k, info := range kinds {
		if info.path == segment {
			return k, true
		}
	}
	return "", false
}

// Table returns the table holding rows of this kind
func (k IngredientKind) Table() string { return kinds[k].table }

// Label is the human readable name used in inventory reports
func (k IngredientKind) Label() string { return kinds[k].label }

// Ingredient is a priced, stocked catalog row. The same struct backs all
// four ingredient tables; Category is only populated for toppings.
type Ingredient struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description"`
	Price       Money  `json:"price" gorm:"type:decimal(10,2);not null" swaggertype:"string" example:"1.00"`
	Category    string `json:"category,omitempty" gorm:"size:50"`
	Stock       int    `json:"stock" gorm:"default:0"`
	Threshold   int    `json:"threshold" gorm:"default:20"`
	// No column default: GORM would swap an explicit false for it on insert
	IsActive    bool   `json:"isActive" gorm:"not null"`
}

// IsLowStock reports whether an active row has reached its restock threshold
func (i Ingredient) IsLowStock() bool {
	return i.IsActive && i.Stock <= i.Threshold
}

// LowStockItem is an ingredient tagged with the label of its table
type LowStockItem struct {
	Type string         `json:"type"`
	Kind IngredientKind `json:"kind"`
	Item Ingredient     `json:"item"`
}
