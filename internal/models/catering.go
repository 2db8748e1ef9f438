package models

// CateringCategory groups menu items
type CateringCategory string

const (
	CategoryFood  CateringCategory = "Food"
	CategoryDrink CateringCategory = "Drink"
	CategorySnack CateringCategory = "Snack"
)

// FoodType is the dietary type of a Food item
type FoodType string

const (
	FoodTypeVeg    FoodType = "Veg"
	FoodTypeNonVeg FoodType = "Non-Veg"
)

// Valid reports whether t is a known dietary preference
func (t FoodType) Valid() bool {
	return t == FoodTypeVeg || t == FoodTypeNonVeg
}

// CateringItem is an add-on on the onboard menu
type CateringItem struct {
	ID          string           `json:"id"`
	Category    CateringCategory `json:"category"`
	FoodType    FoodType         `json:"foodType,omitempty"`
	Label       string           `json:"label"`
	Description string           `json:"desc"`
	Premium     bool             `json:"premium"`
	Stock       int              `json:"stock"`
}

// SelectedCatering is a requested quantity of one menu item
type SelectedCatering struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}
