package allocator

import "github.com/Barathimeena/AirRoute-Hub/internal/models"

func food(id string, t models.FoodType, label, desc string, premium bool, stock int) models.CateringItem {
	return models.CateringItem{ID: id, Category: models.CategoryFood, FoodType: t, Label: label, Description: desc, Premium: premium, Stock: stock}
}

func item(id string, c models.CateringCategory, label, desc string, premium bool, stock int) models.CateringItem {
	return models.CateringItem{ID: id, Category: c, Label: label, Description: desc, Premium: premium, Stock: stock}
}

var defaultItems = []models.CateringItem{
	food("v1", models.FoodTypeVeg, "Paneer Tikka", "Tandoori marinated cottage cheese", false, 30),
	food("v2", models.FoodTypeVeg, "Vegetable Biryani", "Fragrant basmati rice with veggies", false, 35),
	food("v3", models.FoodTypeVeg, "Mushroom Wellington", "Puff pastry wrapped mushroom", true, 15),
	food("v4", models.FoodTypeVeg, "Spinach & Feta Wrap", "Creamy spinach with Greek cheese", false, 25),
	food("v5", models.FoodTypeVeg, "Tofu Pad Thai", "Thai noodles with silken tofu", false, 28),
	food("v6", models.FoodTypeVeg, "Eggplant Parmesan", "Layered aubergine with mozzarella", true, 12),
	food("v7", models.FoodTypeVeg, "Chickpea Curry", "Spiced chickpeas in tomato sauce", false, 32),
	food("v8", models.FoodTypeVeg, "Vegetable Sushi", "Assorted vegetable rolls", false, 20),
	food("v9", models.FoodTypeVeg, "Beetroot Carpaccio", "Thinly sliced beetroot with herbs", true, 18),
	food("v10", models.FoodTypeVeg, "Corn Chowder", "Creamy corn soup with fresh herbs", false, 30),

	food("nv1", models.FoodTypeNonVeg, "Wagyu Steak", "Japanese Grade A5 premium beef", true, 15),
	food("nv2", models.FoodTypeNonVeg, "Butter Chicken", "Tender chicken in creamy sauce", false, 40),
	food("nv3", models.FoodTypeNonVeg, "Lobster Pasta", "White truffle cream with lobster", true, 10),
	food("nv4", models.FoodTypeNonVeg, "Salmon Teriyaki", "Glazed salmon with Asian flavors", true, 18),
	food("nv5", models.FoodTypeNonVeg, "Tandoori Chicken", "Traditional spiced grilled chicken", false, 38),
	food("nv6", models.FoodTypeNonVeg, "Grilled Lamb Chops", "Herb-crusted lamb with mint sauce", true, 14),
	food("nv7", models.FoodTypeNonVeg, "Prawn Biryani", "Basmati rice with succulent prawns", false, 22),
	food("nv8", models.FoodTypeNonVeg, "Duck Confit", "Slow-cooked duck in its own fat", true, 12),
	food("nv9", models.FoodTypeNonVeg, "Tuna Sashimi", "Premium sushi-grade tuna", true, 16),
	food("nv10", models.FoodTypeNonVeg, "Chicken Piccata", "Lemon-caper breaded chicken", false, 35),

	item("d1", models.CategoryDrink, "Champagne", "Brut Vintage 2015", true, 12),
	item("d2", models.CategoryDrink, "Iced Coffee", "Cold brew Arabica", false, 60),
	item("d3", models.CategoryDrink, "Mango Lassi", "Fresh Alphonso mango", false, 50),
	item("d4", models.CategoryDrink, "Pomegranate Juice", "Fresh-pressed organic juice", false, 40),
	item("d5", models.CategoryDrink, "Green Tea", "Organic Japanese matcha", false, 45),
	item("d6", models.CategoryDrink, "Wine Selection", "Red or White premium wines", true, 20),
	item("d7", models.CategoryDrink, "Sparkling Water", "Premium mineral water", false, 70),
	item("d8", models.CategoryDrink, "Espresso", "Freshly brewed Italian espresso", false, 50),

	item("s1", models.CategorySnack, "Truffle Chips", "Hand-cooked with truffle oil", false, 100),
	item("s2", models.CategorySnack, "Macarons", "French assorted box of 6", true, 30),
	item("s3", models.CategorySnack, "Cheese & Crackers", "Artisanal cheese selection", true, 25),
	item("s4", models.CategorySnack, "Mixed Nuts", "Roasted almonds and cashews", false, 55),
	item("s5", models.CategorySnack, "Chocolate Truffles", "Belgian dark chocolate", true, 35),
	item("s6", models.CategorySnack, "Fruit Platter", "Seasonal fresh fruits", false, 40),
	item("s7", models.CategorySnack, "Samosa Trio", "Crispy Indian pastries", false, 50),
	item("s8", models.CategorySnack, "Granola Bar", "Honey oats with dried berries", false, 60),
	item("s9", models.CategorySnack, "Pretzel Sticks", "Salted and buttered pretzels", false, 80),
}

// Menu is the onboard catering catalog
type Menu struct {
	items []models.CateringItem
	byID  map[string]int
}

// NewMenu indexes items by id
func NewMenu(items []models.CateringItem) *Menu {
	m := &Menu{
		items: make([]models.CateringItem, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	copy(m.items, items)
	for i, it := range m.items {
		m.byID[it.ID] = i
	}
	return m
}

// DefaultMenu returns the standard onboard menu
func DefaultMenu() *Menu {
	return NewMenu(defaultItems)
}

// Item returns the menu entry with the given id
func (m *Menu) Item(id string) (models.CateringItem, bool) {
	i, ok := m.byID[id]
	if !ok {
		return models.CateringItem{}, false
	}
	return m.items[i], true
}

// Items returns the whole menu in display order
func (m *Menu) Items() []models.CateringItem {
	out := make([]models.CateringItem, len(m.items))
	copy(out, m.items)
	return out
}

// Lens returns the menu as seen through a dietary preference: food of the
// other type is hidden while drinks and snacks always show. An empty
// preference shows everything.
func (m *Menu) Lens(pref models.FoodType) []models.CateringItem {
	if pref == "" {
		return m.Items()
	}
	out := make([]models.CateringItem, 0, len(m.items))
	for _, it := range m.items {
		if it.Category != models.CategoryFood || it.FoodType == pref {
			out = append(out, it)
		}
	}
	return out
}
