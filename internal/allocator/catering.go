package allocator

import (
	"fmt"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

// CateringCart holds the quantities requested in one booking session.
// Quantities never exceed the stock sampled from the menu and zero
// entries are removed rather than stored.
type CateringCart struct {
	menu  *Menu
	order []string
	qty   map[string]int
}

// NewCateringCart creates an empty cart over menu
func NewCateringCart(menu *Menu) *CateringCart {
	return &CateringCart{menu: menu, qty: make(map[string]int)}
}

// Update changes the quantity of an item by delta. An increase past
// stock is rejected silently and reports changed=false.
func (c *CateringCart) Update(itemID string, delta int) (bool, error) {
	item, ok := c.menu.Item(itemID)
	if !ok {
		return false, models.NewValidationError("itemId", fmt.Sprintf("unknown catering item %s", itemID))
	}
	if delta == 0 {
		return false, nil
	}

	current, present := c.qty[itemID]
	next := current + delta
	switch {
	case next <= 0:
		if !present {
			return false, nil
		}
		c.remove(itemID)
		return true, nil
	case next > item.Stock:
		return false, nil
	}

	if !present {
		c.order = append(c.order, itemID)
	}
	c.qty[itemID] = next
	return true, nil
}

// Increment adds one unit of an item
func (c *CateringCart) Increment(itemID string) (bool, error) {
	return c.Update(itemID, 1)
}

// Decrement removes one unit of an item
func (c *CateringCart) Decrement(itemID string) (bool, error) {
	return c.Update(itemID, -1)
}

// Quantity returns the requested quantity of an item
func (c *CateringCart) Quantity(itemID string) int {
	return c.qty[itemID]
}

// Selected returns the cart in the order items were first added
func (c *CateringCart) Selected() []models.SelectedCatering {
	out := make([]models.SelectedCatering, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, models.SelectedCatering{ItemID: id, Quantity: c.qty[id]})
	}
	return out
}

// Lines renders the cart as receipt lines, e.g. "Champagne (×2)"
func (c *CateringCart) Lines() []string {
	return DescribeSelection(c.menu, c.Selected())
}

// DescribeSelection renders a catering selection as receipt lines
func DescribeSelection(menu *Menu, selected []models.SelectedCatering) []string {
	lines := make([]string, 0, len(selected))
	for _, sc := range selected {
		label := sc.ItemID
		if item, ok := menu.Item(sc.ItemID); ok {
			label = item.Label
		}
		lines = append(lines, fmt.Sprintf("%s (×%d)", label, sc.Quantity))
	}
	return lines
}

func (c *CateringCart) remove(itemID string) {
	delete(c.qty, itemID)
	for i, id := range c.order {
		if id == itemID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
