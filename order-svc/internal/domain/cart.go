package domain

import "tablehouse/money"

type CartLine struct {
	MenuItemID int         `json:"menu_item_id"`
	Name       string      `json:"name"`
	UnitPrice  money.Cents `json:"unit_price"`
	Quantity   int         `json:"quantity"`
	ImageURL   string      `json:"image_url,omitempty"`
	LineTotal  money.Cents `json:"line_total"`
}

// Cart keeps at most one line per menu item, in the order items were first added.
type Cart struct {
	lines []CartLine
	index map[int]int
}

func NewCart() *Cart {
	return &Cart{index: make(map[int]int)}
}

// Add merges into an existing line for the same menu item.
func (c *Cart) Add(line CartLine) {
	if line.Quantity <= 0 {
		return
	}
	if i, ok := c.index[line.MenuItemID]; ok {
		c.lines[i].Quantity += line.Quantity
		c.lines[i].LineTotal = c.lines[i].UnitPrice.Mul(c.lines[i].Quantity)
		return
	}
	line.LineTotal = line.UnitPrice.Mul(line.Quantity)
	c.index[line.MenuItemID] = len(c.lines)
	c.lines = append(c.lines, line)
}

// SetQuantity with quantity <= 0 removes the line.
func (c *Cart) SetQuantity(menuItemID, quantity int) {
	i, ok := c.index[menuItemID]
	if !ok {
		return
	}
	if quantity <= 0 {
		c.Remove(menuItemID)
		return
	}
	c.lines[i].Quantity = quantity
	c.lines[i].LineTotal = c.lines[i].UnitPrice.Mul(quantity)
}

func (c *Cart) Remove(menuItemID int) {
	i, ok := c.index[menuItemID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, menuItemID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].MenuItemID] = j
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[int]int)
}

func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}
