package cart

import (
	"pos-terminal/apperr"
	"pos-terminal/models"
)

// StockLookup reports the live quantity on hand for an item.
type StockLookup interface {
	QtyOnHand(itemID int64) (int, bool)
}

// Cart is an insertion-ordered set of lines keyed by item id.
// It is not safe for concurrent use; the owning session serialises access.
type Cart struct {
	lines []models.CartLine
}

func New() *Cart {
	return &Cart{}
}

// Add creates a line for item or merges qty into the existing one. A rejected
// add leaves the cart untouched.
func (c *Cart) Add(item *models.Item, qty int) error {
	if item == nil {
		return apperr.Validation(apperr.CodeNoItemSelected, apperr.MsgNoItemSelected)
	}
	if qty <= 0 {
		return apperr.Validation(apperr.CodeInvalidQuantity, apperr.MsgInvalidQuantity)
	}
	if qty > item.QtyOnHand {
		return apperr.Validation(apperr.CodeExceedsStock, apperr.MsgExceedsStock)
	}

	if i := c.index(item.ID); i >= 0 {
		newQty := c.lines[i].Qty + qty
		if newQty > item.QtyOnHand {
			return apperr.Validation(apperr.CodeExceedsStock, apperr.MsgMergeExceedsStock)
		}
		c.lines[i].Qty = newQty
		return nil
	}

	c.lines = append(c.lines, models.CartLine{
		ItemID:      item.ID,
		Description: item.Description,
		UnitPrice:   item.UnitPrice,
		Qty:         qty,
	})
	return nil
}

// Increment raises a line by one, bounded by the live stock figure rather than
// anything cached on the line. It never fails: when the bound is hit the line
// is left alone and a warning for the operator is returned.
func (c *Cart) Increment(itemID int64, stock StockLookup) (changed bool, warning string) {
	i := c.index(itemID)
	if i < 0 {
		return false, ""
	}
	onHand, ok := stock.QtyOnHand(itemID)
	if !ok {
		return false, ""
	}
	if c.lines[i].Qty+1 > onHand {
		return false, apperr.MsgIncrementExceeds
	}
	c.lines[i].Qty++
	return true, ""
}

// Decrement lowers a line by one but never below 1; only Remove deletes a line.
func (c *Cart) Decrement(itemID int64) bool {
	i := c.index(itemID)
	if i < 0 {
		return false
	}
	changed := c.lines[i].Qty > 1
	c.lines[i].Qty = max(c.lines[i].Qty-1, 1)
	c.prune()
	return changed
}

// Remove deletes the line for itemID; absent ids are a no-op.
func (c *Cart) Remove(itemID int64) {
	if i := c.index(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(itemID int64) (models.CartLine, bool) {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i], true
	}
	return models.CartLine{}, false
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) index(itemID int64) int {
	for i, line := range c.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

// prune drops any line whose quantity reached zero.
func (c *Cart) prune() {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Qty > 0 {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}
