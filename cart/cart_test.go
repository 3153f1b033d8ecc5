package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/apperr"
	"pos-terminal/models"
)

type stockMap map[int64]int

func (s stockMap) QtyOnHand(itemID int64) (int, bool) {
	q, ok := s[itemID]
	return q, ok
}

func item(id int64, price string, onHand int) *models.Item {
	return &models.Item{
		ID:          id,
		Description: "item",
		UnitPrice:   decimal.RequireFromString(price),
		QtyOnHand:   onHand,
	}
}

func TestAdd_NewLineSnapshotsItem(t *testing.T) {
	c := New()
	it := item(1, "100", 5)

	require.NoError(t, c.Add(it, 2))

	it.UnitPrice = decimal.NewFromInt(999)
	it.Description = "renamed"

	line, ok := c.Line(1)
	require.True(t, ok)
	assert.Equal(t, 2, line.Qty)
	assert.Equal(t, "item", line.Description)
	assert.True(t, decimal.NewFromInt(100).Equal(line.UnitPrice))
}

func TestAdd_MergesSameItem(t *testing.T) {
	c := New()
	it := item(1, "10", 5)

	require.NoError(t, c.Add(it, 2))
	require.NoError(t, c.Add(item(2, "3", 1), 1))
	require.NoError(t, c.Add(it, 3))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ItemID)
	assert.Equal(t, 5, lines[0].Qty)
	assert.Equal(t, int64(2), lines[1].ItemID)
}

func TestAdd_Rejections(t *testing.T) {
	tests := []struct {
		name string
		item *models.Item
		qty  int
		code string
	}{
		{"no item", nil, 1, apperr.CodeNoItemSelected},
		{"zero qty", item(1, "1", 5), 0, apperr.CodeInvalidQuantity},
		{"negative qty", item(1, "1", 5), -2, apperr.CodeInvalidQuantity},
		{"over stock", item(1, "1", 5), 6, apperr.CodeExceedsStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			err := c.Add(tt.item, tt.qty)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.Equal(t, tt.code, apperr.CodeOf(err))
			assert.True(t, c.IsEmpty())
		})
	}
}

func TestAdd_MergeOverStockLeavesCartUnchanged(t *testing.T) {
	c := New()
	it := item(1, "1", 5)
	require.NoError(t, c.Add(it, 4))
	before := c.Lines()

	err := c.Add(it, 2)

	require.Error(t, err)
	assert.Equal(t, apperr.CodeExceedsStock, apperr.CodeOf(err))
	assert.Equal(t, apperr.MsgMergeExceedsStock, err.(*apperr.Error).Message)
	assert.Equal(t, before, c.Lines())
}

func TestIncrement_BoundedByLiveStock(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "1", 10), 2))

	// Stock shrank on the server since the line was added.
	stock := stockMap{1: 3}

	changed, warning := c.Increment(1, stock)
	assert.True(t, changed)
	assert.Empty(t, warning)

	changed, warning = c.Increment(1, stock)
	assert.False(t, changed)
	assert.Equal(t, apperr.MsgIncrementExceeds, warning)

	line, _ := c.Line(1)
	assert.Equal(t, 3, line.Qty)
}

func TestIncrement_UnknownIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "1", 10), 1))

	changed, warning := c.Increment(2, stockMap{2: 5})
	assert.False(t, changed)
	assert.Empty(t, warning)

	// Line exists but the item vanished from the catalog.
	changed, warning = c.Increment(1, stockMap{})
	assert.False(t, changed)
	assert.Empty(t, warning)
}

func TestDecrement_FloorsAtOne(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "1", 10), 2))

	assert.True(t, c.Decrement(1))
	assert.False(t, c.Decrement(1))
	assert.False(t, c.Decrement(1))

	line, ok := c.Line(1)
	require.True(t, ok)
	assert.Equal(t, 1, line.Qty)
	assert.False(t, c.Decrement(42))
}

func TestRemove_Idempotent(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "1", 10), 1))
	require.NoError(t, c.Add(item(2, "1", 10), 1))

	c.Remove(1)
	c.Remove(1)
	c.Remove(99)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ItemID)
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "1", 10), 1))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Lines())
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "1", 10), 1))

	lines := c.Lines()
	lines[0].Qty = 9

	line, _ := c.Line(1)
	assert.Equal(t, 1, line.Qty)
}
