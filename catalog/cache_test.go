package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pos-terminal/models"
)

type fakeSource struct {
	items        []models.Item
	customers    []models.Customer
	itemsErr     error
	customersErr error
}

func (f *fakeSource) ListItems(ctx context.Context) ([]models.Item, error) {
	return f.items, f.itemsErr
}

func (f *fakeSource) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return f.customers, f.customersErr
}

func newSource() *fakeSource {
	return &fakeSource{
		items: []models.Item{
			{ID: 1, Description: "Soap", UnitPrice: decimal.NewFromInt(100), QtyOnHand: 5},
			{ID: 2, Description: "Rice", UnitPrice: decimal.NewFromInt(50), QtyOnHand: 0},
		},
		customers: []models.Customer{{ID: 7, Name: "Nimal", Address: "12 Temple Road, Galle"}},
	}
}

func TestLoad(t *testing.T) {
	c := NewCache(newSource(), zap.NewNop())

	require.NoError(t, c.Load(context.Background()))

	assert.True(t, c.HasItems())
	assert.True(t, c.HasCustomers())
	assert.Len(t, c.Items(), 2)

	it, ok := c.Item(1)
	require.True(t, ok)
	assert.Equal(t, "Soap", it.Description)

	cu, ok := c.Customer(7)
	require.True(t, ok)
	assert.Equal(t, "Nimal", cu.Name)

	_, ok = c.Customer(8)
	assert.False(t, ok)
}

func TestQtyOnHand(t *testing.T) {
	c := NewCache(newSource(), zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	q, ok := c.QtyOnHand(1)
	assert.True(t, ok)
	assert.Equal(t, 5, q)

	_, ok = c.QtyOnHand(99)
	assert.False(t, ok)
}

func TestRefreshItems_ReplacesStock(t *testing.T) {
	src := newSource()
	c := NewCache(src, zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	src.items = []models.Item{{ID: 1, Description: "Soap", UnitPrice: decimal.NewFromInt(100), QtyOnHand: 2}}
	require.NoError(t, c.RefreshItems(context.Background()))

	q, _ := c.QtyOnHand(1)
	assert.Equal(t, 2, q)
	_, ok := c.Item(2)
	assert.False(t, ok)
}

func TestRefreshItems_FailureKeepsSnapshot(t *testing.T) {
	src := newSource()
	c := NewCache(src, zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	src.itemsErr = errors.New("timeout")
	err := c.RefreshItems(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, src.itemsErr)
	q, _ := c.QtyOnHand(1)
	assert.Equal(t, 5, q)
}

func TestLoad_CustomerFailure(t *testing.T) {
	src := newSource()
	src.customersErr = errors.New("down")
	c := NewCache(src, zap.NewNop())

	require.Error(t, c.Load(context.Background()))
	assert.False(t, c.HasCustomers())
	assert.False(t, c.HasItems())
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := NewCache(newSource(), zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	items := c.Items()
	items[0].QtyOnHand = 100

	q, _ := c.QtyOnHand(1)
	assert.Equal(t, 5, q)
}
