package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"pos-terminal/models"
)

// Source is the remote Catalog & Order Service, read side.
type Source interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
}

// Cache is the terminal's local copy of items and customers. The remote
// service stays authoritative: stock figures are replaced wholesale on
// refresh, never adjusted locally.
type Cache struct {
	mu        sync.RWMutex
	source    Source
	logger    *zap.Logger
	items     []models.Item
	customers []models.Customer
}

func NewCache(source Source, logger *zap.Logger) *Cache {
	return &Cache{source: source, logger: logger}
}

// Load fetches both items and customers. On error the previous snapshot is kept.
func (c *Cache) Load(ctx context.Context) error {
	customers, err := c.source.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	if err := c.RefreshItems(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.customers = customers
	c.mu.Unlock()

	c.logger.Info("catalog loaded", zap.Int("customers", len(customers)))
	return nil
}

// RefreshItems replaces the cached items with the server's current list.
func (c *Cache) RefreshItems(ctx context.Context) error {
	items, err := c.source.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	c.logger.Debug("items refreshed", zap.Int("items", len(items)))
	return nil
}

func (c *Cache) Items() []models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cache) Customers() []models.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Customer, len(c.customers))
	copy(out, c.customers)
	return out
}

func (c *Cache) Item(id int64) (models.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.Item{}, false
}

func (c *Cache) Customer(id int64) (models.Customer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cu := range c.customers {
		if cu.ID == id {
			return cu, true
		}
	}
	return models.Customer{}, false
}

// QtyOnHand satisfies cart.StockLookup.
func (c *Cache) QtyOnHand(itemID int64) (int, bool) {
	it, ok := c.Item(itemID)
	return it.QtyOnHand, ok
}

func (c *Cache) HasItems() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items) > 0
}

func (c *Cache) HasCustomers() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.customers) > 0
}
