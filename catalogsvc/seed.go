package catalogsvc

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-terminal/models"
)

// SeedDemoData fills an empty store with a small shop so the terminal has
// something to sell. A store that already has items or customers is left alone.
func SeedDemoData(store *Store, logger *zap.Logger) {
	if len(store.ListItems()) > 0 || len(store.ListCustomers()) > 0 {
		return
	}

	items := []models.Item{
		{Description: "A4 Notebook", UnitPrice: decimal.RequireFromString("350.00"), QtyOnHand: 40},
		{Description: "Ballpoint Pen (Blue)", UnitPrice: decimal.RequireFromString("45.00"), QtyOnHand: 200},
		{Description: "Stapler", UnitPrice: decimal.RequireFromString("1250.00"), QtyOnHand: 12},
		{Description: "Highlighter Set", UnitPrice: decimal.RequireFromString("799.50"), QtyOnHand: 25},
	}
	for _, it := range items {
		store.SaveItem(it)
	}

	customers := []models.Customer{
		{Name: "Nimal Perera", Address: "12 Temple Road, Kandy"},
		{Name: "Ayesha Silva", Address: "4 Lake Drive, Colombo 07"},
	}
	for _, c := range customers {
		store.SaveCustomer(c)
	}

	logger.Info("demo catalog seeded", zap.Int("items", len(items)), zap.Int("customers", len(customers)))
}
