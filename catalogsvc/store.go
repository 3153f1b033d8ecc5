package catalogsvc

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"pos-terminal/models"
	"pos-terminal/validators"
)

// PlacedOrder is an accepted order as the service keeps it. ID is assigned
// here; TerminalOrderID is the number the terminal sent.
type PlacedOrder struct {
	ID              int64                `json:"id"`
	TerminalOrderID int64                `json:"orderId"`
	Date            string               `json:"date"`
	CustomerID      int64                `json:"customerId"`
	OrderDetails    []models.OrderDetail `json:"orderDetails"`
	ReceivedAt      time.Time            `json:"receivedAt"`
}

// Store holds items, customers and orders in memory. Saving with a zero ID
// assigns the next one; saving with an ID replaces that record.
type Store struct {
	mu             sync.RWMutex
	items          map[int64]models.Item
	customers      map[int64]models.Customer
	orders         []PlacedOrder
	nextItemID     int64
	nextCustomerID int64
	nextOrderID    int64
}

func NewStore() *Store {
	return &Store{
		items:          make(map[int64]models.Item),
		customers:      make(map[int64]models.Customer),
		nextItemID:     1,
		nextCustomerID: 1,
		nextOrderID:    1,
	}
}

func (s *Store) ListItems() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.items, func(it models.Item) int64 { return it.ID })
}

func (s *Store) Item(id int64) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	return it, ok
}

func (s *Store) SaveItem(item models.Item) models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID <= 0 {
		item.ID = s.nextItemID
	}
	s.nextItemID = max(s.nextItemID, item.ID+1)
	s.items[item.ID] = item
	return item
}

// DeleteItem removes id; deleting a missing item is not an error.
func (s *Store) DeleteItem(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *Store) ListCustomers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.customers, func(c models.Customer) int64 { return c.ID })
}

func (s *Store) SaveCustomer(customer models.Customer) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customer.ID <= 0 {
		customer.ID = s.nextCustomerID
	}
	s.nextCustomerID = max(s.nextCustomerID, customer.ID+1)
	s.customers[customer.ID] = customer
	return customer
}

func (s *Store) DeleteCustomer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customers, id)
}

// PlaceOrder checks the whole order before touching stock, so a rejected
// order leaves every item as it was. Repeated lines for one item are checked
// against stock together.
func (s *Store) PlaceOrder(req models.OrderRequest) (PlacedOrder, error) {
	if !validators.ValidateOrderDate(req.Date) {
		return PlacedOrder{}, errors.New("Date must be in the format YYYY-MM-DD")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[req.CustomerID]; !ok {
		return PlacedOrder{}, fmt.Errorf("Customer not found: %d", req.CustomerID)
	}

	wanted := make(map[int64]int, len(req.OrderDetails))
	for _, d := range req.OrderDetails {
		it, ok := s.items[d.ItemID]
		if !ok {
			return PlacedOrder{}, fmt.Errorf("Item not found: %d", d.ItemID)
		}
		if d.Qty <= 0 {
			return PlacedOrder{}, fmt.Errorf("Invalid qty for item: %d", d.ItemID)
		}
		wanted[d.ItemID] += d.Qty
		if wanted[d.ItemID] > it.QtyOnHand {
			return PlacedOrder{}, fmt.Errorf("Insufficient stock for item: %d", d.ItemID)
		}
	}

	for id, qty := range wanted {
		it := s.items[id]
		it.QtyOnHand -= qty
		s.items[id] = it
	}

	order := PlacedOrder{
		ID:              s.nextOrderID,
		TerminalOrderID: req.OrderID,
		Date:            req.Date,
		CustomerID:      req.CustomerID,
		OrderDetails:    slices.Clone(req.OrderDetails),
		ReceivedAt:      time.Now().UTC(),
	}
	s.nextOrderID++
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *Store) Orders() []PlacedOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}

func sortedByID[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}
