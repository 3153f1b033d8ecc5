package checkout

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pos-terminal/catalog"
	"pos-terminal/models"
	"pos-terminal/sequencer"
)

type fakeSource struct {
	mu        sync.Mutex
	items     []models.Item
	customers []models.Customer
	itemsErr  error
	itemCalls int
}

func (f *fakeSource) ListItems(ctx context.Context) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemCalls++
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return append([]models.Item(nil), f.items...), nil
}

func (f *fakeSource) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Customer(nil), f.customers...), nil
}

func (f *fakeSource) failItems(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemsErr = err
}

// fakeOrders records submitted orders. When block is set, PlaceOrder signals
// started and waits for release.
type fakeOrders struct {
	mu       sync.Mutex
	err      error
	requests []models.OrderRequest
	block    bool
	started  chan struct{}
	release  chan struct{}
}

func newBlockingOrders() *fakeOrders {
	return &fakeOrders{block: true, started: make(chan struct{}), release: make(chan struct{})}
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, order models.OrderRequest) error {
	f.mu.Lock()
	f.requests = append(f.requests, order)
	err, block := f.err, f.block
	f.mu.Unlock()

	if block {
		close(f.started)
		<-f.release
	}
	return err
}

func (f *fakeOrders) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakePublisher struct {
	mu     sync.Mutex
	orders []models.OrderRecord
	err    error
}

func (f *fakePublisher) PublishOrder(order models.OrderRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, order)
	return f.err
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultSource() *fakeSource {
	return &fakeSource{
		items: []models.Item{
			{ID: 1, Description: "Notebook", UnitPrice: price("100"), QtyOnHand: 10},
			{ID: 2, Description: "Pen", UnitPrice: price("50"), QtyOnHand: 5},
			{ID: 3, Description: "Stapler", UnitPrice: price("0.05"), QtyOnHand: 1},
		},
		customers: []models.Customer{
			{ID: 7, Name: "Nimal Perera", Address: "12 Temple Road, Kandy"},
			{ID: 8, Name: "Ayesha Silva", Address: "4 Lake Drive, Colombo"},
		},
	}
}

var fixedNow = time.Date(2026, 3, 15, 2, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

func newTestSession(t *testing.T, src *fakeSource) *Session {
	t.Helper()
	cache := catalog.NewCache(src, zap.NewNop())
	require.NoError(t, cache.Load(context.Background()))

	s := NewSession(cache, sequencer.New(1), zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func newTestWorkflow(t *testing.T, src *fakeSource, orders OrderService, events EventPublisher) (*Workflow, *Session) {
	t.Helper()
	s := newTestSession(t, src)
	w := NewWorkflow(s, orders, events, zap.NewNop())
	n := 0
	w.newID = func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
	return w, s
}
