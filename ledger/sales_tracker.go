package ledger

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"pos-terminal/forms"
	"pos-terminal/models"
)

// SalesTracker tallies placed orders. Safe for concurrent use by workers.
type SalesTracker struct {
	mu            sync.Mutex
	seen          map[string]struct{}
	totalOrders   int64
	itemUnits     map[int64]int64
	revenue       decimal.Decimal
	discountGiven decimal.Decimal
	taxCollected  decimal.Decimal
}

func NewSalesTracker() *SalesTracker {
	return &SalesTracker{
		seen:      make(map[string]struct{}),
		itemUnits: make(map[int64]int64),
	}
}

// RecordOrder adds order to the tallies. It returns false, and changes
// nothing, when an order with the same record ID was already counted.
func (t *SalesTracker) RecordOrder(order models.OrderRecord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if order.ID != "" {
		if _, dup := t.seen[order.ID]; dup {
			return false
		}
		t.seen[order.ID] = struct{}{}
	}

	t.totalOrders++
	for _, l := range order.Lines {
		t.itemUnits[l.ItemID] += int64(l.Qty)
	}
	t.revenue = t.revenue.Add(order.Total)
	t.discountGiven = t.discountGiven.Add(order.DiscountAmount)
	t.taxCollected = t.taxCollected.Add(order.TaxAmount)
	return true
}

func (t *SalesTracker) TotalOrders() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalOrders
}

func (t *SalesTracker) ItemUnits(itemID int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.itemUnits[itemID]
}

func (t *SalesTracker) Revenue() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revenue
}

// PrintSummary writes the end-of-day report.
func (t *SalesTracker) PrintSummary(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "SALES SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total Orders Processed: %d\n", t.totalOrders)
	fmt.Fprintf(w, "Revenue:                %s\n", forms.FormatMoney(t.revenue))
	fmt.Fprintf(w, "Discounts Given:        %s\n", forms.FormatMoney(t.discountGiven))
	fmt.Fprintf(w, "Tax Collected:          %s\n", forms.FormatMoney(t.taxCollected))

	if len(t.itemUnits) > 0 {
		fmt.Fprintln(w, "\nUnits Sold:")
		ids := make([]int64, 0, len(t.itemUnits))
		for id := range t.itemUnits {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			fmt.Fprintf(w, "  Item %d: %d units\n", id, t.itemUnits[id])
		}
	}
	fmt.Fprintln(w, rule)
}
