package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pos-terminal/apperr"
	"pos-terminal/cart"
	"pos-terminal/catalog"
	"pos-terminal/forms"
	"pos-terminal/models"
	"pos-terminal/pricing"
	"pos-terminal/sequencer"
)

const (
	dateLayout   = "2006-01-02"
	recentOrders = 3
)

// form mirrors the operator's input fields. Raw strings stay raw until the
// forms package parses them.
type form struct {
	customerID    int64
	itemID        int64
	qty           string
	discountMode  models.DiscountMode
	discountValue string
	taxEnabled    bool
}

// Session is the state of one "New Sale" screen: the cart, the input fields,
// the order counter and the local order history.
type Session struct {
	mu      sync.Mutex
	catalog *catalog.Cache
	cart    *cart.Cart
	seq     *sequencer.Sequencer
	logger  *zap.Logger
	now     func() time.Time

	form    form
	history []models.OrderRecord
	placing bool
}

func NewSession(cache *catalog.Cache, seq *sequencer.Sequencer, logger *zap.Logger) *Session {
	return &Session{
		catalog: cache,
		cart:    cart.New(),
		seq:     seq,
		logger:  logger,
		now:     time.Now,
		form:    form{discountMode: models.DiscountPercent},
	}
}

// snapshot is everything the workflow needs, captured once validation passed.
type snapshot struct {
	seq        int64
	date       string
	customer   models.Customer
	lines      []models.CartLine
	discount   models.Discount
	taxEnabled bool
	totals     models.PricingResult
}

// SelectCustomer picks the order's customer; 0 clears the selection.
func (s *Session) SelectCustomer(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	if id != 0 {
		if _, ok := s.catalog.Customer(id); !ok {
			return apperr.Validation(apperr.CodeUnknownCustomer, apperr.MsgUnknownCustomer)
		}
	}
	s.form.customerID = id
	return nil
}

// SelectItem picks the item the next add-to-cart uses; 0 clears it.
func (s *Session) SelectItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	if id != 0 {
		if _, ok := s.catalog.Item(id); !ok {
			return apperr.Validation(apperr.CodeUnknownItem, apperr.MsgUnknownItem)
		}
	}
	s.form.itemID = id
	return nil
}

func (s *Session) SetQuantity(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	s.form.qty = raw
	return nil
}

// AddSelectedToCart adds the selected item with the entered quantity. On
// success the quantity field is cleared; on failure nothing changes.
func (s *Session) AddSelectedToCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked()
}

// AddToCart selects itemID, enters raw as the quantity and adds it.
func (s *Session) AddToCart(itemID int64, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	s.form.itemID = itemID
	s.form.qty = raw
	return s.addLocked()
}

func (s *Session) addLocked() error {
	if s.placing {
		return apperr.Busy()
	}
	if !s.catalog.HasItems() {
		return apperr.Validation(apperr.CodeNoItems, apperr.MsgNoItems)
	}

	it, ok := s.catalog.Item(s.form.itemID)
	if !ok {
		return apperr.Validation(apperr.CodeNoItemSelected, apperr.MsgNoItemSelected)
	}
	selected := &it

	qty, err := forms.ParseQuantity(s.form.qty)
	if err != nil {
		return err
	}
	if err := s.cart.Add(selected, qty); err != nil {
		s.logger.Debug("add to cart rejected",
			zap.Int64("item_id", selected.ID), zap.Int("qty", qty), zap.Error(err))
		return err
	}

	s.form.qty = ""
	s.logger.Debug("added to cart", zap.Int64("item_id", selected.ID), zap.Int("qty", qty))
	return nil
}

// Increment bumps a line against live stock. The returned warning is for the
// operator; it is not an error.
func (s *Session) Increment(itemID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return "", apperr.Busy()
	}
	_, warning := s.cart.Increment(itemID, s.catalog)
	return warning, nil
}

func (s *Session) Decrement(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	s.cart.Decrement(itemID)
	return nil
}

func (s *Session) Remove(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	s.cart.Remove(itemID)
	return nil
}

// SetDiscount stores the mode and the raw value. Of the input, only the mode can be
// rejected; an unusable value simply means no discount.
func (s *Session) SetDiscount(modeRaw, valueRaw string) error {
	mode, err := forms.ParseDiscountMode(modeRaw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	s.form.discountMode = mode
	s.form.discountValue = valueRaw
	return nil
}

func (s *Session) SetTax(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing {
		return apperr.Busy()
	}
	s.form.taxEnabled = enabled
	return nil
}

// Lines returns the cart in display order.
func (s *Session) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Totals recomputes pricing from the current cart, discount and tax toggle.
func (s *Session) Totals() models.PricingResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Calculate(s.cart.Lines(), s.discountLocked(), s.form.taxEnabled)
}

func (s *Session) discountLocked() models.Discount {
	return models.Discount{
		Mode:  s.form.discountMode,
		Value: forms.ParseDiscountValue(s.form.discountValue),
	}
}

// History returns placed orders, newest first.
func (s *Session) History() []models.OrderRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.OrderRecord, len(s.history))
	copy(out, s.history)
	return out
}

// ReloadCatalog re-reads items and customers, e.g. after catalog edits made
// on another screen.
func (s *Session) ReloadCatalog(ctx context.Context) error {
	return s.catalog.Load(ctx)
}

// View renders the screen for a UI. state is the workflow's current state.
func (s *Session) View(state State) models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.cart.Lines()
	totals := pricing.Calculate(lines, s.discountLocked(), s.form.taxEnabled)

	view := models.SessionView{
		OrderID:       sequencer.DisplayID(s.seq.Next()),
		Date:          s.today(),
		State:         state.String(),
		Quantity:      s.form.qty,
		DiscountMode:  s.form.discountMode,
		DiscountValue: s.form.discountValue,
		TaxEnabled:    s.form.taxEnabled,
		TaxRate:       pricing.TaxRate().Shift(2).String() + "%",
		Lines:         make([]models.CartLineView, 0, len(lines)),
		Totals:        pricing.View(totals),
		RecentOrders:  make([]models.OrderRecord, 0, recentOrders),
	}
	if cu, ok := s.catalog.Customer(s.form.customerID); ok {
		view.SelectedCustomer = &cu
	}
	if it, ok := s.catalog.Item(s.form.itemID); ok {
		view.SelectedItem = &it
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, models.CartLineView{
			ItemID:      l.ItemID,
			Description: l.Description,
			UnitPrice:   forms.FormatMoney(l.UnitPrice),
			Qty:         l.Qty,
			LineTotal:   forms.FormatMoney(l.LineTotal()),
		})
	}
	for i := 0; i < len(s.history) && i < recentOrders; i++ {
		view.RecentOrders = append(view.RecentOrders, s.history[i])
	}
	return view
}

func (s *Session) today() string {
	return s.now().UTC().Format(dateLayout)
}

// beginPlacement runs the local preconditions and, when they pass, freezes
// the cart and every input field until endPlacement or completePlacement.
func (s *Session) beginPlacement() (snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.placing {
		return snapshot{}, apperr.Busy()
	}
	if s.cart.IsEmpty() {
		return snapshot{}, apperr.Validation(apperr.CodeCartEmpty, apperr.MsgCartEmpty)
	}
	if !s.catalog.HasCustomers() {
		return snapshot{}, apperr.Validation(apperr.CodeNoCustomers, apperr.MsgNoCustomers)
	}
	customer, ok := s.catalog.Customer(s.form.customerID)
	if s.form.customerID == 0 || !ok {
		return snapshot{}, apperr.Validation(apperr.CodeNoCustomerSelected, apperr.MsgNoCustomerSelected)
	}

	lines := s.cart.Lines()
	discount := s.discountLocked()
	s.placing = true

	return snapshot{
		seq:        s.seq.Next(),
		date:       s.today(),
		customer:   customer,
		lines:      lines,
		discount:   discount,
		taxEnabled: s.form.taxEnabled,
		totals:     pricing.Calculate(lines, discount, s.form.taxEnabled),
	}, nil
}

// endPlacement unfreezes the session after a failed submission. Cart and
// form are left exactly as they were.
func (s *Session) endPlacement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placing = false
}

// completePlacement records a placed order and resets the sale. The selected
// customer and discount mode survive; everything else transient is cleared.
func (s *Session) completePlacement(record models.OrderRecord, seq int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]models.OrderRecord{record}, s.history...)
	s.cart.Clear()
	s.form.itemID = 0
	s.form.qty = ""
	s.form.discountValue = ""
	s.form.taxEnabled = false
	s.placing = false

	if !s.seq.AdvanceFrom(seq) {
		return fmt.Errorf("order sequence moved past %d during placement", seq)
	}
	return nil
}
