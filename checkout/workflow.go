package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-terminal/apperr"
	"pos-terminal/clients"
	"pos-terminal/models"
	"pos-terminal/sequencer"
)

// OrderService accepts placed orders; *clients.CatalogClient in production.
type OrderService interface {
	PlaceOrder(ctx context.Context, order models.OrderRequest) error
}

// EventPublisher announces completed orders downstream.
type EventPublisher interface {
	PublishOrder(order models.OrderRecord) error
}

// Receipt is the outcome of a successful placement. Warning is set, with
// kind apperr.KindReconciliation, when stock could not be re-read afterwards;
// the order itself still stands.
type Receipt struct {
	Record  models.OrderRecord
	Warning error
}

// Workflow drives one order at a time from the session to the remote service.
type Workflow struct {
	session *Session
	orders  OrderService
	events  EventPublisher
	logger  *zap.Logger
	newID   func() string

	mu        sync.Mutex
	state     State
	observers []func(from, to State)
}

// NewWorkflow wires the workflow. events may be nil.
func NewWorkflow(session *Session, orders OrderService, events EventPublisher, logger *zap.Logger) *Workflow {
	return &Workflow{
		session: session,
		orders:  orders,
		events:  events,
		logger:  logger,
		newID:   uuid.NewString,
		state:   StateIdle,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// OnTransition registers fn to be called after every state change.
func (w *Workflow) OnTransition(fn func(from, to State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, fn)
}

// Place validates the sale, submits it and, once the service accepts it,
// reconciles stock and records the order. Nothing is retried. Callers should
// pass a context without cancellation (context.WithoutCancel) so an order
// already on the wire always runs to completion. A call made while another
// is in flight fails fast with apperr.KindBusy.
func (w *Workflow) Place(ctx context.Context) (*Receipt, error) {
	if !w.begin() {
		w.logger.Info("place order ignored, submission already in flight")
		return nil, apperr.Busy()
	}

	snap, err := w.session.beginPlacement()
	if err != nil {
		w.logger.Info("order rejected locally", zap.String("code", apperr.CodeOf(err)))
		w.finish(StateError)
		return nil, err
	}

	req := buildRequest(snap)
	displayID := sequencer.DisplayID(snap.seq)

	w.move(StateSubmitting)
	if err := w.orders.PlaceOrder(ctx, req); err != nil {
		w.session.endPlacement()
		subErr := submissionError(err)
		w.logger.Warn("order submission failed",
			zap.String("order_id", displayID), zap.String("message", subErr.Message), zap.Error(err))
		w.finish(StateError)
		return nil, subErr
	}

	w.move(StateReconciling)
	var warning error
	if err := w.session.catalog.RefreshItems(ctx); err != nil {
		warning = apperr.Reconciliation(err)
		w.logger.Warn("stock reconciliation failed", zap.String("order_id", displayID), zap.Error(err))
	}

	record := w.buildRecord(snap, displayID)
	if err := w.session.completePlacement(record, snap.seq); err != nil {
		w.logger.Warn("order sequence not advanced", zap.String("order_id", displayID), zap.Error(err))
	}
	w.move(StateComplete)

	w.logger.Info("order placed",
		zap.String("order_id", displayID),
		zap.Int64("customer_id", record.CustomerID),
		zap.String("total", record.Total.StringFixed(2)))
	w.publish(record)
	w.finish(StateIdle)

	return &Receipt{Record: record, Warning: warning}, nil
}

func (w *Workflow) begin() bool {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return false
	}
	w.state = StateValidating
	observers := w.observers
	w.mu.Unlock()

	w.notify(observers, StateIdle, StateValidating)
	return true
}

// move performs a single transition; invalid ones are logged and ignored.
func (w *Workflow) move(to State) {
	w.mu.Lock()
	from := w.state
	if !isValidTransition(from, to) {
		w.mu.Unlock()
		w.logger.Error("invalid workflow transition", zap.Stringer("from", from), zap.Stringer("to", to))
		return
	}
	w.state = to
	observers := w.observers
	w.mu.Unlock()

	w.logger.Debug("workflow transition", zap.Stringer("from", from), zap.Stringer("to", to))
	w.notify(observers, from, to)
}

// finish passes through terminal, unless it is StateIdle, and returns to idle.
func (w *Workflow) finish(terminal State) {
	if terminal != StateIdle {
		w.move(terminal)
	}
	w.move(StateIdle)
}

func (w *Workflow) notify(observers []func(from, to State), from, to State) {
	for _, fn := range observers {
		fn(from, to)
	}
}

func (w *Workflow) publish(record models.OrderRecord) {
	if w.events == nil {
		return
	}
	if err := w.events.PublishOrder(record); err != nil {
		w.logger.Warn("failed to publish order event", zap.String("order_id", record.DisplayOrderID), zap.Error(err))
	}
}

func buildRequest(snap snapshot) models.OrderRequest {
	details := make([]models.OrderDetail, 0, len(snap.lines))
	for _, l := range snap.lines {
		details = append(details, models.OrderDetail{
			ItemID:    l.ItemID,
			Qty:       l.Qty,
			UnitPrice: json.Number(l.UnitPrice.String()),
		})
	}
	return models.OrderRequest{
		OrderID:      snap.seq,
		Date:         snap.date,
		CustomerID:   snap.customer.ID,
		OrderDetails: details,
	}
}

func (w *Workflow) buildRecord(snap snapshot, displayID string) models.OrderRecord {
	lines := make([]models.OrderLine, 0, len(snap.lines))
	for _, l := range snap.lines {
		lines = append(lines, models.OrderLine{
			ItemID:      l.ItemID,
			Description: l.Description,
			UnitPrice:   l.UnitPrice,
			Qty:         l.Qty,
			LineTotal:   l.LineTotal(),
		})
	}
	return models.OrderRecord{
		ID:             w.newID(),
		Seq:            snap.seq,
		DisplayOrderID: displayID,
		Date:           snap.date,
		CustomerID:     snap.customer.ID,
		CustomerName:   snap.customer.Name,
		Lines:          lines,
		Subtotal:       snap.totals.Subtotal,
		DiscountMode:   snap.discount.Mode,
		DiscountValue:  snap.discount.Value,
		DiscountAmount: snap.totals.DiscountAmount,
		TaxEnabled:     snap.taxEnabled,
		TaxAmount:      snap.totals.TaxAmount,
		Total:          snap.totals.GrandTotal,
		PlacedAt:       w.session.now().UTC(),
	}
}

// submissionError surfaces the remote service's own message when it sent
// one, else the generic failure text.
func submissionError(err error) *apperr.Error {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		return apperr.Submission(apiErr.Message, err)
	}
	return apperr.Submission("", err)
}
