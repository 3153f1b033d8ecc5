package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pos-terminal/apperr"
	"pos-terminal/catalog"
	"pos-terminal/checkout"
	"pos-terminal/clients"
	"pos-terminal/models"
	"pos-terminal/sequencer"
)

type stubSource struct {
	mu       sync.Mutex
	items    []models.Item
	itemsErr error
}

func (s *stubSource) ListItems(ctx context.Context) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items, s.itemsErr
}

func (s *stubSource) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return []models.Customer{{ID: 7, Name: "Nimal Perera", Address: "12 Temple Road, Kandy"}}, nil
}

type stubOrders struct {
	err      error
	received []models.OrderRequest
}

func (s *stubOrders) PlaceOrder(ctx context.Context, order models.OrderRequest) error {
	s.received = append(s.received, order)
	return s.err
}

func setupRouter(t *testing.T, orders *stubOrders) (*gin.Engine, *stubSource) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := &stubSource{items: []models.Item{
		{ID: 1, Description: "Notebook", UnitPrice: decimal.NewFromInt(100), QtyOnHand: 10},
		{ID: 2, Description: "Pen", UnitPrice: decimal.NewFromInt(50), QtyOnHand: 1},
	}}
	cache := catalog.NewCache(src, zap.NewNop())
	require.NoError(t, cache.Load(context.Background()))

	session := checkout.NewSession(cache, sequencer.New(1), zap.NewNop())
	workflow := checkout.NewWorkflow(session, orders, nil, zap.NewNop())

	router := gin.New()
	RegisterRoutes(router,
		NewSessionHandler(session, workflow, cache, zap.NewNop()),
		NewCheckoutHandler(session, workflow, zap.NewNop()))
	return router, src
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})

	rec := do(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestAddLine_ReturnsSessionView(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})

	rec := do(t, router, http.MethodPost, "/cart/lines", `{"itemId": 1, "qty": 2}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[models.SessionView](t, rec)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Qty)
	assert.Equal(t, "Rs 200.00", view.Totals.Subtotal)
	assert.Equal(t, "ORD-0001", view.OrderID)
}

func TestAddLine_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"non numeric qty", `{"itemId": 1, "qty": "abc"}`, http.StatusUnprocessableEntity, apperr.CodeInvalidQuantity},
		{"zero qty", `{"itemId": 1, "qty": 0}`, http.StatusUnprocessableEntity, apperr.CodeInvalidQuantity},
		{"over stock", `{"itemId": 2, "qty": "2"}`, http.StatusUnprocessableEntity, apperr.CodeExceedsStock},
		{"huge exponent qty", `{"itemId": 1, "qty": "1e999999999"}`, http.StatusUnprocessableEntity, apperr.CodeExceedsStock},
		{"unknown item", `{"itemId": 99, "qty": "1"}`, http.StatusUnprocessableEntity, apperr.CodeNoItemSelected},
		{"missing item id", `{"qty": "1"}`, http.StatusUnprocessableEntity, apperr.CodeNoItemSelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t, &stubOrders{})

			rec := do(t, router, http.MethodPost, "/cart/lines", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode[models.ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestSelectThenAdd(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/session/item", `{"itemId": 1}`).Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/session/quantity", `{"qty": "3"}`).Code)
	rec := do(t, router, http.MethodPost, "/cart/add", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[models.SessionView](t, rec)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Qty)
	assert.Empty(t, view.Quantity)
}

func TestIncrement_WarnsAtStock(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/cart/lines", `{"itemId": 2, "qty": 1}`).Code)

	rec := do(t, router, http.MethodPost, "/cart/lines/2/increment", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.IncrementResponse](t, rec)
	assert.Equal(t, apperr.MsgIncrementExceeds, resp.Warning)
	assert.Equal(t, 1, resp.Session.Lines[0].Qty)
}

func TestInvalidItemIDParam(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})

	rec := do(t, router, http.MethodDelete, "/cart/lines/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTotals_WithDiscountAndTax(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})
	do(t, router, http.MethodPost, "/cart/lines", `{"itemId": 1, "qty": 2}`)
	do(t, router, http.MethodPost, "/cart/lines", `{"itemId": 2, "qty": 1}`)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/session/discount", `{"mode": "percent", "value": "10"}`).Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/session/tax", `{"enabled": true}`).Code)

	rec := do(t, router, http.MethodGet, "/session/totals", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TotalsView{
		Subtotal:       "Rs 250.00",
		DiscountAmount: "Rs 25.00",
		TaxableBase:    "Rs 225.00",
		TaxAmount:      "Rs 18.00",
		GrandTotal:     "Rs 243.00",
	}, decode[models.TotalsView](t, rec))
}

func TestSetDiscount_UnknownMode(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})

	rec := do(t, router, http.MethodPut, "/session/discount", `{"mode": "bogo", "value": 5}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlaceOrder_Success(t *testing.T) {
	orders := &stubOrders{}
	router, _ := setupRouter(t, orders)
	do(t, router, http.MethodPut, "/session/customer", `{"customerId": 7}`)
	do(t, router, http.MethodPost, "/cart/lines", `{"itemId": 1, "qty": 1}`)

	rec := do(t, router, http.MethodPost, "/orders", "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[models.PlaceOrderResponse](t, rec)
	assert.Equal(t, "ORD-0001", resp.OrderID)
	assert.Empty(t, resp.Warning)
	require.Len(t, orders.received, 1)

	history := decode[[]models.OrderRecord](t, do(t, router, http.MethodGet, "/orders", ""))
	require.Len(t, history, 1)
	assert.Equal(t, "ORD-0001", history[0].DisplayOrderID)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	orders := &stubOrders{}
	router, _ := setupRouter(t, orders)
	do(t, router, http.MethodPut, "/session/customer", `{"customerId": 7}`)

	rec := do(t, router, http.MethodPost, "/orders", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, apperr.CodeCartEmpty, resp.Code)
	assert.Equal(t, apperr.MsgCartEmpty, resp.Message)
	assert.Empty(t, orders.received)
}

func TestPlaceOrder_RemoteRejection(t *testing.T) {
	orders := &stubOrders{err: &clients.APIError{StatusCode: 500, Message: "Insufficient stock for item: 1"}}
	router, _ := setupRouter(t, orders)
	do(t, router, http.MethodPut, "/session/customer", `{"customerId": 7}`)
	do(t, router, http.MethodPost, "/cart/lines", `{"itemId": 1, "qty": 1}`)

	rec := do(t, router, http.MethodPost, "/orders", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, "SUBMISSION_ERROR", resp.Error)
	assert.Equal(t, "Insufficient stock for item: 1", resp.Message)

	view := decode[models.SessionView](t, do(t, router, http.MethodGet, "/session", ""))
	assert.Len(t, view.Lines, 1)
	assert.Equal(t, "ORD-0001", view.OrderID)
}

func TestPlaceOrder_RefreshWarning(t *testing.T) {
	router, src := setupRouter(t, &stubOrders{})
	do(t, router, http.MethodPut, "/session/customer", `{"customerId": 7}`)
	do(t, router, http.MethodPost, "/cart/lines", `{"itemId": 1, "qty": 1}`)
	src.mu.Lock()
	src.itemsErr = errors.New("catalog unavailable")
	src.mu.Unlock()

	rec := do(t, router, http.MethodPost, "/orders", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[models.PlaceOrderResponse](t, rec)
	assert.Contains(t, resp.Warning, apperr.MsgCatalogStale)
}

func TestReloadCatalog_Failure(t *testing.T) {
	router, src := setupRouter(t, &stubOrders{})
	src.mu.Lock()
	src.itemsErr = errors.New("catalog unavailable")
	src.mu.Unlock()

	rec := do(t, router, http.MethodPost, "/catalog/reload", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetCatalog(t *testing.T) {
	router, _ := setupRouter(t, &stubOrders{})

	view := decode[models.CatalogView](t, do(t, router, http.MethodGet, "/catalog", ""))

	assert.Len(t, view.Items, 2)
	assert.Len(t, view.Customers, 1)
}
