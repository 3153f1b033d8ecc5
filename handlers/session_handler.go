package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-terminal/catalog"
	"pos-terminal/checkout"
	"pos-terminal/models"
)

// SessionHandler exposes the operator session: pickers, cart and pricing
// inputs. Every successful mutation answers with the refreshed session view.
type SessionHandler struct {
	session  *checkout.Session
	workflow *checkout.Workflow
	cache    *catalog.Cache
	logger   *zap.Logger
}

func NewSessionHandler(session *checkout.Session, workflow *checkout.Workflow, cache *catalog.Cache, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		session:  session,
		workflow: workflow,
		cache:    cache,
		logger:   logger,
	}
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(c *gin.Context) {
	h.respondView(c)
}

// GetCatalog handles GET /catalog
func (h *SessionHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, models.CatalogView{
		Items:     h.cache.Items(),
		Customers: h.cache.Customers(),
	})
}

// ReloadCatalog handles POST /catalog/reload
func (h *SessionHandler) ReloadCatalog(c *gin.Context) {
	if err := h.session.ReloadCatalog(c.Request.Context()); err != nil {
		h.logger.Warn("catalog reload failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "CATALOG_UNAVAILABLE",
			Message: "Failed to load items and customers",
			Details: err.Error(),
		})
		return
	}
	h.GetCatalog(c)
}

// SelectCustomer handles PUT /session/customer
func (h *SessionHandler) SelectCustomer(c *gin.Context) {
	var req models.SelectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body", err)
		return
	}
	if err := h.session.SelectCustomer(req.CustomerID); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// SelectItem handles PUT /session/item
func (h *SessionHandler) SelectItem(c *gin.Context) {
	var req models.SelectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body", err)
		return
	}
	if err := h.session.SelectItem(req.ItemID); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// SetQuantity handles PUT /session/quantity
func (h *SessionHandler) SetQuantity(c *gin.Context) {
	var req models.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body", err)
		return
	}
	if err := h.session.SetQuantity(string(req.Qty)); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// AddSelected handles POST /cart/add
func (h *SessionHandler) AddSelected(c *gin.Context) {
	if err := h.session.AddSelectedToCart(); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// AddLine handles POST /cart/lines
func (h *SessionHandler) AddLine(c *gin.Context) {
	var req models.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body", err)
		return
	}
	if err := h.session.AddToCart(req.ItemID, string(req.Qty)); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// Increment handles POST /cart/lines/{itemId}/increment
func (h *SessionHandler) Increment(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	warning, err := h.session.Increment(itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.IncrementResponse{
		Warning: warning,
		Session: h.session.View(h.workflow.State()),
	})
}

// Decrement handles POST /cart/lines/{itemId}/decrement
func (h *SessionHandler) Decrement(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	if err := h.session.Decrement(itemID); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// RemoveLine handles DELETE /cart/lines/{itemId}
func (h *SessionHandler) RemoveLine(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	if err := h.session.Remove(itemID); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// SetDiscount handles PUT /session/discount
func (h *SessionHandler) SetDiscount(c *gin.Context) {
	var req models.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body", err)
		return
	}
	if err := h.session.SetDiscount(req.Mode, string(req.Value)); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// SetTax handles PUT /session/tax
func (h *SessionHandler) SetTax(c *gin.Context) {
	var req models.TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, "Invalid request body", err)
		return
	}
	if err := h.session.SetTax(req.Enabled); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c)
}

// GetTotals handles GET /session/totals
func (h *SessionHandler) GetTotals(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View(h.workflow.State()).Totals)
}

func (h *SessionHandler) respondView(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View(h.workflow.State()))
}

func itemIDParam(c *gin.Context) (int64, bool) {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid item ID",
			Details: "Item ID must be a positive integer",
		})
		return 0, false
	}
	return itemID, true
}
