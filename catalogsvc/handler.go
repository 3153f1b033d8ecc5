package catalogsvc

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-terminal/models"
	"pos-terminal/validators"
)

// Handler serves the Catalog & Order Service REST contract from a Store.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes mounts the service under /api/v1.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := router.Group("/api/v1")

	api.GET("/items", h.ListItems)
	api.POST("/items", h.SaveItem)
	api.PUT("/items", h.UpdateItem)
	api.DELETE("/items/:id", h.DeleteItem)

	api.GET("/customers", h.ListCustomers)
	api.POST("/customers", h.SaveCustomer)
	api.PUT("/customers", h.UpdateCustomer)
	api.DELETE("/customers/:id", h.DeleteCustomer)

	api.POST("/orders", h.PlaceOrder)
	api.GET("/orders", h.ListOrders)
}

func reply(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.APIResponse[any]{Code: status, Message: message, Data: data})
}

func validationError(c *gin.Context, data any) {
	reply(c, http.StatusBadRequest, "Validation Error", data)
}

// ListItems handles GET /api/v1/items
func (h *Handler) ListItems(c *gin.Context) {
	reply(c, http.StatusOK, "Items retrieved successfully", h.store.ListItems())
}

// SaveItem handles POST /api/v1/items
func (h *Handler) SaveItem(c *gin.Context) {
	item, ok := h.bindItem(c)
	if !ok {
		return
	}
	saved := h.store.SaveItem(item)
	h.logger.Info("item saved", zap.Int64("item_id", saved.ID))
	reply(c, http.StatusCreated, "Item saved successfully", nil)
}

// UpdateItem handles PUT /api/v1/items
func (h *Handler) UpdateItem(c *gin.Context) {
	item, ok := h.bindItem(c)
	if !ok {
		return
	}
	if item.ID <= 0 {
		validationError(c, validators.FieldErrors{"id": "Item ID must be a valid integer"})
		return
	}
	h.store.SaveItem(item)
	h.logger.Info("item updated", zap.Int64("item_id", item.ID))
	reply(c, http.StatusOK, "Item updated successfully", nil)
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.store.DeleteItem(id)
	h.logger.Info("item deleted", zap.Int64("item_id", id))
	reply(c, http.StatusOK, "Item deleted successfully", nil)
}

// ListCustomers handles GET /api/v1/customers
func (h *Handler) ListCustomers(c *gin.Context) {
	reply(c, http.StatusOK, "Customers retrieved successfully", h.store.ListCustomers())
}

// SaveCustomer handles POST /api/v1/customers
func (h *Handler) SaveCustomer(c *gin.Context) {
	customer, ok := h.bindCustomer(c)
	if !ok {
		return
	}
	saved := h.store.SaveCustomer(customer)
	h.logger.Info("customer saved", zap.Int64("customer_id", saved.ID))
	reply(c, http.StatusCreated, "Customer saved successfully", nil)
}

// UpdateCustomer handles PUT /api/v1/customers
func (h *Handler) UpdateCustomer(c *gin.Context) {
	customer, ok := h.bindCustomer(c)
	if !ok {
		return
	}
	if customer.ID <= 0 {
		validationError(c, validators.FieldErrors{"id": "Customer ID must be a valid integer"})
		return
	}
	h.store.SaveCustomer(customer)
	h.logger.Info("customer updated", zap.Int64("customer_id", customer.ID))
	reply(c, http.StatusOK, "Customer updated successfully", nil)
}

// DeleteCustomer handles DELETE /api/v1/customers/{id}
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.store.DeleteCustomer(id)
	h.logger.Info("customer deleted", zap.Int64("customer_id", id))
	reply(c, http.StatusOK, "Customer deleted successfully", nil)
}

// PlaceOrder handles POST /api/v1/orders. Any rejection is a 500 carrying
// the reason in data.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err.Error())
		return
	}

	order, err := h.store.PlaceOrder(req)
	if err != nil {
		h.logger.Warn("order rejected", zap.Int64("order_id", req.OrderID), zap.Error(err))
		reply(c, http.StatusInternalServerError, "Internal server Error", err.Error())
		return
	}

	h.logger.Info("order placed",
		zap.Int64("id", order.ID),
		zap.Int64("order_id", order.TerminalOrderID),
		zap.Int64("customer_id", order.CustomerID),
		zap.Int("lines", len(order.OrderDetails)))
	c.String(http.StatusOK, "Order placed successfully")
}

// ListOrders handles GET /api/v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	reply(c, http.StatusOK, "Orders retrieved successfully", h.store.Orders())
}

func (h *Handler) bindItem(c *gin.Context) (models.Item, bool) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		validationError(c, err.Error())
		return item, false
	}
	if errs := validators.ValidateItem(item); len(errs) > 0 {
		validationError(c, errs)
		return item, false
	}
	return item, true
}

func (h *Handler) bindCustomer(c *gin.Context) (models.Customer, bool) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		validationError(c, err.Error())
		return customer, false
	}
	if errs := validators.ValidateCustomer(customer); len(errs) > 0 {
		validationError(c, errs)
		return customer, false
	}
	return customer, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		validationError(c, "ID must be a positive integer")
		return 0, false
	}
	return id, true
}
