package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-terminal/checkout"
	"pos-terminal/models"
)

type CheckoutHandler struct {
	session  *checkout.Session
	workflow *checkout.Workflow
	logger   *zap.Logger
}

func NewCheckoutHandler(session *checkout.Session, workflow *checkout.Workflow, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		session:  session,
		workflow: workflow,
		logger:   logger,
	}
}

// PlaceOrder handles POST /orders
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	// A client hanging up must not abandon an order the service may already hold.
	ctx := context.WithoutCancel(c.Request.Context())

	receipt, err := h.workflow.Place(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.PlaceOrderResponse{
		OrderID: receipt.Record.DisplayOrderID,
		Order:   receipt.Record,
	}
	if receipt.Warning != nil {
		resp.Warning = receipt.Warning.Error()
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOrders handles GET /orders
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.History())
}
