package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/server/http/dto"
	"github.com/callenovena/comanda/internal/usecase"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	facade ComandaFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade ComandaFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed body"})
		return
	}

	draft := model.OrderDraft{
		Table:        req.Table,
		GuestName:    req.GuestName,
		Comments:     req.Comments,
		AllergyNotes: req.AllergyNotes,
	}
	for _, it := range req.Items {
		draft.Items = append(draft.Items, model.OrderItem{ItemID: it.ItemID, Name: it.Name, Quantity: it.Quantity})
	}

	order, err := h.facade.SubmitOrder(c.Request.Context(), draft)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	view, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toViewResponse(*view))
}

// List handles GET /api/orders with an optional status filter.
func (h *OrderHandler) List(c *gin.Context) {
	var statuses []model.OrderStatus
	for _, raw := range c.QueryArray("status") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status := model.OrderStatus(part)
			if !status.Valid() {
				c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown status " + part})
				return
			}
			statuses = append(statuses, status)
		}
	}

	views, err := h.facade.Orders(c.Request.Context(), statuses)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toViewResponses(views))
}

// PendingWaiter handles GET /api/orders/pending-waiter.
func (h *OrderHandler) PendingWaiter(c *gin.Context) {
	h.board(c, h.facade.PendingWaiter)
}

// InKitchen handles GET /api/orders/in-kitchen.
func (h *OrderHandler) InKitchen(c *gin.Context) {
	h.board(c, h.facade.InKitchen)
}

// Ready handles GET /api/orders/ready.
func (h *OrderHandler) Ready(c *gin.Context) {
	h.board(c, h.facade.ReadyBoard)
}

// SendToKitchen handles POST /api/orders/:id/send-to-kitchen.
func (h *OrderHandler) SendToKitchen(c *gin.Context) {
	h.advance(c, model.OrderStatusConfirmed, nil)
}

// MarkReady handles POST /api/orders/:id/mark-ready.
func (h *OrderHandler) MarkReady(c *gin.Context) {
	h.advance(c, model.OrderStatusReady, nil)
}

// MarkDelivered handles POST /api/orders/:id/mark-delivered.
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.advance(c, model.OrderStatusDelivered, nil)
}

// Cancel handles POST /api/orders/:id/cancel with an optional reason body.
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req dto.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed body"})
			return
		}
	}
	h.advance(c, model.OrderStatusCancelled, req.Reason)
}

func (h *OrderHandler) advance(c *gin.Context, target model.OrderStatus, voidReason *string) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.AdvanceOrder(c.Request.Context(), id, target, CurrentRole(c), voidReason)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func (h *OrderHandler) board(c *gin.Context, query func(ctx context.Context) ([]usecase.OrderView, error)) {
	views, err := query(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViewResponses(views))
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order id"})
		return 0, false
	}
	return id, true
}
