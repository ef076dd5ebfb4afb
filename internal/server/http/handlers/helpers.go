package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/callenovena/comanda/internal/domain/errors"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/server/http/dto"
	"github.com/callenovena/comanda/internal/server/http/middleware"
	"github.com/callenovena/comanda/internal/usecase"
)

// CurrentRole extracts the authenticated staff role from the context.
func CurrentRole(c *gin.Context) model.Role {
	val, ok := c.Get(middleware.RoleContextKey)
	if !ok {
		return ""
	}
	role, _ := val.(model.Role)
	return role
}

func toItemPayloads(items []model.OrderItem) []dto.OrderItemPayload {
	payload := make([]dto.OrderItemPayload, 0, len(items))
	for _, it := range items {
		payload = append(payload, dto.OrderItemPayload{ItemID: it.ItemID, Name: it.Name, Quantity: it.Quantity})
	}
	return payload
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:              order.ID,
		Table:           order.Table,
		GuestName:       order.GuestName,
		Comments:        order.Comments,
		AllergyNotes:    order.AllergyNotes,
		Items:           toItemPayloads(order.Items),
		Status:          string(order.Status),
		VoidReason:      order.VoidReason,
		CreatedAt:       order.CreatedAt,
		SentToKitchenAt: order.SentToKitchenAt,
		ReadyAt:         order.ReadyAt,
		DeliveredAt:     order.DeliveredAt,
	}
}

func toViewResponse(view usecase.OrderView) dto.OrderResponse {
	response := toOrderResponse(view.Order)
	deadline := int64(view.Deadline / time.Minute)
	elapsed := int64(view.Elapsed / time.Second)
	late := view.Late
	response.DeadlineMinutes = &deadline
	response.ElapsedSeconds = &elapsed
	response.Late = &late
	return response
}

func toViewResponses(views []usecase.OrderView) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(views))
	for _, v := range views {
		response = append(response, toViewResponse(v))
	}
	return response
}

func writeOrderError(c *gin.Context, err error) {
	var transitionErr *usecase.TransitionError
	switch {
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:  "invalid transition",
			Status: string(transitionErr.From),
		})
	case errors.Is(err, domainErrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "order changed concurrently"})
	case errors.Is(err, domainErrors.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "order not found"})
	case errors.Is(err, domainErrors.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "order has no items"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
