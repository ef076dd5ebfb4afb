package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/notify"
	"github.com/callenovena/comanda/internal/server/http/dto"
	"github.com/callenovena/comanda/internal/server/http/middleware"
)

const heartbeatInterval = 25 * time.Second

// EventsHandler streams order transition events over SSE.
type EventsHandler struct {
	facade ComandaFacade
}

// NewEventsHandler constructs EventsHandler.
func NewEventsHandler(facade ComandaFacade) *EventsHandler {
	return &EventsHandler{facade: facade}
}

// orderEvent is the SSE payload: a full record snapshot plus the move that
// produced it.
type orderEvent struct {
	Previous string            `json:"previous_status,omitempty"`
	Current  string            `json:"current_status"`
	Order    dto.OrderResponse `json:"order"`
}

// Stream handles GET /api/events?scope=waiter|kitchen|table:<id>.
// Role scopes require a matching staff token; table scopes are open so a
// customer cart can follow its own order.
func (h *EventsHandler) Stream(c *gin.Context) {
	scope, requiredRole, err := parseScope(c.Query("scope"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if requiredRole != "" {
		token := middleware.ExtractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "token required"})
			return
		}
		role, err := h.facade.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid token"})
			return
		}
		if role != requiredRole && role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "wrong role for scope"})
			return
		}
	}

	events, cancel := h.facade.Subscribe(scope)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent("order", orderEvent{
				Previous: string(ev.Previous),
				Current:  string(ev.Current),
				Order:    toOrderResponse(ev.Order),
			})
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			c.Writer.Flush()
		}
	}
}

func parseScope(raw string) (notify.Scope, model.Role, error) {
	switch {
	case raw == "waiter":
		return notify.RoleScope(model.RoleWaiter), model.RoleWaiter, nil
	case raw == "kitchen":
		return notify.RoleScope(model.RoleKitchen), model.RoleKitchen, nil
	case strings.HasPrefix(raw, "table:"):
		table := strings.TrimPrefix(raw, "table:")
		if table == "" {
			return "", "", errScope
		}
		return notify.TableScope(table), "", nil
	default:
		return "", "", errScope
	}
}

var errScope = errors.New("unknown scope")
