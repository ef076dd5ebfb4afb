package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/callenovena/comanda/internal/server/http/dto"
)

// MenuHandler serves the read-only menu to the customer cart.
type MenuHandler struct {
	facade MenuFacade
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(facade MenuFacade) *MenuHandler {
	return &MenuHandler{facade: facade}
}

// List handles GET /api/menu.
func (h *MenuHandler) List(c *gin.Context) {
	items := h.facade.Menu()
	response := make([]dto.MenuItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, dto.MenuItemResponse{
			ItemID:      item.ID,
			Name:        item.Name,
			Category:    item.Category,
			PrepMinutes: int64(item.PrepTime / time.Minute),
		})
	}
	c.JSON(http.StatusOK, response)
}
