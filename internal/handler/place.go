package handler

import (
	"context"
	"net/http"

	"transport-editor/internal/models"

	"github.com/gin-gonic/gin"
)

// PlaceHandler serves address autocomplete suggestions
type PlaceHandler struct {
	service PlaceService
}

// PlaceService interface for dependency injection
type PlaceService interface {
	Suggest(context.Context, string) ([]models.Place, error)
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(svc PlaceService) *PlaceHandler {
	return &PlaceHandler{service: svc}
}

// Suggest handles GET /places requests
//
//	@Summary	Suggest places for an address
//	@Tags		places
//	@Produce	json
//	@Param		q	query		string	true	"Free-text address"
//	@Success	200	{array}		models.Place
//	@Failure	400	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/places [get]
func (h *PlaceHandler) Suggest(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing required query parameter 'q'"})
		return
	}

	places, err := h.service.Suggest(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, places)
}
