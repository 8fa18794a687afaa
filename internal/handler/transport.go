package handler

import (
	"context"
	"errors"
	"net/http"

	"transport-editor/internal/customdata"
	"transport-editor/internal/repository"
	"transport-editor/internal/service"

	"github.com/gin-gonic/gin"
)

// TransportHandler exposes transport editor sessions over HTTP
type TransportHandler struct {
	service TransportService
}

// TransportService interface for dependency injection
type TransportService interface {
	Start(ctx context.Context, productID, versionID string) (service.View, error)
	View(id string) (service.View, error)
	AppendEntry(id string) (customdata.SlotID, error)
	UpdateValue(id string, slot customdata.SlotID, value string) error
	SelectAddress(ctx context.Context, id, address string) (service.View, error)
	Submit(ctx context.Context, id, sender string) (*service.Outcome, error)
	Close(id string) error
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// AppendResponse is returned after appending an entry
type AppendResponse struct {
	Slot customdata.SlotID `json:"slot"`
}

// LocationRequest selects the address to resolve
type LocationRequest struct {
	Address string `json:"address" binding:"required"`
}

// EntryRequest carries the new value of an entry. An empty value clears it.
type EntryRequest struct {
	Value *string `json:"value" binding:"required"`
}

// SubmitRequest carries the identity signing the registry write
type SubmitRequest struct {
	Sender string `json:"sender" binding:"required,eth_addr"`
}

// LocationResponse is returned after a resolution attempt
type LocationResponse struct {
	service.View
	Error string `json:"error,omitempty"`
}

// NewTransportHandler creates a new transport handler
func NewTransportHandler(svc TransportService) *TransportHandler {
	return &TransportHandler{service: svc}
}

// Register mounts the transport routes
func (h *TransportHandler) Register(r gin.IRouter) {
	r.POST("/products/:productId/transport", h.Open)
	r.GET("/sessions/:sessionId", h.Get)
	r.DELETE("/sessions/:sessionId", h.Close)
	r.POST("/sessions/:sessionId/entries", h.AppendEntry)
	r.PUT("/sessions/:sessionId/entries/:slot", h.UpdateEntry)
	r.POST("/sessions/:sessionId/location", h.SelectLocation)
	r.POST("/sessions/:sessionId/submit", h.Submit)
}

// Open handles POST /products/:productId/transport requests
//
//	@Summary	Open a transport editor for a product
//	@Tags		transport
//	@Produce	json
//	@Param		productId	path		string	true	"Product id"
//	@Param		version		query		string	false	"Version to edit (default latest)"
//	@Success	201			{object}	service.View
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Failure	502			{object}	ErrorResponse
//	@Router		/products/{productId}/transport [post]
func (h *TransportHandler) Open(c *gin.Context) {
	view, err := h.service.Start(c.Request.Context(), c.Param("productId"), c.Query("version"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Get handles GET /sessions/:sessionId requests
//
//	@Summary	Show a transport editor
//	@Tags		transport
//	@Produce	json
//	@Param		sessionId	path		string	true	"Session id"
//	@Success	200			{object}	service.View
//	@Failure	404			{object}	ErrorResponse
//	@Router		/sessions/{sessionId} [get]
func (h *TransportHandler) Get(c *gin.Context) {
	view, err := h.service.View(c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Close handles DELETE /sessions/:sessionId requests
//
//	@Summary	Discard a transport editor and its unsent edits
//	@Tags		transport
//	@Param		sessionId	path	string	true	"Session id"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/sessions/{sessionId} [delete]
func (h *TransportHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Param("sessionId")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AppendEntry handles POST /sessions/:sessionId/entries requests
//
//	@Summary	Append a blank custom data entry
//	@Tags		transport
//	@Produce	json
//	@Param		sessionId	path		string	true	"Session id"
//	@Success	201			{object}	AppendResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/sessions/{sessionId}/entries [post]
func (h *TransportHandler) AppendEntry(c *gin.Context) {
	slot, err := h.service.AppendEntry(c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AppendResponse{Slot: slot})
}

// UpdateEntry handles PUT /sessions/:sessionId/entries/:slot requests
//
//	@Summary	Edit the value of a custom data entry
//	@Tags		transport
//	@Accept		json
//	@Produce	json
//	@Param		sessionId	path		string			true	"Session id"
//	@Param		slot		path		string			true	"Entry slot"
//	@Param		body		body		EntryRequest	true	"New value"
//	@Success	200			{object}	service.View
//	@Failure	400			{object}	ErrorResponse
//	@Failure	403			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Failure	422			{object}	ErrorResponse
//	@Router		/sessions/{sessionId}/entries/{slot} [put]
func (h *TransportHandler) UpdateEntry(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	id := c.Param("sessionId")
	if err := h.service.UpdateValue(id, customdata.SlotID(c.Param("slot")), *req.Value); err != nil {
		writeError(c, err)
		return
	}

	view, err := h.service.View(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectLocation handles POST /sessions/:sessionId/location requests
//
//	@Summary	Resolve the transport location from an address
//	@Tags		transport
//	@Accept		json
//	@Produce	json
//	@Param		sessionId	path		string			true	"Session id"
//	@Param		body		body		LocationRequest	true	"Selected address"
//	@Success	200			{object}	LocationResponse
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Failure	409			{object}	ErrorResponse
//	@Failure	422			{object}	LocationResponse
//	@Router		/sessions/{sessionId}/location [post]
func (h *TransportHandler) SelectLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing required field 'address'"})
		return
	}

	view, err := h.service.SelectAddress(c.Request.Context(), c.Param("sessionId"), req.Address)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, LocationResponse{View: view})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionClosed), errors.Is(err, service.ErrBusy):
		writeError(c, err)
	default:
		// resolution failures are reported with the view so the user can search again
		c.JSON(http.StatusUnprocessableEntity, LocationResponse{View: view, Error: "address could not be resolved"})
	}
}

// Submit handles POST /sessions/:sessionId/submit requests
//
//	@Summary	Write the transport information to the registry
//	@Tags		transport
//	@Accept		json
//	@Produce	json
//	@Param		sessionId	path		string			true	"Session id"
//	@Param		body		body		SubmitRequest	true	"Signing identity"
//	@Success	200			{object}	service.Outcome
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Failure	409			{object}	ErrorResponse
//	@Failure	422			{object}	ErrorResponse
//	@Failure	502			{object}	ErrorResponse
//	@Router		/sessions/{sessionId}/submit [post]
func (h *TransportHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a valid 'sender' address is required"})
		return
	}

	outcome, err := h.service.Submit(c.Request.Context(), c.Param("sessionId"), req.Sender)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// writeError maps service errors to HTTP responses
func writeError(c *gin.Context, err error) {
	var loadErr *service.LoadError
	if errors.As(err, &loadErr) {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, service.ErrProductIDRequired), errors.Is(err, repository.ErrInvalidVersion):
			status = http.StatusBadRequest
		case errors.Is(err, repository.ErrProductNotFound):
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: "product information could not be loaded", Redirect: loadErr.Redirect()})
		return
	}

	var subErr *service.SubmissionError
	if errors.As(err, &subErr) {
		status := http.StatusBadGateway
		if errors.Is(err, repository.ErrResourceBudgetExceeded) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, ErrorResponse{Error: subErr.Error()})
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionClosed):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	case errors.Is(err, service.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "entry not found"})
	case errors.Is(err, service.ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "another operation is in progress"})
	case errors.Is(err, service.ErrReadOnly), errors.Is(err, service.ErrNotEditable):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrLocationRequired),
		errors.Is(err, service.ErrInvalidTransportType),
		errors.Is(err, service.ErrSenderRequired):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
