package handler

import (
	"net/http"
	"strconv"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/response"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/collectivefm/collective-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// EventHandler handles public and back-office event endpoints.
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListPublic godoc
// GET /api/v1/public/events?type=upcoming|past|all
// Returns the public event listing, default upcoming.
func (h *EventHandler) ListPublic(c *gin.Context) {
	kind := model.EventKind(c.DefaultQuery("type", string(model.EventKindUpcoming)))
	switch kind {
	case model.EventKindUpcoming, model.EventKindPast, model.EventKindAll:
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	events, err := h.eventService.ListPublic(c.Request.Context(), kind)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// Get godoc
// GET /api/v1/admin/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	event, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// Create godoc
// POST /api/v1/admin/events
func (h *EventHandler) Create(c *gin.Context) {
	var req model.EventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": event})
}

// Update godoc
// PUT /api/v1/admin/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// Delete godoc
// DELETE /api/v1/admin/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
