package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhnmartin/join-gradient/internal/client"
	"github.com/jhnmartin/join-gradient/internal/dto"
	"github.com/jhnmartin/join-gradient/internal/service"
	"github.com/jhnmartin/join-gradient/pkg/response"
	"github.com/jhnmartin/join-gradient/pkg/telemetry"
)

// EventHandler handles Swoogo event webhooks
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Created handles POST /api/webhooks/events/created
func (h *EventHandler) Created(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.events.created")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var payload dto.SwoogoWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetStatus(codes.Error, "invalid payload")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid webhook payload"))
		return
	}

	src := payload.Event.ToDomain()
	if src.Name == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Event name is required"))
		return
	}

	outcome, err := h.eventService.CreateEvent(ctx, src)
	if err != nil {
		writeServiceError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithNotes(toSyncResult("Event created in CMS", src.ID, outcome), outcome.Notes))
}

// Updated handles POST /api/webhooks/events/updated
func (h *EventHandler) Updated(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.events.updated")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var payload dto.SwoogoWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetStatus(codes.Error, "invalid payload")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid webhook payload"))
		return
	}

	src := payload.Event.ToDomain()
	if src.ID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Source event id is required"))
		return
	}

	outcome, err := h.eventService.UpdateEvent(ctx, src)
	if err != nil {
		writeServiceError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithNotes(toSyncResult("Event updated in CMS", src.ID, outcome), outcome.Notes))
}

// Deleted handles POST /api/webhooks/events/deleted
func (h *EventHandler) Deleted(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.events.deleted")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var payload dto.SwoogoWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetStatus(codes.Error, "invalid payload")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid webhook payload"))
		return
	}

	sourceID := payload.Event.ID.String()
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Source event id is required"))
		return
	}

	outcome, err := h.eventService.DeleteEvent(ctx, sourceID)
	if err != nil {
		writeServiceError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithNotes(toSyncResult("Event deleted from CMS", sourceID, outcome), outcome.Notes))
}

func toSyncResult(message, sourceID string, outcome *service.SyncOutcome) *dto.SyncResult {
	result := &dto.SyncResult{
		Message:     message,
		SourceID:    sourceID,
		CoworkingID: outcome.CoworkingID,
	}
	if outcome.CmsItem != nil {
		result.CmsItemID = outcome.CmsItem.ID
	}
	return result
}

// writeServiceError maps service failures onto the response envelope:
// validation errors are 400, a missing correlation is 404, a downstream
// platform failure is 500 with the platform's status and body echoed.
func writeServiceError(c *gin.Context, span trace.Span, err error) {
	span.SetStatus(codes.Error, err.Error())

	switch {
	case errors.Is(err, service.ErrMissingName),
		errors.Is(err, service.ErrMissingSourceID),
		errors.Is(err, service.ErrMissingEmail):
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))

	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Event not found in CMS collection"))

	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, response.UpstreamError(apiErr.Platform, apiErr.Status, apiErr.Body))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError("Failed to process webhook"))
	}
}
