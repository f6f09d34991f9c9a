package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhnmartin/join-gradient/internal/dto"
	"github.com/jhnmartin/join-gradient/internal/service"
	"github.com/jhnmartin/join-gradient/pkg/response"
	"github.com/jhnmartin/join-gradient/pkg/telemetry"
)

// MemberHandler handles OfficeRnD member webhooks
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Created handles POST /api/webhooks/members/created
func (h *MemberHandler) Created(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.members.created")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var payload dto.OfficeRndWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetStatus(codes.Error, "invalid payload")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid webhook payload"))
		return
	}

	member := payload.Data.Object.ToDomain()
	if member.Email == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("No email found in webhook payload"))
		return
	}

	outcome, err := h.memberService.MemberCreated(ctx, member)
	if err != nil {
		writeServiceError(c, span, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]string{
		"message":    "Member profile created and added to marketing list",
		"action":     outcome.Action,
		"profile_id": outcome.ProfileID,
	}))
}

// Updated handles POST /api/webhooks/members/updated
func (h *MemberHandler) Updated(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.members.updated")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var payload dto.OfficeRndWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetStatus(codes.Error, "invalid payload")
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid webhook payload"))
		return
	}

	member := payload.Data.Object.ToDomain()
	if member.Email == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("No email found in webhook payload"))
		return
	}

	outcome, err := h.memberService.MemberUpdated(ctx, member)
	if err != nil {
		writeServiceError(c, span, err)
		return
	}

	message := "Member update received, no action needed"
	switch outcome.Action {
	case service.MemberActionRemoved:
		message = "Member removed from marketing list"
	case service.MemberActionNotFound:
		message = "Member not found in marketing platform, no removal needed"
	}

	c.JSON(http.StatusOK, response.Success(map[string]string{
		"message": message,
		"action":  outcome.Action,
	}))
}
