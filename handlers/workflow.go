// File: handlers/workflow.go
package handlers

import (
	"errors"
	"net/http"

	"bloodlink/middleware"
	"bloodlink/services/donor"
	"bloodlink/services/scheduling"
	"bloodlink/services/workflow"

	"github.com/gin-gonic/gin"
)

// WorkflowHandler exposes the scheduling stepper over HTTP.
type WorkflowHandler struct {
	Workflow workflow.WorkflowService
	DonorSvc donor.DonorService
}

// StartScheduling opens a stepper session for the signed-in donor.
func (h *WorkflowHandler) StartScheduling(c *gin.Context) {
	var input struct {
		RescheduleID   string `json:"rescheduleId"`
		RescheduleKind string `json:"rescheduleKind"`
	}
	// Body is optional; an empty body starts a plain session.
	_ = c.ShouldBindJSON(&input)

	authUserID := middleware.AuthUserID(c)
	d, err := h.DonorSvc.GetByAuthID(c.Request.Context(), authUserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to schedule a donation."})
		return
	}

	origin, usedFallback := middleware.Origin(c)
	session, err := h.Workflow.StartSession(c.Request.Context(), d.ID, origin, usedFallback,
		input.RescheduleID, input.RescheduleKind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start scheduling session"})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns the current stepper state.
func (h *WorkflowHandler) GetSession(c *gin.Context) {
	session, err := h.Workflow.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectDate advances the stepper past date selection.
func (h *WorkflowHandler) SelectDate(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Workflow.SelectDate(c.Request.Context(), c.Param("sessionID"), input.Date)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectFacility advances the stepper past facility selection.
func (h *WorkflowHandler) SelectFacility(c *gin.Context) {
	var input struct {
		FacilityID string `json:"facilityId" binding:"required"`
		Kind       string `json:"kind" binding:"required,oneof=blood_bank hospital"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Workflow.SelectFacility(c.Request.Context(), c.Param("sessionID"), input.FacilityID, input.Kind)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectSlot advances the stepper past slot selection.
func (h *WorkflowHandler) SelectSlot(c *gin.Context) {
	var input struct {
		SlotID string `json:"slotId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Workflow.SelectSlot(c.Request.Context(), c.Param("sessionID"), input.SlotID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Confirm books the donation.
func (h *WorkflowHandler) Confirm(c *gin.Context) {
	var input struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&input)

	donation, err := h.Workflow.Confirm(c.Request.Context(), c.Param("sessionID"),
		middleware.AuthUserID(c), input.Notes)
	if err != nil {
		var schedErr *scheduling.SchedulingError
		if errors.As(err, &schedErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error": schedErr.UserMessage,
				"code":  schedErr.Code,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": scheduling.MsgBookingFailed})
		return
	}
	c.JSON(http.StatusCreated, donation)
}

// Back walks one step up the stepper.
func (h *WorkflowHandler) Back(c *gin.Context) {
	session, err := h.Workflow.Back(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Restart resets the stepper to the first step.
func (h *WorkflowHandler) Restart(c *gin.Context) {
	session, err := h.Workflow.Restart(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// CancelSession discards the stepper session.
func (h *WorkflowHandler) CancelSession(c *gin.Context) {
	if err := h.Workflow.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
