// File: handlers/request.go
package handlers

import (
	"net/http"

	"bloodlink/middleware"
	"bloodlink/models"
	"bloodlink/services/request"

	"github.com/gin-gonic/gin"
)

// RequestHandler exposes emergency blood requests.
type RequestHandler struct {
	RequestSvc request.RequestService
}

// Create raises an emergency request for the signed-in hospital.
func (h *RequestHandler) Create(c *gin.Context) {
	var req models.BloodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	created, err := h.RequestSvc.Create(c.Request.Context(), middleware.AuthUserID(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListOpen lists open requests, optionally filtered by blood group.
func (h *RequestHandler) ListOpen(c *gin.Context) {
	requests, err := h.RequestSvc.ListOpen(c.Request.Context(), c.Query("bloodGroup"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Confirm records a completed donation against a request.
func (h *RequestHandler) Confirm(c *gin.Context) {
	var conf models.DonationConfirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.RequestSvc.Confirm(c.Request.Context(), conf); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}
