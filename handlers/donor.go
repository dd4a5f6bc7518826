// File: handlers/donor.go
package handlers

import (
	"errors"
	"net/http"

	"bloodlink/middleware"
	"bloodlink/models"
	"bloodlink/services/donor"
	"bloodlink/services/scheduling"

	"github.com/gin-gonic/gin"
)

// DonorHandler exposes donor registration, auth and profile endpoints.
type DonorHandler struct {
	DonorSvc  donor.DonorService
	Submitter scheduling.Submitter
}

// Register signs a new donor up.
func (h *DonorHandler) Register(c *gin.Context) {
	var reg models.DonorRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	d, token, err := h.DonorSvc.Register(c.Request.Context(), reg)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"donor": d, "token": token})
}

// Login authenticates a donor.
func (h *DonorHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	d, token, err := h.DonorSvc.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor": d, "token": token})
}

// Profile returns the signed-in donor's profile.
func (h *DonorHandler) Profile(c *gin.Context) {
	d, err := h.DonorSvc.GetByAuthID(c.Request.Context(), middleware.AuthUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "donor not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// UpdateFCMToken stores the donor's push token.
func (h *DonorHandler) UpdateFCMToken(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.DonorSvc.UpdateFCMToken(c.Request.Context(), middleware.AuthUserID(c), input.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update push token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MyDonations lists the donor's donations across both facility kinds.
func (h *DonorHandler) MyDonations(c *gin.Context) {
	donations, err := h.DonorSvc.MyDonations(c.Request.Context(), middleware.AuthUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

// CancelDonation cancels one of the donor's donations.
func (h *DonorHandler) CancelDonation(c *gin.Context) {
	var input struct {
		Kind   string `json:"kind" binding:"required,oneof=blood_bank hospital"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	err := h.Submitter.Cancel(c.Request.Context(), middleware.AuthUserID(c),
		input.Kind, c.Param("donationID"), input.Reason)
	if err != nil {
		var schedErr *scheduling.SchedulingError
		if errors.As(err, &schedErr) {
			c.JSON(http.StatusConflict, gin.H{"error": schedErr.UserMessage, "code": schedErr.Code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel donation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
