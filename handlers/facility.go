// File: handlers/facility.go
package handlers

import (
	"net/http"

	"bloodlink/middleware"
	"bloodlink/models"
	"bloodlink/services/facility"

	"github.com/gin-gonic/gin"
)

// FacilityHandler exposes facility registration, auth and slot management.
type FacilityHandler struct {
	FacilitySvc facility.FacilityService
}

// Register signs a new facility up. It starts unverified.
func (h *FacilityHandler) Register(c *gin.Context) {
	var reg models.FacilityRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	f, token, err := h.FacilitySvc.Register(c.Request.Context(), reg)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"facility": f, "token": token})
}

// Login authenticates a facility.
func (h *FacilityHandler) Login(c *gin.Context) {
	var input struct {
		Kind     string `json:"kind" binding:"required,oneof=blood_bank hospital"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	f, token, err := h.FacilitySvc.Authenticate(c.Request.Context(), input.Kind, input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"facility": f, "token": token})
}

// UploadLicense stores the facility's license document.
func (h *FacilityHandler) UploadLicense(c *gin.Context) {
	kind := c.Query("kind")
	if kind != models.FacilityKindBloodBank && kind != models.FacilityKindHospital {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be blood_bank or hospital"})
		return
	}

	file, _, err := c.Request.FormFile("license")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "license file missing"})
		return
	}
	defer file.Close()

	docID, err := h.FacilitySvc.UploadLicense(c.Request.Context(), kind, middleware.AuthUserID(c), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload license"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"licenseDocId": docID})
}

// SetupSlots registers the facility's weekly slot schedule.
func (h *FacilityHandler) SetupSlots(c *gin.Context) {
	var input struct {
		Kind  string               `json:"kind" binding:"required,oneof=blood_bank hospital"`
		Slots []facility.SlotSetup `json:"slots" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	ids, err := h.FacilitySvc.SetupSlots(c.Request.Context(), input.Kind, middleware.AuthUserID(c), input.Slots)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slotIds": ids})
}

// DeleteSlot removes one of the facility's slots.
func (h *FacilityHandler) DeleteSlot(c *gin.Context) {
	kind := c.Query("kind")
	if kind != models.FacilityKindBloodBank && kind != models.FacilityKindHospital {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be blood_bank or hospital"})
		return
	}
	err := h.FacilitySvc.DeleteSlot(c.Request.Context(), kind, middleware.AuthUserID(c), c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Verify flips a facility's verified flag. Admin-only.
func (h *FacilityHandler) Verify(c *gin.Context) {
	var input struct {
		Kind     string `json:"kind" binding:"required,oneof=blood_bank hospital"`
		Verified *bool  `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	err := h.FacilitySvc.SetVerified(c.Request.Context(), input.Kind, c.Param("facilityID"), *input.Verified)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
