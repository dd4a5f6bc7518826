// File: handlers/notification.go
package handlers

import (
	"net/http"
	"strconv"

	donorRepo "bloodlink/database/repository/donor"
	notificationRepo "bloodlink/database/repository/notification"
	"bloodlink/middleware"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the donor's in-app notification feed.
type NotificationHandler struct {
	Repo      notificationRepo.NotificationRepository
	DonorRepo donorRepo.DonorRepository
}

// List returns the donor's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	d, err := h.DonorRepo.GetByAuthID(c.Request.Context(), middleware.AuthUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "donor not found"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	notifications, err := h.Repo.ListByUser(c.Request.Context(), d.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Repo.MarkRead(c.Request.Context(), c.Param("notificationID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkHandled marks one notification as handled.
func (h *NotificationHandler) MarkHandled(c *gin.Context) {
	if err := h.Repo.MarkHandled(c.Request.Context(), c.Param("notificationID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
