// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	"bloodlink/handlers"
	"bloodlink/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers wired in main.
type HandlerBundle struct {
	Donor        *handlers.DonorHandler
	Facility     *handlers.FacilityHandler
	Workflow     *handlers.WorkflowHandler
	Notification *handlers.NotificationHandler
	Request      *handlers.RequestHandler

	// Geolocation resolves the donor's position for the stepper routes.
	Geolocation gin.HandlerFunc
}

// RegisterRoutes sets up all endpoints.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterDonorRoutes(r, hb)
	RegisterFacilityRoutes(r, hb)
	RegisterSchedulingRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterRequestRoutes(r, hb)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm BloodLink"})
	})
}

// RegisterDonorRoutes registers donor endpoints.
func RegisterDonorRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/donors")
	{
		api.POST("/register", hb.Donor.Register)
		api.POST("/login", hb.Donor.Login)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuth("donor"))
		api.GET("/me", hb.Donor.Profile)
		api.PUT("/me/fcm-token", hb.Donor.UpdateFCMToken)
		api.GET("/me/donations", hb.Donor.MyDonations)
		api.POST("/me/donations/:donationID/cancel", hb.Donor.CancelDonation)
	}
}

// RegisterFacilityRoutes registers facility endpoints.
func RegisterFacilityRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/facilities")
	{
		api.POST("/register", hb.Facility.Register)
		api.POST("/login", hb.Facility.Login)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth("facility"))
		protected.POST("/license", hb.Facility.UploadLicense)
		protected.POST("/slots", hb.Facility.SetupSlots)
		protected.DELETE("/slots/:slotID", hb.Facility.DeleteSlot)

		admin := api.Group("")
		admin.Use(middleware.JWTAuth("admin"))
		admin.PUT("/:facilityID/verify", hb.Facility.Verify)
	}
}

// RegisterSchedulingRoutes sets up the stepper endpoints.
func RegisterSchedulingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/scheduling")
	{
		api.Use(middleware.JWTAuth("donor"))
		api.POST("/session", hb.Geolocation, hb.Workflow.StartScheduling)
		api.GET("/session/:sessionID", hb.Workflow.GetSession)
		api.PUT("/session/:sessionID/date", hb.Workflow.SelectDate)
		api.PUT("/session/:sessionID/facility", hb.Workflow.SelectFacility)
		api.PUT("/session/:sessionID/slot", hb.Workflow.SelectSlot)
		api.POST("/session/:sessionID/confirm", hb.Workflow.Confirm)
		api.POST("/session/:sessionID/back", hb.Workflow.Back)
		api.POST("/session/:sessionID/restart", hb.Workflow.Restart)
		api.DELETE("/session/:sessionID", hb.Workflow.CancelSession)
	}
}

// RegisterNotificationRoutes registers the donor notification feed.
func RegisterNotificationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuth("donor"))
		api.GET("", hb.Notification.List)
		api.PUT("/:notificationID/read", hb.Notification.MarkRead)
		api.PUT("/:notificationID/handled", hb.Notification.MarkHandled)
	}
}

// RegisterRequestRoutes registers emergency blood request endpoints.
func RegisterRequestRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/requests")
	{
		api.GET("", hb.Request.ListOpen)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth("facility"))
		protected.POST("", hb.Request.Create)
		protected.POST("/confirm", hb.Request.Confirm)
	}
}
