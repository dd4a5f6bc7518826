// File: bloodlink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloodlink/config"
	"bloodlink/cron"
	"bloodlink/database"
	donationRepoPkg "bloodlink/database/repository/donation"
	donorRepoPkg "bloodlink/database/repository/donor"
	facilityRepoPkg "bloodlink/database/repository/facility"
	notificationRepoPkg "bloodlink/database/repository/notification"
	requestRepoPkg "bloodlink/database/repository/request"
	slotRepoPkg "bloodlink/database/repository/slot"
	"bloodlink/handlers"
	"bloodlink/middleware"
	"bloodlink/routes"
	"bloodlink/services/directory"
	donorSvc "bloodlink/services/donor"
	facilitySvc "bloodlink/services/facility"
	"bloodlink/services/geo"
	"bloodlink/services/notification"
	requestSvc "bloodlink/services/request"
	"bloodlink/services/routing"
	"bloodlink/services/scheduling"
	"bloodlink/services/storage"
	"bloodlink/services/workflow"
	"bloodlink/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	redisClients := utils.NewRedisClients()
	utils.FirebaseInit()

	storageService, err := storage.NewCloudinaryStorageService()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	donorRepo := donorRepoPkg.NewMongoDonorRepo()
	facilityRepo := facilityRepoPkg.NewMongoFacilityRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	donationRepo := donationRepoPkg.NewMongoDonationRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	requestRepo := requestRepoPkg.NewMongoRequestRepo()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(notificationRepo, donorRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	directoryService := &directory.DefaultDirectoryService{
		FacilityRepo: facilityRepo,
		SlotRepo:     slotRepo,
		RoutingSvc:   routing.NewGoogleMatrixService(),
		CacheClient:  redisClients.Cache,
	}
	slotSelector := &scheduling.DefaultSlotSelector{SlotRepo: slotRepo}
	submitter := &scheduling.DefaultSubmitter{
		DonorRepo:    donorRepo,
		DonationRepo: donationRepo,
		SlotRepo:     slotRepo,
		NotifySvc:    notificationService,
		Reminders:    cron.NewReminderScheduler(),
	}
	workflowService := &workflow.DefaultWorkflowService{
		SessionClient: redisClients.Session,
		DirectorySvc:  directoryService,
		Selector:      slotSelector,
		Submitter:     submitter,
	}
	donorService := &donorSvc.DefaultDonorService{
		Repo:         donorRepo,
		DonationRepo: donationRepo,
	}
	facilityService := &facilitySvc.DefaultFacilityService{
		Repo:       facilityRepo,
		SlotRepo:   slotRepo,
		StorageSvc: storageService,
	}
	requestService := &requestSvc.DefaultRequestService{
		Repo:      requestRepo,
		NotifySvc: notificationService,
	}

	// Background reminder worker.
	cron.InitReminderWorker(notificationService)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Donor: &handlers.DonorHandler{
			DonorSvc:  donorService,
			Submitter: submitter,
		},
		Facility: &handlers.FacilityHandler{FacilitySvc: facilityService},
		Workflow: &handlers.WorkflowHandler{
			Workflow: workflowService,
			DonorSvc: donorService,
		},
		Notification: &handlers.NotificationHandler{
			Repo:      notificationRepo,
			DonorRepo: donorRepo,
		},
		Request:     &handlers.RequestHandler{RequestSvc: requestService},
		Geolocation: middleware.GeolocationMiddleware(geo.NewDefaultLocator()),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
