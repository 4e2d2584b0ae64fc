package main

import (
	"context"
	"log"

	"go-event-booking/config"
	"go-event-booking/internal/cache"
	"go-event-booking/internal/database"
	"go-event-booking/internal/handler"
	"go-event-booking/internal/notifier"
	"go-event-booking/internal/queue"
	"go-event-booking/internal/repository"
	"go-event-booking/internal/service"
	"go-event-booking/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	waitlistRepo := repository.NewWaitlistRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	// cache + notification queue
	listingCache := cache.NewEventListingCache(rdb)
	notifyQueue, err := queue.NewRedisStreamNotificationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize notification queue: %v", err)
	}

	// services
	promotionService := service.NewPromotionService(pool, eventRepo, bookingRepo, waitlistRepo, notifyQueue, listingCache)
	bookingService := service.NewBookingService(pool, eventRepo, bookingRepo, waitlistRepo, promotionService, listingCache)
	eventService := service.NewEventService(pool, eventRepo, bookingRepo, waitlistRepo, listingCache)
	userService := service.NewUserService(userRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// notification worker：消費遞補通知並交給投遞層
	notificationWorker := worker.NewNotificationWorker(notifyQueue, notifier.NewLogNotifier())
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	if err := notificationWorker.Start(workerCtx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewBookingHandler(bookingService).RegisterRoutes(router)
	handler.NewUserHandler(userService).RegisterRoutes(router)
	handler.NewAdminHandler(analyticsService).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
