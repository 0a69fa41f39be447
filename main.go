package main

import (
	"log"
	"time"

	"bubble_server/config"
	"bubble_server/geo"
	"bubble_server/handler"
	"bubble_server/middleware"
	"bubble_server/service"
	"bubble_server/store"
	"bubble_server/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	// Server-side timestamps are always UTC.
	time.Local = time.UTC
}

func main() {
	cfg := config.Load()

	if err := utils.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer utils.CloseDB()

	if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer utils.CloseRedis()

	middleware.InitAuth(cfg.JWTSecret)

	db := store.NewPostgres(utils.GetDB())
	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	cipher, err := utils.NewLocationCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to init location cipher: %v", err)
	}

	geoCfg := geo.Config{
		HomeRadiusMeters:     cfg.HomeRadiusMeters,
		WorkRadiusMeters:     cfg.WorkRadiusMeters,
		SchoolRadiusMeters:   cfg.SchoolRadiusMeters,
		MovingSpeedThreshold: cfg.MovingSpeedThreshold,
	}

	notifSvc := service.NewNotificationService(db)
	userSvc := service.NewUserService(db, db, service.NewAddressLockPolicy(cfg.AddressLockDays))
	friendSvc := service.NewFriendService(db, db)
	friendSvc.SetNotificationService(notifSvc)
	locationSvc := service.NewLocationService(db, db, friendSvc, cipher, geoCfg, cfg.HistoryRetentionDays)
	locationSvc.SetRedis(utils.GetRedis())
	messageSvc := service.NewMessageService(db, db, friendSvc)
	messageSvc.SetNotificationService(notifSvc)

	userHandler := handler.NewUserHandler(userSvc)
	friendHandler := handler.NewFriendHandler(friendSvc)
	locationHandler := handler.NewLocationHandler(locationSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	r := gin.Default()
	r.Use(middleware.ErrorHandlerMiddleware())

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		// Profile and anchor addresses
		api.GET("/users/me", userHandler.GetMe)
		api.PUT("/users/me", userHandler.UpdateMe)
		api.GET("/users/me/addresses/:type/status", userHandler.GetAddressStatus)
		api.PUT("/users/me/addresses/:type", userHandler.UpdateAddress)
		api.POST("/users/me/address-change-requests", userHandler.CreateAddressChangeRequest)
		api.GET("/users/me/address-change-requests", userHandler.ListAddressChangeRequests)

		// Custom zones
		api.POST("/users/me/custom-locations", userHandler.AddCustomLocation)
		api.PUT("/users/me/custom-locations/:index", userHandler.UpdateCustomLocation)
		api.DELETE("/users/me/custom-locations/:index", userHandler.DeleteCustomLocation)

		// Location status
		api.POST("/locations", locationHandler.UpdateLocation)
		api.GET("/locations/current", locationHandler.GetCurrentLocation)
		api.GET("/locations/history", locationHandler.GetLocationHistory)
		api.GET("/locations/friends/:id", locationHandler.GetFriendLocation)

		// Friend requests and friendships
		api.POST("/friends/requests", friendHandler.SendRequest)
		api.GET("/friends/requests/received", friendHandler.GetReceivedRequests)
		api.GET("/friends/requests/sent", friendHandler.GetSentRequests)
		api.POST("/friends/requests/:id/accept", friendHandler.AcceptRequest)
		api.POST("/friends/requests/:id/reject", friendHandler.RejectRequest)
		api.GET("/friends", friendHandler.GetFriends)
		api.PUT("/friends/:id", friendHandler.UpdateFriendship)
		api.DELETE("/friends/:id", friendHandler.RemoveFriend)
		api.POST("/friends/block", friendHandler.BlockUser)

		// Messaging
		api.POST("/messages", messageHandler.SendMessage)
		api.GET("/conversations", messageHandler.GetConversations)
		api.GET("/conversations/:id/messages", messageHandler.GetConversationMessages)
		api.POST("/messages/reveal", messageHandler.RevealMessages)
		api.POST("/messages/read", messageHandler.MarkMessagesRead)
		api.DELETE("/messages/:id", messageHandler.DeleteMessage)
		api.GET("/messages/unread-count", messageHandler.GetUnreadCount)

		// Notifications
		api.GET("/notifications", notifHandler.GetNotifications)
		api.POST("/notifications/read-all", notifHandler.MarkAllRead)
	}

	log.Printf("bubble_server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
