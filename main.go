package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/JioBaba369/Go2Culture-sub001/controllers"
	"github.com/JioBaba369/Go2Culture-sub001/database"
	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/realtime"
	"github.com/JioBaba369/Go2Culture-sub001/routes"
)

func main() {
	log.Println("🔍 [main] Starting application...")

	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx := context.Background()

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "go2culture"
	}
	db, err := database.Connect(ctx, os.Getenv("MONGODB_URL"), dbName)
	if err != nil {
		log.Fatalf("❌ [main] MongoDB init failed: %v", err)
	}
	defer func() {
		_ = db.Client().Disconnect(ctx)
	}()
	log.Println("✅ [main] MongoDB initialized")

	tokens, err := helpers.NewTokenHelper(os.Getenv("SECRET_KEY"))
	if err != nil {
		log.Fatalf("❌ [main] token helper: %v", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	badges, err := helpers.NewBadgeCache(redisURL)
	if err != nil {
		log.Fatalf("❌ [main] redis init failed: %v", err)
	}
	defer badges.Close()

	opsChatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_OPS_CHAT_ID"), 10, 64)
	alerts, err := helpers.NewAlerts(os.Getenv("TELEGRAM_BOT_TOKEN"), opsChatID)
	if err != nil {
		log.Println("❌ [main] telegram alerts disabled:", err)
	}

	var uploader *helpers.Uploader
	if cloudinaryURL := os.Getenv("CLOUDINARY_URL"); cloudinaryURL != "" {
		uploader, err = helpers.NewUploader(cloudinaryURL)
		if err != nil {
			log.Fatalf("❌ [main] cloudinary init failed: %v", err)
		}
	}

	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		log.Fatalf("❌ [main] asynq redis config: %v", err)
	}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	hub := realtime.NewHub()
	notifier := helpers.NewNotifier(queueClient, alerts)
	deliverer := helpers.NewDeliverer(db.Collection("notifications"), hub, badges)

	// The notification worker runs in-process so a single deployment picks up
	// its own queue.
	worker := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"notifications": 1, "default": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("❌ [worker] task %s failed: %v\n", task.Type(), err)
			alerts.Report("notification delivery failed: " + err.Error())
		}),
	})
	mux := asynq.NewServeMux()
	deliverer.Register(mux)
	go func() {
		if err := worker.Run(mux); err != nil {
			log.Fatalf("❌ [main] asynq worker: %v", err)
		}
	}()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	userController := controllers.NewUserController(db, tokens, uploader, notifier, alerts)
	conversationController := controllers.NewConversationController(db, hub, alerts)
	messageController := controllers.NewMessageController(db, notifier, hub, alerts)
	notificationController := controllers.NewNotificationController(db, badges)
	bookingController := controllers.NewBookingController(db, notifier, alerts)
	realtimeController := controllers.NewRealtimeController(db, hub)

	routes.UserRoutes(router, userController, tokens)
	routes.ConversationRoutes(router, conversationController, messageController, tokens)
	routes.NotificationRoutes(router, notificationController, tokens)
	routes.BookingRoutes(router, bookingController, tokens)
	routes.RealtimeRoutes(router, realtimeController, tokens)
	log.Println("✅ [main] Routes registered")

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	log.Println("🚀 [main] Server running on port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("❌ [main] server stopped: %v", err)
	}
}
