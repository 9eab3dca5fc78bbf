package main

import (
	"log"

	"github.com/KwameAlfred37/MedFinderNew/src/api"
	"github.com/KwameAlfred37/MedFinderNew/src/config"
	"github.com/KwameAlfred37/MedFinderNew/src/database"
	"github.com/KwameAlfred37/MedFinderNew/src/middleware"
	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"
	"github.com/KwameAlfred37/MedFinderNew/src/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	if config.AppConfig.Database.SeedDemo {
		if err := database.SeedDemoCatalog(db); err != nil {
			log.Fatalf("FATAL: [Main] Failed to seed demo catalog: %v", err)
		}
	}

	// Initialize Repositories
	medicineRepo := repository.NewMedicineRepository(db)
	pharmacyRepo := repository.NewPharmacyRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	chatRepo := repository.NewChatRepository(db)
	searchRepo := repository.NewSearchRepository(db)
	usageRepo := repository.NewAnonymousUsageRepository(db)
	userRepo := repository.NewUserRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	quotaService := services.NewQuotaService(usageRepo, config.AppConfig.Chat.GuestQuota)
	searchService := services.NewSearchService(medicineRepo, pharmacyRepo, searchRepo)
	chatService := services.NewChatService(chatRepo, quotaService, newReplier())
	authService := services.NewAuthService(userRepo, config.AppConfig.Auth.JWTSecret, config.AppConfig.Auth.TokenTTLDays)
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(
		medicineRepo,
		pharmacyRepo,
		inventoryRepo,
		searchRepo,
		searchService,
		chatService,
		quotaService,
		authService,
	)
	hub := api.NewHub()
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	if config.AppConfig.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.Redis.Addr,
			Password: config.AppConfig.Redis.Password,
		})
		r.Use(middleware.RateLimit(redisClient, config.AppConfig.Redis.QPS))
		log.Printf("INFO: [Main] Request rate limiter enabled (%d qps per IP).", config.AppConfig.Redis.QPS)
	}
	r.Use(middleware.Session(authService))
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler, hub)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

// newReplier selects the assistant reply generator from configuration,
// falling back to the scripted replier when the OpenAI one cannot be built.
func newReplier() services.ReplyGenerator {
	bot := config.AppConfig.Chat.Bot
	if bot.Provider == "openai" {
		replier, err := services.NewOpenAIReplier(bot.APIKey, bot.BaseURL, bot.Model)
		if err != nil {
			log.Printf("WARN: [Main] OpenAI replier unavailable (%v), using scripted replies.", err)
			return services.NewScriptedReplier()
		}
		log.Printf("INFO: [Main] Using OpenAI replier with model %s.", bot.Model)
		return replier
	}
	return services.NewScriptedReplier()
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Medicine{},
		&models.Pharmacy{},
		&models.MedicineInventory{},
		&models.ChatMessage{},
		&models.UserSearch{},
		&models.AnonymousChatUsage{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler, hub *api.Hub) {
	// Live chat relay
	r.GET("/ws", hub.HandleWS)

	// API route group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/init", handler.InitHandler)
		apiGroup.GET("/search", handler.CombinedSearchHandler)
		apiGroup.GET("/search/history", handler.SearchHistoryHandler)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", handler.RegisterHandler)
			authGroup.POST("/login", handler.LoginHandler)
			authGroup.GET("/user", middleware.RequireAccount(), handler.CurrentUserHandler)
		}

		medicineGroup := apiGroup.Group("/medicines")
		{
			medicineGroup.GET("/search", handler.MedicineSearchHandler)
			medicineGroup.GET("/:id", handler.GetMedicineHandler)
			medicineGroup.GET("/:id/availability", handler.MedicineAvailabilityHandler)
			medicineGroup.POST("", middleware.RequireAccount(), handler.CreateMedicineHandler)
		}

		pharmacyGroup := apiGroup.Group("/pharmacies")
		{
			pharmacyGroup.GET("/search", handler.PharmacySearchHandler)
			pharmacyGroup.GET("/:id", handler.GetPharmacyHandler)
			pharmacyGroup.POST("", middleware.RequireAccount(), handler.CreatePharmacyHandler)
		}

		apiGroup.PUT("/inventory", middleware.RequireAccount(), handler.UpsertInventoryHandler)

		chatGroup := apiGroup.Group("/chat")
		{
			chatGroup.GET("/messages", handler.ListChatMessagesHandler)
			chatGroup.POST("/messages", handler.SendChatMessageHandler)
		}
	}
}
