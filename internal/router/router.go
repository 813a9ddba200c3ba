package router

import (
	"time"

	"github.com/bolbazaar/catalog-api/internal/ai"
	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/handlers"
	"github.com/bolbazaar/catalog-api/internal/logger"
	"github.com/bolbazaar/catalog-api/internal/middleware"
	"github.com/bolbazaar/catalog-api/internal/repository"
	"github.com/bolbazaar/catalog-api/internal/service"
	"github.com/bolbazaar/catalog-api/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, database *gorm.DB) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowCredentials = true
	config.AllowOrigins = []string{
		"https://api.bolbazaar.in",
		"https://bolbazaar.in",
		"https://www.bolbazaar.in",
	}
	r.Use(cors.New(config))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// API routes require the frontend identifier header when one is
	// configured. The ping route and the WebSocket upgrade stay open:
	// health checks and browser WebSocket clients cannot set custom headers.
	api := r.Group("/v1")
	if cfg.EnvVars.IDHeader != "" {
		api.Use(middleware.CheckIDHeader(cfg.EnvVars.IDHeader))
	}

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// User-related routes setup
	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(cfg, userRepo)
	userHandler := handlers.NewUserHandler(userService)

	// AI provider setup
	textProvider := newTextProvider(cfg)
	speechProvider := ai.NewWhisperProvider(cfg.EnvVars.OpenAIAPIKey)

	// Product-related routes setup
	productRepo := repository.NewProductRepository(database)
	priceRepo := repository.NewPriceRepository(database)
	productService := service.NewProductService(cfg, productRepo, priceRepo, textProvider)
	priceService := service.NewPriceService(cfg, priceRepo)
	productHandler := handlers.NewProductHandler(productService, priceService)

	// Voice-related routes setup
	voiceService := service.NewVoiceService(cfg, speechProvider)
	voiceHandler := handlers.NewVoiceHandler(voiceService, productService)

	// Image upload
	imageHandler := handlers.NewImageHandler(cfg, productService)

	// Group for API routes that don't require token verification
	apiPublic := api.Group("")
	{
		// Public auth endpoints are rate limited per IP to slow down
		// credential stuffing.
		apiPublic.Use(middleware.RateLimitByIP(10, 5*time.Minute, 10*time.Minute))

		// Create a new user
		apiPublic.POST("/users", userHandler.CreateUser)
		// Login a user
		apiPublic.POST("/auth/login", userHandler.LoginUser)
		// Refresh an access token
		apiPublic.POST("/auth/refresh", userHandler.RefreshToken)
	}

	// Group for API routes that require token verification
	apiProtected := api.Group("")
	{
		apiProtected.Use(middleware.VerifyTokenMiddleware(cfg))

		// User-related routes

		// Verify a user's token
		apiProtected.GET("/users/verify", middleware.AttachUserToContext(userService), userHandler.VerifyToken)
		// Get a user by their ID
		apiProtected.GET("/users/me", middleware.AttachUserToContext(userService), userHandler.GetUserByID)
		// Get a user's settings
		apiProtected.GET("/users/me/settings", middleware.AttachUserToContext(userService), userHandler.GetUserSettings)
		// Update profile fields
		apiProtected.PUT("/users/me", middleware.AttachUserToContext(userService), userHandler.UpdateUser)
		// Update catalog preferences
		apiProtected.PUT("/users/me/settings", middleware.AttachUserToContext(userService), userHandler.UpdateSettings)

		// Product-related routes

		// Add a product manually
		apiProtected.POST("/products", middleware.AttachUserToContext(userService), productHandler.CreateProduct)
		// List the seller's products
		apiProtected.GET("/products", middleware.AttachUserToContext(userService), productHandler.ListProducts)
		// Search the seller's products
		apiProtected.GET("/products/search", middleware.AttachUserToContext(userService), productHandler.SearchProducts)
		// Infer a category for a product name
		apiProtected.POST("/products/categorize", middleware.AttachUserToContext(userService), productHandler.CategorizeProduct)
		// Get a single product
		apiProtected.GET("/products/:id", middleware.AttachUserToContext(userService), productHandler.GetProduct)
		// Update a product
		apiProtected.PATCH("/products/:id", middleware.AttachUserToContext(userService), productHandler.UpdateProduct)
		// Regenerate a product's description and tags
		apiProtected.POST("/products/:id/describe", middleware.AttachUserToContext(userService), productHandler.RegenerateDescription)
		// Upload a product image
		apiProtected.POST("/products/:id/image", middleware.AttachUserToContext(userService), imageHandler.UploadProductImage)
		// Delete a product
		apiProtected.DELETE("/products/:id", middleware.AttachUserToContext(userService), productHandler.DeleteProduct)

		// List the catalog categories
		apiProtected.GET("/categories", middleware.AttachUserToContext(userService), productHandler.ListCategories)

		// Price suggestion
		apiProtected.GET("/prices/suggest", middleware.AttachUserToContext(userService), productHandler.SuggestPrice)

		// Voice command routes

		// Parse a dictated command without persisting
		apiProtected.POST("/voice/parse", middleware.AttachUserToContext(userService), voiceHandler.ParseCommand)
		// Parse and persist in one step
		apiProtected.POST("/voice/products", middleware.AttachUserToContext(userService), voiceHandler.AddProduct)
		// Server-side transcription of an audio upload
		apiProtected.POST("/voice/transcribe", middleware.AttachUserToContext(userService), voiceHandler.TranscribeAudio)
	}

	// WebSocket routes (authenticated via query param token)
	hub := ws.NewHub()
	go hub.Run()
	dictationHandler := ws.NewDictationHandler(hub, cfg.EnvVars.JwtSecretKey, voiceService, productService, userService)
	r.GET("/v1/ws/dictation/:session_id", dictationHandler.HandleDictationSession)

	return r
}

// newTextProvider selects the description generator backend from config.
func newTextProvider(cfg *config.Config) ai.TextProvider {
	if cfg.EnvVars.TextProviderName == "anthropic" && cfg.EnvVars.AnthropicAPIKey != "" {
		return ai.NewAnthropicProvider(cfg.EnvVars.AnthropicAPIKey, cfg.Prompts)
	}
	return ai.NewOpenAIProvider(cfg.EnvVars.OpenAIAPIKey, cfg.Prompts)
}
