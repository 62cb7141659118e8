package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/reach-skyline/chat-service/controllers"
	"github.com/reach-skyline/chat-service/database"
	"github.com/reach-skyline/chat-service/docs"
	"github.com/reach-skyline/chat-service/middleware"
	"github.com/reach-skyline/chat-service/storage"
	"github.com/reach-skyline/chat-service/websocket"
)

// @title           Task Chat API
// @version         1.0
// @description     Task-scoped chat service for the operations dashboard
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	// Set up logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Initialize database
	database.Connect()
	database.Migrate()

	// Initialize attachment storage
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads/chat"
	}
	store, err := storage.NewLocalStore(uploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize attachment storage")
	}
	controllers.AttachmentStore = store

	// Set up Swagger info
	docs.SwaggerInfo.Host = "localhost:" + os.Getenv("PORT")
	if docs.SwaggerInfo.Host == "localhost:" {
		docs.SwaggerInfo.Host = "localhost:8080"
	}

	// Set up router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Attachment downloads are fetched by <img>/<a> tags without headers
	router.GET("/api/chat/files/:filename", controllers.GetAttachment)

	// Protected chat routes
	api := router.Group("/api/chat")
	api.Use(middleware.JWTAuth())
	{
		api.POST("/init", controllers.InitChat)
		api.GET("/history/:id", controllers.GetHistory)
		api.GET("/unread", controllers.GetUnreadCounts)
		api.POST("/mark-read/:taskCode", controllers.MarkRead)
		api.POST("/upload", controllers.UploadAttachment)
	}

	// WebSocket route
	router.GET("/ws", websocket.HandleConnection)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server running")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
