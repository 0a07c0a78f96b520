package main

import (
	"log"
	"os"

	"laptop-request-api/config"
	"laptop-request-api/middleware"
	"laptop-request-api/routes"
	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// store is everything the services need from persistence.
type store interface {
	services.FormStructureStore
	services.LaptopRequestStore
	services.UserStore
}

func openStore() store {
	if config.DatabaseDriver() == "memory" {
		log.Printf("Using in-memory store; data is lost on restart")
		return services.NewMemoryStore()
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("❌ ", err)
	}
	gormStore := services.NewGormStore(db)
	if err := gormStore.AutoMigrate(); err != nil {
		log.Fatal("❌ Failed to migrate database: ", err)
	}
	return gormStore
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, logWriter := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	metrics := config.NewMetrics()
	st := openStore()

	secret, ttl := services.AuthSettingsFromEnv()
	auth := services.NewAuthService(st, secret, ttl)
	forms := services.NewFormStructureService(st, metrics)
	requests := services.NewLaptopRequestService(st, st, metrics)
	exports := services.NewExportService(requests, forms, nil)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logWriter))
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	router.Use(middleware.CORSMiddleware(middleware.AllowedOrigins()))

	routes.SetupRoutes(router, routes.Dependencies{
		Auth:     auth,
		Forms:    forms,
		Requests: requests,
		Exports:  exports,
		Metrics:  metrics,
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	log.Printf("📦 Storage driver: %s", config.DatabaseDriver())
	if ginMode == "release" {
		log.Printf("🏭 Running in production mode")
	} else {
		log.Printf("🔧 Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
