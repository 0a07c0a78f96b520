package routes

import (
	"laptop-request-api/config"
	"laptop-request-api/controllers"
	"laptop-request-api/middleware"
	"laptop-request-api/monitor"
	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the routes are wired to.
type Dependencies struct {
	Auth     *services.AuthService
	Forms    *services.FormStructureService
	Requests *services.LaptopRequestService
	Exports  *services.ExportService
	Metrics  *config.Metrics
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authCtl := controllers.NewAuthController(deps.Auth)
	formCtl := controllers.NewFormStructureController(deps.Forms)
	requestCtl := controllers.NewLaptopRequestController(deps.Forms, deps.Requests)
	exportCtl := controllers.NewExportController(deps.Exports, deps.Auth)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/signup", authCtl.Signup)
			public.POST("/login", authCtl.Login)

			// Submitter form
			public.GET("/forms/:adminId", formCtl.GetPublicFormStructure)
			public.POST("/forms/:adminId/requests", requestCtl.SubmitLaptopRequest)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Laptop Request API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Auth))
		{
			protected.GET("/profile", authCtl.GetProfile)

			admin := protected.Group("/admin")
			{
				// Form builder commits
				admin.GET("/form", formCtl.GetMyFormStructure)
				admin.PUT("/form", formCtl.SaveFormStructure)

				// Request dashboard
				admin.GET("/requests", requestCtl.ListLaptopRequests)
				admin.GET("/requests/:id", requestCtl.GetLaptopRequest)
				admin.POST("/requests/:id/return", requestCtl.RecordLaptopReturn)

				// Exports
				admin.GET("/exports/requests.csv", exportCtl.DownloadCSV)
				admin.POST("/exports/requests/email", exportCtl.EmailCSV)
			}
		}
	}

	monitor.RegisterMonitorPage(router)
	monitor.RegisterLogsRoute(router)
	if deps.Metrics != nil {
		monitor.RegisterMetricsRoute(router, deps.Metrics.Registry)
	}
}
