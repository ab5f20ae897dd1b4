package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/weddingbook/marketplace-api/config"
	"github.com/weddingbook/marketplace-api/controllers"
	"github.com/weddingbook/marketplace-api/middleware"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/services"
)

// setupRouter wires every /api/v1 route. A nil limiter disables rate limiting.
func setupRouter(cfg *config.Config, limiter *redis.Client) *gin.Engine {
	router := gin.Default()

	// cors.New panics without any allowed origin
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	rateLimit := func(scope string) gin.HandlerFunc {
		return middleware.RateLimit(limiter, scope, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	userOnly := middleware.RequireRole(models.RoleUser)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", rateLimit("register"), controllers.Register)
			auth.POST("/login", rateLimit("login"), controllers.Login)
			auth.POST("/logout", controllers.Logout)
		}

		protected := v1.Group("")
		protected.Use(middleware.EnsureValidToken(cfg))
		{
			protected.GET("/users/me", controllers.GetMyProfile)
			protected.PUT("/users/me", controllers.UpdateMyProfile)

			protected.GET("/dashboard/user", userOnly, controllers.UserDashboard)
			protected.GET("/dashboard/manager", adminOnly, controllers.ManagerDashboard)

			protected.GET("/packages", middleware.RequireScope(services.ScopeReadPackages), controllers.ListPackages)
			protected.GET("/packages/:id", middleware.RequireScope(services.ScopeReadPackages), controllers.GetPackage)
			protected.POST("/packages", adminOnly, middleware.RequireScope(services.ScopeWritePackages), controllers.CreatePackage)

			protected.POST("/bookings", userOnly, middleware.RequireScope(services.ScopeWriteBookings), controllers.CreateBooking)
			protected.GET("/bookings", controllers.ListBookings)
			protected.POST("/bookings/:id/cancel", userOnly, middleware.RequireScope(services.ScopeWriteBookings), controllers.CancelBooking)
			protected.PUT("/bookings/:id/status", adminOnly, middleware.RequireScope(services.ScopeManageBookings), controllers.UpdateBookingStatus)
			protected.GET("/bookings/:id/summary.pdf", controllers.GetBookingSummary)

			protected.POST("/messages", rateLimit("messages"), userOnly, middleware.RequireScope(services.ScopeWriteMessages), controllers.SendMessage)
			protected.GET("/messages/thread", controllers.GetThread)
			protected.POST("/messages/:id/reply", middleware.RequireScope(services.ScopeWriteMessages), controllers.ReplyMessage)
			protected.DELETE("/messages/:id", middleware.RequireScope(services.ScopeWriteMessages), controllers.DeleteMessage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wedding Marketplace API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"dialect": db.Dialector.Name(),
		"tables":  tables,
	})
}
