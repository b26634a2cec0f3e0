package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workhive-api/internal/auth"
	"workhive-api/internal/config"
	"workhive-api/internal/handlers"
	"workhive-api/internal/middleware"
	"workhive-api/internal/realtime"
	"workhive-api/internal/report"
)

// Deps carries the explicitly constructed dependencies the routes wire
// into handlers.
type Deps struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
	Hub    *realtime.Hub
	Cfg    *config.Config
	Log    *logrus.Logger
}

// SetupRoutes builds the gin engine and mounts all endpoints.
func SetupRoutes(deps Deps) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", deps.Cfg.CORSOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	authHandler := handlers.NewAuthHandler(deps.DB, deps.Tokens, deps.Cfg)
	userHandler := handlers.NewUserHandler(deps.DB)
	taskHandler := handlers.NewTaskHandler(deps.DB, deps.Hub)
	reportHandler := handlers.NewReportHandler(report.NewExporter(deps.DB))
	wsHandler := handlers.NewWSHandler(deps.Hub, deps.Log)

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "WorkHive API is running",
		})
	})

	api := ginRouter.Group("/api")

	// Public routes (no authentication required)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/sign-up", authHandler.SignUp)
		authGroup.POST("/sign-in", authHandler.SignIn)
		authGroup.POST("/sign-out", authHandler.SignOut)
	}

	// Protected routes (authentication required)
	authenticated := api.Group("")
	authenticated.Use(middleware.Authenticate(deps.Tokens))
	{
		authenticated.GET("/auth/profile", authHandler.GetProfile)
		authenticated.PUT("/auth/profile", authHandler.UpdateProfile)

		authenticated.GET("/tasks", taskHandler.GetTasks)
		authenticated.GET("/tasks/user-dashboard-data", taskHandler.GetUserDashboardData)
		authenticated.GET("/tasks/:id", taskHandler.GetTaskByID)
		authenticated.PUT("/tasks/:id/todo", taskHandler.UpdateTaskChecklist)

		authenticated.GET("/users/:id", userHandler.GetUserByID)

		authenticated.GET("/ws", wsHandler.Serve)
	}

	// Admin-only routes
	adminRoutes := api.Group("")
	adminRoutes.Use(middleware.Authenticate(deps.Tokens), middleware.RequireAdmin())
	{
		adminRoutes.POST("/tasks/create", taskHandler.CreateTask)
		adminRoutes.PUT("/tasks/:id", taskHandler.UpdateTask)
		adminRoutes.DELETE("/tasks/:id", taskHandler.DeleteTask)
		adminRoutes.GET("/tasks/dashboard-data", taskHandler.GetDashboardData)

		adminRoutes.GET("/users/get-users", userHandler.GetMembers)

		adminRoutes.GET("/reports/export/tasks", reportHandler.ExportTasks)
		adminRoutes.GET("/reports/export/users", reportHandler.ExportUsers)
	}

	return ginRouter
}
