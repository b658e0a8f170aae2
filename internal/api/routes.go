package api

import (
	"net/http"

	"slateai/health-planner/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	logService service.LogService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	logHandler := NewLogHandler(logService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Plan reads are public: discovery and retrieval serve the
		// frontend before login, backed by the catalog when the
		// database is down.
		planGroup := apiV1.Group("/plans")
		{
			planGroup.GET("/discover", planHandler.DiscoverPlans)
			planGroup.GET("/:plan_id", planHandler.GetPlan)
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.DELETE("/:plan_id", authMiddleware, planHandler.DeletePlan)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		usersGroup := protected.Group("/users")
		{
			usersGroup.GET("/me", logHandler.GetProfile)
			usersGroup.PUT("/me", logHandler.UpdateProfile)
		}

		workoutsGroup := protected.Group("/workouts")
		{
			workoutsGroup.POST("/logs", logHandler.CreateWorkoutLog)
			workoutsGroup.GET("/logs", logHandler.GetWorkoutLogs)
			workoutsGroup.DELETE("/logs/:log_id", logHandler.DeleteWorkoutLog)
		}

		nutritionGroup := protected.Group("/nutrition")
		{
			nutritionGroup.POST("/meals", logHandler.CreateMealLog)
			nutritionGroup.GET("/meals", logHandler.GetMealLogs)
			nutritionGroup.DELETE("/meals/:log_id", logHandler.DeleteMealLog)
		}
	}
}
