package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/esteban/tecplanner/internal/app/controllers"
	"github.com/esteban/tecplanner/internal/app/models/dto"
	"github.com/esteban/tecplanner/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	scrapeController *controllers.ScrapeController,
	scheduleController *controllers.ScheduleController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Scraping routes - markup in, course sections and reports out
		scrape := authenticated.Group("/scrape")
		{
			scrape.POST("", scrapeController.Scrape)
			scrape.GET("/history", scrapeController.GetHistory)
			scrape.DELETE("/history", scrapeController.ClearHistory)
		}

		// Schedule routes
		schedules := authenticated.Group("/schedules")
		{
			schedules.GET("", scheduleController.GetSchedules)
			schedules.POST("", scheduleController.CreateSchedule)
			schedules.GET("/current", scheduleController.GetCurrentSchedule)
			schedules.PUT("/current/:id", scheduleController.SetCurrentSchedule)
			schedules.DELETE("/:id", scheduleController.DeleteSchedule)
			schedules.PUT("/:id/name", scheduleController.RenameSchedule)

			// Course management within a schedule
			schedules.POST("/:id/courses", scheduleController.AddCourse)
			schedules.POST("/:id/courses/bulk", scheduleController.AddCourses)
			schedules.PUT("/:id/courses/:courseId", scheduleController.UpdateCourse)
			schedules.DELETE("/:id/courses/:courseId", scheduleController.RemoveCourse)
			schedules.PUT("/:id/courses/:courseId/toggle", scheduleController.ToggleCourse)
			schedules.POST("/:id/courses/toggle", scheduleController.ToggleCourses)
			schedules.POST("/:id/courses/remove", scheduleController.RemoveCourses)
			schedules.POST("/:id/import", scheduleController.ImportCourses)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
