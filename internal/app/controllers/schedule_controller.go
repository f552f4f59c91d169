package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/esteban/tecplanner/internal/app/models/dto"
	"github.com/esteban/tecplanner/internal/app/services"
	"github.com/esteban/tecplanner/internal/middleware"
)

// ScheduleController handles schedule and course operations
type ScheduleController struct {
	scheduleService *services.ScheduleService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

// GetSchedules returns the full schedule collection
func (c *ScheduleController) GetSchedules(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.scheduleService.Schedules(),
		Timestamp: time.Now(),
	})
}

// GetCurrentSchedule returns the currently selected schedule
func (c *ScheduleController) GetCurrentSchedule(ctx *gin.Context) {
	schedule, err := c.scheduleService.CurrentSchedule()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      schedule,
		Timestamp: time.Now(),
	})
}

// SetCurrentSchedule switches the current-schedule pointer
func (c *ScheduleController) SetCurrentSchedule(ctx *gin.Context) {
	if err := c.scheduleService.SetCurrentSchedule(ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "current schedule updated"},
		Timestamp: time.Now(),
	})
}

// CreateSchedule creates a new named schedule
func (c *ScheduleController) CreateSchedule(ctx *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid schedule data", err)
		return
	}

	schedule, err := c.scheduleService.CreateSchedule(ctx, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      schedule,
		Timestamp: time.Now(),
	})
}

// DeleteSchedule removes a schedule and its courses
func (c *ScheduleController) DeleteSchedule(ctx *gin.Context) {
	if err := c.scheduleService.DeleteSchedule(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// RenameSchedule renames a schedule, rolling back on failed confirmation
func (c *ScheduleController) RenameSchedule(ctx *gin.Context) {
	var req dto.RenameScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid rename data", err)
		return
	}

	if err := c.scheduleService.RenameSchedule(ctx, ctx.Param("id"), req.Name); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "schedule renamed"},
		Timestamp: time.Now(),
	})
}

// AddCourse adds a single course to a schedule
func (c *ScheduleController) AddCourse(ctx *gin.Context) {
	var req dto.AddCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid course data", err)
		return
	}

	course, err := c.scheduleService.AddCourse(ctx, ctx.Param("id"), req.Course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// AddCourses bulk-imports scraped sections, always as pending
func (c *ScheduleController) AddCourses(ctx *gin.Context) {
	var req dto.AddCoursesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid course data", err)
		return
	}

	courses, err := c.scheduleService.AddCourses(ctx, ctx.Param("id"), req.Courses)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}

// UpdateCourse replaces a course, re-running the overlap check when it
// stays scheduled
func (c *ScheduleController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid course data", err)
		return
	}
	req.Course.ID = ctx.Param("courseId")

	if err := c.scheduleService.UpdateCourse(ctx, ctx.Param("id"), req.Course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      req.Course,
		Timestamp: time.Now(),
	})
}

// ToggleCourse flips one course between pending and scheduled
func (c *ScheduleController) ToggleCourse(ctx *gin.Context) {
	course, err := c.scheduleService.ToggleCourseStatus(ctx, ctx.Param("id"), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// ToggleCourses applies the toggle rule per id, without batch atomicity
func (c *ScheduleController) ToggleCourses(ctx *gin.Context) {
	var req dto.CourseIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid course id list", err)
		return
	}

	if err := c.scheduleService.ToggleCourses(ctx, ctx.Param("id"), req.CourseIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "courses toggled"},
		Timestamp: time.Now(),
	})
}

// RemoveCourse deletes one course from a schedule
func (c *ScheduleController) RemoveCourse(ctx *gin.Context) {
	if err := c.scheduleService.RemoveCourse(ctx, ctx.Param("id"), ctx.Param("courseId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// RemoveCourses deletes courses by id list
func (c *ScheduleController) RemoveCourses(ctx *gin.Context) {
	var req dto.CourseIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid course id list", err)
		return
	}

	if err := c.scheduleService.RemoveCourses(ctx, ctx.Param("id"), req.CourseIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "courses removed"},
		Timestamp: time.Now(),
	})
}

// ImportCourses copies non-duplicate courses from another schedule
func (c *ScheduleController) ImportCourses(ctx *gin.Context) {
	var req dto.ImportCoursesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid import data", err)
		return
	}

	imported, err := c.scheduleService.ImportCourses(ctx, req.SourceScheduleID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.ImportCoursesResponse{Imported: imported},
		Timestamp: time.Now(),
	})
}

// badRequest writes a validation error response for malformed bodies
func badRequest(ctx *gin.Context, message string, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	errorDetail = errorDetail.WithDetails(err.Error())
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
