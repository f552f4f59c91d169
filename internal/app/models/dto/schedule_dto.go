package dto

import "github.com/esteban/tecplanner/internal/app/models"

// CreateScheduleRequest carries the name of a new schedule
type CreateScheduleRequest struct {
	Name string `json:"name" binding:"required" example:"Semestre II 2025"`
}

// RenameScheduleRequest carries the new name for an existing schedule
type RenameScheduleRequest struct {
	Name string `json:"name" binding:"required" example:"Plan B"`
}

// AddCourseRequest adds a single, manually entered course
type AddCourseRequest struct {
	Course models.Course `json:"course" binding:"required"`
}

// AddCoursesRequest bulk-imports scraped sections into a schedule
type AddCoursesRequest struct {
	Courses []models.ScrapedCourse `json:"courses" binding:"required"`
}

// UpdateCourseRequest replaces a course wholesale
type UpdateCourseRequest struct {
	Course models.Course `json:"course" binding:"required"`
}

// CourseIDsRequest names courses by id for bulk toggle/remove operations
type CourseIDsRequest struct {
	CourseIDs []string `json:"courseIds" binding:"required"`
}

// ImportCoursesRequest imports courses from another schedule
type ImportCoursesRequest struct {
	SourceScheduleID string `json:"sourceScheduleId" binding:"required"`
}

// ImportCoursesResponse reports how many courses were imported
type ImportCoursesResponse struct {
	Imported int `json:"imported"`
}
