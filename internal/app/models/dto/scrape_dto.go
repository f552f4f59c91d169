package dto

import (
	"github.com/esteban/tecplanner/internal/app/models"
	"github.com/esteban/tecplanner/internal/scraper"
)

// ScrapeRequest carries raw registration-portal markup to parse
type ScrapeRequest struct {
	HTML                 string `json:"html" binding:"required"`
	FailOnStructureError bool   `json:"failOnStructureError"`
}

// ScrapeResponse returns the extracted sections with the attempt report
type ScrapeResponse struct {
	Courses []models.ScrapedCourse `json:"courses"`
	Report  *scraper.Report        `json:"report"`
}
