package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/esteban/tecplanner/internal/app/models/dto"
	"github.com/esteban/tecplanner/internal/middleware"
	"github.com/esteban/tecplanner/internal/scraper"
)

// ScrapeController handles HTML extraction requests
type ScrapeController struct {
	logger *zerolog.Logger
}

// NewScrapeController creates a new ScrapeController
func NewScrapeController(logger *zerolog.Logger) *ScrapeController {
	return &ScrapeController{
		logger: logger,
	}
}

// Scrape extracts course sections from registration-portal markup
func (c *ScrapeController) Scrape(ctx *gin.Context) {
	var req dto.ScrapeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid scrape data", err)
		return
	}

	courses, report, err := scraper.ParseTecHTMLWithReport(req.HTML, &scraper.Options{
		Logger:               c.logger,
		FailOnStructureError: req.FailOnStructureError,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ScrapeResponse{
			Courses: courses,
			Report:  report,
		},
		Timestamp: time.Now(),
	})
}

// GetHistory returns recent extraction reports, most recent first
func (c *ScrapeController) GetHistory(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      scraper.ReportHistory(),
		Timestamp: time.Now(),
	})
}

// ClearHistory discards all retained extraction reports
func (c *ScrapeController) ClearHistory(ctx *gin.Context) {
	scraper.ClearReportHistory()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "report history cleared"},
		Timestamp: time.Now(),
	})
}
