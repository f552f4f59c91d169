package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/esteban/tecplanner/internal/app/models/dto"
	"github.com/esteban/tecplanner/internal/pkg/apperrors"
	"github.com/esteban/tecplanner/internal/scraper"
)

// HandleAPIError maps service errors to API responses. Error messages
// produced by the scheduling layer are user-facing (conflict windows,
// validation reasons), so they pass through verbatim.
func HandleAPIError(c *gin.Context, err error) {
	var structureErr *scraper.StructureError
	if errors.As(err, &structureErr) {
		detail := dto.NewErrorDetail(dto.ErrorCodeStructureNotFound, err.Error())
		detail = detail.WithDetails(structureErr.SelectorsTried)
		c.JSON(422, dto.APIResponse{Error: detail})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrScheduleNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})
	case errors.Is(err, apperrors.ErrScheduleConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeScheduleConflict, err.Error()),
		})
	case errors.Is(err, apperrors.ErrNothingToImport):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNothingToImport, err.Error()),
		})
	case errors.Is(err, apperrors.ErrRenameInProgress):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeRenameInProgress, err.Error()),
		})
	case errors.Is(err, apperrors.ErrRenameFailed):
		c.JSON(502, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeRenameFailed, err.Error()),
		})
	case errors.Is(err, apperrors.ErrInvalidScheduleName),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
