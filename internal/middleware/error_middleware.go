package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/opencourse/discovery/internal/app/models/dto"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
)

// notFoundErrors map to 404.
var notFoundErrors = []error{
	apperrors.ErrResourceNotFound,
	apperrors.ErrPartnerNotFound,
	apperrors.ErrCourseNotFound,
	apperrors.ErrCourseRunNotFound,
	apperrors.ErrSeatNotFound,
	apperrors.ErrCurrencyNotFound,
	apperrors.ErrProgramNotFound,
	apperrors.ErrProgramTypeNotFound,
	apperrors.ErrCurriculumNotFound,
	apperrors.ErrMembershipNotFound,
	apperrors.ErrSwitchNotFound,
}

// conflictErrors map to 409.
var conflictErrors = []error{
	apperrors.ErrResourceAlreadyExists,
	apperrors.ErrConflict,
	apperrors.ErrPartnerAlreadyExists,
	apperrors.ErrPartnerHasCourses,
	apperrors.ErrCourseAlreadyExists,
	apperrors.ErrCourseRunAlreadyExists,
	apperrors.ErrSeatAlreadyExists,
	apperrors.ErrProgramAlreadyExists,
	apperrors.ErrProgramTypeAlreadyExists,
	apperrors.ErrMembershipAlreadyExists,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case isAny(err, notFoundErrors):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))
	case isAny(err, conflictErrors):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
	default:
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
