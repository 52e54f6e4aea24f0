package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
)

// errorDetail builds the response detail, carrying over any structured
// context attached to a CustomError.
func errorDetail(err error, code dto.ErrorCode, message string) *dto.ErrorDetail {
	detail := dto.NewErrorDetail(code, message)
	var cerr *apperrors.CustomError
	if errors.As(err, &cerr) && cerr.Details != nil {
		detail = detail.WithDetails(cerr.Details)
	}
	return detail
}

// HandleAPIError maps service errors onto the standard error response
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeValidationFailed, err.Error())))
		return
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid USN or password")))
		return
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
		return
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
		return
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))
		return
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrEnrollmentNotFound),
		errors.Is(err, apperrors.ErrSubjectNotFound),
		errors.Is(err, apperrors.ErrRequestNotFound),
		errors.Is(err, apperrors.ErrBorrowRequestNotFound),
		errors.Is(err, apperrors.ErrBookNotBorrowed),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))
		return
	case errors.Is(err, apperrors.ErrHandleExists):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))
		return
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.NewErrorResponse(
			errorDetail(err, dto.ErrorCodeConflict, err.Error())))
		return
	default:
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
		return
	}
}
