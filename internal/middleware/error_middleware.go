package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses.
// Invalid input, duplicate submissions and illegal lifecycle transitions are
// all client faults (400); missing resources are 404; everything else is 500.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", err)

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", err)

	case errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", err)

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found", err)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", err)

	case errors.Is(err, apperrors.ErrAdmissionNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrNoticeNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", err)

	case errors.Is(err, apperrors.ErrAdmissionNotPending),
		errors.Is(err, apperrors.ErrInvalidState):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidState, "Application has already been decided", err)

	case errors.Is(err, apperrors.ErrAdmissionEmailExists),
		errors.Is(err, apperrors.ErrStudentEmailExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Duplicate submission", err)

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", err)

	case errors.Is(err, apperrors.ErrStorage):
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeStorageError, "Storage failure", err)

	default:
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", err)
	}
}

// respondError writes the standard error envelope. When the error carries its
// own message (a CustomError or a named sentinel) that message is surfaced,
// except for 500s where internals stay hidden.
func respondError(c *gin.Context, status int, code dto.ErrorCode, fallback string, err error) {
	message := fallback
	if status < http.StatusInternalServerError && err != nil {
		if msg := err.Error(); msg != "" {
			message = msg
		}
	}

	errorDetail := dto.NewErrorDetail(code, message)

	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Details != nil {
		errorDetail = errorDetail.WithDetails(customErr.Details)
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
