package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"revoked token", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"admission not found", apperrors.ErrAdmissionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"already decided", apperrors.ErrAdmissionNotPending, http.StatusBadRequest, dto.ErrorCodeInvalidState},
		{"wrapped already decided", fmt.Errorf("admission is already APPROVED: %w", apperrors.ErrAdmissionNotPending), http.StatusBadRequest, dto.ErrorCodeInvalidState},
		{"duplicate application", apperrors.ErrAdmissionEmailExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"conflict", apperrors.NewConflictError("a student account already exists"), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"validation", apperrors.NewValidationError("a rejection reason is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"storage", apperrors.NewStorageError(errors.New("connection refused"), "failed to save"), http.StatusInternalServerError, dto.ErrorCodeStorageError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleAPIError_SurfacesClientMessages(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewValidationError("dateOfBirth must be an ISO date (YYYY-MM-DD)"))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "dateOfBirth must be an ISO date (YYYY-MM-DD)", resp.Error.Message)
}

func TestHandleAPIError_HidesServerInternals(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewStorageError(errors.New("password authentication failed for user postgres"), "storage failure"))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Error.Message, "postgres")
}
