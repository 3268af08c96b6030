package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/scholaris/internal/app/models/dto"
)

// BindJSON binds and validates a JSON request body, writing the standard
// validation error envelope on failure. Returns false when binding failed.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")

		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			details := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				details = append(details, formatValidationError(fe))
			}
			errorDetail = errorDetail.WithDetails(details)
		} else {
			errorDetail = errorDetail.WithDetails(err.Error())
		}

		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
