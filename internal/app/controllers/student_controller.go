package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// StudentController handles the student directory endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// List retrieves students with optional search
// @Summary List students
// @Description Retrieves provisioned student accounts, optionally filtered by a free-text search over name, email and admission number
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search text"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Students retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	search := ctx.Query("search")

	students, total, err := c.studentService.List(ctx.Request.Context(), search, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// GetByID retrieves one student
// @Summary Get a student
// @Description Retrieves one provisioned student account
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, ""))
}

// GetByAdmissionNumber retrieves one student by admission number
// @Summary Get a student by admission number
// @Description Retrieves one provisioned student account by its admission number
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param admissionNumber path string true "Admission number"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/by-admission-number/{admissionNumber} [get]
func (c *StudentController) GetByAdmissionNumber(ctx *gin.Context) {
	admissionNumber := ctx.Param("admissionNumber")

	student, err := c.studentService.GetByAdmissionNumber(ctx.Request.Context(), admissionNumber)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, ""))
}
