package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/filestorage"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// maxDocumentSize caps a single uploaded admission document at 10MB
const maxDocumentSize = 10 << 20

// AdmissionController handles the admission application lifecycle endpoints
type AdmissionController struct {
	admissionService *services.AdmissionService
	documents        filestorage.DocumentStorage
}

// NewAdmissionController creates a new AdmissionController
func NewAdmissionController(admissionService *services.AdmissionService, documents filestorage.DocumentStorage) *AdmissionController {
	return &AdmissionController{
		admissionService: admissionService,
		documents:        documents,
	}
}

// Submit handles a new admission application
// @Summary Submit an admission application
// @Description Records a new application in PENDING state. One application per email.
// @Tags admissions
// @Accept json
// @Produce json
// @Param request body dto.SubmitAdmissionRequest true "Application details"
// @Success 201 {object} dto.APIResponse{data=dto.SubmitAdmissionResponse} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid or duplicate application"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions/submit [post]
func (c *AdmissionController) Submit(ctx *gin.Context) {
	var req dto.SubmitAdmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.admissionService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Application submitted successfully"))
}

// GetByID retrieves one application with its status history
// @Summary Get an application
// @Description Retrieves an application including its status history trail
// @Tags admissions
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Admission} "Application retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions/{id} [get]
func (c *AdmissionController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	adm, err := c.admissionService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(adm, ""))
}

// List retrieves applications, optionally filtered by status
// @Summary List applications
// @Description Retrieves applications newest first, optionally filtered to one lifecycle state
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(PENDING, APPROVED, REJECTED)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Applications retrieved"
// @Failure 400 {object} dto.ErrorResponse "Unknown status filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions [get]
func (c *AdmissionController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	statusFilter := ctx.Query("status")

	admissions, total, err := c.admissionService.List(ctx.Request.Context(), statusFilter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.AdmissionListItem, 0, len(admissions))
	for i := range admissions {
		items = append(items, dto.FromAdmission(&admissions[i]))
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// ListPending retrieves the applications awaiting review
// @Summary List pending applications
// @Description Retrieves the review queue of undecided applications
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Pending applications retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions/pending [get]
func (c *AdmissionController) ListPending(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	admissions, total, err := c.admissionService.ListPending(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.AdmissionListItem, 0, len(admissions))
	for i := range admissions {
		items = append(items, dto.FromAdmission(&admissions[i]))
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// Stats reports application counts per lifecycle state
// @Summary Admission statistics
// @Description Reports application counts by lifecycle state
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdmissionStatsResponse} "Statistics retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions/stats [get]
func (c *AdmissionController) Stats(ctx *gin.Context) {
	stats, err := c.admissionService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats, ""))
}

// Approve decides a pending application positively
// @Summary Approve an application
// @Description Approves a pending application, provisions the student account and returns the one-time credentials
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.ApproveAdmissionRequest false "Optional reviewer remarks"
// @Success 200 {object} dto.APIResponse{data=dto.ApproveAdmissionResponse} "Application approved"
// @Failure 400 {object} dto.ErrorResponse "Application already decided"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions/approve/{id} [put]
func (c *AdmissionController) Approve(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	reviewerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	// Body is optional on approve
	var req dto.ApproveAdmissionRequest
	if ctx.Request.ContentLength > 0 {
		if !middleware.BindJSON(ctx, &req) {
			return
		}
	}

	resp, err := c.admissionService.Approve(ctx.Request.Context(), id, reviewerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Application approved"))
}

// Reject decides a pending application negatively
// @Summary Reject an application
// @Description Rejects a pending application with a mandatory reason
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.RejectAdmissionRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=models.Admission} "Application rejected"
// @Failure 400 {object} dto.ErrorResponse "Missing reason or application already decided"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions/reject/{id} [put]
func (c *AdmissionController) Reject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	reviewerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.RejectAdmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	adm, err := c.admissionService.Reject(ctx.Request.Context(), id, reviewerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(adm, "Application rejected"))
}

// UploadDocument stores a supporting document and returns its accessible URL.
// The returned URL is meant to be referenced in the documents list of a
// subsequent submission.
// @Summary Upload a supporting document
// @Description Uploads a supporting document (transcript, certificate, photo) for an admission application
// @Tags admissions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Success 201 {object} dto.APIResponse{data=dto.UploadDocumentResponse} "Document uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing or oversized file"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admissions/documents [post]
func (c *AdmissionController) UploadDocument(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if fileHeader.Size > maxDocumentSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File exceeds the 10MB limit")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	url, err := c.documents.SaveDocument(fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.UploadDocumentResponse{
		FileName: fileHeader.Filename,
		URL:      url,
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Document uploaded"))
}

// parseIDParam parses a positive int64 path parameter, writing the validation
// error envelope on failure.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	idStr := ctx.Param(name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID")
		errorDetail = errorDetail.WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
