package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// NoticeController handles the announcement board endpoints
type NoticeController struct {
	noticeService *services.NoticeService
}

// NewNoticeController creates a new NoticeController
func NewNoticeController(noticeService *services.NoticeService) *NoticeController {
	return &NoticeController{
		noticeService: noticeService,
	}
}

// Publish creates a new notice
// @Summary Publish a notice
// @Description Publishes an announcement and pushes it to live feed subscribers
// @Tags notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNoticeRequest true "Notice content"
// @Success 201 {object} dto.APIResponse{data=models.Notice} "Notice published"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notices [post]
func (c *NoticeController) Publish(ctx *gin.Context) {
	authorID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateNoticeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	notice, err := c.noticeService.Publish(ctx.Request.Context(), authorID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(notice, "Notice published"))
}

// List retrieves notices newest first
// @Summary List notices
// @Description Retrieves published notices newest first
// @Tags notices
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Notices retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notices [get]
func (c *NoticeController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	notices, total, err := c.noticeService.List(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      notices,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// GetByID retrieves one notice
// @Summary Get a notice
// @Description Retrieves one published notice with its author
// @Tags notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse{data=models.Notice} "Notice retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid notice ID"
// @Failure 404 {object} dto.ErrorResponse "Notice not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notices/{id} [get]
func (c *NoticeController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	notice, err := c.noticeService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(notice, ""))
}

// Remove deletes a notice
// @Summary Remove a notice
// @Description Deletes a notice and notifies live feed subscribers
// @Tags notices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse "Notice removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid notice ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Notice not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notices/{id} [delete]
func (c *NoticeController) Remove(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.noticeService.Remove(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Notice removed"))
}
