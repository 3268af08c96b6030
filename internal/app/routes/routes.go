package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/controllers"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	admissionController *controllers.AdmissionController,
	studentController *controllers.StudentController,
	noticeController *controllers.NoticeController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Admission routes ---
	admissions := v1.Group("/admissions")
	{
		// Applicants submit and track their application without an account
		admissions.POST("/submit", admissionController.Submit)
		admissions.POST("/documents", admissionController.UploadDocument)

		// Review queue, statistics and decisions are staff-only
		admissionsStaff := admissions.Group("")
		admissionsStaff.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleStaff, models.RoleAdmin))
		{
			admissionsStaff.GET("", admissionController.List)
			admissionsStaff.GET("/pending", admissionController.ListPending)
			admissionsStaff.GET("/stats", admissionController.Stats)
			admissionsStaff.PUT("/approve/:id", admissionController.Approve)
			admissionsStaff.PUT("/reject/:id", admissionController.Reject)
		}

		admissions.GET("/:id", admissionController.GetByID)
	}

	// --- Public notice routes ---
	notices := v1.Group("/notices")
	{
		notices.GET("", noticeController.List)
		notices.GET("/:id", noticeController.GetByID)
	}

	// Live notice feed (public, read-only)
	v1.GET("/ws/notices", wsHandler.HandleConnection)

	// --- Authenticated staff routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/profile", authController.GetProfile)

		staff := authenticated.Group("")
		staff.Use(authMiddleware.RoleRequired(models.RoleStaff, models.RoleAdmin))
		{
			staff.GET("/students", studentController.List)
			staff.GET("/students/:id", studentController.GetByID)
			staff.GET("/students/by-admission-number/:admissionNumber", studentController.GetByAdmissionNumber)

			staff.POST("/notices", noticeController.Publish)
		}

		// Removing a notice is for admins only
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.DELETE("/notices/:id", noticeController.Remove)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}, ""))
	})
}
