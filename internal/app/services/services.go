package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/auth"
	"github.com/yigit/scholaris/internal/pkg/email"
	"github.com/yigit/scholaris/internal/pkg/websocket"
)

// Services holds all the service instances
type Services struct {
	AuthService      *AuthService
	AdmissionService *AdmissionService
	StudentService   *StudentService
	NoticeService    *NoticeService
}

// NewServices wires repositories and shared infrastructure into services
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	hub *websocket.Hub,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository,
			repos.TokenRepository,
			jwtService,
			logger,
		),
		AdmissionService: NewAdmissionService(
			repos.AdmissionRepository,
			repos.StudentRepository,
			emailService,
			logger,
		),
		StudentService: NewStudentService(
			repos.StudentRepository,
			logger,
		),
		NoticeService: NewNoticeService(
			repos.NoticeRepository,
			hub,
			logger,
		),
	}
}
