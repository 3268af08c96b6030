package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/validation"
)

// StudentStore is the persistence surface the student service needs.
// *repositories.StudentRepository satisfies it.
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Student, int64, error)
}

// StudentService reads the directory of provisioned student accounts
type StudentService struct {
	students StudentStore
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students StudentStore, logger zerolog.Logger) *StudentService {
	return &StudentService{students: students, logger: logger}
}

// GetByID retrieves one student
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// GetByAdmissionNumber retrieves one student by admission number
func (s *StudentService) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	normalized := strings.ToUpper(strings.TrimSpace(admissionNumber))
	if !validation.ValidAdmissionNumber(normalized) {
		return nil, apperrors.NewValidationError("Malformed admission number")
	}
	return s.students.GetByAdmissionNumber(ctx, normalized)
}

// List retrieves students with optional free-text search
func (s *StudentService) List(ctx context.Context, search string, page, pageSize int) ([]models.Student, int64, error) {
	return s.students.List(ctx, strings.TrimSpace(search), page, pageSize)
}
