package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/email"
	"github.com/yigit/scholaris/internal/pkg/validation"
)

// admissionNumberAttempts bounds the regenerate-and-retry loop when a freshly
// generated admission number collides with an existing one.
const admissionNumberAttempts = 5

// AdmissionStore is the persistence surface the admission service needs.
// *repositories.AdmissionRepository satisfies it.
type AdmissionStore interface {
	Create(ctx context.Context, adm *models.Admission) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Admission, error)
	List(ctx context.Context, status *models.AdmissionStatus, page, pageSize int) ([]models.Admission, int64, error)
	CountByStatus(ctx context.Context) (map[models.AdmissionStatus]int64, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Approve(ctx context.Context, admissionID, reviewerID int64, remarks string, student *models.Student) (int64, error)
	Reject(ctx context.Context, admissionID, reviewerID int64, reason, remarks string) error
}

// StudentEmailChecker guards against provisioning over an unrelated existing account
type StudentEmailChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AdmissionService drives the admission application lifecycle:
// submission, review decisions and account provisioning on approval.
type AdmissionService struct {
	admissions AdmissionStore
	students   StudentEmailChecker
	notifier   email.EmailService
	logger     zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService
func NewAdmissionService(
	admissions AdmissionStore,
	students StudentEmailChecker,
	notifier email.EmailService,
	logger zerolog.Logger,
) *AdmissionService {
	return &AdmissionService{
		admissions: admissions,
		students:   students,
		notifier:   notifier,
		logger:     logger,
	}
}

// Submit records a new admission application in PENDING state.
// An email may carry at most one application, decided or not.
func (s *AdmissionService) Submit(ctx context.Context, req *dto.SubmitAdmissionRequest) (*dto.SubmitAdmissionResponse, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if !validation.ValidName(firstName, true) {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"First name is required and may not exceed %d characters", validation.NameMaxLength))
	}
	if !validation.ValidName(lastName, false) {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"Last name may not exceed %d characters", validation.NameMaxLength))
	}
	if !validation.ValidPhone(req.Phone, false) {
		return nil, apperrors.NewValidationError("phone must contain 7 to 15 digits")
	}
	if !validation.ValidPhone(req.GuardianPhone, false) {
		return nil, apperrors.NewValidationError("guardianPhone must contain 7 to 15 digits")
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.admissions.EmailExists(ctx, normalizedEmail)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "Failed to check existing applications")
	}
	if exists {
		return nil, apperrors.ErrAdmissionEmailExists
	}

	studentExists, err := s.students.EmailExists(ctx, normalizedEmail)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "Failed to check existing students")
	}
	if studentExists {
		return nil, apperrors.NewConflictError("A student account already exists for this email")
	}

	adm := &models.Admission{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            normalizedEmail,
		Phone:            req.Phone,
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		Nationality:      req.Nationality,
		GuardianName:     req.GuardianName,
		GuardianPhone:    req.GuardianPhone,
		GuardianEmail:    req.GuardianEmail,
		GuardianRelation: req.GuardianRelation,
		Course:           req.Course,
		Batch:            req.Batch,
		PreviousSchool:   req.PreviousSchool,
		Status:           models.AdmissionPending,
		AppliedDate:      time.Now(),
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, apperrors.NewValidationError("dateOfBirth must be an ISO date (YYYY-MM-DD)")
		}
		adm.DateOfBirth = &dob
	}

	now := time.Now()
	for _, doc := range req.Documents {
		adm.Documents = append(adm.Documents, models.AdmissionDocument{
			Type:       doc.Type,
			FileName:   doc.FileName,
			URL:        doc.URL,
			UploadedAt: now,
		})
	}

	id, err := s.admissions.Create(ctx, adm)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrAdmissionEmailExists) {
			return nil, err
		}
		return nil, apperrors.NewStorageError(err, "Failed to save application")
	}

	s.logger.Info().Int64("admissionID", id).Str("email", adm.Email).Msg("Admission application submitted")

	return &dto.SubmitAdmissionResponse{
		ID:          id,
		Status:      string(models.AdmissionPending),
		AppliedDate: adm.AppliedDate,
	}, nil
}

// GetByID retrieves a single application with its status history
func (s *AdmissionService) GetByID(ctx context.Context, id int64) (*models.Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

// List retrieves applications, optionally filtered to one lifecycle state
func (s *AdmissionService) List(ctx context.Context, statusFilter string, page, pageSize int) ([]models.Admission, int64, error) {
	var status *models.AdmissionStatus
	if statusFilter != "" {
		st := models.AdmissionStatus(strings.ToUpper(statusFilter))
		if !st.IsValid() {
			return nil, 0, apperrors.NewValidationError(fmt.Sprintf("Unknown status filter: %s", statusFilter))
		}
		status = &st
	}

	return s.admissions.List(ctx, status, page, pageSize)
}

// ListPending retrieves the applications awaiting review
func (s *AdmissionService) ListPending(ctx context.Context, page, pageSize int) ([]models.Admission, int64, error) {
	pending := models.AdmissionPending
	return s.admissions.List(ctx, &pending, page, pageSize)
}

// Stats reports application counts per lifecycle state
func (s *AdmissionService) Stats(ctx context.Context) (*dto.AdmissionStatsResponse, error) {
	counts, err := s.admissions.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "Failed to count applications")
	}

	stats := &dto.AdmissionStatsResponse{
		Pending:  counts[models.AdmissionPending],
		Approved: counts[models.AdmissionApproved],
		Rejected: counts[models.AdmissionRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// Approve decides a pending application positively and provisions the student
// account in the same transaction. The generated temporary password is
// returned in plaintext exactly once, in the response.
func (s *AdmissionService) Approve(ctx context.Context, admissionID, reviewerID int64, req *dto.ApproveAdmissionRequest) (*dto.ApproveAdmissionResponse, error) {
	adm, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if adm.Status != models.AdmissionPending {
		return nil, fmt.Errorf("admission is already %s: %w", adm.Status, apperrors.ErrAdmissionNotPending)
	}

	tempPassword, err := auth.GenerateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hashed, err := auth.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash temporary password: %w", err)
	}

	var remarks string
	if req != nil {
		remarks = req.Remarks
	}

	var studentID int64
	var admissionNumber string
	for attempt := 1; ; attempt++ {
		admissionNumber, err = auth.GenerateAdmissionNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate admission number: %w", err)
		}

		student := &models.Student{
			AdmissionNumber:  &admissionNumber,
			AdmissionID:      &admissionID,
			Email:            adm.Email,
			Password:         hashed,
			FirstName:        adm.FirstName,
			LastName:         adm.LastName,
			Phone:            adm.Phone,
			DateOfBirth:      adm.DateOfBirth,
			Gender:           adm.Gender,
			BloodGroup:       adm.BloodGroup,
			Nationality:      adm.Nationality,
			GuardianName:     adm.GuardianName,
			GuardianPhone:    adm.GuardianPhone,
			GuardianEmail:    adm.GuardianEmail,
			GuardianRelation: adm.GuardianRelation,
			Course:           adm.Course,
			Batch:            adm.Batch,
		}

		studentID, err = s.admissions.Approve(ctx, admissionID, reviewerID, remarks, student)
		if err == nil {
			break
		}
		if dberrors.IsUniqueViolation(err) && attempt < admissionNumberAttempts {
			s.logger.Warn().
				Int64("admissionID", admissionID).
				Str("admissionNumber", admissionNumber).
				Int("attempt", attempt).
				Msg("Admission number collision, regenerating")
			continue
		}
		return nil, err
	}

	s.logger.Info().
		Int64("admissionID", admissionID).
		Int64("studentID", studentID).
		Str("admissionNumber", admissionNumber).
		Int64("reviewerID", reviewerID).
		Msg("Admission approved, student account provisioned")

	// Best effort after commit. A notification failure never rolls back the decision.
	if err := s.notifier.SendApprovalEmail(adm.Email, adm.FirstName, admissionNumber, tempPassword); err != nil {
		s.logger.Warn().Err(err).Int64("admissionID", admissionID).Msg("Failed to send approval email")
	}

	return &dto.ApproveAdmissionResponse{
		ID:              admissionID,
		Status:          string(models.AdmissionApproved),
		StudentID:       studentID,
		AdmissionNumber: admissionNumber,
		TempPassword:    tempPassword,
	}, nil
}

// Reject decides a pending application negatively. A reason is mandatory.
func (s *AdmissionService) Reject(ctx context.Context, admissionID, reviewerID int64, req *dto.RejectAdmissionRequest) (*models.Admission, error) {
	if req == nil || strings.TrimSpace(req.RejectionReason) == "" {
		return nil, apperrors.NewValidationError("A rejection reason is required")
	}
	reason := strings.TrimSpace(req.RejectionReason)

	if err := s.admissions.Reject(ctx, admissionID, reviewerID, reason, req.Remarks); err != nil {
		return nil, err
	}

	adm, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("admissionID", admissionID).
		Int64("reviewerID", reviewerID).
		Msg("Admission rejected")

	if err := s.notifier.SendRejectionEmail(adm.Email, adm.FirstName, reason); err != nil {
		s.logger.Warn().Err(err).Int64("admissionID", admissionID).Msg("Failed to send rejection email")
	}

	return adm, nil
}
