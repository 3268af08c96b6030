package models

import (
	"time"
)

// AdmissionStatus represents the lifecycle state of an admission application
type AdmissionStatus string

const (
	// AdmissionPending is the initial state of every application
	AdmissionPending AdmissionStatus = "PENDING"
	// AdmissionApproved is a terminal state; the applicant has been provisioned a student account
	AdmissionApproved AdmissionStatus = "APPROVED"
	// AdmissionRejected is a terminal state
	AdmissionRejected AdmissionStatus = "REJECTED"
)

// IsValid reports whether the status is one of the known lifecycle states
func (s AdmissionStatus) IsValid() bool {
	switch s {
	case AdmissionPending, AdmissionApproved, AdmissionRejected:
		return true
	}
	return false
}

// Admission defines the admission application model based on the 'admissions' table
type Admission struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	FirstName   string     `json:"firstName" db:"first_name" example:"Ayşe"`
	LastName    string     `json:"lastName" db:"last_name" example:"Yılmaz"`
	Email       string     `json:"email" db:"email" example:"applicant@example.com"` // Unique across applications
	Phone       string     `json:"phone,omitempty" db:"phone" example:"+905551112233"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender      string     `json:"gender,omitempty" db:"gender" example:"FEMALE"`
	BloodGroup  string     `json:"bloodGroup,omitempty" db:"blood_group" example:"A+"`
	Nationality string     `json:"nationality,omitempty" db:"nationality" example:"TR"`

	// Guardian details (free-form contact fields)
	GuardianName     string `json:"guardianName,omitempty" db:"guardian_name"`
	GuardianPhone    string `json:"guardianPhone,omitempty" db:"guardian_phone"`
	GuardianEmail    string `json:"guardianEmail,omitempty" db:"guardian_email"`
	GuardianRelation string `json:"guardianRelation,omitempty" db:"guardian_relation"`

	// Academic details
	Course         string `json:"course,omitempty" db:"course"` // Target course reference
	Batch          string `json:"batch,omitempty" db:"batch"`
	PreviousSchool string `json:"previousSchool,omitempty" db:"previous_school"`

	// Uploaded document metadata (stored as JSONB; upload transport is handled elsewhere)
	Documents []AdmissionDocument `json:"documents,omitempty" db:"documents"`

	Status AdmissionStatus `json:"status" db:"status" example:"PENDING"`

	// AdmissionNumber is set if and only if the application is approved
	AdmissionNumber *string    `json:"admissionNumber,omitempty" db:"admission_number" example:"ADM202600042"`
	RejectionReason *string    `json:"rejectionReason,omitempty" db:"rejection_reason"`
	ApprovalDate    *time.Time `json:"approvalDate,omitempty" db:"approval_date"`

	AppliedDate time.Time `json:"appliedDate" db:"applied_date"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// StatusHistory is populated on single-record fetches
	StatusHistory []StatusHistoryEntry `json:"statusHistory,omitempty"`
}

// AdmissionDocument describes one uploaded document attached to an application
type AdmissionDocument struct {
	Type       string    `json:"type" example:"BIRTH_CERTIFICATE"`
	FileName   string    `json:"fileName" example:"birth_certificate.pdf"`
	URL        string    `json:"url" example:"uploads/admissions/42/birth_certificate.pdf"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// StatusHistoryEntry is one append-only audit record of a lifecycle transition,
// based on the 'admission_status_history' table
type StatusHistoryEntry struct {
	ID          int64           `json:"id" db:"id"`
	AdmissionID int64           `json:"admissionId" db:"admission_id"`
	Status      AdmissionStatus `json:"status" db:"status"`
	ChangedBy   int64           `json:"changedBy" db:"changed_by"` // Acting staff user ID (0 for the initial submission)
	Remarks     string          `json:"remarks,omitempty" db:"remarks"`
	ChangedAt   time.Time       `json:"changedAt" db:"changed_at"`
}
