package models

import (
	"time"
)

// Student defines the provisioned student account model based on the 'students' table.
// Rows are created or updated only by the account provisioner during approval
// (and by the seed for development data).
type Student struct {
	ID              int64   `json:"id" db:"id" example:"1"`
	AdmissionNumber *string `json:"admissionNumber,omitempty" db:"admission_number" example:"ADM202600042"` // Unique, sparse
	AdmissionID     *int64  `json:"admissionId,omitempty" db:"admission_id"`                                // Source application, when provisioned through one
	Email           string  `json:"email" db:"email" example:"student@example.com"`
	Password        string  `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FirstName       string  `json:"firstName" db:"first_name"`
	LastName        string  `json:"lastName" db:"last_name"`
	Phone           string  `json:"phone,omitempty" db:"phone"`

	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender      string     `json:"gender,omitempty" db:"gender"`
	BloodGroup  string     `json:"bloodGroup,omitempty" db:"blood_group"`
	Nationality string     `json:"nationality,omitempty" db:"nationality"`

	// Guardian details mirrored from the approved application
	GuardianName     string `json:"guardianName,omitempty" db:"guardian_name"`
	GuardianPhone    string `json:"guardianPhone,omitempty" db:"guardian_phone"`
	GuardianEmail    string `json:"guardianEmail,omitempty" db:"guardian_email"`
	GuardianRelation string `json:"guardianRelation,omitempty" db:"guardian_relation"`

	// Academic details mirrored from the approved application
	Course string `json:"course,omitempty" db:"course"`
	Batch  string `json:"batch,omitempty" db:"batch"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
