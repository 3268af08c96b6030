package dto

import (
	"time"

	"github.com/yigit/scholaris/internal/app/models"
)

// SubmitAdmissionRequest is the payload for a new admission application
type SubmitAdmissionRequest struct {
	FirstName   string `json:"firstName" binding:"required" example:"Ayşe"`
	LastName    string `json:"lastName" example:"Yılmaz"`
	Email       string `json:"email" binding:"required,email" example:"applicant@example.com"`
	Phone       string `json:"phone" example:"+905551112233"`
	DateOfBirth string `json:"dateOfBirth" example:"2010-03-14"` // ISO date, optional
	Gender      string `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	BloodGroup  string `json:"bloodGroup" example:"A+"`
	Nationality string `json:"nationality" example:"TR"`

	GuardianName     string `json:"guardianName"`
	GuardianPhone    string `json:"guardianPhone"`
	GuardianEmail    string `json:"guardianEmail" binding:"omitempty,email"`
	GuardianRelation string `json:"guardianRelation"`

	Course         string `json:"course"`
	Batch          string `json:"batch"`
	PreviousSchool string `json:"previousSchool"`

	Documents []AdmissionDocumentRequest `json:"documents"`
}

// AdmissionDocumentRequest describes one already-uploaded document reference
type AdmissionDocumentRequest struct {
	Type     string `json:"type" binding:"required"`
	FileName string `json:"fileName" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// RejectAdmissionRequest is the payload for the reject transition
type RejectAdmissionRequest struct {
	RejectionReason string `json:"rejectionReason" example:"Incomplete documentation"`
	Remarks         string `json:"remarks"`
}

// ApproveAdmissionRequest is the (optional) payload for the approve transition
type ApproveAdmissionRequest struct {
	Remarks string `json:"remarks"`
}

// SubmitAdmissionResponse returns the created application's identity
type SubmitAdmissionResponse struct {
	ID          int64     `json:"id" example:"42"`
	Status      string    `json:"status" example:"PENDING"`
	AppliedDate time.Time `json:"appliedDate"`
}

// ApproveAdmissionResponse carries the provisioning outcome. TempPassword is
// the only place the plaintext credential ever appears.
type ApproveAdmissionResponse struct {
	ID              int64  `json:"id" example:"42"`
	Status          string `json:"status" example:"APPROVED"`
	StudentID       int64  `json:"studentId" example:"7"`
	AdmissionNumber string `json:"admissionNumber" example:"ADM202600042"`
	TempPassword    string `json:"tempPassword"`
}

// UploadDocumentResponse returns where an uploaded supporting document
// can be fetched from.
type UploadDocumentResponse struct {
	FileName string `json:"fileName" example:"transcript.pdf"`
	URL      string `json:"url" example:"http://localhost:8080/uploads/admissions/3f2a....pdf"`
}

// AdmissionStatsResponse reports application counts by lifecycle state
type AdmissionStatsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// AdmissionListItem is the compact list representation of an application
type AdmissionListItem struct {
	ID              int64      `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	Course          string     `json:"course,omitempty"`
	Batch           string     `json:"batch,omitempty"`
	Status          string     `json:"status"`
	AdmissionNumber *string    `json:"admissionNumber,omitempty"`
	AppliedDate     time.Time  `json:"appliedDate"`
	ApprovalDate    *time.Time `json:"approvalDate,omitempty"`
}

// FromAdmission converts a models.Admission to its list representation
func FromAdmission(a *models.Admission) AdmissionListItem {
	return AdmissionListItem{
		ID:              a.ID,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Email:           a.Email,
		Course:          a.Course,
		Batch:           a.Batch,
		Status:          string(a.Status),
		AdmissionNumber: a.AdmissionNumber,
		AppliedDate:     a.AppliedDate,
		ApprovalDate:    a.ApprovalDate,
	}
}
