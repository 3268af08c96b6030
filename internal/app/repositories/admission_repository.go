package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

const admissionColumns = `id, first_name, last_name, email, phone, date_of_birth, gender, blood_group,
		nationality, guardian_name, guardian_phone, guardian_email, guardian_relation,
		course, batch, previous_school, documents, status, admission_number,
		rejection_reason, approval_date, applied_date, created_at, updated_at`

// AdmissionRepository handles database operations for admission applications.
// The approve/reject transitions are the only writers of admission status and
// history; both run as a single transaction with a conditional status guard.
type AdmissionRepository struct {
	db       *pgxpool.Pool
	students *StudentRepository
	sb       squirrel.StatementBuilderType
}

// NewAdmissionRepository creates a new AdmissionRepository
func NewAdmissionRepository(pool *pgxpool.Pool, students *StudentRepository) *AdmissionRepository {
	return &AdmissionRepository{
		db:       pool,
		students: students,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new pending application and returns its id
func (r *AdmissionRepository) Create(ctx context.Context, adm *models.Admission) (int64, error) {
	docs, err := json.Marshal(adm.Documents)
	if err != nil {
		return 0, fmt.Errorf("error encoding documents: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO admissions (
			first_name, last_name, email, phone, date_of_birth, gender, blood_group,
			nationality, guardian_name, guardian_phone, guardian_email, guardian_relation,
			course, batch, previous_school, documents, status, applied_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`,
		adm.FirstName, adm.LastName, adm.Email, adm.Phone, adm.DateOfBirth, adm.Gender,
		adm.BloodGroup, adm.Nationality, adm.GuardianName, adm.GuardianPhone,
		adm.GuardianEmail, adm.GuardianRelation, adm.Course, adm.Batch,
		adm.PreviousSchool, docs, adm.Status, adm.AppliedDate).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admissions_email_key") {
			return 0, apperrors.ErrAdmissionEmailExists
		}
		return 0, fmt.Errorf("error creating admission: %w", err)
	}

	// The initial submission is recorded in the history trail as well
	_, err = r.db.Exec(ctx, `
		INSERT INTO admission_status_history (admission_id, status, changed_by, remarks)
		VALUES ($1, $2, $3, $4)`,
		id, models.AdmissionPending, 0, "Application submitted")
	if err != nil {
		logger.Warn().Err(err).Int64("admissionId", id).Msg("Failed to record submission history entry")
	}

	return id, nil
}

// GetByID retrieves an application by id with its status history populated
func (r *AdmissionRepository) GetByID(ctx context.Context, id int64) (*models.Admission, error) {
	adm, err := r.scanOne(r.db.QueryRow(ctx, `
		SELECT `+admissionColumns+`
		FROM admissions
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving admission: %w", err)
	}

	history, err := r.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	adm.StatusHistory = history

	return adm, nil
}

// GetHistory returns the append-only status trail of an application, oldest first
func (r *AdmissionRepository) GetHistory(ctx context.Context, admissionID int64) ([]models.StatusHistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admission_id, status, changed_by, remarks, changed_at
		FROM admission_status_history
		WHERE admission_id = $1
		ORDER BY changed_at, id`, admissionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving admission history: %w", err)
	}
	defer rows.Close()

	var history []models.StatusHistoryEntry
	for rows.Next() {
		var entry models.StatusHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.AdmissionID, &entry.Status, &entry.ChangedBy,
			&entry.Remarks, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("error scanning history row: %w", err)
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

// List retrieves applications with optional status filtering and pagination
func (r *AdmissionRepository) List(ctx context.Context, status *models.AdmissionStatus, page, pageSize int) ([]models.Admission, int64, error) {
	query := r.sb.Select(
		"id", "first_name", "last_name", "email", "phone", "date_of_birth", "gender",
		"blood_group", "nationality", "guardian_name", "guardian_phone", "guardian_email",
		"guardian_relation", "course", "batch", "previous_school", "documents", "status",
		"admission_number", "rejection_reason", "approval_date", "applied_date",
		"created_at", "updated_at").
		From("admissions").
		OrderBy("applied_date DESC", "id DESC")

	if status != nil {
		query = query.Where(squirrel.Eq{"status": *status})
	}

	offset := (page - 1) * pageSize
	query = query.Limit(uint64(pageSize)).Offset(uint64(offset))

	countQuery := query.Column("COUNT(*) OVER()")
	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var admissions []models.Admission
	var total int64

	for rows.Next() {
		var adm models.Admission
		var docs []byte
		err := rows.Scan(
			&adm.ID, &adm.FirstName, &adm.LastName, &adm.Email, &adm.Phone,
			&adm.DateOfBirth, &adm.Gender, &adm.BloodGroup, &adm.Nationality,
			&adm.GuardianName, &adm.GuardianPhone, &adm.GuardianEmail, &adm.GuardianRelation,
			&adm.Course, &adm.Batch, &adm.PreviousSchool, &docs, &adm.Status,
			&adm.AdmissionNumber, &adm.RejectionReason, &adm.ApprovalDate,
			&adm.AppliedDate, &adm.CreatedAt, &adm.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		if err := unmarshalDocuments(docs, &adm); err != nil {
			return nil, 0, err
		}
		admissions = append(admissions, adm)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return admissions, total, nil
}

// CountByStatus returns application counts grouped by lifecycle state
func (r *AdmissionRepository) CountByStatus(ctx context.Context) (map[models.AdmissionStatus]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM admissions
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting admissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AdmissionStatus]int64)
	for rows.Next() {
		var status models.AdmissionStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning count row: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// EmailExists checks if an application already uses the given email
func (r *AdmissionRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM admissions WHERE email = $1)`,
		email).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking admission email: %w", err)
	}

	return exists, nil
}

// Approve performs the approval transition atomically: the student account is
// upserted, the application is flipped to APPROVED only if it is still
// PENDING, and a history entry is appended. Everything runs in one
// transaction; a failure in any step rolls back all of them.
func (r *AdmissionRepository) Approve(ctx context.Context, admissionID, reviewerID int64, remarks string, student *models.Student) (int64, error) {
	var studentID int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		studentID, err = r.approveTx(ctx, tx, admissionID, reviewerID, remarks, student)
		return err
	})

	if err != nil {
		return 0, err
	}

	return studentID, nil
}

func (r *AdmissionRepository) approveTx(ctx context.Context, tx pgx.Tx, admissionID, reviewerID int64, remarks string, student *models.Student) (int64, error) {
	studentID, err := r.students.UpsertProvisionedTx(ctx, tx, student)
	if err != nil {
		return 0, err
	}

	// Conditional transition; only a pending application can be approved.
	cmdTag, err := tx.Exec(ctx, `
		UPDATE admissions
		SET status = $1, admission_number = $2, approval_date = $3, updated_at = $3
		WHERE id = $4 AND status = $5`,
		models.AdmissionApproved, student.AdmissionNumber, time.Now(), admissionID, models.AdmissionPending)
	if err != nil {
		return 0, fmt.Errorf("error updating admission status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return 0, r.decideZeroRowsError(ctx, tx, admissionID)
	}

	if remarks == "" {
		remarks = "Application approved"
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO admission_status_history (admission_id, status, changed_by, remarks)
		VALUES ($1, $2, $3, $4)`,
		admissionID, models.AdmissionApproved, reviewerID, remarks)
	if err != nil {
		return 0, fmt.Errorf("error recording approval history: %w", err)
	}

	return studentID, nil
}

// Reject performs the rejection transition atomically under the same
// status guard as Approve.
func (r *AdmissionRepository) Reject(ctx context.Context, admissionID, reviewerID int64, reason, remarks string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return r.rejectTx(ctx, tx, admissionID, reviewerID, reason, remarks)
	})
}

func (r *AdmissionRepository) rejectTx(ctx context.Context, tx pgx.Tx, admissionID, reviewerID int64, reason, remarks string) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE admissions
		SET status = $1, rejection_reason = $2, updated_at = $3
		WHERE id = $4 AND status = $5`,
		models.AdmissionRejected, reason, time.Now(), admissionID, models.AdmissionPending)
	if err != nil {
		return fmt.Errorf("error updating admission status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return r.decideZeroRowsError(ctx, tx, admissionID)
	}

	if remarks == "" {
		remarks = "Application rejected: " + reason
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO admission_status_history (admission_id, status, changed_by, remarks)
		VALUES ($1, $2, $3, $4)`,
		admissionID, models.AdmissionRejected, reviewerID, remarks)
	if err != nil {
		return fmt.Errorf("error recording rejection history: %w", err)
	}

	return nil
}

// decideZeroRowsError distinguishes "not found" from "already decided" after
// a conditional transition touched no rows.
func (r *AdmissionRepository) decideZeroRowsError(ctx context.Context, tx pgx.Tx, admissionID int64) error {
	var status models.AdmissionStatus
	err := tx.QueryRow(ctx, `SELECT status FROM admissions WHERE id = $1`, admissionID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrAdmissionNotFound
		}
		return fmt.Errorf("error re-reading admission status: %w", err)
	}
	return fmt.Errorf("admission is already %s: %w", status, apperrors.ErrAdmissionNotPending)
}

// scanOne scans a single admission row including the documents JSONB column
func (r *AdmissionRepository) scanOne(row pgx.Row) (*models.Admission, error) {
	var adm models.Admission
	var docs []byte
	err := row.Scan(
		&adm.ID, &adm.FirstName, &adm.LastName, &adm.Email, &adm.Phone,
		&adm.DateOfBirth, &adm.Gender, &adm.BloodGroup, &adm.Nationality,
		&adm.GuardianName, &adm.GuardianPhone, &adm.GuardianEmail, &adm.GuardianRelation,
		&adm.Course, &adm.Batch, &adm.PreviousSchool, &docs, &adm.Status,
		&adm.AdmissionNumber, &adm.RejectionReason, &adm.ApprovalDate,
		&adm.AppliedDate, &adm.CreatedAt, &adm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalDocuments(docs, &adm); err != nil {
		return nil, err
	}
	return &adm, nil
}

func unmarshalDocuments(raw []byte, adm *models.Admission) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &adm.Documents); err != nil {
		return fmt.Errorf("error decoding documents for admission %d: %w", adm.ID, err)
	}
	return nil
}
