package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

const studentColumns = `id, admission_number, admission_id, email, password, first_name, last_name,
		phone, date_of_birth, gender, blood_group, nationality, guardian_name,
		guardian_phone, guardian_email, guardian_relation, course, batch,
		created_at, updated_at`

// StudentRepository handles database operations for provisioned student accounts
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertProvisionedTx creates the student account, or updates the existing one
// matched by email, inside the caller's transaction. A unique violation on the
// admission number bubbles out so the caller can regenerate and retry.
func (r *StudentRepository) UpsertProvisionedTx(ctx context.Context, tx pgx.Tx, student *models.Student) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO students (
			admission_number, admission_id, email, password, first_name, last_name,
			phone, date_of_birth, gender, blood_group, nationality, guardian_name,
			guardian_phone, guardian_email, guardian_relation, course, batch
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (email) DO UPDATE SET
			admission_number = EXCLUDED.admission_number,
			admission_id = EXCLUDED.admission_id,
			password = EXCLUDED.password,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			blood_group = EXCLUDED.blood_group,
			nationality = EXCLUDED.nationality,
			guardian_name = EXCLUDED.guardian_name,
			guardian_phone = EXCLUDED.guardian_phone,
			guardian_email = EXCLUDED.guardian_email,
			guardian_relation = EXCLUDED.guardian_relation,
			course = EXCLUDED.course,
			batch = EXCLUDED.batch,
			updated_at = now()
		RETURNING id`,
		student.AdmissionNumber, student.AdmissionID, student.Email, student.Password,
		student.FirstName, student.LastName, student.Phone, student.DateOfBirth,
		student.Gender, student.BloodGroup, student.Nationality, student.GuardianName,
		student.GuardianPhone, student.GuardianEmail, student.GuardianRelation,
		student.Course, student.Batch).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error upserting student: %w", err)
	}

	return id, nil
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetByEmail retrieves a student by email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetByAdmissionNumber retrieves a student by admission number
func (r *StudentRepository) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE admission_number = $1`, admissionNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// EmailExists checks if a student account already uses the given email
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`,
		email).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking student email: %w", err)
	}

	return exists, nil
}

// List retrieves students with optional search and pagination. Search matches
// name, email and admission number.
func (r *StudentRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Student, int64, error) {
	query := r.sb.Select(
		"id", "admission_number", "admission_id", "email", "password", "first_name",
		"last_name", "phone", "date_of_birth", "gender", "blood_group", "nationality",
		"guardian_name", "guardian_phone", "guardian_email", "guardian_relation",
		"course", "batch", "created_at", "updated_at").
		From("students").
		OrderBy("created_at DESC", "id DESC")

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"admission_number": pattern},
		})
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

	var students []models.Student
	var total int64

	for rows.Next() {
		var s models.Student
		err := rows.Scan(
			&s.ID, &s.AdmissionNumber, &s.AdmissionID, &s.Email, &s.Password,
			&s.FirstName, &s.LastName, &s.Phone, &s.DateOfBirth, &s.Gender,
			&s.BloodGroup, &s.Nationality, &s.GuardianName, &s.GuardianPhone,
			&s.GuardianEmail, &s.GuardianRelation, &s.Course, &s.Batch,
			&s.CreatedAt, &s.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.AdmissionNumber, &s.AdmissionID, &s.Email, &s.Password,
		&s.FirstName, &s.LastName, &s.Phone, &s.DateOfBirth, &s.Gender,
		&s.BloodGroup, &s.Nationality, &s.GuardianName, &s.GuardianPhone,
		&s.GuardianEmail, &s.GuardianRelation, &s.Course, &s.Batch,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
