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

// NoticeRepository handles database operations for notices
type NoticeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNoticeRepository creates a new NoticeRepository
func NewNoticeRepository(db *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new notice and returns its id
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO notices (title, body, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		notice.Title, notice.Body, notice.AuthorID).Scan(&id, &notice.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating notice: %w", err)
	}

	notice.ID = id
	return id, nil
}

// GetByID retrieves a notice with its author
func (r *NoticeRepository) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	var n models.Notice
	var author models.User
	err := r.db.QueryRow(ctx, `
		SELECT n.id, n.title, n.body, n.author_id, n.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.role_type
		FROM notices n
		JOIN users u ON u.id = n.author_id
		WHERE n.id = $1`, id).Scan(
		&n.ID, &n.Title, &n.Body, &n.AuthorID, &n.CreatedAt,
		&author.ID, &author.Email, &author.FirstName, &author.LastName, &author.RoleType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoticeNotFound
		}
		return nil, fmt.Errorf("error retrieving notice: %w", err)
	}

	n.Author = &author
	return &n, nil
}

// List retrieves notices newest first with pagination
func (r *NoticeRepository) List(ctx context.Context, page, pageSize int) ([]models.Notice, int64, error) {
	offset := (page - 1) * pageSize

	sql, args, err := r.sb.Select(
		"n.id", "n.title", "n.body", "n.author_id", "n.created_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role_type",
		"COUNT(*) OVER()").
		From("notices n").
		Join("users u ON u.id = n.author_id").
		OrderBy("n.created_at DESC", "n.id DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var notices []models.Notice
	var total int64

	for rows.Next() {
		var n models.Notice
		var author models.User
		err := rows.Scan(
			&n.ID, &n.Title, &n.Body, &n.AuthorID, &n.CreatedAt,
			&author.ID, &author.Email, &author.FirstName, &author.LastName, &author.RoleType,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		n.Author = &author
		notices = append(notices, n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notices, total, nil
}

// Delete removes a notice
func (r *NoticeRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting notice: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoticeNotFound
	}

	return nil
}
