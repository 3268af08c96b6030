package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// fakeTx implements the slice of pgx.Tx the transition code touches, recording
// every statement so the conditional guard SQL can be asserted on.
type fakeTx struct {
	pgx.Tx

	execSQL  []string
	execArgs [][]any
	execTag  func(sql string) pgconn.CommandTag

	queriedSQL []string
	rowScan    func(sql string, dest ...any) error
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	if f.execTag != nil {
		return f.execTag(sql), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queriedSQL = append(f.queriedSQL, sql)
	return fakeRow{sql: sql, scan: f.rowScan}
}

type fakeRow struct {
	sql  string
	scan func(sql string, dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scan(r.sql, dest...)
}

func newTestAdmissionRepository() *AdmissionRepository {
	var pool *pgxpool.Pool
	return NewAdmissionRepository(pool, NewStudentRepository(pool))
}

func provisionedStudent() *models.Student {
	number := "ADM202600042"
	return &models.Student{
		AdmissionNumber: &number,
		Email:           "applicant@example.com",
		Password:        "$2a$12$hash",
		FirstName:       "Ayşe",
	}
}

func TestApproveTx_GuardsOnPendingStatus(t *testing.T) {
	repo := newTestAdmissionRepository()
	tx := &fakeTx{
		rowScan: func(sql string, dest ...any) error {
			// student upsert RETURNING id
			*(dest[0].(*int64)) = 42
			return nil
		},
	}

	studentID, err := repo.approveTx(context.Background(), tx, 7, 3, "", provisionedStudent())
	require.NoError(t, err)
	assert.Equal(t, int64(42), studentID)

	require.Len(t, tx.execSQL, 2)

	// The transition is a single conditional update keyed on the current state
	update := tx.execSQL[0]
	assert.Contains(t, update, "UPDATE admissions")
	assert.Contains(t, update, "AND status = $5")
	assert.Equal(t, models.AdmissionApproved, tx.execArgs[0][0])
	assert.Equal(t, models.AdmissionPending, tx.execArgs[0][4])

	history := tx.execSQL[1]
	assert.Contains(t, history, "INSERT INTO admission_status_history")
	assert.Equal(t, "Application approved", tx.execArgs[1][3])
}

func TestApproveTx_ZeroRowsAlreadyDecided(t *testing.T) {
	repo := newTestAdmissionRepository()
	tx := &fakeTx{
		execTag: func(sql string) pgconn.CommandTag {
			if strings.Contains(sql, "UPDATE admissions") {
				return pgconn.NewCommandTag("UPDATE 0")
			}
			return pgconn.NewCommandTag("INSERT 0 1")
		},
		rowScan: func(sql string, dest ...any) error {
			if strings.Contains(sql, "SELECT status") {
				*(dest[0].(*models.AdmissionStatus)) = models.AdmissionApproved
				return nil
			}
			*(dest[0].(*int64)) = 42
			return nil
		},
	}

	_, err := repo.approveTx(context.Background(), tx, 7, 3, "", provisionedStudent())
	assert.ErrorIs(t, err, apperrors.ErrAdmissionNotPending)
	assert.Contains(t, err.Error(), "APPROVED")

	// No history entry is written for a losing transition
	require.Len(t, tx.execSQL, 1)
}

func TestApproveTx_ZeroRowsNotFound(t *testing.T) {
	repo := newTestAdmissionRepository()
	tx := &fakeTx{
		execTag: func(string) pgconn.CommandTag {
			return pgconn.NewCommandTag("UPDATE 0")
		},
		rowScan: func(sql string, dest ...any) error {
			if strings.Contains(sql, "SELECT status") {
				return pgx.ErrNoRows
			}
			*(dest[0].(*int64)) = 42
			return nil
		},
	}

	_, err := repo.approveTx(context.Background(), tx, 404, 3, "", provisionedStudent())
	assert.ErrorIs(t, err, apperrors.ErrAdmissionNotFound)
}

func TestRejectTx_GuardsOnPendingStatus(t *testing.T) {
	repo := newTestAdmissionRepository()
	tx := &fakeTx{}

	err := repo.rejectTx(context.Background(), tx, 7, 3, "Incomplete documents", "")
	require.NoError(t, err)

	require.Len(t, tx.execSQL, 2)
	update := tx.execSQL[0]
	assert.Contains(t, update, "UPDATE admissions")
	assert.Contains(t, update, "AND status = $5")
	assert.Equal(t, models.AdmissionRejected, tx.execArgs[0][0])
	assert.Equal(t, "Incomplete documents", tx.execArgs[0][1])
	assert.Equal(t, models.AdmissionPending, tx.execArgs[0][4])

	assert.Equal(t, "Application rejected: Incomplete documents", tx.execArgs[1][3])
}

func TestRejectTx_ZeroRowsAlreadyDecided(t *testing.T) {
	repo := newTestAdmissionRepository()
	tx := &fakeTx{
		execTag: func(string) pgconn.CommandTag {
			return pgconn.NewCommandTag("UPDATE 0")
		},
		rowScan: func(sql string, dest ...any) error {
			*(dest[0].(*models.AdmissionStatus)) = models.AdmissionRejected
			return nil
		},
	}

	err := repo.rejectTx(context.Background(), tx, 7, 3, "Incomplete documents", "")
	assert.ErrorIs(t, err, apperrors.ErrAdmissionNotPending)
	require.Len(t, tx.execSQL, 1)
}
