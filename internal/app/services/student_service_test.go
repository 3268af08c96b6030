package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

type fakeStudentStore struct {
	byNumber   map[string]*models.Student
	lastSearch string
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	for _, student := range f.byNumber {
		if student.ID == id {
			return student, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	student, ok := f.byNumber[admissionNumber]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentStore) List(ctx context.Context, search string, page, pageSize int) ([]models.Student, int64, error) {
	f.lastSearch = search
	return nil, 0, nil
}

func TestGetByAdmissionNumber_NormalizesInput(t *testing.T) {
	number := "ADM202600042"
	store := &fakeStudentStore{byNumber: map[string]*models.Student{
		number: {ID: 7, AdmissionNumber: &number, Email: "student@example.com"},
	}}
	svc := NewStudentService(store, zerolog.Nop())

	student, err := svc.GetByAdmissionNumber(context.Background(), "  adm202600042  ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), student.ID)
}

func TestGetByAdmissionNumber_MalformedNumber(t *testing.T) {
	svc := NewStudentService(&fakeStudentStore{}, zerolog.Nop())

	for _, input := range []string{"", "ADM123", "XYZ202600042", "ADM20260004X"} {
		_, err := svc.GetByAdmissionNumber(context.Background(), input)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "input %q", input)
	}
}

func TestStudentList_TrimsSearch(t *testing.T) {
	store := &fakeStudentStore{}
	svc := NewStudentService(store, zerolog.Nop())

	_, _, err := svc.List(context.Background(), "  yılmaz  ", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "yılmaz", store.lastSearch)
}
