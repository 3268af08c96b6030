package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository      *UserRepository
	StudentRepository   *StudentRepository
	AdmissionRepository *AdmissionRepository
	TokenRepository     *TokenRepository
	NoticeRepository    *NoticeRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	students := NewStudentRepository(db)
	return &Repositories{
		UserRepository:      NewUserRepository(db),
		StudentRepository:   students,
		AdmissionRepository: NewAdmissionRepository(db, students),
		TokenRepository:     NewTokenRepository(db),
		NoticeRepository:    NewNoticeRepository(db),
	}
}
