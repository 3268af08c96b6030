package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
)

type fakeUserStore struct {
	users          map[string]*models.User
	lastLoginID    int64
	updateLoginErr error
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	f.lastLoginID = id
	return f.updateLoginErr
}

type fakeTokenStore struct {
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		tokens:  make(map[string]int64),
		revoked: make(map[string]bool),
	}
}

func (f *fakeTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(ctx context.Context, token string) (int64, error) {
	if f.revoked[token] {
		return 0, apperrors.ErrTokenRevoked
	}
	userID, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	return userID, nil
}

func (f *fakeTokenStore) RevokeToken(ctx context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	for token, owner := range f.tokens {
		if owner == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "scholaris-test",
	})
}

func newTestAuthService(t *testing.T, password string, active bool) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)

	users := &fakeUserStore{users: map[string]*models.User{
		"staff@school.edu.tr": {
			ID:        1,
			Email:     "staff@school.edu.tr",
			Password:  hashed,
			FirstName: "Mehmet",
			LastName:  "Demir",
			RoleType:  models.RoleStaff,
			IsActive:  active,
		},
	}}
	tokens := newFakeTokenStore()

	return NewAuthService(users, tokens, testJWTService(), zerolog.Nop()), users, tokens
}

func TestLogin_Success(t *testing.T) {
	svc, users, tokens := newTestAuthService(t, "Staff123!", true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@school.edu.tr",
		Password: "Staff123!",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	// Refresh token was persisted and the login time recorded
	assert.Equal(t, int64(1), tokens.tokens[resp.RefreshToken])
	assert.Equal(t, int64(1), users.lastLoginID)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		active   bool
		wantErr  error
	}{
		{"unknown email", "nobody@school.edu.tr", "Staff123!", true, apperrors.ErrInvalidCredentials},
		{"wrong password", "staff@school.edu.tr", "nope", true, apperrors.ErrInvalidCredentials},
		{"inactive account", "staff@school.edu.tr", "Staff123!", false, apperrors.ErrInvalidCredentials},
		{"malformed email", "not-an-email", "Staff123!", true, apperrors.ErrValidationFailed},
		{"empty password", "staff@school.edu.tr", "", true, apperrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAuthService(t, "Staff123!", tt.active)

			_, err := svc.Login(context.Background(), &dto.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefreshToken_RotatesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService(t, "Staff123!", true)

	first, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@school.edu.tr",
		Password: "Staff123!",
	})
	require.NoError(t, err)

	second, err := svc.RefreshToken(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token cannot be replayed
	assert.True(t, tokens.revoked[first.RefreshToken])
	_, err = svc.RefreshToken(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshToken_UnknownOrEmpty(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "Staff123!", true)

	_, err := svc.RefreshToken(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.RefreshToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	svc, _, tokens := newTestAuthService(t, "Staff123!", true)

	first, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "staff@school.edu.tr", Password: "Staff123!"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "staff@school.edu.tr", Password: "Staff123!"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), 1))
	assert.True(t, tokens.revoked[first.RefreshToken])
	assert.True(t, tokens.revoked[second.RefreshToken])
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newTestAuthService(t, "Staff123!", true)

	profile, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "staff@school.edu.tr", profile.Email)
	assert.Equal(t, "STAFF", profile.RoleType)

	_, err = svc.GetProfile(context.Background(), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.GetProfile(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
