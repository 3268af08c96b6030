package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/scholaris/internal/app/models"
	appRepos "github.com/yigit/scholaris/internal/app/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminEmail    = "admin@scholaris.app"
	defaultAdminPassword = "Admin123!"

	defaultStaffEmail    = "staff@scholaris.app"
	defaultStaffPassword = "Staff123!"
)

// CreateDefaultData creates the default admin and staff accounts so a fresh
// installation has someone who can review applications. Passwords are
// development defaults and must be changed in any real deployment.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default staff accounts...")
	var finalErr error

	accounts := []struct {
		email     string
		password  string
		firstName string
		lastName  string
		role      appModels.RoleType
	}{
		{defaultAdminEmail, defaultAdminPassword, "System", "Administrator", appModels.RoleAdmin},
		{defaultStaffEmail, defaultStaffPassword, "Admissions", "Officer", appModels.RoleStaff},
	}

	for _, account := range accounts {
		exists, err := userRepo.EmailExists(ctx, account.email)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error checking seed account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			lgr.Debug().Str("email", account.email).Msg("Seed account already exists, skipping")
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error hashing seed account password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Email:     account.email,
			Password:  string(hashedPassword),
			FirstName: account.firstName,
			LastName:  account.lastName,
			RoleType:  account.role,
			IsActive:  true,
		}

		id, err := userRepo.Create(ctx, user)
		if err != nil {
			lgr.Error().Err(err).Str("email", account.email).Msg("Error creating seed account")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		lgr.Info().Int64("userID", id).Str("email", account.email).Str("role", string(account.role)).
			Msg("Seed account created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
