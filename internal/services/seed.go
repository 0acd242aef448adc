package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Asnet-code/Specialisci/internal/models"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/sirupsen/logrus"
)

// SeedFirstAdmin creates an ADMIN account on an empty install. It does
// nothing when credentials are not configured or the email already exists.
func SeedFirstAdmin(ctx context.Context, users pgrepo.UserRepository, email, password string, log *logrus.Logger) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		log.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		log.WithField("email", email).Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := utils.HashPassword(password, utils.AdminHashCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	now := time.Now().UTC()
	accepted := true
	u := &models.User{
		Email:                 email,
		Password:              &hash,
		Role:                  models.RoleAdmin,
		Status:                models.StatusActive,
		EmailVerified:         &now,
		AcceptedPrivacyPolicy: &accepted,
		AcceptedPrivacyAt:     &now,
	}
	if err := users.CreateWithProfile(ctx, u); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.WithField("email", email).Info("created first admin user")
	return nil
}
