package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/models"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
)

type CreateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
	Role     models.UserRole
}

type AdminUserService interface {
	Create(ctx context.Context, in CreateUserInput) (*models.User, error)
	SetRole(ctx context.Context, userID string, role models.UserRole) error
	ToggleSuspension(ctx context.Context, userID string) (models.UserStatus, error)
	List(ctx context.Context, q ListQuery) ([]models.User, error)
}

type adminUserService struct {
	users pgrepo.UserRepository
	pages *cache.Pages
	now   func() time.Time
}

func NewAdminUserService(users pgrepo.UserRepository, pages *cache.Pages) AdminUserService {
	return &adminUserService{users: users, pages: pages, now: time.Now}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *adminUserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	const op = "AdminUserService.Create"

	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || strings.ContainsAny(in.Email, "<> ") {
		return nil, invalid(op, "Nieprawidłowy adres e-mail.")
	}
	if len([]rune(in.Password)) < 6 {
		return nil, invalid(op, "Hasło musi mieć co najmniej 6 znaków.")
	}
	if !in.Role.Valid() {
		return nil, invalid(op, "Nieprawidłowa rola.")
	}

	hash, err := utils.HashPassword(in.Password, utils.AdminHashCost)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := s.now().UTC()
	accepted := true
	u := &models.User{
		Name:                  optional(in.Name),
		Surname:               optional(in.Surname),
		Email:                 in.Email,
		Password:              &hash,
		Role:                  in.Role,
		Status:                models.StatusActive,
		EmailVerified:         &now,
		AcceptedPrivacyPolicy: &accepted,
		AcceptedPrivacyAt:     &now,
	}
	if err := s.users.CreateWithProfile(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "E-mail jest już zajęty", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	s.pages.Revalidate(ctx, PathUsers)
	s.pages.Revalidate(ctx, PathDashboard)
	return u, nil
}

func (s *adminUserService) SetRole(ctx context.Context, userID string, role models.UserRole) error {
	const op = "AdminUserService.SetRole"

	if userID == "" {
		return invalid(op, "userId is required")
	}
	if !role.Valid() {
		return invalid(op, "Nieprawidłowa rola.")
	}
	if err := s.users.Update(ctx, userID, map[string]any{"role": role}); err != nil {
		return notFoundOr(op, "User not found", "failed to update role", err)
	}
	s.pages.Revalidate(ctx, PathUsers)
	return nil
}

func (s *adminUserService) ToggleSuspension(ctx context.Context, userID string) (models.UserStatus, error) {
	const op = "AdminUserService.ToggleSuspension"

	if userID == "" {
		return "", invalid(op, "userId is required")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", notFoundOr(op, "User not found", "failed to load user", err)
	}

	next := models.StatusSuspended
	if u.Status == models.StatusSuspended {
		next = models.StatusActive
	}
	if err := s.users.Update(ctx, userID, map[string]any{"status": next}); err != nil {
		return "", notFoundOr(op, "User not found", "failed to update status", err)
	}
	s.pages.Revalidate(ctx, PathUsers)
	return next, nil
}

func (s *adminUserService) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	const op = "AdminUserService.List"

	rows, err := cache.Load(ctx, s.pages, PathUsers, q.variant(), func(ctx context.Context) ([]models.User, error) {
		return s.users.List(ctx, userSort.listing(q))
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list users", err)
	}
	return rows, nil
}

// notFoundOr maps ErrNotFound to a NOT_FOUND error and anything else to INTERNAL.
func notFoundOr(op, notFound, internal string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, notFound, err)
	}
	return utils.E(utils.CodeInternal, op, internal, err)
}
