package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/Asnet-code/Specialisci/internal/models"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
)

// Identity is the minimal description of a signed-in person.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

const msgBadCredentials = "Zły e-mail lub hasło"

type AuthService interface {
	// Authorize checks an email/password pair. Every failure looks the same.
	Authorize(ctx context.Context, email, password string) (*Identity, error)
	Issue(ctx context.Context, id Identity) (string, *auth.Claims, error)
	Refresh(ctx context.Context, raw string) (string, *auth.Claims, error)
	Parse(raw string) (*auth.Claims, error)
	// Enrich copies the stored role, status and consent onto claims. An
	// unknown email leaves claims as they are.
	Enrich(ctx context.Context, c *auth.Claims) error
}

type authService struct {
	users pgrepo.UserRepository
	codec *auth.Codec
}

func NewAuthService(users pgrepo.UserRepository, codec *auth.Codec) AuthService {
	return &authService{users: users, codec: codec}
}

func (s *authService) Authorize(ctx context.Context, email, password string) (*Identity, error) {
	const op = "AuthService.Authorize"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		utils.BurnPasswordCheck(password)
		return nil, utils.E(utils.CodeUnauthorized, op, msgBadCredentials, nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if u == nil || !u.HasPassword() {
		utils.BurnPasswordCheck(password)
		return nil, utils.E(utils.CodeUnauthorized, op, msgBadCredentials, nil)
	}
	if err := utils.CheckPassword(*u.Password, password); err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, msgBadCredentials, nil)
	}

	return identityOf(u), nil
}

func (s *authService) Issue(ctx context.Context, id Identity) (string, *auth.Claims, error) {
	const op = "AuthService.Issue"

	c := &auth.Claims{ID: id.ID, Email: id.Email, Name: id.Name, Image: id.Image}
	if err := s.Enrich(ctx, c); err != nil {
		return "", nil, err
	}
	raw, err := s.codec.Sign(c)
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to sign session", err)
	}
	return raw, c, nil
}

func (s *authService) Refresh(ctx context.Context, raw string) (string, *auth.Claims, error) {
	const op = "AuthService.Refresh"

	c, err := s.Parse(raw)
	if err != nil {
		return "", nil, err
	}
	if err := s.Enrich(ctx, c); err != nil {
		return "", nil, err
	}
	fresh, err := s.codec.Sign(c)
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to sign session", err)
	}
	return fresh, c, nil
}

func (s *authService) Parse(raw string) (*auth.Claims, error) {
	const op = "AuthService.Parse"

	if raw == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "Brak sesji.", nil)
	}
	c, err := s.codec.Parse(raw)
	if err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "Brak sesji.", err)
	}
	return c, nil
}

func (s *authService) Enrich(ctx context.Context, c *auth.Claims) error {
	const op = "AuthService.Enrich"

	if c == nil || c.Email == "" {
		return nil
	}
	u, err := s.users.GetByEmail(ctx, c.Email)
	if errors.Is(err, utils.ErrNotFound) {
		return nil
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	c.ID = u.ID
	c.Email = u.Email
	c.Role = u.Role
	c.Status = u.Status
	c.EmailVerified = u.EmailVerified != nil
	c.AcceptedPrivacyPolicy = u.PrivacyAccepted()
	if c.Name == "" && u.Name != nil {
		c.Name = *u.Name
	}
	if c.Image == "" && u.Image != nil {
		c.Image = *u.Image
	}
	return nil
}

func identityOf(u *models.User) *Identity {
	id := &Identity{ID: u.ID, Email: u.Email}
	if u.Name != nil {
		id.Name = *u.Name
	}
	if u.Image != nil {
		id.Image = *u.Image
	}
	return id
}
