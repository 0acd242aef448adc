package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Asnet-code/Specialisci/internal/models"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
)

var personNameRe = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿĄĆĘŁŃÓŚŹŻąćęłńóśźż\s-]+$`)

// RegisterInput mirrors the JSON body of the registration endpoint. Pointer
// fields distinguish "absent" from "empty".
type RegisterInput struct {
	Name                 string          `json:"name"`
	Surname              string          `json:"surname"`
	Email                string          `json:"email"`
	Password             string          `json:"password"`
	PasswordConfirmation *string         `json:"passwordConfirmation"`
	Role                 models.UserRole `json:"role"`
	AcceptPrivacyPolicy  *bool           `json:"acceptPrivacyPolicy"`
}

type RegisteredUser struct {
	ID     string            `json:"id"`
	Email  string            `json:"email"`
	Role   models.UserRole   `json:"role"`
	Status models.UserStatus `json:"status"`
}

type RegistrationService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisteredUser, error)
}

type registrationService struct {
	users pgrepo.UserRepository
	now   func() time.Time
}

func NewRegistrationService(users pgrepo.UserRepository) RegistrationService {
	return &registrationService{users: users, now: time.Now}
}

func invalid(op, msg string) error { return utils.E(utils.CodeInvalidArgument, op, msg, nil) }

// validate applies the checks in the order clients rely on; the first
// failing check decides the message.
func (in *RegisterInput) validate(op string) error {
	switch {
	case in.Email == "" || in.Password == "" || in.Role == "":
		return invalid(op, "Brak wymaganych pól: email, password, role")
	case !in.Role.Selectable():
		return invalid(op, "Nieprawidłowa rola. Dozwolone: CLIENT, SPECIALIST")
	case in.AcceptPrivacyPolicy == nil || !*in.AcceptPrivacyPolicy:
		return invalid(op, "Musisz zaakceptować politykę prywatności")
	case len([]rune(strings.TrimSpace(in.Name))) < 3:
		return invalid(op, "Imię musi zawierać co najmniej 3 znaki")
	case !personNameRe.MatchString(in.Name):
		return invalid(op, "Imię może zawierać tylko litery, spacje i myślnik")
	case len([]rune(strings.TrimSpace(in.Surname))) < 2:
		return invalid(op, "Nazwisko musi zawierać co najmniej 2 znaki")
	case !personNameRe.MatchString(in.Surname):
		return invalid(op, "Nazwisko może zawierać tylko litery, spacje i myślnik")
	case len([]rune(in.Password)) < 8:
		return invalid(op, "Hasło musi mieć co najmniej 8 znaków")
	case in.PasswordConfirmation != nil && *in.PasswordConfirmation != in.Password:
		return invalid(op, "Hasła nie są takie same")
	}
	return nil
}

func (s *registrationService) Register(ctx context.Context, in RegisterInput) (*RegisteredUser, error) {
	const op = "RegistrationService.Register"

	in.Email = strings.TrimSpace(in.Email)
	if err := in.validate(op); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "Błąd serwera podczas rejestracji", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "E-mail jest już zajęty", nil)
	}

	hash, err := utils.HashPassword(in.Password, utils.RegisterHashCost)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "Błąd serwera podczas rejestracji", err)
	}

	now := s.now().UTC()
	accepted := true
	name := strings.TrimSpace(in.Name)
	surname := strings.TrimSpace(in.Surname)
	u := &models.User{
		Name:                  &name,
		Surname:               &surname,
		Email:                 in.Email,
		Password:              &hash,
		Role:                  in.Role,
		Status:                models.StatusPendingEmailVerify,
		AcceptedPrivacyPolicy: &accepted,
		AcceptedPrivacyAt:     &now,
	}
	if err := s.users.CreateWithProfile(ctx, u); err != nil {
		// a concurrent registration can still win the unique index
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "E-mail jest już zajęty", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "Błąd serwera podczas rejestracji", err)
	}

	return &RegisteredUser{ID: u.ID, Email: u.Email, Role: u.Role, Status: u.Status}, nil
}
