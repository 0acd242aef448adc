package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Asnet-code/Specialisci/internal/cache"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/providers/oauth"
	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const oauthStateTTL = 10 * time.Minute

type ProviderInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SignInURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}

type OAuthService interface {
	Providers() []ProviderInfo
	// Begin stores a single-use state and returns the provider consent URL.
	Begin(ctx context.Context, provider, callbackURL string) (string, error)
	// Complete consumes the state, resolves the local user and returns the
	// identity to issue a session for plus where to send the browser.
	Complete(ctx context.Context, provider, code, state string) (*Identity, string, error)
	// FinalizeRole assigns CLIENT or SPECIALIST to the user behind email.
	FinalizeRole(ctx context.Context, email string, role models.UserRole) error
}

type oauthState struct {
	Provider    string `json:"provider"`
	CallbackURL string `json:"callbackUrl"`
}

type oauthService struct {
	providers oauth.Registry
	users     pgrepo.UserRepository
	accounts  pgrepo.AccountRepository
	states    cache.Cache
	baseURL   string
	now       func() time.Time
}

func NewOAuthService(providers oauth.Registry, users pgrepo.UserRepository, accounts pgrepo.AccountRepository, states cache.Cache, baseURL string) OAuthService {
	return &oauthService{
		providers: providers,
		users:     users,
		accounts:  accounts,
		states:    states,
		baseURL:   baseURL,
		now:       time.Now,
	}
}

func stateKey(state string) string { return "oauth:state:" + state }

func (s *oauthService) Providers() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(s.providers)+1)
	for _, id := range s.providers.IDs() {
		p, _ := s.providers.Get(id)
		out = append(out, ProviderInfo{
			ID:          id,
			Name:        p.DisplayName(),
			SignInURL:   s.baseURL + "/api/auth/signin/" + id,
			CallbackURL: s.baseURL + "/api/auth/callback/" + id,
		})
	}
	out = append(out, ProviderInfo{
		ID:          "credentials",
		Name:        "credentials",
		SignInURL:   s.baseURL + "/api/auth/signin/credentials",
		CallbackURL: s.baseURL + "/api/auth/callback/credentials",
	})
	return out
}

func (s *oauthService) Begin(ctx context.Context, provider, callbackURL string) (string, error) {
	const op = "OAuthService.Begin"

	p, ok := s.providers.Get(provider)
	if !ok {
		return "", utils.E(utils.CodeNotFound, op, "Nieznany dostawca logowania.", nil)
	}

	state := uuid.NewString()
	st := oauthState{Provider: provider, CallbackURL: SafeCallbackURL(callbackURL, s.baseURL)}
	if err := s.states.SetJSON(ctx, stateKey(state), st, oauthStateTTL); err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to store sign-in state", err)
	}
	return p.AuthCodeURL(state), nil
}

func (s *oauthService) Complete(ctx context.Context, provider, code, state string) (*Identity, string, error) {
	const op = "OAuthService.Complete"

	p, ok := s.providers.Get(provider)
	if !ok {
		return nil, "", utils.E(utils.CodeNotFound, op, "Nieznany dostawca logowania.", nil)
	}
	if state == "" || code == "" {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "Nieprawidłowy stan logowania.", nil)
	}

	var st oauthState
	hit, err := s.states.TakeJSON(ctx, stateKey(state), &st)
	if err != nil {
		return nil, "", utils.E(utils.CodeUnavailable, op, "failed to read sign-in state", err)
	}
	if !hit || st.Provider != provider {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "Nieprawidłowy stan logowania.", nil)
	}

	ident, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "Logowanie przez dostawcę nie powiodło się.", err)
	}
	if strings.TrimSpace(ident.Email) == "" {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "Dostawca nie udostępnił adresu e-mail.", nil)
	}

	u, err := s.resolveUser(ctx, provider, ident)
	if errors.Is(err, ErrAccountNotLinked) {
		return nil, "", utils.E(utils.CodeConflict, op, "Konto z tym adresem e-mail używa innej metody logowania.", err)
	}
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to resolve user", err)
	}

	id := identityOf(u)
	if id.Name == "" {
		id.Name = ident.Name
	}
	if id.Image == "" {
		id.Image = ident.Image
	}
	callback := st.CallbackURL
	if callback == "" {
		callback = "/"
	}
	return id, callback, nil
}

// ErrAccountNotLinked means the provider email belongs to a user who never
// linked that provider.
var ErrAccountNotLinked = errors.New("oauth account not linked")

// resolveUser finds the user by linked account and creates one when the
// email is free. An email owned by an unlinked user is refused.
func (s *oauthService) resolveUser(ctx context.Context, provider string, ident *oauth.Identity) (*models.User, error) {
	u, err := s.accounts.FindUser(ctx, provider, ident.ProviderAccountID)
	if err == nil {
		return u, s.applyFixups(ctx, u)
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	acct := &models.Account{
		Provider:          provider,
		ProviderAccountID: ident.ProviderAccountID,
		Profile:           datatypes.JSON(ident.Raw),
	}

	exists, err := s.users.EmailExists(ctx, ident.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountNotLinked
	}

	u = &models.User{
		Email:  ident.Email,
		Role:   models.RoleClient,
		Status: models.StatusPendingEmailVerify,
	}
	if ident.Name != "" {
		u.Name = &ident.Name
	}
	if ident.Image != "" {
		u.Image = &ident.Image
	}
	if err := s.accounts.CreateUserWithAccount(ctx, u, acct); err != nil {
		return nil, err
	}
	return u, s.applyFixups(ctx, u)
}

// applyFixups verifies the email, activates the account and accepts the
// privacy policy for password-less users. Only changed fields are written.
func (s *oauthService) applyFixups(ctx context.Context, u *models.User) error {
	now := s.now().UTC()
	updates := map[string]any{}
	if u.EmailVerified == nil {
		updates["email_verified"] = now
		u.EmailVerified = &now
	}
	if u.Status != models.StatusActive {
		updates["status"] = models.StatusActive
		u.Status = models.StatusActive
	}
	if !u.HasPassword() && (u.AcceptedPrivacyPolicy == nil || !*u.AcceptedPrivacyPolicy) {
		accepted := true
		updates["accepted_privacy_policy"] = true
		updates["accepted_privacy_at"] = now
		u.AcceptedPrivacyPolicy = &accepted
		u.AcceptedPrivacyAt = &now
	}
	if len(updates) == 0 {
		return nil
	}
	return s.users.Update(ctx, u.ID, updates)
}

func (s *oauthService) FinalizeRole(ctx context.Context, email string, role models.UserRole) error {
	const op = "OAuthService.FinalizeRole"

	if !role.Selectable() {
		return utils.E(utils.CodeInvalidArgument, op, "Nieprawidłowa rola.", nil)
	}
	if email == "" {
		return utils.E(utils.CodeUnauthorized, op, "Brak sesji.", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "Użytkownik nie istnieje.", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	if err := s.users.FinalizeRole(ctx, u.ID, role, s.now().UTC()); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "Użytkownik nie istnieje.", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to finalize role", err)
	}
	return nil
}
