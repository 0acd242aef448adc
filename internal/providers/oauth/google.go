package oauth

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type Google struct {
	cfg *oauth2.Config
	// apiEndpoint overrides the userinfo API base URL.
	apiEndpoint string
}

// NewGoogle returns nil when the client is not configured.
func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &Google{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}}
}

func (g *Google) ID() string          { return "google" }
func (g *Google) DisplayName() string { return "Google" }

func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *Google) Exchange(ctx context.Context, code string) (*Identity, error) {
	ctx = withClient(ctx)
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithHTTPClient(g.cfg.Client(ctx, tok))}
	if g.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(g.apiEndpoint))
	}
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if info.Id == "" {
		return nil, errors.New("google: userinfo without id")
	}

	raw, _ := json.Marshal(info)
	return &Identity{
		ProviderAccountID: info.Id,
		Email:             info.Email,
		Name:              info.Name,
		Image:             info.Picture,
		Raw:               raw,
	}, nil
}
