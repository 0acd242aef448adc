package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const graphURL = "https://graph.facebook.com/v19.0"

type Facebook struct {
	cfg   *oauth2.Config
	graph string
}

// NewFacebook returns nil when the client is not configured.
func NewFacebook(clientID, clientSecret, redirectURL string) *Facebook {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &Facebook{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"email", "public_profile"},
		},
		graph: graphURL,
	}
}

func (f *Facebook) ID() string          { return "facebook" }
func (f *Facebook) DisplayName() string { return "Facebook" }

func (f *Facebook) AuthCodeURL(state string) string {
	return f.cfg.AuthCodeURL(state)
}

type fbUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (f *Facebook) Exchange(ctx context.Context, code string) (*Identity, error) {
	ctx = withClient(ctx)
	tok, err := f.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.graph+"/me?fields=id,name,email,picture", nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook: graph status %d", resp.StatusCode)
	}

	var u fbUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, errors.New("facebook: profile without id")
	}
	return &Identity{
		ProviderAccountID: u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Image:             u.Picture.Data.URL,
		Raw:               raw,
	}, nil
}
