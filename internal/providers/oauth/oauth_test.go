package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// tokenServer answers the code exchange and delegates everything else to api.
func tokenServer(t *testing.T, api http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/", api)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testEndpoint(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func TestNewProvidersRequireCredentials(t *testing.T) {
	assert.Nil(t, NewGoogle("", "secret", "http://x/cb"))
	assert.Nil(t, NewFacebook("id", "", "http://x/cb"))
	assert.NotNil(t, NewGoogle("id", "secret", "http://x/cb"))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewFacebook("id", "s", "cb"), NewGoogle("id", "s", "cb"))
	assert.Equal(t, []string{"facebook", "google"}, r.IDs())
	_, ok := r.Get("github")
	assert.False(t, ok)
}

func TestGoogle_AuthCodeURLCarriesState(t *testing.T) {
	g := NewGoogle("client-1", "secret", "https://app.pl/api/auth/callback/google")
	u, err := url.Parse(g.AuthCodeURL("st-1"))
	require.NoError(t, err)
	assert.Equal(t, "st-1", u.Query().Get("state"))
	assert.Equal(t, "client-1", u.Query().Get("client_id"))
	assert.Equal(t, "https://app.pl/api/auth/callback/google", u.Query().Get("redirect_uri"))
}

func TestGoogle_Exchange(t *testing.T) {
	srv := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/v2/userinfo", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-42","email":"anna@example.com","name":"Anna","picture":"https://img/a.png"}`))
	})

	g := NewGoogle("id", "secret", "cb")
	g.cfg.Endpoint = testEndpoint(srv)
	g.apiEndpoint = srv.URL + "/"

	id, err := g.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "g-42", id.ProviderAccountID)
	assert.Equal(t, "anna@example.com", id.Email)
	assert.Equal(t, "https://img/a.png", id.Image)
	assert.Contains(t, string(id.Raw), "g-42")
}

func TestFacebook_Exchange(t *testing.T) {
	srv := tokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "id,name,email,picture", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"id":"fb-7","name":"Piotr","email":"piotr@example.com","picture":{"data":{"url":"https://img/p.jpg"}}}`))
	})

	f := NewFacebook("id", "secret", "cb")
	f.cfg.Endpoint = testEndpoint(srv)
	f.graph = srv.URL

	id, err := f.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "fb-7", id.ProviderAccountID)
	assert.Equal(t, "piotr@example.com", id.Email)
	assert.Equal(t, "https://img/p.jpg", id.Image)
}

func TestFacebook_GraphError(t *testing.T) {
	srv := tokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad"}}`))
	})

	f := NewFacebook("id", "secret", "cb")
	f.cfg.Endpoint = testEndpoint(srv)
	f.graph = srv.URL

	_, err := f.Exchange(context.Background(), "the-code")
	assert.Error(t, err)
}
