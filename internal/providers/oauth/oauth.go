package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

// Identity is what a provider tells us about the person who signed in.
type Identity struct {
	ProviderAccountID string
	Email             string
	Name              string
	Image             string
	Raw               json.RawMessage
}

type Provider interface {
	ID() string
	DisplayName() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Registry holds the enabled providers keyed by id.
type Registry map[string]Provider

func NewRegistry(ps ...Provider) Registry {
	r := Registry{}
	for _, p := range ps {
		if p != nil {
			r[p.ID()] = p
		}
	}
	return r
}

func (r Registry) Get(id string) (Provider, bool) {
	p, ok := r[id]
	return p, ok
}

// IDs returns provider ids in a stable order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var tracedClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

// withClient makes oauth2 use the traced HTTP client for token exchange.
func withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, tracedClient)
}
