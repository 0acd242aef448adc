package geocoding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup is best effort: transport and decoding failures are reported as
// "no result".
func (n *Nominatim) Lookup(ctx context.Context, name string) (*Coordinates, error) {
	q := url.Values{}
	q.Set("q", name+", Polska")
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "pl")
	q.Set("countrycodes", "pl")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, nil
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil || len(places) == 0 {
		return nil, nil
	}

	lat, err1 := strconv.ParseFloat(places[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(places[0].Lon, 64)
	if err1 != nil || err2 != nil || !finite(lat) || !finite(lng) {
		return nil, nil
	}
	return &Coordinates{Lat: lat, Lng: lng}, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
