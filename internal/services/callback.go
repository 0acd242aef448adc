package services

import (
	"net/url"
	"strings"
)

// SafeCallbackURL keeps same-origin redirect targets and replaces anything
// else with "/". Absolute URLs on baseURL are reduced to their path.
func SafeCallbackURL(raw, baseURL string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "/"
	}
	if baseURL != "" && strings.HasPrefix(raw, baseURL+"/") {
		raw = strings.TrimPrefix(raw, baseURL)
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}
