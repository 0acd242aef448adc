package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codec = auth.NewCodec("0123456789abcdef0123456789abcdef", "specialisci", time.Hour)

func init() { gin.SetMode(gin.TestMode) }

func guardedRouter() *gin.Engine {
	r := gin.New()
	r.Use(Session(codec), RouteGuard())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/admin", ok)
	r.GET("/admin/users", ok)
	r.GET("/api/admin/users", ok)
	r.GET("/login", ok)
	r.GET("/register", ok)
	r.GET("/administrator", ok)
	r.GET("/", ok)
	return r
}

func token(t *testing.T, role models.UserRole) string {
	t.Helper()
	raw, err := codec.Sign(&auth.Claims{ID: "u-1", Email: "u@example.com", Role: role, Status: models.StatusActive})
	require.NoError(t, err)
	return raw
}

func do(r http.Handler, path, tok string, bearer bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		if bearer {
			req.Header.Set("Authorization", "Bearer "+tok)
		} else {
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouteGuard_AdminPages(t *testing.T) {
	r := guardedRouter()

	w := do(r, "/admin/users?q=jan", "", false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fadmin%2Fusers%3Fq%3Djan", w.Header().Get("Location"))

	w = do(r, "/admin/users", token(t, models.RoleClient), false)
	assert.Equal(t, http.StatusFound, w.Code)

	w = do(r, "/admin/users", token(t, models.RoleAdmin), false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/admin", token(t, models.RoleAdmin), true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuard_AdminAPI(t *testing.T) {
	r := guardedRouter()

	w := do(r, "/api/admin/users", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", w.Body.String())

	w = do(r, "/api/admin/users", token(t, models.RoleSpecialist), true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/api/admin/users", "tampered.token.value", true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/api/admin/users", token(t, models.RoleAdmin), true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuard_AuthPagesAndOthers(t *testing.T) {
	r := guardedRouter()

	for _, p := range []string{"/login", "/register"} {
		w := do(r, p, token(t, models.RoleClient), false)
		assert.Equal(t, http.StatusFound, w.Code, p)
		assert.Equal(t, "/", w.Header().Get("Location"))

		w = do(r, p, "", false)
		assert.Equal(t, http.StatusOK, w.Code, p)
	}

	// prefix match is per path segment
	w := do(r, "/administrator", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, "/", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSession_ExposesClaims(t *testing.T) {
	r := gin.New()
	r.Use(Session(codec))
	r.GET("/me", func(c *gin.Context) {
		cl := ClaimsFrom(c)
		if cl == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.String(http.StatusOK, string(cl.Role))
	})

	w := do(r, "/me", token(t, models.RoleSpecialist), false)
	assert.Equal(t, "SPECIALIST", w.Body.String())
	w = do(r, "/me", "garbage", false)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type enricherFunc func(ctx context.Context, c *auth.Claims) error

func (f enricherFunc) Enrich(ctx context.Context, c *auth.Claims) error { return f(ctx, c) }

func TestFreshClaims(t *testing.T) {
	demote := enricherFunc(func(_ context.Context, c *auth.Claims) error {
		c.Role = models.RoleClient
		return nil
	})
	fail := enricherFunc(func(context.Context, *auth.Claims) error { return errors.New("db down") })

	for _, tc := range []struct {
		name     string
		enricher ClaimsEnricher
		code     int
		body     string
	}{
		{"reloaded role wins", demote, http.StatusOK, "CLIENT"},
		{"lookup failure drops the session", fail, http.StatusNoContent, ""},
	} {
		r := gin.New()
		r.Use(Session(codec), FreshClaims(tc.enricher))
		r.GET("/me", func(c *gin.Context) {
			cl := ClaimsFrom(c)
			if cl == nil {
				c.Status(http.StatusNoContent)
				return
			}
			c.String(http.StatusOK, string(cl.Role))
		})

		w := do(r, "/me", token(t, models.RoleAdmin), false)
		assert.Equal(t, tc.code, w.Code, tc.name)
		assert.Equal(t, tc.body, w.Body.String(), tc.name)
	}
}
