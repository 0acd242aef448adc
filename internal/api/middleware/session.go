package middleware

import (
	"context"
	"strings"

	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

type ClaimsEnricher interface {
	Enrich(ctx context.Context, c *auth.Claims) error
}

type SessionStore interface {
	TokenParser
	ClaimsEnricher
}

// Session decodes the session token when present and valid. It never
// rejects a request; guards decide what an absent session means.
func Session(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := SessionToken(c)
		if raw == "" {
			c.Next()
			return
		}
		claims, err := p.Parse(raw)
		if err == nil {
			c.Set(claimsKey, claims)
			c.Set("user_id", claims.ID)
			c.Set("role", string(claims.Role))
		}
		c.Next()
	}
}

// FreshClaims reloads role and status from storage before handlers that
// authorize on them. A failed lookup drops the session.
func FreshClaims(e ClaimsEnricher) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.Next()
			return
		}
		if err := e.Enrich(c.Request.Context(), claims); err != nil {
			_ = c.Error(err)
			c.Set(claimsKey, (*auth.Claims)(nil))
			c.Next()
			return
		}
		SetClaims(c, claims)
		c.Next()
	}
}

// SessionToken reads the cookie first, then a Bearer header.
func SessionToken(c *gin.Context) string {
	if v, err := c.Cookie(auth.CookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// ClaimsFrom returns the decoded session or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl
		}
	}
	return nil
}

// SetClaims replaces the request session, used after a cookie is re-issued.
func SetClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
	c.Set("user_id", claims.ID)
	c.Set("role", string(claims.Role))
}
