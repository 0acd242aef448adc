package auth

import (
	"errors"
	"time"

	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session payload carried in the signed cookie.
type Claims struct {
	ID                    string            `json:"id,omitempty"`
	Email                 string            `json:"email"`
	Name                  string            `json:"name,omitempty"`
	Image                 string            `json:"picture,omitempty"`
	Role                  models.UserRole   `json:"role,omitempty"`
	Status                models.UserStatus `json:"status,omitempty"`
	EmailVerified         bool              `json:"emailVerified,omitempty"`
	AcceptedPrivacyPolicy bool              `json:"acceptedPrivacyPolicy"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims checks.
func (c *Claims) Validate() error {
	if c.Email == "" {
		return errors.New("token has no email")
	}
	if c.Role != "" && !c.Role.Valid() {
		return errors.New("token has unknown role")
	}
	if c.Status != "" && !c.Status.Valid() {
		return errors.New("token has unknown status")
	}
	return nil
}

func (c *Claims) IsAdmin() bool { return c != nil && c.Role == models.RoleAdmin }

// Codec signs and verifies session tokens with HS256.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret, issuer string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign stamps fresh issued-at and expiry times onto claims and signs them.
func (c *Codec) Sign(claims *Claims) (string, error) {
	now := c.now()
	claims.Subject = claims.ID
	claims.Issuer = c.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// CookieName is the cookie holding the signed session token.
const CookieName = "session-token"
