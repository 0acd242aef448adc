package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Asnet-code/Specialisci/internal/api/middleware"
	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth    services.AuthService
	oauth   services.OAuthService
	cookie  SessionCookie
	baseURL string
}

func NewAuthHandler(a services.AuthService, o services.OAuthService, cookie SessionCookie, baseURL string) *AuthHandler {
	return &AuthHandler{auth: a, oauth: o, cookie: cookie, baseURL: baseURL}
}

func (h *AuthHandler) Providers(c *gin.Context) {
	out := map[string]services.ProviderInfo{}
	for _, p := range h.oauth.Providers() {
		out[p.ID] = p
	}
	c.JSON(http.StatusOK, out)
}

func loginURL(errCode, callback string) string {
	q := url.Values{}
	if errCode != "" {
		q.Set("error", errCode)
	}
	if callback != "" && callback != "/" {
		q.Set("callbackUrl", callback)
	}
	if len(q) == 0 {
		return "/login"
	}
	return "/login?" + q.Encode()
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	provider := c.Param("provider")
	callback := services.SafeCallbackURL(c.Query("callbackUrl"), h.baseURL)

	if provider == "credentials" {
		c.Redirect(http.StatusFound, loginURL("", callback))
		return
	}

	consent, err := h.oauth.Begin(c.Request.Context(), provider, callback)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, consent)
}

// Callback finishes a provider round-trip. Failures land on the login page
// with a generic error code; the cause goes to the request log.
func (h *AuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")
	ctx := c.Request.Context()

	if c.Query("error") != "" {
		c.Redirect(http.StatusFound, loginURL("OAuthCallback", ""))
		return
	}

	ident, callback, err := h.oauth.Complete(ctx, provider, c.Query("code"), c.Query("state"))
	if errors.Is(err, services.ErrAccountNotLinked) {
		c.Redirect(http.StatusFound, loginURL("OAuthAccountNotLinked", ""))
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.Redirect(http.StatusFound, loginURL("OAuthCallback", ""))
		return
	}

	token, claims, err := h.auth.Issue(ctx, *ident)
	if err != nil {
		_ = c.Error(err)
		c.Redirect(http.StatusFound, loginURL("OAuthCallback", ""))
		return
	}
	h.cookie.Set(c, token)
	middleware.SetClaims(c, claims)
	c.Redirect(http.StatusFound, callback)
}

type credentialsRequest struct {
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	CallbackURL string `form:"callbackUrl" json:"callbackUrl"`
}

// Credentials signs in with email and password. Form posts are redirected,
// JSON clients get {ok, url}.
func (h *AuthHandler) Credentials(c *gin.Context) {
	const op = "AuthHandler.Credentials"
	ctx := c.Request.Context()
	asJSON := wantsJSON(c)

	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, bindError(op, err))
		return
	}
	callback := services.SafeCallbackURL(req.CallbackURL, h.baseURL)

	ident, err := h.auth.Authorize(ctx, req.Email, req.Password)
	if err == nil {
		var token string
		var claims *auth.Claims
		token, claims, err = h.auth.Issue(ctx, *ident)
		if err == nil {
			h.cookie.Set(c, token)
			middleware.SetClaims(c, claims)
		}
	}

	switch {
	case err != nil && asJSON:
		writeError(c, err)
	case err != nil && utils.IsCode(err, utils.CodeUnauthorized):
		c.Redirect(http.StatusSeeOther, loginURL("CredentialsSignin", callback))
	case err != nil:
		renderError(c, err)
	case asJSON:
		c.JSON(http.StatusOK, gin.H{"ok": true, "url": h.baseURL + callback})
	default:
		c.Redirect(http.StatusSeeOther, callback)
	}
}

type sessionUser struct {
	ID                    string `json:"id"`
	Email                 string `json:"email"`
	Name                  string `json:"name,omitempty"`
	Image                 string `json:"image,omitempty"`
	Role                  string `json:"role"`
	Status                string `json:"status"`
	AcceptedPrivacyPolicy bool   `json:"acceptedPrivacyPolicy"`
}

type sessionResponse struct {
	User    sessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// Session re-reads the user and re-issues the cookie. Without a valid
// session it answers with an empty object.
func (h *AuthHandler) Session(c *gin.Context) {
	raw := middleware.SessionToken(c)
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	token, claims, err := h.auth.Refresh(c.Request.Context(), raw)
	if utils.IsCode(err, utils.CodeUnauthorized) {
		h.cookie.Clear(c)
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	h.cookie.Set(c, token)
	middleware.SetClaims(c, claims)

	resp := sessionResponse{User: sessionUser{
		ID:                    claims.ID,
		Email:                 claims.Email,
		Name:                  claims.Name,
		Image:                 claims.Image,
		Role:                  string(claims.Role),
		Status:                string(claims.Status),
		AcceptedPrivacyPolicy: claims.AcceptedPrivacyPolicy,
	}}
	if claims.ExpiresAt != nil {
		resp.Expires = claims.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	h.cookie.Clear(c)

	callback := services.SafeCallbackURL(c.PostForm("callbackUrl"), h.baseURL)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "url": h.baseURL + callback})
		return
	}
	c.Redirect(http.StatusSeeOther, callback)
}
