package handlers

import (
	"net/http"

	"github.com/Asnet-code/Specialisci/internal/api/middleware"
	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/gin-gonic/gin"
)

// OAuthHandler exposes role finalization after a first OAuth sign-in. Both
// transports share OAuthService.FinalizeRole.
type OAuthHandler struct {
	oauth  services.OAuthService
	auth   services.AuthService
	cookie SessionCookie
}

func NewOAuthHandler(o services.OAuthService, a services.AuthService, cookie SessionCookie) *OAuthHandler {
	return &OAuthHandler{oauth: o, auth: a, cookie: cookie}
}

type completeRequest struct {
	Role models.UserRole `json:"role"`
}

func (h *OAuthHandler) Complete(c *gin.Context) {
	const op = "OAuthHandler.Complete"

	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.Email == "" {
		writeError(c, utils.E(utils.CodeUnauthorized, op, "Brak sesji.", nil))
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "Nieprawidłowe dane żądania.", err))
		return
	}

	if err := h.oauth.FinalizeRole(c.Request.Context(), claims.Email, req.Role); err != nil {
		writeError(c, err)
		return
	}
	h.reissue(c, claims)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Finalize is the browser variant: every outcome is a redirect.
func (h *OAuthHandler) Finalize(c *gin.Context) {
	role := models.UserRole(c.Query("role"))
	if !role.Selectable() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.Email == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	err := h.oauth.FinalizeRole(c.Request.Context(), claims.Email, role)
	switch {
	case utils.IsCode(err, utils.CodeNotFound):
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		renderError(c, err)
		return
	}
	h.reissue(c, claims)
	c.Redirect(http.StatusFound, "/")
}

// reissue signs a fresh session so the new role reaches the route guard.
// A failure here only delays that until the next refresh.
func (h *OAuthHandler) reissue(c *gin.Context, prev *auth.Claims) {
	token, claims, err := h.auth.Issue(c.Request.Context(), services.Identity{
		ID:    prev.ID,
		Email: prev.Email,
		Name:  prev.Name,
		Image: prev.Image,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.cookie.Set(c, token)
	middleware.SetClaims(c, claims)
}
