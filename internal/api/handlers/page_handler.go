package handlers

import (
	"net/http"
	"strings"

	"github.com/Asnet-code/Specialisci/internal/api/middleware"
	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/gin-gonic/gin"
)

// PageHandler renders the public pages.
type PageHandler struct {
	oauth   services.OAuthService
	baseURL string
}

func NewPageHandler(o services.OAuthService, baseURL string) *PageHandler {
	return &PageHandler{oauth: o, baseURL: baseURL}
}

func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", gin.H{
		"Title":  "Specialisci",
		"Claims": middleware.ClaimsFrom(c),
	})
}

var loginErrors = map[string]string{
	"CredentialsSignin":     "Zły e-mail lub hasło",
	"OAuthCallback":         "Logowanie przez dostawcę nie powiodło się.",
	"OAuthAccountNotLinked": "Ten adres e-mail jest już przypisany do konta z inną metodą logowania. Zaloguj się tak jak poprzednio.",
}

func (h *PageHandler) Login(c *gin.Context) {
	var providers []services.ProviderInfo
	for _, p := range h.oauth.Providers() {
		if p.ID != "credentials" {
			providers = append(providers, p)
		}
	}
	errMsg := ""
	if code := c.Query("error"); code != "" {
		errMsg = loginErrors[code]
		if errMsg == "" {
			errMsg = "Nie udało się zalogować."
		}
	}
	c.HTML(http.StatusOK, "login", gin.H{
		"Title":       "Logowanie",
		"CallbackURL": services.SafeCallbackURL(c.Query("callbackUrl"), h.baseURL),
		"Providers":   providers,
		"Error":       errMsg,
	})
}

func (h *PageHandler) Register(c *gin.Context) {
	c.HTML(http.StatusOK, "register", gin.H{
		"Title": "Rejestracja",
		"Roles": []models.UserRole{models.RoleClient, models.RoleSpecialist},
	})
}

// Specialists shows the specialist area or a missing-permission notice.
func (h *PageHandler) Specialists(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	c.HTML(http.StatusOK, "specialisci", gin.H{
		"Title":        "Strefa specjalisty",
		"Claims":       claims,
		"IsSpecialist": claims != nil && claims.Role == models.RoleSpecialist,
	})
}

func (h *PageHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, APIError{Error: "Nie znaleziono."})
		return
	}
	c.HTML(http.StatusNotFound, "error", gin.H{
		"Title":   "Nie znaleziono",
		"Status":  http.StatusNotFound,
		"Message": "Strona nie istnieje.",
		"Claims":  middleware.ClaimsFrom(c),
	})
}
