package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Asnet-code/Specialisci/internal/api/middleware"
	"github.com/Asnet-code/Specialisci/internal/auth"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const msgInternal = "Wystąpił błąd serwera."

func init() {
	// Validation messages name fields by their form/json key.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				if name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]; name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	}
}

type APIError struct {
	Error string `json:"error"`
}

// writeError answers JSON endpoints with {error}. Internal failures are
// attached to the context for the request log and never shown.
func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, APIError{Error: publicMessage(err, status)})
}

// renderError is writeError for pages and form actions.
func renderError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.HTML(status, "error", gin.H{
		"Title":   "Błąd",
		"Status":  status,
		"Message": publicMessage(err, status),
		"Claims":  middleware.ClaimsFrom(c),
	})
}

func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError && !utils.IsCode(err, utils.CodeUnavailable) {
		return msgInternal
	}
	return utils.PublicMessage(err, http.StatusText(status))
}

// bindError turns a gin binding failure into an INVALID_ARGUMENT error with
// a message naming the first offending field.
func bindError(op string, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return utils.E(utils.CodeInvalidArgument, op, fieldMessage(ve[0]), err)
	}
	return utils.E(utils.CodeInvalidArgument, op, "Nieprawidłowe dane żądania.", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Pole %s jest wymagane.", fe.Field())
	case "email":
		return fmt.Sprintf("Pole %s musi być poprawnym adresem e-mail.", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Pole %s musi mieć co najmniej %s znaki.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("Pole %s musi wynosić co najmniej %s.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Pole %s może wynosić najwyżej %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("Pole %s musi mieć jedną z wartości: %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Pole %s ma nieprawidłową wartość.", fe.Field())
	}
}

// requireAdmin re-checks the session behind the route guard.
func requireAdmin(c *gin.Context) (*auth.Claims, bool) {
	claims := middleware.ClaimsFrom(c)
	if claims.IsAdmin() {
		return claims, true
	}
	err := utils.E(utils.CodeForbidden, "Admin", "Brak uprawnień administratora.", nil)
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		writeError(c, err)
	} else {
		renderError(c, err)
	}
	c.Abort()
	return nil, false
}

// SessionCookie writes and clears the session token cookie.
type SessionCookie struct {
	TTL    time.Duration
	Secure bool
}

func (s SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(s.TTL.Seconds()), "/", "", s.Secure, true)
}

func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", s.Secure, true)
}

// wantsJSON reports whether the client posted or asked for JSON.
func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}
