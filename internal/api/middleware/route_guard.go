package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

func isAdminPath(p string) bool {
	return p == "/admin" || strings.HasPrefix(p, "/admin/") ||
		p == "/api/admin" || strings.HasPrefix(p, "/api/admin/")
}

// RouteGuard runs after Session. Admin areas need an ADMIN session: the API
// answers 401, pages redirect to the login form. Signed-in users skip the
// login and register pages.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		claims := ClaimsFrom(c)

		switch {
		case isAdminPath(path):
			if claims.IsAdmin() {
				break
			}
			if strings.HasPrefix(path, "/api/admin") {
				c.String(http.StatusUnauthorized, "Unauthorized")
				c.Abort()
				return
			}
			target := path
			if c.Request.URL.RawQuery != "" {
				target += "?" + c.Request.URL.RawQuery
			}
			c.Redirect(http.StatusFound, "/login?callbackUrl="+url.QueryEscape(target))
			c.Abort()
			return

		case path == "/login" || path == "/register":
			if claims != nil {
				c.Redirect(http.StatusFound, "/")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
