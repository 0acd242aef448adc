package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Asnet-code/Specialisci/internal/api/handlers"
	"github.com/Asnet-code/Specialisci/internal/api/middleware"
	"github.com/Asnet-code/Specialisci/internal/models"
)

type Deps struct {
	Log         *logrus.Logger
	Sessions    middleware.SessionStore
	Metrics     *prometheus.Registry
	CORSOrigins []string

	Auth           *handlers.AuthHandler
	Register       *handlers.RegisterHandler
	OAuth          *handlers.OAuthHandler
	Pages          *handlers.PageHandler
	Admin          *handlers.AdminHandler
	Skills         *handlers.TaxonomyHandler
	Certifications *handlers.TaxonomyHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.CORS(d.CORSOrigins),
		middleware.Session(d.Sessions),
		middleware.RouteGuard(),
	)

	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.POST("/register", d.Register.Register)
	api.POST("/oauth/complete", d.OAuth.Complete)

	authAPI := api.Group("/auth")
	authAPI.GET("/providers", d.Auth.Providers)
	authAPI.GET("/signin/:provider", d.Auth.SignIn)
	authAPI.POST("/callback/credentials", d.Auth.Credentials)
	authAPI.GET("/callback/:provider", d.Auth.Callback)
	authAPI.GET("/session", d.Auth.Session)
	authAPI.POST("/session", d.Auth.Session)
	authAPI.POST("/signout", d.Auth.SignOut)

	fresh := middleware.FreshClaims(d.Sessions)

	adminAPI := api.Group("/admin", fresh)
	adminAPI.GET("/stats", d.Admin.StatsJSON)
	adminAPI.GET("/users", d.Admin.UsersJSON)
	adminAPI.GET("/skills", d.Skills.JSON)
	adminAPI.GET("/certifications", d.Certifications.JSON)
	adminAPI.GET("/cities", d.Admin.CitiesJSON)
	adminAPI.GET("/client-ads", d.Admin.AdsJSON(models.AdTypeClient))
	adminAPI.GET("/specialist-ads", d.Admin.AdsJSON(models.AdTypeSpecialist))

	// Pages
	r.GET("/", d.Pages.Home)
	r.GET("/login", d.Pages.Login)
	r.GET("/register", d.Pages.Register)
	r.GET("/specialisci", fresh, d.Pages.Specialists)
	r.GET("/oauth/finalize", d.OAuth.Finalize)
	r.NoRoute(d.Pages.NotFound)

	admin := r.Group("/admin", fresh)
	admin.GET("", d.Admin.Dashboard)

	admin.GET("/users", d.Admin.UsersPage)
	admin.POST("/users/create", d.Admin.CreateUser)
	admin.POST("/users/role", d.Admin.SetUserRole)
	admin.POST("/users/toggle-suspension", d.Admin.ToggleUserSuspension)

	for path, h := range map[string]*handlers.TaxonomyHandler{"/skills": d.Skills, "/certifications": d.Certifications} {
		admin.GET(path, h.Page)
		admin.POST(path+"/create", h.Create)
		admin.POST(path+"/toggle", h.Toggle)
		admin.POST(path+"/reorder", h.Reorder)
	}

	admin.GET("/cities", d.Admin.CitiesPage)
	admin.POST("/cities/create", d.Admin.CreateCity)
	admin.POST("/cities/coords", d.Admin.UpdateCityCoords)
	admin.POST("/cities/geocode", d.Admin.GeocodeCity)

	admin.GET("/client-ads", d.Admin.AdsPage(models.AdTypeClient))
	admin.GET("/specialist-ads", d.Admin.AdsPage(models.AdTypeSpecialist))
	admin.POST("/ads/status", d.Admin.SetAdStatus)
	admin.POST("/ads/delete", d.Admin.DeleteAd)
	admin.POST("/ads/extend", d.Admin.ExtendAd)
}
