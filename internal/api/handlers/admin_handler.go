package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin dashboard and the entity pages, form
// actions and JSON reads under /admin and /api/admin.
type AdminHandler struct {
	users  services.AdminUserService
	cities services.CityService
	ads    services.AdService
	stats  services.StatsService
}

func NewAdminHandler(users services.AdminUserService, cities services.CityService, ads services.AdService, stats services.StatsService) *AdminHandler {
	return &AdminHandler{users: users, cities: cities, ads: ads, stats: stats}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	claims, ok := requireAdmin(c)
	if !ok {
		return
	}
	s, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "admin_dashboard", gin.H{
		"Title":  "Panel administratora",
		"Claims": claims,
		"Stats":  s,
	})
}

func (h *AdminHandler) StatsJSON(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	s, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func listQuery(c *gin.Context) services.ListQuery {
	var q services.ListQuery
	_ = c.ShouldBindQuery(&q)
	return q
}

// optionalFloat parses a form number; blank or malformed input is nil.
func optionalFloat(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func requiredFloat(s string) float64 {
	if f := optionalFloat(s); f != nil {
		return *f
	}
	return math.NaN()
}

// optionalInt parses a form integer; a blank field is nil.
func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// optionalBool accepts "true" and "false"; anything else is nil.
func optionalBool(s string) *bool {
	switch strings.TrimSpace(s) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
