package services

import (
	"strings"

	pgrepo "github.com/Asnet-code/Specialisci/internal/repositories/postgres"
)

// Listing pages revalidated by the admin actions.
const (
	PathDashboard      = "/admin"
	PathUsers          = "/admin/users"
	PathSkills         = "/admin/skills"
	PathCertifications = "/admin/certifications"
	PathCities         = "/admin/cities"
	PathClientAds      = "/admin/client-ads"
	PathSpecialistAds  = "/admin/specialist-ads"
)

// ListQuery is the raw, untrusted listing request from the query string.
type ListQuery struct {
	Q    string `form:"q" json:"q"`
	Sort string `form:"sort" json:"sort"`
	Dir  string `form:"dir" json:"dir"`
}

func (q ListQuery) variant() string {
	return strings.TrimSpace(q.Q) + "\x00" + q.Sort + "\x00" + q.Dir
}

// sortSpec whitelists the sortable fields of one listing.
type sortSpec struct {
	columns map[string]string
	def     string
	defDesc bool
	limit   int
}

func (s sortSpec) listing(q ListQuery) pgrepo.Listing {
	col, ok := s.columns[q.Sort]
	desc := s.defDesc
	if !ok {
		col = s.columns[s.def]
	}
	switch q.Dir {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}
	return pgrepo.Listing{
		Q:     strings.TrimSpace(q.Q),
		Sort:  col,
		Desc:  desc,
		Limit: s.limit,
	}
}

var (
	userSort = sortSpec{
		columns: map[string]string{"createdAt": "created_at", "email": "email", "role": "role", "status": "status"},
		def:     "createdAt",
		defDesc: true,
		limit:   100,
	}
	taxonSort = sortSpec{
		columns: map[string]string{"displayOrder": "display_order", "name": "name", "isActive": "is_active"},
		def:     "displayOrder",
		limit:   200,
	}
	citySort = sortSpec{
		columns: map[string]string{"name": "name", "slug": "slug"},
		def:     "name",
		limit:   300,
	}
	adSort = sortSpec{
		columns: map[string]string{
			"createdAt":  "a.created_at",
			"expiresAt":  "a.expires_at",
			"status":     "a.status",
			"salaryFrom": "a.salary_from",
			"salaryTo":   "a.salary_to",
		},
		def:     "createdAt",
		defDesc: true,
	}
)
