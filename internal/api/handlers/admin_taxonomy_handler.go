package handlers

import (
	"net/http"

	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/gin-gonic/gin"
)

// TaxonomyHandler serves one reference list. Skills and certifications each
// get their own instance.
type TaxonomyHandler struct {
	svc   services.TaxonomyService
	path  string
	title string
}

func NewSkillHandler(svc services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc, path: services.PathSkills, title: "Umiejętności"}
}

func NewCertificationHandler(svc services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc, path: services.PathCertifications, title: "Certyfikaty"}
}

func (h *TaxonomyHandler) Page(c *gin.Context) {
	claims, ok := requireAdmin(c)
	if !ok {
		return
	}
	q := listQuery(c)
	rows, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "admin_taxonomy", gin.H{
		"Title":  h.title,
		"Claims": claims,
		"Path":   h.path,
		"Query":  q,
		"Rows":   rows,
	})
}

func (h *TaxonomyHandler) JSON(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	rows, err := h.svc.List(c.Request.Context(), listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

type createTaxonForm struct {
	Name         string `form:"name" binding:"required,min=2"`
	Slug         string `form:"slug"`
	DisplayOrder int    `form:"displayOrder" binding:"min=0"`
	IsActive     string `form:"isActive"`
}

func (h *TaxonomyHandler) Create(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f createTaxonForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("TaxonomyHandler.Create", err))
		return
	}
	_, err := h.svc.Create(c.Request.Context(), services.TaxonInput{
		Name:         f.Name,
		Slug:         f.Slug,
		DisplayOrder: f.DisplayOrder,
		IsActive:     optionalBool(f.IsActive),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, h.path)
}

type idForm struct {
	ID string `form:"id" binding:"required"`
}

func (h *TaxonomyHandler) Toggle(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f idForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("TaxonomyHandler.Toggle", err))
		return
	}
	if _, err := h.svc.Toggle(c.Request.Context(), f.ID); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, h.path)
}

type reorderForm struct {
	ID           string `form:"id" binding:"required"`
	DisplayOrder *int   `form:"displayOrder" binding:"required,min=0"`
}

func (h *TaxonomyHandler) Reorder(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f reorderForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("TaxonomyHandler.Reorder", err))
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), f.ID, *f.DisplayOrder); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, h.path)
}
