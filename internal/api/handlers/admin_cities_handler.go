package handlers

import (
	"net/http"

	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/gin-gonic/gin"
)

func (h *AdminHandler) CitiesPage(c *gin.Context) {
	claims, ok := requireAdmin(c)
	if !ok {
		return
	}
	q := listQuery(c)
	rows, err := h.cities.List(c.Request.Context(), q)
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "admin_cities", gin.H{
		"Title":  "Miasta",
		"Claims": claims,
		"Query":  q,
		"Rows":   rows,
	})
}

func (h *AdminHandler) CitiesJSON(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	rows, err := h.cities.List(c.Request.Context(), listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Coordinates arrive as text so a blank field stays distinguishable from 0.
type createCityForm struct {
	Name string `form:"name" binding:"required,min=2"`
	Slug string `form:"slug"`
	Lat  string `form:"lat"`
	Lng  string `form:"lng"`
}

func (h *AdminHandler) CreateCity(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f createCityForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.CreateCity", err))
		return
	}
	_, err := h.cities.Create(c.Request.Context(), services.CityInput{
		Name: f.Name,
		Slug: f.Slug,
		Lat:  optionalFloat(f.Lat),
		Lng:  optionalFloat(f.Lng),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.PathCities)
}

type cityCoordsForm struct {
	ID  string `form:"id" binding:"required"`
	Lat string `form:"lat" binding:"required"`
	Lng string `form:"lng" binding:"required"`
}

func (h *AdminHandler) UpdateCityCoords(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f cityCoordsForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.UpdateCityCoords", err))
		return
	}
	err := h.cities.UpdateCoords(c.Request.Context(), f.ID, requiredFloat(f.Lat), requiredFloat(f.Lng))
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.PathCities)
}

func (h *AdminHandler) GeocodeCity(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f idForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.GeocodeCity", err))
		return
	}
	if _, err := h.cities.Geocode(c.Request.Context(), f.ID); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.PathCities)
}
