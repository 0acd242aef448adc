package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/gin-gonic/gin"
)

var adTitles = map[models.AdType]string{
	models.AdTypeClient:     "Ogłoszenia klientów",
	models.AdTypeSpecialist: "Ogłoszenia specjalistów",
}

func adQuery(c *gin.Context) services.AdQuery {
	var q services.AdQuery
	_ = c.ShouldBindQuery(&q)
	return q
}

// pageHref links to another page of the same filtered listing.
func pageHref(path string, q services.AdQuery, page int) string {
	v := url.Values{}
	for k, val := range map[string]string{"q": q.Q, "sort": q.Sort, "dir": q.Dir, "status": q.Status, "remote": q.Remote} {
		if val != "" {
			v.Set(k, val)
		}
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	v.Set("page", strconv.Itoa(page))
	return path + "?" + v.Encode()
}

// AdsPage renders the listing of one ad table.
func (h *AdminHandler) AdsPage(t models.AdType) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireAdmin(c)
		if !ok {
			return
		}
		q := adQuery(c)
		page, err := h.ads.List(c.Request.Context(), t, q)
		if err != nil {
			renderError(c, err)
			return
		}
		path := services.AdPath(t)
		data := gin.H{
			"Title":    adTitles[t],
			"Claims":   claims,
			"AdType":   string(t),
			"Path":     path,
			"Query":    q,
			"Page":     page,
			"Statuses": []models.AdStatus{models.AdActive, models.AdClosed, models.AdArchived},
		}
		if page.Page > 1 {
			data["PrevHref"] = pageHref(path, q, page.Page-1)
		}
		if page.Page < page.TotalPages {
			data["NextHref"] = pageHref(path, q, page.Page+1)
		}
		c.HTML(http.StatusOK, "admin_ads", data)
	}
}

func (h *AdminHandler) AdsJSON(t models.AdType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireAdmin(c); !ok {
			return
		}
		page, err := h.ads.List(c.Request.Context(), t, adQuery(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

type adForm struct {
	AdType string `form:"adType" binding:"required,oneof=client specialist"`
	ID     string `form:"id" binding:"required"`
}

type adStatusForm struct {
	adForm
	Status string `form:"status" binding:"required,oneof=ACTIVE CLOSED ARCHIVED"`
}

func (h *AdminHandler) SetAdStatus(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f adStatusForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.SetAdStatus", err))
		return
	}
	t := models.AdType(f.AdType)
	if err := h.ads.SetStatus(c.Request.Context(), t, f.ID, models.AdStatus(f.Status)); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.AdPath(t))
}

func (h *AdminHandler) DeleteAd(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f adForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.DeleteAd", err))
		return
	}
	t := models.AdType(f.AdType)
	if err := h.ads.Delete(c.Request.Context(), t, f.ID); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.AdPath(t))
}

type adExtendForm struct {
	adForm
	Days string `form:"days"`
}

func (h *AdminHandler) ExtendAd(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f adExtendForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.ExtendAd", err))
		return
	}
	days, err := optionalInt(f.Days)
	if err != nil {
		renderError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.ExtendAd", "Liczba dni musi być liczbą całkowitą.", err))
		return
	}
	t := models.AdType(f.AdType)
	if _, err := h.ads.Extend(c.Request.Context(), t, f.ID, days); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.AdPath(t))
}
