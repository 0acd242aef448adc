package handlers

import (
	"net/http"

	"github.com/Asnet-code/Specialisci/internal/models"
	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/gin-gonic/gin"
)

func (h *AdminHandler) UsersPage(c *gin.Context) {
	claims, ok := requireAdmin(c)
	if !ok {
		return
	}
	q := listQuery(c)
	rows, err := h.users.List(c.Request.Context(), q)
	if err != nil {
		renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "admin_users", gin.H{
		"Title":  "Użytkownicy",
		"Claims": claims,
		"Query":  q,
		"Rows":   rows,
		"Roles":  []models.UserRole{models.RoleClient, models.RoleSpecialist, models.RoleAdmin},
	})
}

func (h *AdminHandler) UsersJSON(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	rows, err := h.users.List(c.Request.Context(), listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

type createUserForm struct {
	Name     string `form:"name"`
	Surname  string `form:"surname"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Role     string `form:"role" binding:"omitempty,oneof=CLIENT SPECIALIST ADMIN"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f createUserForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.CreateUser", err))
		return
	}
	_, err := h.users.Create(c.Request.Context(), services.CreateUserInput{
		Name:     f.Name,
		Surname:  f.Surname,
		Email:    f.Email,
		Password: f.Password,
		Role:     models.UserRole(f.Role),
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.PathUsers)
}

type userRoleForm struct {
	UserID string `form:"userId" binding:"required"`
	Role   string `form:"role" binding:"required,oneof=CLIENT SPECIALIST ADMIN"`
}

func (h *AdminHandler) SetUserRole(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f userRoleForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.SetUserRole", err))
		return
	}
	if err := h.users.SetRole(c.Request.Context(), f.UserID, models.UserRole(f.Role)); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.PathUsers)
}

type userIDForm struct {
	UserID string `form:"userId" binding:"required"`
}

func (h *AdminHandler) ToggleUserSuspension(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var f userIDForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, bindError("AdminHandler.ToggleUserSuspension", err))
		return
	}
	if _, err := h.users.ToggleSuspension(c.Request.Context(), f.UserID); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, services.PathUsers)
}
