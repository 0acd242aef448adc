package handlers

import (
	"net/http"

	"github.com/Asnet-code/Specialisci/internal/services"
	"github.com/Asnet-code/Specialisci/internal/utils"
	"github.com/gin-gonic/gin"
)

type RegisterHandler struct {
	svc services.RegistrationService
}

func NewRegisterHandler(svc services.RegistrationService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

func (h *RegisterHandler) Register(c *gin.Context) {
	const op = "RegisterHandler.Register"

	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "Nieprawidłowe dane żądania.", err))
		return
	}

	u, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u})
}
