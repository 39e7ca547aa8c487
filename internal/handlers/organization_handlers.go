package handlers

import (
	"errors"
	"net/http"

	"associa_backend/internal/models"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler serves the public sign-up endpoint.
type OrganizationHandler struct {
	organizationService services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(os services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizationService: os}
}

// Register handles POST /associacoes/cadastro.
func (h *OrganizationHandler) Register(c *gin.Context) {
	var req models.RegistrationPayload
	if !bindJSON(c, &req, "Register") {
		return
	}

	resp, err := h.organizationService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationEmailExists):
			respondConflict(c, "E-mail já cadastrado.", err)
		case errors.Is(err, services.ErrUsernameExists):
			respondConflict(c, "Nome de usuário já existe.", err)
		case errors.Is(err, services.ErrRegistrationValidation), errors.Is(err, services.ErrWeakPassword):
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		default:
			utils.LogError(err, "Register: Error from organizationService.Register")
			utils.RespondInternalError(c, "Erro ao cadastrar associação.")
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}
