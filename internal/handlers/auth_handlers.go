package handlers

import (
	"errors"
	"net/http"

	"associa_backend/internal/models"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.Credentials
	if !bindJSON(c, &req, "Login") {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Usuário ou senha inválidos.", ""))
		} else if errors.Is(err, services.ErrOrganizationInactive) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Associação inativa.", err.Error()))
		} else {
			utils.LogError(err, "Login: Error from authService.Login")
			utils.RespondInternalError(c, "Erro ao fazer login.")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user with fresh organization data.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), organizationID(c), userID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondNotFound(c, "Usuário não encontrado.", err)
		} else {
			utils.LogError(err, "Me: Error from authService.CurrentUser")
			utils.RespondInternalError(c, "Erro ao buscar usuário.")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /auth/senha.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordPayload
	if !bindJSON(c, &req, "ChangePassword") {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), organizationID(c), userID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			respondBadRequest(c, "Senha atual incorreta.", err)
		case errors.Is(err, services.ErrWeakPassword):
			respondBadRequest(c, "A nova senha deve ter no mínimo 6 caracteres.", err)
		case errors.Is(err, services.ErrUserNotFound):
			respondNotFound(c, "Usuário não encontrado.", err)
		default:
			utils.LogError(err, "ChangePassword: Error from authService.ChangePassword")
			utils.RespondInternalError(c, "Erro ao alterar senha.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Senha alterada com sucesso"})
}

// ListUsers lists the operators of the caller's organization.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context(), organizationID(c))
	if err != nil {
		utils.LogError(err, "ListUsers: Error from authService.ListUsers")
		utils.RespondInternalError(c, "Erro ao listar usuários.")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser adds an operator to the caller's organization.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserPayload
	if !bindJSON(c, &req, "CreateUser") {
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), organizationID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameExists):
			respondConflict(c, "Nome de usuário já existe.", err)
		case errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrUserValidation):
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		default:
			utils.LogError(err, "CreateUser: Error from authService.CreateUser")
			utils.RespondInternalError(c, "Erro ao criar usuário.")
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUser removes an operator of the caller's organization.
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.authService.DeleteUser(c.Request.Context(), organizationID(c), userID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCannotDeleteSelf):
			respondBadRequest(c, "Não é possível excluir o próprio usuário.", err)
		case errors.Is(err, services.ErrUserNotFound):
			respondNotFound(c, "Usuário não encontrado.", err)
		default:
			utils.LogError(err, "DeleteUser: Error from authService.DeleteUser")
			utils.RespondInternalError(c, "Erro ao excluir usuário.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário excluído"})
}

// CheckUsername reports whether ?username= is free within the caller's organization.
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	available, err := h.authService.UsernameAvailable(c.Request.Context(), organizationID(c), c.Query("username"))
	if err != nil {
		utils.LogError(err, "CheckUsername: Error from authService.UsernameAvailable")
		utils.RespondInternalError(c, "Erro ao verificar usuário.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"disponivel": available})
}
