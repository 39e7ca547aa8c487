package handlers

import (
	"errors"
	"net/http"

	"associa_backend/internal/models"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MemberHandler holds the member service.
type MemberHandler struct {
	memberService services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(ms services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

// respondMemberError maps member service errors shared by create and update.
func respondMemberError(c *gin.Context, err error, handler, fallback string) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		respondNotFound(c, "Associado não encontrado.", err)
	case errors.Is(err, services.ErrNationalIDExists):
		respondConflict(c, "CPF já cadastrado.", err)
	case errors.Is(err, services.ErrMemberNumberTaken):
		respondConflict(c, "Número de associado já em uso.", err)
	case errors.Is(err, services.ErrMemberLimitReached):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Limite de sócios atingido.", err.Error()))
	case errors.Is(err, services.ErrMemberValidation), errors.Is(err, services.ErrDateFormat):
		respondBadRequest(c, "Validation failed: "+err.Error(), err)
	default:
		utils.LogError(err, handler+": Error from memberService")
		utils.RespondInternalError(c, fallback)
	}
}

// GetMembers handles the paginated, filtered member list.
func (h *MemberHandler) GetMembers(c *gin.Context) {
	var filter models.MemberFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error(), err)
		return
	}

	page, err := h.memberService.GetMembers(c.Request.Context(), organizationID(c), filter)
	if err != nil {
		utils.LogError(err, "GetMembers: Error from memberService.GetMembers")
		utils.RespondInternalError(c, "Erro ao listar associados.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCapacity reports how many member slots the organization has left.
func (h *MemberHandler) GetCapacity(c *gin.Context) {
	capacity, err := h.memberService.GetCapacity(c.Request.Context(), organizationID(c))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			respondNotFound(c, "Associação não encontrada.", err)
			return
		}
		utils.LogError(err, "GetCapacity: Error from memberService.GetCapacity")
		utils.RespondInternalError(c, "Erro ao calcular capacidade.")
		return
	}
	c.JSON(http.StatusOK, capacity)
}

// GetAllMembers returns the unpaginated id/number/name list used by pickers.
func (h *MemberHandler) GetAllMembers(c *gin.Context) {
	members, err := h.memberService.GetMemberSummaries(c.Request.Context(), organizationID(c))
	if err != nil {
		utils.LogError(err, "GetAllMembers: Error from memberService.GetMemberSummaries")
		utils.RespondInternalError(c, "Erro ao listar associados.")
		return
	}
	if members == nil {
		members = []models.MemberSummary{}
	}
	c.JSON(http.StatusOK, members)
}

// GetMemberByID handles fetching a single member by ID.
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), organizationID(c), id)
	if err != nil {
		respondMemberError(c, err, "GetMemberByID", "Erro ao buscar associado.")
		return
	}
	c.JSON(http.StatusOK, member)
}

// CreateMember handles the creation of a new member.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req models.MemberPayload
	if !bindJSON(c, &req, "CreateMember") {
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), organizationID(c), req)
	if err != nil {
		respondMemberError(c, err, "CreateMember", "Erro ao cadastrar associado.")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateMember handles updating a member.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.MemberPayload
	if !bindJSON(c, &req, "UpdateMember") {
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), organizationID(c), id, req)
	if err != nil {
		respondMemberError(c, err, "UpdateMember", "Erro ao atualizar associado.")
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteMember handles deleting a member together with their dues.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), organizationID(c), id); err != nil {
		respondMemberError(c, err, "DeleteMember", "Erro ao excluir associado.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Associado excluído"})
}
