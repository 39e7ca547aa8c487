package handlers

import (
	"errors"
	"net/http"

	"associa_backend/internal/models"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler serves complaints (denuncias) and ratings (avaliacoes).
type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(fs services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: fs}
}

func (h *FeedbackHandler) CreateComplaint(c *gin.Context) {
	var req models.ComplaintPayload
	if !bindJSON(c, &req, "CreateComplaint") {
		return
	}

	complaint, err := h.feedbackService.CreateComplaint(c.Request.Context(), organizationID(c), userID(c), req)
	if err != nil {
		if errors.Is(err, services.ErrComplaintValidation) {
			respondBadRequest(c, "Descrição é obrigatória.", err)
			return
		}
		utils.LogError(err, "CreateComplaint: Error from feedbackService.CreateComplaint")
		utils.RespondInternalError(c, "Erro ao registrar denúncia.")
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *FeedbackHandler) GetComplaints(c *gin.Context) {
	complaints, err := h.feedbackService.GetComplaints(c.Request.Context(), organizationID(c))
	if err != nil {
		utils.LogError(err, "GetComplaints: Error from feedbackService.GetComplaints")
		utils.RespondInternalError(c, "Erro ao listar denúncias.")
		return
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *FeedbackHandler) UpdateComplaintStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.ComplaintStatusPayload
	if !bindJSON(c, &req, "UpdateComplaintStatus") {
		return
	}

	err := h.feedbackService.UpdateComplaintStatus(c.Request.Context(), organizationID(c), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidComplaintStatus):
			respondBadRequest(c, "Status inválido.", err)
		case errors.Is(err, services.ErrComplaintNotFound):
			respondNotFound(c, "Denúncia não encontrada.", err)
		default:
			utils.LogError(err, "UpdateComplaintStatus: Error from feedbackService.UpdateComplaintStatus")
			utils.RespondInternalError(c, "Erro ao atualizar denúncia.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status atualizado"})
}

func (h *FeedbackHandler) DeleteComplaint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.feedbackService.DeleteComplaint(c.Request.Context(), organizationID(c), id); err != nil {
		if errors.Is(err, services.ErrComplaintNotFound) {
			respondNotFound(c, "Denúncia não encontrada.", err)
			return
		}
		utils.LogError(err, "DeleteComplaint: Error from feedbackService.DeleteComplaint")
		utils.RespondInternalError(c, "Erro ao excluir denúncia.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Denúncia excluída"})
}

// SubmitRating stores the caller's rating, replacing any earlier one.
func (h *FeedbackHandler) SubmitRating(c *gin.Context) {
	var req models.RatingPayload
	if !bindJSON(c, &req, "SubmitRating") {
		return
	}

	rating, err := h.feedbackService.SubmitRating(c.Request.Context(), organizationID(c), userID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRatingScore):
			respondBadRequest(c, "Nota deve ser entre 1 e 5.", err)
		case errors.Is(err, services.ErrUserNotFound):
			respondNotFound(c, "Usuário não encontrado.", err)
		default:
			utils.LogError(err, "SubmitRating: Error from feedbackService.SubmitRating")
			utils.RespondInternalError(c, "Erro ao salvar avaliação.")
		}
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *FeedbackHandler) GetRatings(c *gin.Context) {
	summary, err := h.feedbackService.GetRatings(c.Request.Context(), organizationID(c))
	if err != nil {
		utils.LogError(err, "GetRatings: Error from feedbackService.GetRatings")
		utils.RespondInternalError(c, "Erro ao listar avaliações.")
		return
	}
	if summary.Ratings == nil {
		summary.Ratings = []models.Rating{}
	}
	c.JSON(http.StatusOK, summary)
}
