package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"associa_backend/internal/models"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DuesHandler holds the dues service.
type DuesHandler struct {
	duesService services.DuesService
}

// NewDuesHandler creates a new DuesHandler.
func NewDuesHandler(ds services.DuesService) *DuesHandler {
	return &DuesHandler{duesService: ds}
}

func respondDuesError(c *gin.Context, err error, handler, fallback string) {
	switch {
	case errors.Is(err, services.ErrDuesNotFound):
		respondNotFound(c, "Mensalidade não encontrada.", err)
	case errors.Is(err, services.ErrMemberNotFound):
		respondNotFound(c, "Associado não encontrado.", err)
	case errors.Is(err, services.ErrDuesExists):
		respondConflict(c, "Mensalidade já existe para este mês/ano.", err)
	case errors.Is(err, services.ErrInvalidPeriod), errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidDuesData), errors.Is(err, services.ErrDateFormat):
		respondBadRequest(c, "Validation failed: "+err.Error(), err)
	default:
		utils.LogError(err, handler+": Error from duesService")
		utils.RespondInternalError(c, fallback)
	}
}

// GetDues lists dues records filtered by member, year, month and status.
func (h *DuesHandler) GetDues(c *gin.Context) {
	var filter models.DuesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error(), err)
		return
	}

	records, err := h.duesService.GetDues(c.Request.Context(), organizationID(c), filter)
	if err != nil {
		respondDuesError(c, err, "GetDues", "Erro ao listar mensalidades.")
		return
	}
	if records == nil {
		records = []models.DuesRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// GetArrears lists active members with pending dues.
func (h *DuesHandler) GetArrears(c *gin.Context) {
	entries, err := h.duesService.GetArrears(c.Request.Context(), organizationID(c))
	if err != nil {
		respondDuesError(c, err, "GetArrears", "Erro ao listar inadimplentes.")
		return
	}
	if entries == nil {
		entries = []models.ArrearsEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// GenerateMonth creates the period's pending records for all active members.
func (h *DuesHandler) GenerateMonth(c *gin.Context) {
	var req models.GenerateDuesPayload
	if !bindJSON(c, &req, "GenerateMonth") {
		return
	}

	created, err := h.duesService.GenerateMonth(c.Request.Context(), organizationID(c), req.Month, req.Year, req.Amount)
	if err != nil {
		respondDuesError(c, err, "GenerateMonth", "Erro ao gerar mensalidades.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d mensalidades geradas para %d/%d", created, req.Month, req.Year),
		"criados": created,
	})
}

// MarkPaid registers a payment. The body is optional.
func (h *DuesHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.MarkPaidPayload
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "Invalid request payload: "+err.Error(), err)
		return
	}

	receipt, err := h.duesService.MarkPaid(c.Request.Context(), organizationID(c), id, req)
	if err != nil {
		respondDuesError(c, err, "MarkPaid", "Erro ao registrar pagamento.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pagamento registrado", "recibo_numero": receipt})
}

// RevertPayment moves a paid record back to pending.
func (h *DuesHandler) RevertPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.duesService.RevertPayment(c.Request.Context(), organizationID(c), id); err != nil {
		respondDuesError(c, err, "RevertPayment", "Erro ao cancelar pagamento.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pagamento cancelado"})
}

// CreateDues records a single ad hoc period for one member.
func (h *DuesHandler) CreateDues(c *gin.Context) {
	var req models.CreateDuesPayload
	if !bindJSON(c, &req, "CreateDues") {
		return
	}

	record, err := h.duesService.CreateDues(c.Request.Context(), organizationID(c), req)
	if err != nil {
		respondDuesError(c, err, "CreateDues", "Erro ao criar mensalidade.")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// DeleteDues removes one dues record.
func (h *DuesHandler) DeleteDues(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.duesService.DeleteDues(c.Request.Context(), organizationID(c), id); err != nil {
		respondDuesError(c, err, "DeleteDues", "Erro ao excluir mensalidade.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mensalidade excluída"})
}
