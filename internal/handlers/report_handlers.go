package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"associa_backend/internal/models"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves dashboards, period reports and spreadsheet exports.
type ReportHandler struct {
	reportService services.ReportService
	exportService services.ExportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService, es services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: rs, exportService: es}
}

// GetDashboard provides a summary of key metrics for the dashboard.
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	summary, err := h.reportService.GetDashboard(c.Request.Context(), organizationID(c))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			respondNotFound(c, "Associação não encontrada.", err)
			return
		}
		utils.LogError(err, "GetDashboard: Error from reportService.GetDashboard")
		utils.RespondInternalError(c, "Erro ao carregar dashboard.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetFinancialReport returns the period's dues with a paid/pending summary.
func (h *ReportHandler) GetFinancialReport(c *gin.Context) {
	var params models.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "mes e ano são obrigatórios.", err)
		return
	}

	report, err := h.reportService.GetFinancialReport(c.Request.Context(), organizationID(c), params.Month, params.Year)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
			return
		}
		utils.LogError(err, "GetFinancialReport: Error from reportService.GetFinancialReport")
		utils.RespondInternalError(c, "Erro ao gerar relatório financeiro.")
		return
	}
	if report.Payments == nil {
		report.Payments = []models.DuesRecord{}
	}
	c.JSON(http.StatusOK, report)
}

// ExportMembers streams the member list as an xlsx attachment.
func (h *ReportHandler) ExportMembers(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.ExportMembers(c.Request.Context(), organizationID(c), &buf); err != nil {
		utils.LogError(err, "ExportMembers: Error from exportService.ExportMembers")
		utils.RespondInternalError(c, "Erro ao exportar associados.")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=socios.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportDues streams one period's dues as an xlsx attachment.
func (h *ReportHandler) ExportDues(c *gin.Context) {
	var params models.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "mes e ano são obrigatórios.", err)
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportDues(c.Request.Context(), organizationID(c), params.Month, params.Year, &buf); err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
			return
		}
		utils.LogError(err, "ExportDues: Error from exportService.ExportDues")
		utils.RespondInternalError(c, "Erro ao exportar mensalidades.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=mensalidades_%02d_%d.xlsx", params.Month, params.Year))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
