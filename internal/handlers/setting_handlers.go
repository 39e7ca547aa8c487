package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"associa_backend/internal/models"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler serves the organization configuration and the backup endpoints.
type SettingHandler struct {
	settingService services.SettingService
	backupService  services.BackupService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(ss services.SettingService, bs services.BackupService) *SettingHandler {
	return &SettingHandler{settingService: ss, backupService: bs}
}

// GetSettings returns the configuration map merged with the organization profile.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingService.GetSettings(c.Request.Context(), organizationID(c))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			respondNotFound(c, "Associação não encontrada.", err)
			return
		}
		utils.LogError(err, "GetSettings: Error from settingService.GetSettings")
		utils.RespondInternalError(c, "Erro ao carregar configurações.")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// settingValue renders a decoded JSON scalar the way it is stored.
func settingValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

// SaveSettings stores every key of the JSON object in one transaction.
func (h *SettingHandler) SaveSettings(c *gin.Context) {
	var body map[string]interface{}
	if !bindJSON(c, &body, "SaveSettings") {
		return
	}
	values := make(map[string]string, len(body))
	for key, raw := range body {
		value, err := settingValue(raw)
		if err != nil {
			respondBadRequest(c, "Valor inválido para "+key+".", err)
			return
		}
		values[key] = value
	}

	err := h.settingService.SaveSettings(c.Request.Context(), organizationID(c), values)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSettingValidation):
			respondBadRequest(c, "Validation failed: "+err.Error(), err)
		case errors.Is(err, services.ErrOrganizationEmailExists):
			respondConflict(c, "E-mail já cadastrado.", err)
		case errors.Is(err, services.ErrOrganizationNotFound):
			respondNotFound(c, "Associação não encontrada.", err)
		default:
			utils.LogError(err, "SaveSettings: Error from settingService.SaveSettings")
			utils.RespondInternalError(c, "Erro ao salvar configurações.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Configurações salvas"})
}

// CreateBackup takes an on-demand database snapshot.
func (h *SettingHandler) CreateBackup(c *gin.Context) {
	name, err := h.backupService.CreateBackup(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrBackupUnsupported) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotImplemented, utils.ErrCodeNotImplemented, "Backup indisponível para este banco de dados.", err.Error()))
			return
		}
		utils.LogError(err, "CreateBackup: Error from backupService.CreateBackup")
		utils.RespondInternalError(c, "Erro ao criar backup.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Backup criado", "arquivo": name})
}

// ListBackups lists the snapshots in the backup directory, newest first.
func (h *SettingHandler) ListBackups(c *gin.Context) {
	backups, err := h.backupService.ListBackups(c.Request.Context())
	if err != nil {
		utils.LogError(err, "ListBackups: Error from backupService.ListBackups")
		utils.RespondInternalError(c, "Erro ao listar backups.")
		return
	}
	if backups == nil {
		backups = []models.BackupInfo{}
	}
	c.JSON(http.StatusOK, backups)
}

// DownloadBackup sends one snapshot as an attachment.
func (h *SettingHandler) DownloadBackup(c *gin.Context) {
	name := c.Param("arquivo")
	path, err := h.backupService.BackupPath(name)
	if err != nil {
		respondNotFound(c, "Arquivo não encontrado.", err)
		return
	}
	c.FileAttachment(path, name)
}
