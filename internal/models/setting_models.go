package models

import "time"

// Setting is a per-organization key/value pair ("configuracao").
type Setting struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"associacao_id" db:"associacao_id"`
	Key            string    `json:"chave" db:"chave" binding:"required"`
	Value          string    `json:"valor" db:"valor"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Organization profile keys. They live on the associacoes row, not in configuracoes.
const (
	SettingOrgName    = "nome_associacao"
	SettingOrgCNPJ    = "cnpj_associacao"
	SettingOrgAddress = "endereco_associacao"
	SettingOrgPhone   = "telefone_associacao"
	SettingOrgEmail   = "email_associacao"
	SettingOrgCity    = "cidade_associacao"
	SettingOrgState   = "estado_associacao"
	SettingOrgLimit   = "limite_socios"
	SettingPresident  = "presidente"
)

// BackupInfo describes one file in the backup directory.
type BackupInfo struct {
	File     string    `json:"arquivo"`
	Size     int64     `json:"tamanho"`
	Modified time.Time `json:"data"`
}
