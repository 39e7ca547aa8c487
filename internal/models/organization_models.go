package models

import "time"

const (
	OrganizationActive   = "ativo"
	OrganizationInactive = "inativo"

	DefaultMemberLimit = 1000
)

// Organization is a tenant. Every other row references one.
type Organization struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"nome" db:"nome"`
	CNPJ        string    `json:"cnpj" db:"cnpj"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"telefone" db:"telefone"`
	City        string    `json:"cidade" db:"cidade"`
	State       string    `json:"estado" db:"estado"`
	Address     string    `json:"endereco" db:"endereco"`
	MemberLimit int       `json:"limite_socios" db:"limite_socios"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RegistrationPayload is the public sign-up form: the organization plus its first admin.
type RegistrationPayload struct {
	Name      string `json:"nome" binding:"required"`
	CNPJ      string `json:"cnpj"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"telefone"`
	City      string `json:"cidade"`
	State     string `json:"estado"`
	AdminName string `json:"nomeAdmin" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"senha" binding:"required"`
}

// RegistrationResponse for POST /associacoes/cadastro
type RegistrationResponse struct {
	Message      string        `json:"message"`
	Token        string        `json:"token"`
	User         SessionUser   `json:"user"`
	Organization *Organization `json:"associacao"`
}
