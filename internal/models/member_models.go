package models

import "time"

const (
	MemberActive   = "Ativo"
	MemberInactive = "Inativo"
)

// Member ("associado") belongs to exactly one organization.
// Number is sequential within the organization and zero padded to four digits.
type Member struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"associacao_id" db:"associacao_id"`
	Number         string    `json:"numero" db:"numero"`
	Name           string    `json:"nome" db:"nome"`
	CPF            string    `json:"cpf" db:"cpf"`
	RG             *string   `json:"rg" db:"rg"`
	BirthDate      *string   `json:"data_nascimento" db:"data_nascimento"` // YYYY-MM-DD
	MotherName     *string   `json:"nome_mae" db:"nome_mae"`
	FatherName     *string   `json:"nome_pai" db:"nome_pai"`
	ZipCode        *string   `json:"cep" db:"cep"`
	Street         *string   `json:"logradouro" db:"logradouro"`
	StreetNumber   *string   `json:"numero_end" db:"numero_end"`
	Complement     *string   `json:"complemento" db:"complemento"`
	District       *string   `json:"bairro" db:"bairro"`
	City           *string   `json:"cidade" db:"cidade"`
	State          *string   `json:"estado" db:"estado"`
	Phone          *string   `json:"telefone" db:"telefone"`
	WhatsApp       *string   `json:"whatsapp" db:"whatsapp"`
	MaritalStatus  *string   `json:"estado_civil" db:"estado_civil"`
	Occupation     *string   `json:"profissao" db:"profissao"`
	NIS            *string   `json:"nis" db:"nis"`
	JoinDate       *string   `json:"data_entrada" db:"data_entrada"` // YYYY-MM-DD
	Status         string    `json:"situacao" db:"situacao"`
	Notes          *string   `json:"observacoes" db:"observacoes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// MemberSummary is the short form used by pickers (GET /associados/todos).
type MemberSummary struct {
	ID     int64  `json:"id"`
	Number string `json:"numero"`
	Name   string `json:"nome"`
	Status string `json:"situacao"`
}

// MemberFilter holds the list query parameters.
type MemberFilter struct {
	Status string `form:"situacao"`
	Search string `form:"busca"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// MemberPage is a paginated member listing.
type MemberPage struct {
	Members []Member `json:"associados"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
}

// Capacity compares the member count with the organization's limit.
type Capacity struct {
	Total     int `json:"total"`
	Active    int `json:"ativos"`
	Limit     int `json:"limite"`
	Available int `json:"disponivel"`
	Percent   int `json:"percentual"`
}

// MemberPayload is the create/update body. Blank optional fields are stored as NULL.
type MemberPayload struct {
	Name          string  `json:"nome" binding:"required"`
	CPF           string  `json:"cpf" binding:"required"`
	RG            *string `json:"rg"`
	BirthDate     *string `json:"data_nascimento"`
	MotherName    *string `json:"nome_mae"`
	FatherName    *string `json:"nome_pai"`
	ZipCode       *string `json:"cep"`
	Street        *string `json:"logradouro"`
	StreetNumber  *string `json:"numero_end"`
	Complement    *string `json:"complemento"`
	District      *string `json:"bairro"`
	City          *string `json:"cidade"`
	State         *string `json:"estado"`
	Phone         *string `json:"telefone"`
	WhatsApp      *string `json:"whatsapp"`
	MaritalStatus *string `json:"estado_civil"`
	Occupation    *string `json:"profissao"`
	NIS           *string `json:"nis"`
	JoinDate      *string `json:"data_entrada"`
	Status        string  `json:"situacao"`
	Notes         *string `json:"observacoes"`
}
