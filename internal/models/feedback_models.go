package models

import "time"

// Complaint statuses.
const (
	ComplaintPending   = "pendente"
	ComplaintReviewing = "em_analise"
	ComplaintResolved  = "resolvida"
	ComplaintArchived  = "arquivada"

	AnonymousReporter = "Anônimo"
)

// ValidComplaintStatus reports whether s is a known complaint status.
func ValidComplaintStatus(s string) bool {
	switch s {
	case ComplaintPending, ComplaintReviewing, ComplaintResolved, ComplaintArchived:
		return true
	}
	return false
}

// Complaint ("denuncia") filed by an operator on behalf of a resident.
type Complaint struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"associacao_id" db:"associacao_id"`
	UserID         *int64    `json:"user_id" db:"user_id"`
	Type           string    `json:"tipo" db:"tipo"`
	Category       *string   `json:"categoria" db:"categoria"`
	Description    string    `json:"descricao" db:"descricao"`
	ReporterName   *string   `json:"nome_denunciante" db:"nome_denunciante"`
	Contact        *string   `json:"contato" db:"contato"`
	Anonymous      bool      `json:"anonima" db:"anonima"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	UserName *string `json:"nome_usuario,omitempty"`
}

// ComplaintPayload for POST /denuncias
type ComplaintPayload struct {
	Type         string  `json:"tipo"`
	Category     *string `json:"categoria"`
	Description  string  `json:"descricao"`
	ReporterName *string `json:"nome_denunciante"`
	Contact      *string `json:"contato"`
	Anonymous    bool    `json:"anonima"`
}

// ComplaintStatusPayload for PUT /denuncias/:id/status
type ComplaintStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// Rating ("avaliacao") of the system by one operator. One per user.
type Rating struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"associacao_id" db:"associacao_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Score          int       `json:"nota" db:"nota"`
	Comment        *string   `json:"comentario" db:"comentario"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	UserName *string `json:"nome_usuario,omitempty"`
}

// RatingPayload for POST /avaliacoes
type RatingPayload struct {
	Score   int     `json:"nota"`
	Comment *string `json:"comentario"`
}

// RatingSummary for GET /avaliacoes
type RatingSummary struct {
	Ratings []Rating `json:"avaliacoes"`
	Average float64  `json:"media"`
	Total   int      `json:"total"`
}
