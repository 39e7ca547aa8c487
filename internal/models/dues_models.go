package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DuesPending = "Pendente"
	DuesPaid    = "Pago"

	// DuesAmountKey is the configuration key holding the default monthly amount.
	DuesAmountKey = "valor_mensalidade"
)

// Money is sent as JSON numbers in every binary that imports models.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultDuesAmount applies when the organization has no valor_mensalidade.
var DefaultDuesAmount = decimal.NewFromInt(30)

// DuesRecord ("mensalidade") is one month's obligation for one member.
// At most one record exists per (member, month, year).
type DuesRecord struct {
	ID             int64           `json:"id" db:"id"`
	OrganizationID int64           `json:"associacao_id" db:"associacao_id"`
	MemberID       int64           `json:"associado_id" db:"associado_id"`
	Month          int             `json:"mes" db:"mes"`
	Year           int             `json:"ano" db:"ano"`
	Amount         decimal.Decimal `json:"valor" db:"valor"`
	PaymentDate    *string         `json:"data_pagamento" db:"data_pagamento"` // YYYY-MM-DD
	Status         string          `json:"status" db:"status"`
	ReceiptNumber  *string         `json:"recibo_numero" db:"recibo_numero"`
	Note           *string         `json:"observacao" db:"observacao"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`

	// Joined from associados on list queries.
	MemberName     string  `json:"associado_nome,omitempty"`
	MemberNumber   string  `json:"associado_numero,omitempty"`
	MemberWhatsApp *string `json:"whatsapp,omitempty"`
}

// DuesFilter holds the list query parameters. Zero values mean "any".
type DuesFilter struct {
	MemberID int64  `form:"associado_id"`
	Year     int    `form:"ano"`
	Month    int    `form:"mes"`
	Status   string `form:"status"`
}

// GenerateDuesPayload for POST /mensalidades/gerar-mes
type GenerateDuesPayload struct {
	Month  int              `json:"mes" binding:"required"`
	Year   int              `json:"ano" binding:"required"`
	Amount *decimal.Decimal `json:"valor"`
}

// MarkPaidPayload for POST /mensalidades/:id/pagar
type MarkPaidPayload struct {
	PaymentDate *string `json:"data_pagamento"`
	Note        *string `json:"observacao"`
}

// CreateDuesPayload for ad hoc records.
type CreateDuesPayload struct {
	MemberID    int64           `json:"associado_id" binding:"required"`
	Month       int             `json:"mes" binding:"required"`
	Year        int             `json:"ano" binding:"required"`
	Amount      decimal.Decimal `json:"valor"`
	Status      string          `json:"status"`
	PaymentDate *string         `json:"data_pagamento"`
	Note        *string         `json:"observacao"`
}

// ArrearsEntry is an active member with at least one pending record.
type ArrearsEntry struct {
	MemberID      int64           `json:"id"`
	Number        string          `json:"numero"`
	Name          string          `json:"nome"`
	Phone         *string         `json:"telefone"`
	WhatsApp      *string         `json:"whatsapp"`
	PendingMonths int             `json:"meses_pendentes"`
	TotalOwed     decimal.Decimal `json:"total_devido"`
}
