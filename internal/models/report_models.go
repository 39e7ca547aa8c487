package models

import "github.com/shopspring/decimal"

// MonthlyPayments is the paid total for one month of the current year.
type MonthlyPayments struct {
	Month int             `json:"mes"`
	Year  int             `json:"ano"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"qtd"`
}

// MonthlyJoins counts members whose join date falls in a month ("01".."12").
type MonthlyJoins struct {
	Month string `json:"mes"`
	Count int    `json:"qtd"`
}

// DashboardSummary holds key metrics for the dashboard.
// Keys are camelCase to match the existing frontend.
type DashboardSummary struct {
	ActiveMembers      int               `json:"totalAtivos"`
	InactiveMembers    int               `json:"totalInativos"`
	TotalMembers       int               `json:"totalAssociados"`
	MemberLimit        int               `json:"limite"`
	CollectedThisMonth decimal.Decimal   `json:"arrecadadoMes"`
	PendingThisMonth   decimal.Decimal   `json:"pendenteMes"`
	MembersInArrears   int               `json:"inadimplentes"`
	NewThisMonth       int               `json:"novosMes"`
	PaymentsByMonth    []MonthlyPayments `json:"pagamentosPorMes"`
	JoinsByMonth       []MonthlyJoins    `json:"associadosPorMes"`
}

// FinancialSummary aggregates a period's dues of active members.
type FinancialSummary struct {
	Total           int             `json:"total"`
	Paid            int             `json:"pagos"`
	Pending         int             `json:"pendentes"`
	AmountCollected decimal.Decimal `json:"valor_arrecadado"`
	AmountPending   decimal.Decimal `json:"valor_pendente"`
}

// FinancialReport for GET /relatorios/financeiro
type FinancialReport struct {
	Payments []DuesRecord     `json:"pagamentos"`
	Summary  FinancialSummary `json:"resumo"`
}

// PeriodParams holds the mes/ano query parameters of period reports.
type PeriodParams struct {
	Month int `form:"mes" binding:"required"`
	Year  int `form:"ano" binding:"required"`
}
