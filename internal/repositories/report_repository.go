package repositories

import (
	"context"
	"fmt"

	"associa_backend/internal/models"

	"github.com/shopspring/decimal"
)

// ReportRepository runs the read-only aggregate queries behind dashboards and reports.
type ReportRepository interface {
	CountMembersByStatus(ctx context.Context, executor SQLExecutor, organizationID int64, status string) (int, error)
	SumDues(ctx context.Context, executor SQLExecutor, organizationID int64, status string, month, year int) (decimal.Decimal, error)
	CountMembersWithPendingDues(ctx context.Context, executor SQLExecutor, organizationID int64) (int, error)
	CountJoins(ctx context.Context, executor SQLExecutor, organizationID int64, month, year int) (int, error)
	PaymentsByMonth(ctx context.Context, executor SQLExecutor, organizationID int64, year int) ([]models.MonthlyPayments, error)
	JoinsByMonth(ctx context.Context, executor SQLExecutor, organizationID int64, year int) ([]models.MonthlyJoins, error)
	FinancialSummary(ctx context.Context, executor SQLExecutor, organizationID int64, month, year int) (models.FinancialSummary, error)
}

type reportRepository struct{}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository() ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) CountMembersByStatus(ctx context.Context, executor SQLExecutor, organizationID int64, status string) (int, error) {
	var n int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM associados WHERE associacao_id = $1 AND situacao = $2`, organizationID, status,
	).Scan(&n)
	if err != nil {
		return 0, classify(err, "counting members by status")
	}
	return n, nil
}

// SumDues totals the amounts of one status in one period.
func (r *reportRepository) SumDues(ctx context.Context, executor SQLExecutor, organizationID int64, status string, month, year int) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(valor), 0) FROM mensalidades
	          WHERE associacao_id = $1 AND status = $2 AND mes = $3 AND ano = $4`
	if err := executor.QueryRowContext(ctx, query, organizationID, status, month, year).Scan(&total); err != nil {
		return decimal.Zero, classify(err, "summing dues")
	}
	return total, nil
}

// CountMembersWithPendingDues counts distinct members with any pending record, in any period.
func (r *reportRepository) CountMembersWithPendingDues(ctx context.Context, executor SQLExecutor, organizationID int64) (int, error) {
	var n int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT associado_id) FROM mensalidades WHERE associacao_id = $1 AND status = $2`,
		organizationID, models.DuesPending,
	).Scan(&n)
	if err != nil {
		return 0, classify(err, "counting members in arrears")
	}
	return n, nil
}

// CountJoins counts members whose join date falls in the given month.
func (r *reportRepository) CountJoins(ctx context.Context, executor SQLExecutor, organizationID int64, month, year int) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM associados
	          WHERE associacao_id = $1 AND substr(data_entrada, 1, 4) = $2 AND substr(data_entrada, 6, 2) = $3`
	err := executor.QueryRowContext(ctx, query, organizationID, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month)).Scan(&n)
	if err != nil {
		return 0, classify(err, "counting new members")
	}
	return n, nil
}

// PaymentsByMonth sums Paid records per month of the year.
func (r *reportRepository) PaymentsByMonth(ctx context.Context, executor SQLExecutor, organizationID int64, year int) ([]models.MonthlyPayments, error) {
	query := `SELECT mes, ano, COALESCE(SUM(valor), 0), COUNT(*)
	          FROM mensalidades
	          WHERE associacao_id = $1 AND status = $2 AND ano = $3
	          GROUP BY mes, ano
	          ORDER BY mes ASC`
	rows, err := executor.QueryContext(ctx, query, organizationID, models.DuesPaid, year)
	if err != nil {
		return nil, classify(err, "querying payments by month")
	}
	defer rows.Close()

	result := []models.MonthlyPayments{}
	for rows.Next() {
		var p models.MonthlyPayments
		if err := rows.Scan(&p.Month, &p.Year, &p.Total, &p.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning monthly payments: %v", ErrDatabaseError, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating monthly payments: %v", ErrDatabaseError, err)
	}
	return result, nil
}

// JoinsByMonth counts new members per month of the year.
func (r *reportRepository) JoinsByMonth(ctx context.Context, executor SQLExecutor, organizationID int64, year int) ([]models.MonthlyJoins, error) {
	query := `SELECT substr(data_entrada, 6, 2), COUNT(*)
	          FROM associados
	          WHERE associacao_id = $1 AND substr(data_entrada, 1, 4) = $2
	          GROUP BY substr(data_entrada, 6, 2)
	          ORDER BY 1 ASC`
	rows, err := executor.QueryContext(ctx, query, organizationID, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, classify(err, "querying joins by month")
	}
	defer rows.Close()

	result := []models.MonthlyJoins{}
	for rows.Next() {
		var j models.MonthlyJoins
		if err := rows.Scan(&j.Month, &j.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning monthly joins: %v", ErrDatabaseError, err)
		}
		result = append(result, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating monthly joins: %v", ErrDatabaseError, err)
	}
	return result, nil
}

// FinancialSummary counts and totals the period's records of active members.
func (r *reportRepository) FinancialSummary(ctx context.Context, executor SQLExecutor, organizationID int64, month, year int) (models.FinancialSummary, error) {
	var s models.FinancialSummary
	query := `SELECT COUNT(*),
	                 COALESCE(SUM(CASE WHEN m.status = $1 THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN m.status = $2 THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN m.status = $1 THEN m.valor ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN m.status = $2 THEN m.valor ELSE 0 END), 0)
	          FROM mensalidades m JOIN associados a ON a.id = m.associado_id
	          WHERE m.associacao_id = $3 AND m.mes = $4 AND m.ano = $5 AND a.situacao = $6`
	err := executor.QueryRowContext(ctx, query,
		models.DuesPaid, models.DuesPending, organizationID, month, year, models.MemberActive,
	).Scan(&s.Total, &s.Paid, &s.Pending, &s.AmountCollected, &s.AmountPending)
	if err != nil {
		return s, classify(err, "computing financial summary")
	}
	return s, nil
}
