package repositories

import (
	"context"
	"fmt"
	"strings"

	"associa_backend/internal/models"

	"github.com/shopspring/decimal"
)

// DuesRepository defines the database operations on mensalidades.
type DuesRepository interface {
	InsertPendingIfAbsent(ctx context.Context, executor SQLExecutor, organizationID, memberID int64, month, year int, amount decimal.Decimal) (bool, error)
	CreateDues(ctx context.Context, executor SQLExecutor, record *models.DuesRecord) (int64, error)
	GetDuesByID(ctx context.Context, executor SQLExecutor, organizationID, id int64) (*models.DuesRecord, error)
	GetDues(ctx context.Context, executor SQLExecutor, organizationID int64, filter models.DuesFilter) ([]models.DuesRecord, error)
	MarkPaid(ctx context.Context, executor SQLExecutor, organizationID, id int64, paymentDate, receipt string, note *string) error
	RevertPayment(ctx context.Context, executor SQLExecutor, organizationID, id int64) error
	DeleteDues(ctx context.Context, executor SQLExecutor, organizationID, id int64) error
	GetArrears(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.ArrearsEntry, error)
}

type duesRepository struct{}

// NewDuesRepository creates a new instance of DuesRepository.
func NewDuesRepository() DuesRepository {
	return &duesRepository{}
}

// InsertPendingIfAbsent creates a Pending record unless the member already has one
// for the period. It reports whether a row was inserted.
func (r *duesRepository) InsertPendingIfAbsent(ctx context.Context, executor SQLExecutor, organizationID, memberID int64, month, year int, amount decimal.Decimal) (bool, error) {
	query := `INSERT INTO mensalidades (associacao_id, associado_id, mes, ano, valor, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (associado_id, mes, ano) DO NOTHING`
	res, err := executor.ExecContext(ctx, query, organizationID, memberID, month, year, amount, models.DuesPending)
	if err != nil {
		return false, classify(err, fmt.Sprintf("generating dues for member %d", memberID))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: generating dues: checking affected rows: %v", ErrDatabaseError, err)
	}
	return n > 0, nil
}

// CreateDues inserts an ad hoc record. Duplicates for the period yield ErrDuplicateKey.
func (r *duesRepository) CreateDues(ctx context.Context, executor SQLExecutor, d *models.DuesRecord) (int64, error) {
	query := `INSERT INTO mensalidades (associacao_id, associado_id, mes, ano, valor, status, data_pagamento, recibo_numero, observacao)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		d.OrganizationID, d.MemberID, d.Month, d.Year, d.Amount, d.Status, d.PaymentDate, d.ReceiptNumber, d.Note,
	).Scan(&d.ID)
	if err != nil {
		return 0, classify(err, "creating dues record")
	}
	return d.ID, nil
}

const duesColumns = `m.id, m.associacao_id, m.associado_id, m.mes, m.ano, m.valor, m.data_pagamento, m.status,
	m.recibo_numero, m.observacao, m.created_at, a.nome, a.numero, a.whatsapp`

func scanDues(s scanner, d *models.DuesRecord) error {
	return s.Scan(
		&d.ID, &d.OrganizationID, &d.MemberID, &d.Month, &d.Year, &d.Amount, &d.PaymentDate, &d.Status,
		&d.ReceiptNumber, &d.Note, &d.CreatedAt, &d.MemberName, &d.MemberNumber, &d.MemberWhatsApp,
	)
}

// GetDuesByID retrieves one record of the organization.
func (r *duesRepository) GetDuesByID(ctx context.Context, executor SQLExecutor, organizationID, id int64) (*models.DuesRecord, error) {
	d := &models.DuesRecord{}
	query := `SELECT ` + duesColumns + `
	          FROM mensalidades m JOIN associados a ON a.id = m.associado_id
	          WHERE m.id = $1 AND m.associacao_id = $2`
	if err := scanDues(executor.QueryRowContext(ctx, query, id, organizationID), d); err != nil {
		return nil, classify(err, fmt.Sprintf("getting dues record %d", id))
	}
	return d, nil
}

// GetDues lists records joined with member name and number, newest period first.
func (r *duesRepository) GetDues(ctx context.Context, executor SQLExecutor, organizationID int64, filter models.DuesFilter) ([]models.DuesRecord, error) {
	conditions := []string{"m.associacao_id = $1"}
	args := []interface{}{organizationID}
	argCount := 2

	if filter.MemberID > 0 {
		conditions = append(conditions, fmt.Sprintf("m.associado_id = $%d", argCount))
		args = append(args, filter.MemberID)
		argCount++
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("m.ano = $%d", argCount))
		args = append(args, filter.Year)
		argCount++
	}
	if filter.Month > 0 {
		conditions = append(conditions, fmt.Sprintf("m.mes = $%d", argCount))
		args = append(args, filter.Month)
		argCount++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("m.status = $%d", argCount))
		args = append(args, filter.Status)
	}

	query := `SELECT ` + duesColumns + `
	          FROM mensalidades m JOIN associados a ON a.id = m.associado_id
	          WHERE ` + strings.Join(conditions, " AND ") + `
	          ORDER BY m.ano DESC, m.mes DESC, a.nome ASC`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "querying dues")
	}
	defer rows.Close()

	records := []models.DuesRecord{}
	for rows.Next() {
		var d models.DuesRecord
		if err := scanDues(rows, &d); err != nil {
			return nil, fmt.Errorf("%w: scanning dues record: %v", ErrDatabaseError, err)
		}
		records = append(records, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating dues rows: %v", ErrDatabaseError, err)
	}
	return records, nil
}

// MarkPaid sets status Paid with the given date and receipt, overwriting the note.
func (r *duesRepository) MarkPaid(ctx context.Context, executor SQLExecutor, organizationID, id int64, paymentDate, receipt string, note *string) error {
	query := `UPDATE mensalidades
	          SET status = $1, data_pagamento = $2, recibo_numero = $3, observacao = $4
	          WHERE id = $5 AND associacao_id = $6`
	res, err := executor.ExecContext(ctx, query, models.DuesPaid, paymentDate, receipt, note, id, organizationID)
	if err != nil {
		return classify(err, fmt.Sprintf("marking dues %d paid", id))
	}
	return expectOneRow(res, fmt.Sprintf("marking dues %d paid", id))
}

// RevertPayment sets status back to Pending and clears payment date and receipt.
func (r *duesRepository) RevertPayment(ctx context.Context, executor SQLExecutor, organizationID, id int64) error {
	query := `UPDATE mensalidades
	          SET status = $1, data_pagamento = NULL, recibo_numero = NULL
	          WHERE id = $2 AND associacao_id = $3`
	res, err := executor.ExecContext(ctx, query, models.DuesPending, id, organizationID)
	if err != nil {
		return classify(err, fmt.Sprintf("reverting payment of dues %d", id))
	}
	return expectOneRow(res, fmt.Sprintf("reverting payment of dues %d", id))
}

// DeleteDues removes one record of the organization.
func (r *duesRepository) DeleteDues(ctx context.Context, executor SQLExecutor, organizationID, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM mensalidades WHERE id = $1 AND associacao_id = $2`, id, organizationID)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting dues %d", id))
	}
	return expectOneRow(res, fmt.Sprintf("deleting dues %d", id))
}

// GetArrears aggregates pending records per active member, most months owed first.
func (r *duesRepository) GetArrears(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.ArrearsEntry, error) {
	query := `SELECT a.id, a.numero, a.nome, a.telefone, a.whatsapp,
	                 COUNT(m.id) AS meses_pendentes, COALESCE(SUM(m.valor), 0) AS total_devido
	          FROM associados a
	          JOIN mensalidades m ON m.associado_id = a.id AND m.status = $1
	          WHERE a.associacao_id = $2 AND a.situacao = $3
	          GROUP BY a.id, a.numero, a.nome, a.telefone, a.whatsapp
	          HAVING COUNT(m.id) > 0
	          ORDER BY meses_pendentes DESC, a.nome ASC`
	rows, err := executor.QueryContext(ctx, query, models.DuesPending, organizationID, models.MemberActive)
	if err != nil {
		return nil, classify(err, "querying arrears")
	}
	defer rows.Close()

	entries := []models.ArrearsEntry{}
	for rows.Next() {
		var e models.ArrearsEntry
		if err := rows.Scan(&e.MemberID, &e.Number, &e.Name, &e.Phone, &e.WhatsApp, &e.PendingMonths, &e.TotalOwed); err != nil {
			return nil, fmt.Errorf("%w: scanning arrears entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating arrears rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}
