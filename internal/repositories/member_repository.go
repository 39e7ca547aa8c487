package repositories

import (
	"context"
	"fmt"
	"strings"

	"associa_backend/internal/models"
)

// MemberRepository defines the interface for member-related database operations.
// Every method is scoped by organization id.
type MemberRepository interface {
	CreateMember(ctx context.Context, executor SQLExecutor, member *models.Member) (int64, error)
	GetMemberByID(ctx context.Context, executor SQLExecutor, organizationID, id int64) (*models.Member, error)
	GetMembers(ctx context.Context, executor SQLExecutor, organizationID int64, filter models.MemberFilter) ([]models.Member, int, error)
	GetAllMembers(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Member, error)
	GetMemberSummaries(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.MemberSummary, error)
	GetActiveMemberIDs(ctx context.Context, executor SQLExecutor, organizationID int64) ([]int64, error)
	CountMembers(ctx context.Context, executor SQLExecutor, organizationID int64) (total int, active int, err error)
	MaxMemberNumber(ctx context.Context, executor SQLExecutor, organizationID int64) (int64, error)
	UpdateMember(ctx context.Context, executor SQLExecutor, member *models.Member) error
	DeleteMember(ctx context.Context, executor SQLExecutor, organizationID, id int64) error
}

type memberRepository struct{}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository() MemberRepository {
	return &memberRepository{}
}

const memberColumns = `id, associacao_id, numero, nome, cpf, rg, data_nascimento, nome_mae, nome_pai,
	cep, logradouro, numero_end, complemento, bairro, cidade, estado, telefone, whatsapp,
	estado_civil, profissao, nis, data_entrada, situacao, observacoes, created_at, updated_at`

func scanMember(s scanner, m *models.Member) error {
	return s.Scan(
		&m.ID, &m.OrganizationID, &m.Number, &m.Name, &m.CPF, &m.RG, &m.BirthDate, &m.MotherName, &m.FatherName,
		&m.ZipCode, &m.Street, &m.StreetNumber, &m.Complement, &m.District, &m.City, &m.State, &m.Phone, &m.WhatsApp,
		&m.MaritalStatus, &m.Occupation, &m.NIS, &m.JoinDate, &m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
}

// CreateMember inserts a new member. member.Number must already be assigned.
func (r *memberRepository) CreateMember(ctx context.Context, executor SQLExecutor, m *models.Member) (int64, error) {
	query := `INSERT INTO associados (
	            associacao_id, numero, nome, cpf, rg, data_nascimento, nome_mae, nome_pai,
	            cep, logradouro, numero_end, complemento, bairro, cidade, estado, telefone, whatsapp,
	            estado_civil, profissao, nis, data_entrada, situacao, observacoes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		m.OrganizationID, m.Number, m.Name, m.CPF, m.RG, m.BirthDate, m.MotherName, m.FatherName,
		m.ZipCode, m.Street, m.StreetNumber, m.Complement, m.District, m.City, m.State, m.Phone, m.WhatsApp,
		m.MaritalStatus, m.Occupation, m.NIS, m.JoinDate, m.Status, m.Notes,
	).Scan(&m.ID)
	if err != nil {
		return 0, classify(err, "creating member")
	}
	return m.ID, nil
}

// GetMemberByID retrieves a member of the organization.
func (r *memberRepository) GetMemberByID(ctx context.Context, executor SQLExecutor, organizationID, id int64) (*models.Member, error) {
	m := &models.Member{}
	query := `SELECT ` + memberColumns + ` FROM associados WHERE id = $1 AND associacao_id = $2`
	if err := scanMember(executor.QueryRowContext(ctx, query, id, organizationID), m); err != nil {
		return nil, classify(err, fmt.Sprintf("getting member by ID %d", id))
	}
	return m, nil
}

// GetMembers retrieves a page of members with optional status and search filters.
// The search matches name, CPF or member number, case-insensitively.
func (r *memberRepository) GetMembers(ctx context.Context, executor SQLExecutor, organizationID int64, filter models.MemberFilter) ([]models.Member, int, error) {
	conditions := []string{"associacao_id = $1"}
	args := []interface{}{organizationID}
	argCount := 2

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("situacao = $%d", argCount))
		args = append(args, filter.Status)
		argCount++
	}
	if strings.TrimSpace(filter.Search) != "" {
		searchPattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(nome) LIKE $%d OR cpf LIKE $%d OR numero LIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	totalCount := 0
	if err := executor.QueryRowContext(ctx, "SELECT COUNT(*) FROM associados"+where, args...).Scan(&totalCount); err != nil {
		return nil, 0, classify(err, "counting members")
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + memberColumns + " FROM associados" + where + " ORDER BY nome ASC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filter.Limit)
		argCount++
		if filter.Page > 1 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (filter.Page-1)*filter.Limit)
		}
	}

	members, err := r.queryMembers(ctx, executor, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	return members, totalCount, nil
}

// GetAllMembers returns every member of the organization ordered by name (used by exports).
func (r *memberRepository) GetAllMembers(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Member, error) {
	return r.queryMembers(ctx, executor,
		`SELECT `+memberColumns+` FROM associados WHERE associacao_id = $1 ORDER BY nome ASC`, organizationID)
}

func (r *memberRepository) queryMembers(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.Member, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "querying members")
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := scanMember(rows, &m); err != nil {
			return nil, fmt.Errorf("%w: scanning member: %v", ErrDatabaseError, err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating member rows: %v", ErrDatabaseError, err)
	}
	return members, nil
}

// GetMemberSummaries returns id, number, name and status of every member.
func (r *memberRepository) GetMemberSummaries(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.MemberSummary, error) {
	rows, err := executor.QueryContext(ctx,
		`SELECT id, numero, nome, situacao FROM associados WHERE associacao_id = $1 ORDER BY nome ASC`, organizationID)
	if err != nil {
		return nil, classify(err, "querying member summaries")
	}
	defer rows.Close()

	summaries := []models.MemberSummary{}
	for rows.Next() {
		var s models.MemberSummary
		if err := rows.Scan(&s.ID, &s.Number, &s.Name, &s.Status); err != nil {
			return nil, fmt.Errorf("%w: scanning member summary: %v", ErrDatabaseError, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating member summaries: %v", ErrDatabaseError, err)
	}
	return summaries, nil
}

// GetActiveMemberIDs lists the ids of members whose status is Ativo.
func (r *memberRepository) GetActiveMemberIDs(ctx context.Context, executor SQLExecutor, organizationID int64) ([]int64, error) {
	rows, err := executor.QueryContext(ctx,
		`SELECT id FROM associados WHERE associacao_id = $1 AND situacao = $2 ORDER BY id ASC`,
		organizationID, models.MemberActive)
	if err != nil {
		return nil, classify(err, "querying active members")
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning member id: %v", ErrDatabaseError, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating member ids: %v", ErrDatabaseError, err)
	}
	return ids, nil
}

// CountMembers returns the total and active member counts.
func (r *memberRepository) CountMembers(ctx context.Context, executor SQLExecutor, organizationID int64) (int, int, error) {
	var total, active int
	query := `SELECT COUNT(*), COALESCE(SUM(CASE WHEN situacao = $1 THEN 1 ELSE 0 END), 0)
	          FROM associados WHERE associacao_id = $2`
	if err := executor.QueryRowContext(ctx, query, models.MemberActive, organizationID).Scan(&total, &active); err != nil {
		return 0, 0, classify(err, "counting members")
	}
	return total, active, nil
}

// MaxMemberNumber returns the highest numeric member number, or 0 when there are none.
func (r *memberRepository) MaxMemberNumber(ctx context.Context, executor SQLExecutor, organizationID int64) (int64, error) {
	var max int64
	query := `SELECT COALESCE(MAX(CAST(numero AS INTEGER)), 0) FROM associados WHERE associacao_id = $1`
	if err := executor.QueryRowContext(ctx, query, organizationID).Scan(&max); err != nil {
		return 0, classify(err, "reading last member number")
	}
	return max, nil
}

// UpdateMember overwrites every editable field. Number and organization never change.
func (r *memberRepository) UpdateMember(ctx context.Context, executor SQLExecutor, m *models.Member) error {
	query := `UPDATE associados SET
	            nome = $1, cpf = $2, rg = $3, data_nascimento = $4, nome_mae = $5, nome_pai = $6,
	            cep = $7, logradouro = $8, numero_end = $9, complemento = $10, bairro = $11, cidade = $12, estado = $13,
	            telefone = $14, whatsapp = $15, estado_civil = $16, profissao = $17, nis = $18,
	            data_entrada = $19, situacao = $20, observacoes = $21, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $22 AND associacao_id = $23`
	res, err := executor.ExecContext(ctx, query,
		m.Name, m.CPF, m.RG, m.BirthDate, m.MotherName, m.FatherName,
		m.ZipCode, m.Street, m.StreetNumber, m.Complement, m.District, m.City, m.State,
		m.Phone, m.WhatsApp, m.MaritalStatus, m.Occupation, m.NIS,
		m.JoinDate, m.Status, m.Notes, m.ID, m.OrganizationID,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("updating member %d", m.ID))
	}
	return expectOneRow(res, fmt.Sprintf("updating member %d", m.ID))
}

// DeleteMember removes a member; dues cascade.
func (r *memberRepository) DeleteMember(ctx context.Context, executor SQLExecutor, organizationID, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM associados WHERE id = $1 AND associacao_id = $2`, id, organizationID)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting member %d", id))
	}
	return expectOneRow(res, fmt.Sprintf("deleting member %d", id))
}
