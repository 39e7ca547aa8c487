package repositories

import (
	"context"
	"fmt"

	"associa_backend/internal/models"
)

// OrganizationRepository defines the database operations on tenants.
type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, executor SQLExecutor, org *models.Organization) (int64, error)
	GetOrganizationByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Organization, error)
	UpdateProfileField(ctx context.Context, executor SQLExecutor, id int64, key, value string) error
}

type organizationRepository struct{}

// NewOrganizationRepository creates a new instance of OrganizationRepository.
func NewOrganizationRepository() OrganizationRepository {
	return &organizationRepository{}
}

// profileColumns maps configuration keys to the associacoes column they edit.
// Only these keys may reach UpdateProfileField, which keeps the column name out of user input.
var profileColumns = map[string]string{
	models.SettingOrgName:    "nome",
	models.SettingOrgCNPJ:    "cnpj",
	models.SettingOrgAddress: "endereco",
	models.SettingOrgPhone:   "telefone",
	models.SettingOrgEmail:   "email",
	models.SettingOrgCity:    "cidade",
	models.SettingOrgState:   "estado",
}

// IsProfileKey reports whether a configuration key is stored on the organization row.
func IsProfileKey(key string) bool {
	_, ok := profileColumns[key]
	return ok
}

// CreateOrganization inserts a new organization and sets org.ID.
func (r *organizationRepository) CreateOrganization(ctx context.Context, executor SQLExecutor, org *models.Organization) (int64, error) {
	if org.MemberLimit <= 0 {
		org.MemberLimit = models.DefaultMemberLimit
	}
	if org.Status == "" {
		org.Status = models.OrganizationActive
	}

	query := `INSERT INTO associacoes (nome, cnpj, email, telefone, cidade, estado, endereco, limite_socios, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		org.Name, org.CNPJ, org.Email, org.Phone, org.City, org.State,
		org.Address, org.MemberLimit, org.Status,
	).Scan(&org.ID)
	if err != nil {
		return 0, classify(err, "creating organization")
	}
	return org.ID, nil
}

// GetOrganizationByID retrieves an organization by its ID.
func (r *organizationRepository) GetOrganizationByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Organization, error) {
	org := &models.Organization{}
	query := `SELECT id, nome, cnpj, email, telefone, cidade, estado, endereco, limite_socios, status, created_at
	          FROM associacoes WHERE id = $1`
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.CNPJ, &org.Email, &org.Phone, &org.City, &org.State,
		&org.Address, &org.MemberLimit, &org.Status, &org.CreatedAt,
	)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("getting organization by ID %d", id))
	}
	return org, nil
}

// UpdateProfileField writes one profile key (see IsProfileKey) to the organization row.
func (r *organizationRepository) UpdateProfileField(ctx context.Context, executor SQLExecutor, id int64, key, value string) error {
	column, ok := profileColumns[key]
	if !ok {
		return fmt.Errorf("%w: %q is not an organization profile key", ErrDatabaseError, key)
	}
	res, err := executor.ExecContext(ctx, "UPDATE associacoes SET "+column+" = $1 WHERE id = $2", value, id)
	if err != nil {
		return classify(err, "updating organization "+column)
	}
	return expectOneRow(res, "updating organization "+column)
}
