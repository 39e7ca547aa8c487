package repositories

import (
	"context"
	"fmt"

	"associa_backend/internal/models"
)

// ComplaintRepository defines the database operations on denuncias.
type ComplaintRepository interface {
	CreateComplaint(ctx context.Context, executor SQLExecutor, c *models.Complaint) (int64, error)
	GetComplaints(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, executor SQLExecutor, organizationID, id int64, status string) error
	DeleteComplaint(ctx context.Context, executor SQLExecutor, organizationID, id int64) error
}

type complaintRepository struct{}

// NewComplaintRepository creates a new instance of ComplaintRepository.
func NewComplaintRepository() ComplaintRepository {
	return &complaintRepository{}
}

func (r *complaintRepository) CreateComplaint(ctx context.Context, executor SQLExecutor, c *models.Complaint) (int64, error) {
	query := `INSERT INTO denuncias (associacao_id, user_id, tipo, categoria, descricao, nome_denunciante, contato, anonima, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		c.OrganizationID, c.UserID, c.Type, c.Category, c.Description, c.ReporterName, c.Contact, c.Anonymous, c.Status,
	).Scan(&c.ID)
	if err != nil {
		return 0, classify(err, "creating complaint")
	}
	return c.ID, nil
}

// GetComplaints lists the organization's complaints, newest first.
func (r *complaintRepository) GetComplaints(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Complaint, error) {
	query := `SELECT d.id, d.associacao_id, d.user_id, d.tipo, d.categoria, d.descricao, d.nome_denunciante,
	                 d.contato, d.anonima, d.status, d.created_at, d.updated_at, u.nome
	          FROM denuncias d
	          LEFT JOIN users u ON u.id = d.user_id
	          WHERE d.associacao_id = $1
	          ORDER BY d.created_at DESC, d.id DESC`
	rows, err := executor.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, classify(err, "querying complaints")
	}
	defer rows.Close()

	complaints := []models.Complaint{}
	for rows.Next() {
		var c models.Complaint
		if err := rows.Scan(
			&c.ID, &c.OrganizationID, &c.UserID, &c.Type, &c.Category, &c.Description, &c.ReporterName,
			&c.Contact, &c.Anonymous, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.UserName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning complaint: %v", ErrDatabaseError, err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating complaint rows: %v", ErrDatabaseError, err)
	}
	return complaints, nil
}

func (r *complaintRepository) UpdateComplaintStatus(ctx context.Context, executor SQLExecutor, organizationID, id int64, status string) error {
	res, err := executor.ExecContext(ctx,
		`UPDATE denuncias SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND associacao_id = $3`,
		status, id, organizationID)
	if err != nil {
		return classify(err, fmt.Sprintf("updating complaint %d", id))
	}
	return expectOneRow(res, fmt.Sprintf("updating complaint %d", id))
}

func (r *complaintRepository) DeleteComplaint(ctx context.Context, executor SQLExecutor, organizationID, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM denuncias WHERE id = $1 AND associacao_id = $2`, id, organizationID)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting complaint %d", id))
	}
	return expectOneRow(res, fmt.Sprintf("deleting complaint %d", id))
}
