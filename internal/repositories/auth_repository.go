package repositories

import (
	"context"
	"fmt"

	"associa_backend/internal/models"
)

// AuthRepository defines the interface for user and session database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) (int64, error)
	FindLoginCandidates(ctx context.Context, executor SQLExecutor, username string) ([]models.LoginCandidate, error)
	FindUserByID(ctx context.Context, executor SQLExecutor, organizationID, userID int64) (*models.User, error)
	ListUsers(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.User, error)
	UsernameExists(ctx context.Context, executor SQLExecutor, organizationID int64, username string) (bool, error)
	UpdatePassword(ctx context.Context, executor SQLExecutor, organizationID, userID int64, passwordHash string) error
	DeleteUser(ctx context.Context, executor SQLExecutor, organizationID, userID int64) error
}

// authRepository implements the AuthRepository interface.
type authRepository struct{}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository() AuthRepository {
	return &authRepository{}
}

// CreateUser inserts a new user. user.PasswordHash must already be hashed.
func (r *authRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (associacao_id, username, password_hash, nome, role)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		user.OrganizationID, user.Username, user.PasswordHash, user.Name, user.Role,
	).Scan(&user.ID)
	if err != nil {
		return 0, classify(err, "creating user")
	}
	return user.ID, nil
}

// FindLoginCandidates returns every user with the given username across organizations,
// oldest first, joined with the organization data a session needs.
func (r *authRepository) FindLoginCandidates(ctx context.Context, executor SQLExecutor, username string) ([]models.LoginCandidate, error) {
	query := `SELECT u.id, u.associacao_id, u.username, u.password_hash, u.nome, u.role, u.created_at,
	                 a.nome, a.status, a.limite_socios
	          FROM users u
	          JOIN associacoes a ON a.id = u.associacao_id
	          WHERE u.username = $1
	          ORDER BY u.id ASC`
	rows, err := executor.QueryContext(ctx, query, username)
	if err != nil {
		return nil, classify(err, "querying login candidates")
	}
	defer rows.Close()

	candidates := []models.LoginCandidate{}
	for rows.Next() {
		var c models.LoginCandidate
		if err := rows.Scan(
			&c.ID, &c.OrganizationID, &c.Username, &c.PasswordHash, &c.Name, &c.Role, &c.CreatedAt,
			&c.OrganizationName, &c.OrganizationStatus, &c.MemberLimit,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning login candidate: %v", ErrDatabaseError, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating login candidates: %v", ErrDatabaseError, err)
	}
	return candidates, nil
}

// FindUserByID retrieves a user of the given organization.
func (r *authRepository) FindUserByID(ctx context.Context, executor SQLExecutor, organizationID, userID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, associacao_id, username, password_hash, nome, role, created_at
	          FROM users WHERE id = $1 AND associacao_id = $2`
	err := executor.QueryRowContext(ctx, query, userID, organizationID).Scan(
		&user.ID, &user.OrganizationID, &user.Username, &user.PasswordHash, &user.Name, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("finding user by ID %d", userID))
	}
	return user, nil
}

// ListUsers returns the organization's users ordered by name.
func (r *authRepository) ListUsers(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.User, error) {
	query := `SELECT id, associacao_id, username, nome, role, created_at
	          FROM users WHERE associacao_id = $1 ORDER BY nome ASC`
	rows, err := executor.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, classify(err, "listing users")
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.Username, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, nil
}

// UsernameExists checks a username within one organization.
func (r *authRepository) UsernameExists(ctx context.Context, executor SQLExecutor, organizationID int64, username string) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM users WHERE associacao_id = $1 AND username = $2`
	if err := executor.QueryRowContext(ctx, query, organizationID, username).Scan(&n); err != nil {
		return false, classify(err, "checking username")
	}
	return n > 0, nil
}

// UpdatePassword replaces the stored hash.
func (r *authRepository) UpdatePassword(ctx context.Context, executor SQLExecutor, organizationID, userID int64, passwordHash string) error {
	res, err := executor.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2 AND associacao_id = $3`,
		passwordHash, userID, organizationID)
	if err != nil {
		return classify(err, "updating password")
	}
	return expectOneRow(res, "updating password")
}

// DeleteUser removes a user of the organization.
func (r *authRepository) DeleteUser(ctx context.Context, executor SQLExecutor, organizationID, userID int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND associacao_id = $2`, userID, organizationID)
	if err != nil {
		return classify(err, "deleting user")
	}
	return expectOneRow(res, "deleting user")
}
