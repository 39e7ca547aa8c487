package repositories

import (
	"context"
	"fmt"

	"associa_backend/internal/models"
)

// SettingRepository stores per-organization key/value configuration.
type SettingRepository interface {
	GetSetting(ctx context.Context, executor SQLExecutor, organizationID int64, key string) (string, error)
	GetSettings(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Setting, error)
	UpsertSetting(ctx context.Context, executor SQLExecutor, organizationID int64, key, value string) error
}

type settingRepository struct{}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository() SettingRepository {
	return &settingRepository{}
}

// GetSetting returns ErrNotFound when the key was never saved.
func (r *settingRepository) GetSetting(ctx context.Context, executor SQLExecutor, organizationID int64, key string) (string, error) {
	var value string
	err := executor.QueryRowContext(ctx,
		`SELECT valor FROM configuracoes WHERE associacao_id = $1 AND chave = $2`, organizationID, key,
	).Scan(&value)
	if err != nil {
		return "", classify(err, fmt.Sprintf("getting setting %s", key))
	}
	return value, nil
}

func (r *settingRepository) GetSettings(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Setting, error) {
	rows, err := executor.QueryContext(ctx,
		`SELECT id, associacao_id, chave, valor, updated_at FROM configuracoes WHERE associacao_id = $1 ORDER BY chave ASC`,
		organizationID)
	if err != nil {
		return nil, classify(err, "querying settings")
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning setting: %v", ErrDatabaseError, err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating setting rows: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

// UpsertSetting inserts the key or replaces its value.
func (r *settingRepository) UpsertSetting(ctx context.Context, executor SQLExecutor, organizationID int64, key, value string) error {
	query := `INSERT INTO configuracoes (associacao_id, chave, valor, updated_at)
	          VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
	          ON CONFLICT (associacao_id, chave) DO UPDATE SET valor = EXCLUDED.valor, updated_at = EXCLUDED.updated_at`
	if _, err := executor.ExecContext(ctx, query, organizationID, key, value); err != nil {
		return classify(err, fmt.Sprintf("saving setting %s", key))
	}
	return nil
}
