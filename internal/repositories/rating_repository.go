package repositories

import (
	"context"
	"fmt"

	"associa_backend/internal/models"
)

// RatingRepository defines the database operations on avaliacoes.
type RatingRepository interface {
	UpsertRating(ctx context.Context, executor SQLExecutor, r *models.Rating) error
	GetRatings(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Rating, error)
	RatingStats(ctx context.Context, executor SQLExecutor, organizationID int64) (average float64, total int, err error)
}

type ratingRepository struct{}

// NewRatingRepository creates a new instance of RatingRepository.
func NewRatingRepository() RatingRepository {
	return &ratingRepository{}
}

// UpsertRating stores the user's rating, replacing any earlier one.
func (r *ratingRepository) UpsertRating(ctx context.Context, executor SQLExecutor, rating *models.Rating) error {
	query := `INSERT INTO avaliacoes (associacao_id, user_id, nota, comentario)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (associacao_id, user_id)
	          DO UPDATE SET nota = EXCLUDED.nota, comentario = EXCLUDED.comentario, updated_at = CURRENT_TIMESTAMP
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		rating.OrganizationID, rating.UserID, rating.Score, rating.Comment,
	).Scan(&rating.ID)
	if err != nil {
		return classify(err, "saving rating")
	}
	return nil
}

func (r *ratingRepository) GetRatings(ctx context.Context, executor SQLExecutor, organizationID int64) ([]models.Rating, error) {
	query := `SELECT av.id, av.associacao_id, av.user_id, av.nota, av.comentario, av.created_at, av.updated_at, u.nome
	          FROM avaliacoes av
	          LEFT JOIN users u ON u.id = av.user_id
	          WHERE av.associacao_id = $1
	          ORDER BY av.created_at DESC, av.id DESC`
	rows, err := executor.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, classify(err, "querying ratings")
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.OrganizationID, &rt.UserID, &rt.Score, &rt.Comment,
			&rt.CreatedAt, &rt.UpdatedAt, &rt.UserName); err != nil {
			return nil, fmt.Errorf("%w: scanning rating: %v", ErrDatabaseError, err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rating rows: %v", ErrDatabaseError, err)
	}
	return ratings, nil
}

// RatingStats returns the average score (0 without ratings) and the count.
func (r *ratingRepository) RatingStats(ctx context.Context, executor SQLExecutor, organizationID int64) (float64, int, error) {
	var avg float64
	var total int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(nota), 0), COUNT(*) FROM avaliacoes WHERE associacao_id = $1`, organizationID,
	).Scan(&avg, &total)
	if err != nil {
		return 0, 0, classify(err, "computing rating stats")
	}
	return avg, total, nil
}
