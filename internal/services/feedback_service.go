package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
	"associa_backend/pkg/utils"
)

var (
	ErrComplaintNotFound      = errors.New("complaint not found")
	ErrComplaintValidation    = errors.New("complaint data validation error")
	ErrInvalidComplaintStatus = errors.New("status must be pendente, em_analise, resolvida or arquivada")
	ErrInvalidRatingScore     = errors.New("rating must be between 1 and 5")
)

// FeedbackService covers complaints and ratings.
type FeedbackService interface {
	CreateComplaint(ctx context.Context, organizationID, userID int64, req models.ComplaintPayload) (*models.Complaint, error)
	GetComplaints(ctx context.Context, organizationID int64) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, organizationID, id int64, status string) error
	DeleteComplaint(ctx context.Context, organizationID, id int64) error

	SubmitRating(ctx context.Context, organizationID, userID int64, req models.RatingPayload) (*models.Rating, error)
	GetRatings(ctx context.Context, organizationID int64) (*models.RatingSummary, error)
}

type feedbackService struct {
	complaintRepo repositories.ComplaintRepository
	ratingRepo    repositories.RatingRepository
	db            *sql.DB
}

// NewFeedbackService creates a new instance of FeedbackService.
func NewFeedbackService(complaintRepo repositories.ComplaintRepository, ratingRepo repositories.RatingRepository, db *sql.DB) FeedbackService {
	return &feedbackService{complaintRepo: complaintRepo, ratingRepo: ratingRepo, db: db}
}

// CreateComplaint files a complaint. Anonymous complaints never keep the reporter's name.
func (s *feedbackService) CreateComplaint(ctx context.Context, organizationID, userID int64, req models.ComplaintPayload) (*models.Complaint, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: descricao is required", ErrComplaintValidation)
	}
	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = "geral"
	}

	c := &models.Complaint{
		OrganizationID: organizationID,
		UserID:         &userID,
		Type:           kind,
		Category:       utils.NullIfEmpty(req.Category),
		Description:    description,
		ReporterName:   utils.NullIfEmpty(req.ReporterName),
		Contact:        utils.NullIfEmpty(req.Contact),
		Anonymous:      req.Anonymous,
		Status:         models.ComplaintPending,
	}
	if c.Anonymous {
		anonymous := models.AnonymousReporter
		c.ReporterName = &anonymous
	}

	if _, err := s.complaintRepo.CreateComplaint(ctx, s.db, c); err != nil {
		return nil, fmt.Errorf("error creating complaint: %w", err)
	}
	return c, nil
}

func (s *feedbackService) GetComplaints(ctx context.Context, organizationID int64) ([]models.Complaint, error) {
	complaints, err := s.complaintRepo.GetComplaints(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error listing complaints: %w", err)
	}
	return complaints, nil
}

func (s *feedbackService) UpdateComplaintStatus(ctx context.Context, organizationID, id int64, status string) error {
	if !models.ValidComplaintStatus(status) {
		return ErrInvalidComplaintStatus
	}
	if err := s.complaintRepo.UpdateComplaintStatus(ctx, s.db, organizationID, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("error updating complaint: %w", err)
	}
	return nil
}

func (s *feedbackService) DeleteComplaint(ctx context.Context, organizationID, id int64) error {
	if err := s.complaintRepo.DeleteComplaint(ctx, s.db, organizationID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("error deleting complaint: %w", err)
	}
	return nil
}

// SubmitRating stores the caller's rating, replacing a previous one.
func (s *feedbackService) SubmitRating(ctx context.Context, organizationID, userID int64, req models.RatingPayload) (*models.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, ErrInvalidRatingScore
	}
	r := &models.Rating{
		OrganizationID: organizationID,
		UserID:         userID,
		Score:          req.Score,
		Comment:        utils.NullIfEmpty(req.Comment),
	}
	if err := s.ratingRepo.UpsertRating(ctx, s.db, r); err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error saving rating: %w", err)
	}
	return r, nil
}

func (s *feedbackService) GetRatings(ctx context.Context, organizationID int64) (*models.RatingSummary, error) {
	ratings, err := s.ratingRepo.GetRatings(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error listing ratings: %w", err)
	}
	avg, total, err := s.ratingRepo.RatingStats(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error computing rating stats: %w", err)
	}
	return &models.RatingSummary{Ratings: ratings, Average: avg, Total: total}, nil
}
