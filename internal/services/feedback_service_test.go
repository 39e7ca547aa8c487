package services

import (
	"context"
	"testing"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
	"associa_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_Complaints(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewFeedbackService(repositories.NewComplaintRepository(), repositories.NewRatingRepository(), db)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")
	user := testutil.CreateUser(t, db, org, "maria", "segredo1", models.RoleSecretary)

	name := "José"
	c, err := svc.CreateComplaint(ctx, org, user, models.ComplaintPayload{
		Description: "Esgoto a céu aberto", ReporterName: &name, Anonymous: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "geral", c.Type)
	assert.Equal(t, models.ComplaintPending, c.Status)
	require.NotNil(t, c.ReporterName)
	assert.Equal(t, models.AnonymousReporter, *c.ReporterName)

	_, err = svc.CreateComplaint(ctx, org, user, models.ComplaintPayload{Description: "   "})
	assert.ErrorIs(t, err, ErrComplaintValidation)

	assert.ErrorIs(t, svc.UpdateComplaintStatus(ctx, org, c.ID, "fechada"), ErrInvalidComplaintStatus)
	assert.ErrorIs(t, svc.UpdateComplaintStatus(ctx, other, c.ID, models.ComplaintReviewing), ErrComplaintNotFound)
	require.NoError(t, svc.UpdateComplaintStatus(ctx, org, c.ID, models.ComplaintReviewing))

	list, err := svc.GetComplaints(ctx, org)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ComplaintReviewing, list[0].Status)

	empty, err := svc.GetComplaints(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.ErrorIs(t, svc.DeleteComplaint(ctx, other, c.ID), ErrComplaintNotFound)
	require.NoError(t, svc.DeleteComplaint(ctx, org, c.ID))
}

func TestFeedbackService_Ratings(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewFeedbackService(repositories.NewComplaintRepository(), repositories.NewRatingRepository(), db)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	maria := testutil.CreateUser(t, db, org, "maria", "segredo1", models.RoleAdmin)
	joao := testutil.CreateUser(t, db, org, "joao", "segredo1", models.RoleSecretary)

	for _, score := range []int{0, 6, -1} {
		_, err := svc.SubmitRating(ctx, org, maria, models.RatingPayload{Score: score})
		assert.ErrorIs(t, err, ErrInvalidRatingScore, "score %d", score)
	}

	_, err := svc.SubmitRating(ctx, org, maria, models.RatingPayload{Score: 2})
	require.NoError(t, err)
	_, err = svc.SubmitRating(ctx, org, maria, models.RatingPayload{Score: 4})
	require.NoError(t, err)
	_, err = svc.SubmitRating(ctx, org, joao, models.RatingPayload{Score: 5})
	require.NoError(t, err)

	summary, err := svc.GetRatings(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.InDelta(t, 4.5, summary.Average, 0.001)
	assert.Len(t, summary.Ratings, 2)

	_, err = svc.SubmitRating(ctx, org, 9999, models.RatingPayload{Score: 3})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
