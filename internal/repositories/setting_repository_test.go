package repositories

import (
	"context"
	"testing"

	"associa_backend/internal/models"
	"associa_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingRepository_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSettingRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")

	_, err := repo.GetSetting(ctx, db, org, models.DuesAmountKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.UpsertSetting(ctx, db, org, models.DuesAmountKey, "30.00"))
	require.NoError(t, repo.UpsertSetting(ctx, db, org, models.DuesAmountKey, "35.00"))
	require.NoError(t, repo.UpsertSetting(ctx, db, other, models.DuesAmountKey, "10.00"))

	value, err := repo.GetSetting(ctx, db, org, models.DuesAmountKey)
	require.NoError(t, err)
	assert.Equal(t, "35.00", value)

	settings, err := repo.GetSettings(ctx, db, org)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "35.00", settings[0].Value)
}

func TestOrganizationRepository_ProfileFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewOrganizationRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")

	require.NoError(t, repo.UpdateProfileField(ctx, db, org, models.SettingOrgCity, "Recife"))
	got, err := repo.GetOrganizationByID(ctx, db, org)
	require.NoError(t, err)
	assert.Equal(t, "Recife", got.City)

	assert.True(t, IsProfileKey(models.SettingOrgName))
	assert.False(t, IsProfileKey(models.DuesAmountKey))
	assert.Error(t, repo.UpdateProfileField(ctx, db, org, "nome; DROP TABLE associacoes", "x"))
	assert.ErrorIs(t, repo.UpdateProfileField(ctx, db, org+100, models.SettingOrgCity, "x"), ErrNotFound)
}

func TestFeedbackRepositories(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	complaints := NewComplaintRepository()
	ratings := NewRatingRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	user := testutil.CreateUser(t, db, org, "ana", "segredo", models.RoleAdmin)

	c := &models.Complaint{OrganizationID: org, UserID: &user, Type: "geral", Description: "Lâmpada queimada", Status: models.ComplaintPending}
	id, err := complaints.CreateComplaint(ctx, db, c)
	require.NoError(t, err)
	require.NoError(t, complaints.UpdateComplaintStatus(ctx, db, org, id, models.ComplaintResolved))

	list, err := complaints.GetComplaints(ctx, db, org)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ComplaintResolved, list[0].Status)
	require.NotNil(t, list[0].UserName)

	r := &models.Rating{OrganizationID: org, UserID: user, Score: 3}
	require.NoError(t, ratings.UpsertRating(ctx, db, r))
	firstID := r.ID
	r.Score = 5
	require.NoError(t, ratings.UpsertRating(ctx, db, r))
	assert.Equal(t, firstID, r.ID, "one rating per user")

	avg, total, err := ratings.RatingStats(ctx, db, org)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.InDelta(t, 5.0, avg, 0.001)
}
