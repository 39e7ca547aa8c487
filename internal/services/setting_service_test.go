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

func TestSettingService_SaveSettings(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewSettingService(repositories.NewSettingRepository(), repositories.NewOrganizationRepository(), db)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")

	err := svc.SaveSettings(ctx, org, map[string]string{
		models.DuesAmountKey:    "42.50",
		models.SettingPresident: "Dona Lúcia",
		models.SettingOrgCity:   "Olinda",
		models.SettingOrgEmail:  " Nova@BairroVerde.org ",
		models.SettingOrgLimit:  "99999",
	})
	require.NoError(t, err)

	values, err := svc.GetSettings(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, "42.50", values[models.DuesAmountKey])
	assert.Equal(t, "Dona Lúcia", values[models.SettingPresident])
	assert.Equal(t, "Olinda", values[models.SettingOrgCity])
	assert.Equal(t, "nova@bairroverde.org", values[models.SettingOrgEmail])
	assert.Equal(t, "1000", values[models.SettingOrgLimit], "the limit cannot be raised through settings")

	var stored int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM configuracoes WHERE associacao_id = $1 AND chave = $2`, org, models.SettingOrgCity).Scan(&stored))
	assert.Zero(t, stored, "profile keys live on the organization row")
}

func TestSettingService_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewSettingService(repositories.NewSettingRepository(), repositories.NewOrganizationRepository(), db)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")

	tests := []struct {
		name   string
		values map[string]string
		want   error
	}{
		{name: "negative amount", values: map[string]string{models.DuesAmountKey: "-5"}, want: ErrSettingValidation},
		{name: "text amount", values: map[string]string{models.DuesAmountKey: "trinta"}, want: ErrSettingValidation},
		{name: "empty name", values: map[string]string{models.SettingOrgName: " "}, want: ErrSettingValidation},
		{name: "bad email", values: map[string]string{models.SettingOrgEmail: "nope"}, want: ErrSettingValidation},
		{name: "empty key", values: map[string]string{"": "x"}, want: ErrSettingValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.SaveSettings(ctx, org, tt.values), tt.want)
		})
	}

	otherOrg, err := repositories.NewOrganizationRepository().GetOrganizationByID(ctx, db, other)
	require.NoError(t, err)
	err = svc.SaveSettings(ctx, org, map[string]string{models.SettingOrgEmail: otherOrg.Email})
	assert.ErrorIs(t, err, ErrOrganizationEmailExists)

	// A failed batch leaves nothing behind.
	err = svc.SaveSettings(ctx, org, map[string]string{
		models.SettingPresident: "Dona Lúcia",
		models.SettingOrgEmail:  otherOrg.Email,
	})
	require.Error(t, err)
	values, err := svc.GetSettings(ctx, org)
	require.NoError(t, err)
	assert.NotContains(t, values, models.SettingPresident)
}
