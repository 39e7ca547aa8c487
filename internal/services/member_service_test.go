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

func newTestMemberService(t *testing.T) (MemberService, int64) {
	t.Helper()
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	_, err := db.Exec(`UPDATE associacoes SET limite_socios = 2 WHERE id = $1`, org)
	require.NoError(t, err)
	return NewMemberService(repositories.NewMemberRepository(), repositories.NewOrganizationRepository(), db), org
}

func TestMemberService_CreateMember(t *testing.T) {
	svc, org := newTestMemberService(t)
	ctx := context.Background()

	first, err := svc.CreateMember(ctx, org, models.MemberPayload{Name: " Ana Souza ", CPF: "111.111.111-11"})
	require.NoError(t, err)
	assert.Equal(t, "0001", first.Number)
	assert.Equal(t, "Ana Souza", first.Name)
	assert.Equal(t, models.MemberActive, first.Status)

	_, err = svc.CreateMember(ctx, org, models.MemberPayload{Name: "Outra Ana", CPF: "111.111.111-11"})
	assert.ErrorIs(t, err, ErrNationalIDExists)

	second, err := svc.CreateMember(ctx, org, models.MemberPayload{Name: "Bruno", CPF: "222.222.222-22"})
	require.NoError(t, err)
	assert.Equal(t, "0002", second.Number)

	_, err = svc.CreateMember(ctx, org, models.MemberPayload{Name: "Carla", CPF: "333.333.333-33"})
	assert.ErrorIs(t, err, ErrMemberLimitReached)

	capacity, err := svc.GetCapacity(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, 2, capacity.Total)
	assert.Equal(t, 2, capacity.Limit)
	assert.Equal(t, 0, capacity.Available)
	assert.Equal(t, 100, capacity.Percent)
}

func TestMemberService_NumbersContinueAfterDeletion(t *testing.T) {
	svc, org := newTestMemberService(t)
	ctx := context.Background()

	first, err := svc.CreateMember(ctx, org, models.MemberPayload{Name: "Ana", CPF: "1"})
	require.NoError(t, err)
	second, err := svc.CreateMember(ctx, org, models.MemberPayload{Name: "Bruno", CPF: "2"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMember(ctx, org, first.ID))

	third, err := svc.CreateMember(ctx, org, models.MemberPayload{Name: "Carla", CPF: "3"})
	require.NoError(t, err)
	assert.Equal(t, "0002", second.Number)
	assert.Equal(t, "0003", third.Number, "numbers are never reused below the maximum")
}

func TestMemberService_Validation(t *testing.T) {
	svc, org := newTestMemberService(t)
	ctx := context.Background()
	badDate := "15/01/2024"

	tests := []struct {
		name string
		req  models.MemberPayload
		want error
	}{
		{name: "missing name", req: models.MemberPayload{CPF: "1"}, want: ErrMemberValidation},
		{name: "missing cpf", req: models.MemberPayload{Name: "Ana"}, want: ErrMemberValidation},
		{name: "unknown status", req: models.MemberPayload{Name: "Ana", CPF: "1", Status: "Suspenso"}, want: ErrMemberValidation},
		{name: "bad join date", req: models.MemberPayload{Name: "Ana", CPF: "1", JoinDate: &badDate}, want: ErrDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMember(ctx, org, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMemberService_TenantIsolation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewMemberService(repositories.NewMemberRepository(), repositories.NewOrganizationRepository(), db)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")

	m, err := svc.CreateMember(ctx, org, models.MemberPayload{Name: "Ana", CPF: "111"})
	require.NoError(t, err)

	// The same CPF is fine in another organization, and numbering starts over there.
	o, err := svc.CreateMember(ctx, other, models.MemberPayload{Name: "Ana", CPF: "111"})
	require.NoError(t, err)
	assert.Equal(t, "0001", o.Number)

	_, err = svc.GetMemberByID(ctx, other, m.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	_, err = svc.UpdateMember(ctx, other, m.ID, models.MemberPayload{Name: "Hack", CPF: "999"})
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.ErrorIs(t, svc.DeleteMember(ctx, other, m.ID), ErrMemberNotFound)

	updated, err := svc.UpdateMember(ctx, org, m.ID, models.MemberPayload{Name: "Ana Lima", CPF: "111", Status: models.MemberInactive})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", updated.Name)
	assert.Equal(t, models.MemberInactive, updated.Status)
	assert.Equal(t, m.Number, updated.Number)
}

func TestMemberService_GetMembersPaging(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewMemberService(repositories.NewMemberRepository(), repositories.NewOrganizationRepository(), db)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	for _, n := range []string{"0001", "0002", "0003", "0004", "0005"} {
		testutil.CreateMember(t, db, org, n, "Sócio "+n, models.MemberActive)
	}

	page, err := svc.GetMembers(ctx, org, models.MemberFilter{Status: "Todos", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Members, 2)

	page, err = svc.GetMembers(ctx, org, models.MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pages)
	assert.Len(t, page.Members, 5)
}
