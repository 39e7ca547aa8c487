package repositories

import (
	"context"
	"testing"

	"associa_backend/internal/models"
	"associa_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMember(orgID int64, numero, nome, cpf string) *models.Member {
	joined := "2025-03-10"
	return &models.Member{
		OrganizationID: orgID,
		Number:         numero,
		Name:           nome,
		CPF:            cpf,
		JoinDate:       &joined,
		Status:         models.MemberActive,
	}
}

func TestMemberRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewMemberRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")

	m := newMember(org, "0001", "Ana Lima", "111.111.111-11")
	id, err := repo.CreateMember(ctx, db, m)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetMemberByID(ctx, db, org, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", got.Name)
	assert.Equal(t, "0001", got.Number)
	require.NotNil(t, got.JoinDate)
	assert.Equal(t, "2025-03-10", *got.JoinDate)
	assert.Nil(t, got.RG)

	_, err = repo.GetMemberByID(ctx, db, other, id)
	assert.ErrorIs(t, err, ErrNotFound, "members of another organization are invisible")
}

func TestMemberRepository_Uniqueness(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewMemberRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")

	_, err := repo.CreateMember(ctx, db, newMember(org, "0001", "Ana", "111"))
	require.NoError(t, err)

	_, err = repo.CreateMember(ctx, db, newMember(org, "0002", "Bia", "111"))
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.True(t, DuplicateOn(err, "cpf"))
	assert.False(t, DuplicateOn(err, "numero"))

	_, err = repo.CreateMember(ctx, db, newMember(org, "0001", "Caio", "222"))
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.True(t, DuplicateOn(err, "numero"))

	// Same CPF and number are fine in another organization.
	_, err = repo.CreateMember(ctx, db, newMember(other, "0001", "Ana", "111"))
	assert.NoError(t, err)
}

func TestMemberRepository_GetMembersFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewMemberRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")

	testutil.CreateMember(t, db, org, "0001", "Carlos Souza", models.MemberActive)
	testutil.CreateMember(t, db, org, "0002", "Ana Souza", models.MemberActive)
	testutil.CreateMember(t, db, org, "0003", "Bruno Lima", models.MemberInactive)

	all, total, err := repo.GetMembers(ctx, db, org, models.MemberFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "Ana Souza", all[0].Name, "ordered by name")

	active, total, err := repo.GetMembers(ctx, db, org, models.MemberFilter{Status: models.MemberActive})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, active, 2)

	found, total, err := repo.GetMembers(ctx, db, org, models.MemberFilter{Search: "SOUZA"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, found, 2)

	byNumber, _, err := repo.GetMembers(ctx, db, org, models.MemberFilter{Search: "0003"})
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "Bruno Lima", byNumber[0].Name)

	page2, total, err := repo.GetMembers(ctx, db, org, models.MemberFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "total ignores pagination")
	require.Len(t, page2, 1)
	assert.Equal(t, "Carlos Souza", page2[0].Name)
}

func TestMemberRepository_CountsAndNumbers(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewMemberRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")

	last, err := repo.MaxMemberNumber(ctx, db, org)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	testutil.CreateMember(t, db, org, "0009", "Ana", models.MemberActive)
	testutil.CreateMember(t, db, org, "0010", "Bia", models.MemberInactive)

	last, err = repo.MaxMemberNumber(ctx, db, org)
	require.NoError(t, err)
	assert.Equal(t, int64(10), last, "numbers compare numerically")

	total, active, err := repo.CountMembers(ctx, db, org)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, active)

	ids, err := repo.GetActiveMemberIDs(ctx, db, org)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestMemberRepository_UpdateAndDeleteScopedToOrganization(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewMemberRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")
	id := testutil.CreateMember(t, db, org, "0001", "Ana", models.MemberActive)

	m := newMember(other, "", "Intrusa", "999")
	m.ID = id
	assert.ErrorIs(t, repo.UpdateMember(ctx, db, m), ErrNotFound)
	assert.ErrorIs(t, repo.DeleteMember(ctx, db, other, id), ErrNotFound)

	m.OrganizationID = org
	m.Name = "Ana Paula"
	require.NoError(t, repo.UpdateMember(ctx, db, m))
	got, err := repo.GetMemberByID(ctx, db, org, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", got.Name)
	assert.Equal(t, "0001", got.Number, "number never changes")

	require.NoError(t, repo.DeleteMember(ctx, db, org, id))
	_, err = repo.GetMemberByID(ctx, db, org, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
