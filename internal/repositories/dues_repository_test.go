package repositories

import (
	"context"
	"testing"

	"associa_backend/internal/models"
	"associa_backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuesRepository_InsertPendingIfAbsent(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewDuesRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	member := testutil.CreateMember(t, db, org, "0001", "Ana", models.MemberActive)

	inserted, err := repo.InsertPendingIfAbsent(ctx, db, org, member, 3, 2025, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertPendingIfAbsent(ctx, db, org, member, 3, 2025, decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.False(t, inserted, "second insert for the same period is skipped")

	records, err := repo.GetDues(ctx, db, org, models.DuesFilter{Month: 3, Year: 2025})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, decimal.NewFromInt(30).Equal(records[0].Amount), "existing amount is kept")
	assert.Equal(t, models.DuesPending, records[0].Status)
	assert.Equal(t, "Ana", records[0].MemberName)
	assert.Equal(t, "0001", records[0].MemberNumber)
}

func TestDuesRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewDuesRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	member := testutil.CreateMember(t, db, org, "0001", "Ana", models.MemberActive)

	rec := &models.DuesRecord{OrganizationID: org, MemberID: member, Month: 1, Year: 2025, Amount: decimal.NewFromInt(30), Status: models.DuesPending}
	_, err := repo.CreateDues(ctx, db, rec)
	require.NoError(t, err)

	dup := *rec
	_, err = repo.CreateDues(ctx, db, &dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestDuesRepository_PaymentTransitions(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewDuesRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	other := testutil.CreateOrganization(t, db, "Vila Azul")
	member := testutil.CreateMember(t, db, org, "0001", "Ana", models.MemberActive)

	rec := &models.DuesRecord{OrganizationID: org, MemberID: member, Month: 5, Year: 2025, Amount: decimal.NewFromInt(30), Status: models.DuesPending}
	id, err := repo.CreateDues(ctx, db, rec)
	require.NoError(t, err)

	note := "pago em dinheiro"
	assert.ErrorIs(t, repo.MarkPaid(ctx, db, other, id, "2025-05-10", "REC-1", nil), ErrNotFound)
	require.NoError(t, repo.MarkPaid(ctx, db, org, id, "2025-05-10", "REC-1", &note))

	got, err := repo.GetDuesByID(ctx, db, org, id)
	require.NoError(t, err)
	assert.Equal(t, models.DuesPaid, got.Status)
	require.NotNil(t, got.ReceiptNumber)
	assert.Equal(t, "REC-1", *got.ReceiptNumber)
	require.NotNil(t, got.PaymentDate)
	assert.Equal(t, "2025-05-10", *got.PaymentDate)
	require.NotNil(t, got.Note)
	assert.Equal(t, note, *got.Note)

	assert.ErrorIs(t, repo.RevertPayment(ctx, db, other, id), ErrNotFound)
	require.NoError(t, repo.RevertPayment(ctx, db, org, id))

	got, err = repo.GetDuesByID(ctx, db, org, id)
	require.NoError(t, err)
	assert.Equal(t, models.DuesPending, got.Status)
	assert.Nil(t, got.ReceiptNumber)
	assert.Nil(t, got.PaymentDate)
	require.NotNil(t, got.Note, "revert keeps the note")

	assert.ErrorIs(t, repo.DeleteDues(ctx, db, other, id), ErrNotFound)
	require.NoError(t, repo.DeleteDues(ctx, db, org, id))
	_, err = repo.GetDuesByID(ctx, db, org, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuesRepository_GetArrears(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewDuesRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")

	ana := testutil.CreateMember(t, db, org, "0001", "Ana", models.MemberActive)
	bia := testutil.CreateMember(t, db, org, "0002", "Bia", models.MemberActive)
	caio := testutil.CreateMember(t, db, org, "0003", "Caio", models.MemberInactive)

	for month := 1; month <= 3; month++ {
		for _, m := range []int64{ana, bia, caio} {
			_, err := repo.InsertPendingIfAbsent(ctx, db, org, m, month, 2025, decimal.NewFromFloat(27.5))
			require.NoError(t, err)
		}
	}
	// Bia paid everything.
	records, err := repo.GetDues(ctx, db, org, models.DuesFilter{MemberID: bia})
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, repo.MarkPaid(ctx, db, org, r.ID, "2025-04-01", "REC", nil))
	}

	entries, err := repo.GetArrears(ctx, db, org)
	require.NoError(t, err)
	require.Len(t, entries, 1, "inactive and paid-up members are excluded")
	assert.Equal(t, ana, entries[0].MemberID)
	assert.Equal(t, 3, entries[0].PendingMonths)
	assert.True(t, decimal.NewFromFloat(82.5).Equal(entries[0].TotalOwed), "got %s", entries[0].TotalOwed)
}

func TestDuesRepository_MemberDeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewDuesRepository()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	member := testutil.CreateMember(t, db, org, "0001", "Ana", models.MemberActive)

	_, err := repo.InsertPendingIfAbsent(ctx, db, org, member, 1, 2025, decimal.NewFromInt(30))
	require.NoError(t, err)
	require.NoError(t, NewMemberRepository().DeleteMember(ctx, db, org, member))

	records, err := repo.GetDues(ctx, db, org, models.DuesFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
