package services

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
	"associa_backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// seedPeriod creates two active members and one inactive one, generates January
// 2024 for them and marks the first member paid.
func seedPeriod(t *testing.T, db *sql.DB, org int64) {
	t.Helper()
	ctx := context.Background()
	dues := repositories.NewDuesRepository()
	ana := testutil.CreateMember(t, db, org, "0001", "Ana", models.MemberActive)
	bia := testutil.CreateMember(t, db, org, "0002", "Bia", models.MemberActive)
	caio := testutil.CreateMember(t, db, org, "0003", "Caio", models.MemberInactive)
	for _, m := range []int64{ana, bia, caio} {
		_, err := dues.InsertPendingIfAbsent(ctx, db, org, m, 1, 2024, decimal.NewFromInt(30))
		require.NoError(t, err)
	}
	records, err := dues.GetDues(ctx, db, org, models.DuesFilter{MemberID: ana})
	require.NoError(t, err)
	require.NoError(t, dues.MarkPaid(ctx, db, org, records[0].ID, "2024-01-20", "REC-1", nil))
}

func TestReportService_Dashboard(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	seedPeriod(t, db, org)

	svc := NewReportService(repositories.NewReportRepository(), repositories.NewDuesRepository(),
		repositories.NewOrganizationRepository(), db).(*reportService)
	svc.now = func() time.Time { return time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC) }

	summary, err := svc.GetDashboard(context.Background(), org)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveMembers)
	assert.Equal(t, 1, summary.InactiveMembers)
	assert.Equal(t, 3, summary.TotalMembers)
	assert.Equal(t, models.DefaultMemberLimit, summary.MemberLimit)
	assert.True(t, decimal.NewFromInt(30).Equal(summary.CollectedThisMonth))
	assert.True(t, decimal.NewFromInt(60).Equal(summary.PendingThisMonth))
	assert.Equal(t, 2, summary.MembersInArrears)
	assert.Equal(t, 3, summary.NewThisMonth)
	require.Len(t, summary.PaymentsByMonth, 1)
	assert.Equal(t, 1, summary.PaymentsByMonth[0].Month)
	assert.Equal(t, []models.MonthlyJoins{{Month: "01", Count: 3}}, summary.JoinsByMonth)

	_, err = svc.GetDashboard(context.Background(), org+100)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestReportService_FinancialReport(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	seedPeriod(t, db, org)
	svc := NewReportService(repositories.NewReportRepository(), repositories.NewDuesRepository(),
		repositories.NewOrganizationRepository(), db)

	report, err := svc.GetFinancialReport(context.Background(), org, 1, 2024)
	require.NoError(t, err)
	assert.Len(t, report.Payments, 3, "the listing includes inactive members")
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Paid)
	assert.True(t, decimal.NewFromInt(30).Equal(report.Summary.AmountPending))

	_, err = svc.GetFinancialReport(context.Background(), org, 0, 2024)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestExportService(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	org := testutil.CreateOrganization(t, db, "Bairro Verde")
	seedPeriod(t, db, org)
	svc := NewExportService(repositories.NewMemberRepository(), repositories.NewDuesRepository(), db)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportMembers(ctx, org, &buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows("Sócios")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Len(t, rows, 4)
	assert.Equal(t, "Nome", rows[0][1])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, models.MemberInactive, rows[3][11])

	buf.Reset()
	require.NoError(t, svc.ExportDues(ctx, org, 1, 2024, &buf))
	f, err = excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err = f.GetRows("Mensalidades")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Nº Sócio", "Nome", "Mês", "Ano", "Valor", "Status", "Data Pagamento", "Nº Recibo"}, rows[0])
	assert.Equal(t, []string{"0001", "Ana", "1", "2024", "R$ 30.00", models.DuesPaid, "2024-01-20", "REC-1"}, rows[1])
	assert.Equal(t, "-", rows[2][7])

	assert.ErrorIs(t, svc.ExportDues(ctx, org, 13, 2024, &buf), ErrInvalidPeriod)
}

func TestWriteSheet_InvalidCell(t *testing.T) {
	var buf bytes.Buffer
	// One header past excelize's last column.
	err := writeSheet(&buf, "Socios", make([]string, excelize.MaxColumns+1), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cell")
	assert.Zero(t, buf.Len(), "nothing is written after a failed cell")

	buf.Reset()
	rows := [][]interface{}{{"0001", "Ana", decimal.NewFromInt(30).InexactFloat64()}}
	require.NoError(t, writeSheet(&buf, "Socios", []string{"Numero", "Nome", "Valor"}, rows))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetCellValue("Socios", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)
}
