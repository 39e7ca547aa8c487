package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
	"associa_backend/internal/telemetry"
	"associa_backend/pkg/utils"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrDuesNotFound    = errors.New("dues record not found")
	ErrDuesExists      = errors.New("dues record already exists for this month/year")
	ErrInvalidPeriod   = errors.New("month must be 1-12 and year 2000-2100")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidDuesData = errors.New("dues data validation error")
)

// DuesService implements monthly generation and the Pending/Paid state machine.
type DuesService interface {
	GetDues(ctx context.Context, organizationID int64, filter models.DuesFilter) ([]models.DuesRecord, error)
	GetArrears(ctx context.Context, organizationID int64) ([]models.ArrearsEntry, error)
	GenerateMonth(ctx context.Context, organizationID int64, month, year int, amount *decimal.Decimal) (int, error)
	MarkPaid(ctx context.Context, organizationID, id int64, req models.MarkPaidPayload) (string, error)
	RevertPayment(ctx context.Context, organizationID, id int64) error
	CreateDues(ctx context.Context, organizationID int64, req models.CreateDuesPayload) (*models.DuesRecord, error)
	DeleteDues(ctx context.Context, organizationID, id int64) error
}

type duesService struct {
	duesRepo    repositories.DuesRepository
	memberRepo  repositories.MemberRepository
	settingRepo repositories.SettingRepository
	db          *sql.DB

	now     func() time.Time
	receipt func(time.Time) string
}

// NewDuesService creates a new instance of DuesService.
func NewDuesService(
	duesRepo repositories.DuesRepository,
	memberRepo repositories.MemberRepository,
	settingRepo repositories.SettingRepository,
	db *sql.DB,
) DuesService {
	return &duesService{
		duesRepo:    duesRepo,
		memberRepo:  memberRepo,
		settingRepo: settingRepo,
		db:          db,
		now:         time.Now,
		receipt:     ReceiptNumber,
	}
}

// ReceiptNumber formats a time-based receipt identifier, e.g. REC-1709251200000.
// It is meant for display; two payments in the same millisecond share a number.
func ReceiptNumber(t time.Time) string {
	return fmt.Sprintf("REC-%d", t.UnixMilli())
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}

// defaultAmount reads valor_mensalidade, falling back to DefaultDuesAmount when the
// key is missing, unparsable or not positive.
func (s *duesService) defaultAmount(ctx context.Context, executor repositories.SQLExecutor, organizationID int64) (decimal.Decimal, error) {
	raw, err := s.settingRepo.GetSetting(ctx, executor, organizationID, models.DuesAmountKey)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.DefaultDuesAmount, nil
		}
		return decimal.Zero, fmt.Errorf("error reading default amount: %w", err)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		utils.LogWarn("Invalid valor_mensalidade, using default", map[string]interface{}{
			"associacao_id": organizationID, "valor": raw,
		})
		return models.DefaultDuesAmount, nil
	}
	return amount, nil
}

func (s *duesService) GetDues(ctx context.Context, organizationID int64, filter models.DuesFilter) ([]models.DuesRecord, error) {
	records, err := s.duesRepo.GetDues(ctx, s.db, organizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing dues: %w", err)
	}
	return records, nil
}

func (s *duesService) GetArrears(ctx context.Context, organizationID int64) ([]models.ArrearsEntry, error) {
	entries, err := s.duesRepo.GetArrears(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error computing arrears: %w", err)
	}
	return entries, nil
}

// GenerateMonth creates a Pending record for every active member that has none for
// the period and returns how many were created. All inserts share one transaction:
// any failure leaves the period untouched. Running it again is a no-op.
func (s *duesService) GenerateMonth(ctx context.Context, organizationID int64, month, year int, amount *decimal.Decimal) (created int, err error) {
	ctx, span := startSpan(ctx, "dues.generate_month", organizationID,
		attribute.Int("dues.month", month), attribute.Int("dues.year", year))
	defer func() {
		span.SetAttributes(attribute.Int("dues.created", created))
		endSpan(span, err)
	}()

	if !validPeriod(month, year) {
		return 0, ErrInvalidPeriod
	}
	if amount != nil && amount.IsNegative() {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	value := decimal.Zero
	if amount != nil {
		value = *amount
	}
	if value.IsZero() {
		if value, err = s.defaultAmount(ctx, tx, organizationID); err != nil {
			return 0, err
		}
	}

	memberIDs, err := s.memberRepo.GetActiveMemberIDs(ctx, tx, organizationID)
	if err != nil {
		return 0, fmt.Errorf("error listing active members: %w", err)
	}

	for _, memberID := range memberIDs {
		inserted, err := s.duesRepo.InsertPendingIfAbsent(ctx, tx, organizationID, memberID, month, year, value)
		if err != nil {
			return 0, fmt.Errorf("error generating dues: %w", err)
		}
		if inserted {
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit generated dues: %w", err)
	}

	telemetry.DuesGenerated.Add(float64(created))
	utils.LogInfo("Monthly dues generated", map[string]interface{}{
		"associacao_id": organizationID, "mes": month, "ano": year, "criados": created,
	})
	return created, nil
}

// MarkPaid moves a record to Paid with a fresh receipt. The payment date defaults to
// today and the note is replaced (nil clears it). A record that is already Paid
// gets a new receipt.
func (s *duesService) MarkPaid(ctx context.Context, organizationID, id int64, req models.MarkPaidPayload) (receipt string, err error) {
	ctx, span := startSpan(ctx, "dues.mark_paid", organizationID, attribute.Int64("dues.id", id))
	defer func() { endSpan(span, err) }()

	now := s.now()
	paymentDate := now.Format("2006-01-02")
	if d := utils.NullIfEmpty(req.PaymentDate); d != nil {
		if !validDate(d) {
			return "", ErrDateFormat
		}
		paymentDate = *d
	}

	receipt = s.receipt(now)
	if err := s.duesRepo.MarkPaid(ctx, s.db, organizationID, id, paymentDate, receipt, utils.NullIfEmpty(req.Note)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrDuesNotFound
		}
		return "", fmt.Errorf("error marking dues paid: %w", err)
	}

	telemetry.PaymentTransitions.WithLabelValues("paid").Inc()
	return receipt, nil
}

// RevertPayment moves a record back to Pending, clearing payment date and receipt.
func (s *duesService) RevertPayment(ctx context.Context, organizationID, id int64) (err error) {
	ctx, span := startSpan(ctx, "dues.revert_payment", organizationID, attribute.Int64("dues.id", id))
	defer func() { endSpan(span, err) }()

	if err := s.duesRepo.RevertPayment(ctx, s.db, organizationID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDuesNotFound
		}
		return fmt.Errorf("error reverting payment: %w", err)
	}

	telemetry.PaymentTransitions.WithLabelValues("reverted").Inc()
	utils.LogInfo("Payment reverted", map[string]interface{}{"associacao_id": organizationID, "mensalidade_id": id})
	return nil
}

// CreateDues records a single period for one member of the organization.
// A zero amount falls back to the organization's default; a record created as
// Paid gets a receipt and a payment date like MarkPaid would give it.
func (s *duesService) CreateDues(ctx context.Context, organizationID int64, req models.CreateDuesPayload) (*models.DuesRecord, error) {
	if !validPeriod(req.Month, req.Year) {
		return nil, ErrInvalidPeriod
	}
	if req.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	status := req.Status
	if status == "" {
		status = models.DuesPending
	}
	if status != models.DuesPending && status != models.DuesPaid {
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalidDuesData, models.DuesPending, models.DuesPaid)
	}
	paymentDate := utils.NullIfEmpty(req.PaymentDate)
	if !validDate(paymentDate) {
		return nil, ErrDateFormat
	}

	if _, err := s.memberRepo.GetMemberByID(ctx, s.db, organizationID, req.MemberID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("error fetching member: %w", err)
	}

	amount := req.Amount
	if amount.IsZero() {
		var err error
		if amount, err = s.defaultAmount(ctx, s.db, organizationID); err != nil {
			return nil, err
		}
	}

	record := &models.DuesRecord{
		OrganizationID: organizationID,
		MemberID:       req.MemberID,
		Month:          req.Month,
		Year:           req.Year,
		Amount:         amount,
		Status:         status,
		PaymentDate:    paymentDate,
		Note:           utils.NullIfEmpty(req.Note),
	}
	if status == models.DuesPaid {
		now := s.now()
		receipt := s.receipt(now)
		record.ReceiptNumber = &receipt
		if record.PaymentDate == nil {
			today := now.Format("2006-01-02")
			record.PaymentDate = &today
		}
	} else {
		record.PaymentDate = nil
	}

	if _, err := s.duesRepo.CreateDues(ctx, s.db, record); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuesExists
		}
		return nil, fmt.Errorf("error creating dues: %w", err)
	}
	return s.duesRepo.GetDuesByID(ctx, s.db, organizationID, record.ID)
}

func (s *duesService) DeleteDues(ctx context.Context, organizationID, id int64) error {
	if err := s.duesRepo.DeleteDues(ctx, s.db, organizationID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDuesNotFound
		}
		return fmt.Errorf("error deleting dues: %w", err)
	}
	return nil
}
