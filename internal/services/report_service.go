package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
)

// ReportService computes read-only aggregates on demand.
type ReportService interface {
	GetDashboard(ctx context.Context, organizationID int64) (*models.DashboardSummary, error)
	GetFinancialReport(ctx context.Context, organizationID int64, month, year int) (*models.FinancialReport, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	duesRepo   repositories.DuesRepository
	orgRepo    repositories.OrganizationRepository
	db         *sql.DB
	now        func() time.Time
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	reportRepo repositories.ReportRepository,
	duesRepo repositories.DuesRepository,
	orgRepo repositories.OrganizationRepository,
	db *sql.DB,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		duesRepo:   duesRepo,
		orgRepo:    orgRepo,
		db:         db,
		now:        time.Now,
	}
}

// GetDashboard gathers the dashboard metrics for the current month and year.
func (s *reportService) GetDashboard(ctx context.Context, organizationID int64) (*models.DashboardSummary, error) {
	now := s.now()
	month, year := int(now.Month()), now.Year()
	summary := &models.DashboardSummary{}

	org, err := s.orgRepo.GetOrganizationByID(ctx, s.db, organizationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error fetching organization: %w", err)
	}
	summary.MemberLimit = org.MemberLimit

	if summary.ActiveMembers, err = s.reportRepo.CountMembersByStatus(ctx, s.db, organizationID, models.MemberActive); err != nil {
		return nil, fmt.Errorf("error counting active members: %w", err)
	}
	if summary.InactiveMembers, err = s.reportRepo.CountMembersByStatus(ctx, s.db, organizationID, models.MemberInactive); err != nil {
		return nil, fmt.Errorf("error counting inactive members: %w", err)
	}
	summary.TotalMembers = summary.ActiveMembers + summary.InactiveMembers

	if summary.CollectedThisMonth, err = s.reportRepo.SumDues(ctx, s.db, organizationID, models.DuesPaid, month, year); err != nil {
		return nil, fmt.Errorf("error summing collected dues: %w", err)
	}
	if summary.PendingThisMonth, err = s.reportRepo.SumDues(ctx, s.db, organizationID, models.DuesPending, month, year); err != nil {
		return nil, fmt.Errorf("error summing pending dues: %w", err)
	}
	if summary.MembersInArrears, err = s.reportRepo.CountMembersWithPendingDues(ctx, s.db, organizationID); err != nil {
		return nil, fmt.Errorf("error counting members in arrears: %w", err)
	}
	if summary.NewThisMonth, err = s.reportRepo.CountJoins(ctx, s.db, organizationID, month, year); err != nil {
		return nil, fmt.Errorf("error counting new members: %w", err)
	}
	if summary.PaymentsByMonth, err = s.reportRepo.PaymentsByMonth(ctx, s.db, organizationID, year); err != nil {
		return nil, fmt.Errorf("error loading payments by month: %w", err)
	}
	if summary.JoinsByMonth, err = s.reportRepo.JoinsByMonth(ctx, s.db, organizationID, year); err != nil {
		return nil, fmt.Errorf("error loading joins by month: %w", err)
	}
	return summary, nil
}

// GetFinancialReport lists the period's records (all members) with a summary over active members.
func (s *reportService) GetFinancialReport(ctx context.Context, organizationID int64, month, year int) (*models.FinancialReport, error) {
	if !validPeriod(month, year) {
		return nil, ErrInvalidPeriod
	}
	payments, err := s.duesRepo.GetDues(ctx, s.db, organizationID, models.DuesFilter{Month: month, Year: year})
	if err != nil {
		return nil, fmt.Errorf("error listing period dues: %w", err)
	}
	summary, err := s.reportRepo.FinancialSummary(ctx, s.db, organizationID, month, year)
	if err != nil {
		return nil, fmt.Errorf("error computing financial summary: %w", err)
	}
	return &models.FinancialReport{Payments: payments, Summary: summary}, nil
}
