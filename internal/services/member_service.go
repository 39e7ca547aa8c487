package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
	"associa_backend/pkg/utils"
)

// --- Custom Service Errors for Member ---
var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrNationalIDExists   = errors.New("CPF already registered in this organization")
	ErrMemberNumberTaken  = errors.New("member number already in use")
	ErrMemberLimitReached = errors.New("member limit reached for this organization")
	ErrMemberValidation   = errors.New("member data validation error")
	ErrDateFormat         = errors.New("invalid date format, please use YYYY-MM-DD")
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
	memberNumberLen = 4
)

// --- MemberService Interface ---
type MemberService interface {
	GetMembers(ctx context.Context, organizationID int64, filter models.MemberFilter) (*models.MemberPage, error)
	GetCapacity(ctx context.Context, organizationID int64) (*models.Capacity, error)
	GetMemberSummaries(ctx context.Context, organizationID int64) ([]models.MemberSummary, error)
	GetMemberByID(ctx context.Context, organizationID, id int64) (*models.Member, error)
	CreateMember(ctx context.Context, organizationID int64, req models.MemberPayload) (*models.Member, error)
	UpdateMember(ctx context.Context, organizationID, id int64, req models.MemberPayload) (*models.Member, error)
	DeleteMember(ctx context.Context, organizationID, id int64) error
}

// --- memberService Implementation ---
type memberService struct {
	memberRepo repositories.MemberRepository
	orgRepo    repositories.OrganizationRepository
	db         *sql.DB
}

// NewMemberService creates a new instance of MemberService.
func NewMemberService(memberRepo repositories.MemberRepository, orgRepo repositories.OrganizationRepository, db *sql.DB) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		orgRepo:    orgRepo,
		db:         db,
	}
}

func validDate(s *string) bool {
	if s == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", *s)
	return err == nil
}

// normalizeMember validates the payload and copies it onto m, storing blank optional fields as NULL.
func normalizeMember(req models.MemberPayload, m *models.Member) error {
	name := strings.TrimSpace(req.Name)
	cpf := strings.TrimSpace(req.CPF)
	if name == "" || cpf == "" {
		return fmt.Errorf("%w: nome and cpf are required", ErrMemberValidation)
	}
	status := req.Status
	if status == "" {
		status = models.MemberActive
	}
	if status != models.MemberActive && status != models.MemberInactive {
		return fmt.Errorf("%w: situacao must be %s or %s", ErrMemberValidation, models.MemberActive, models.MemberInactive)
	}

	m.Name = name
	m.CPF = cpf
	m.Status = status
	m.RG = utils.NullIfEmpty(req.RG)
	m.BirthDate = utils.NullIfEmpty(req.BirthDate)
	m.MotherName = utils.NullIfEmpty(req.MotherName)
	m.FatherName = utils.NullIfEmpty(req.FatherName)
	m.ZipCode = utils.NullIfEmpty(req.ZipCode)
	m.Street = utils.NullIfEmpty(req.Street)
	m.StreetNumber = utils.NullIfEmpty(req.StreetNumber)
	m.Complement = utils.NullIfEmpty(req.Complement)
	m.District = utils.NullIfEmpty(req.District)
	m.City = utils.NullIfEmpty(req.City)
	m.State = utils.NullIfEmpty(req.State)
	m.Phone = utils.NullIfEmpty(req.Phone)
	m.WhatsApp = utils.NullIfEmpty(req.WhatsApp)
	m.MaritalStatus = utils.NullIfEmpty(req.MaritalStatus)
	m.Occupation = utils.NullIfEmpty(req.Occupation)
	m.NIS = utils.NullIfEmpty(req.NIS)
	m.JoinDate = utils.NullIfEmpty(req.JoinDate)
	m.Notes = utils.NullIfEmpty(req.Notes)

	if !validDate(m.BirthDate) || !validDate(m.JoinDate) {
		return ErrDateFormat
	}
	return nil
}

func mapMemberWriteError(err error, action string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrMemberNotFound
	case repositories.DuplicateOn(err, "cpf"):
		return ErrNationalIDExists
	case repositories.DuplicateOn(err, "numero"):
		return ErrMemberNumberTaken
	}
	return fmt.Errorf("error %s member: %w", action, err)
}

func (s *memberService) GetMembers(ctx context.Context, organizationID int64, filter models.MemberFilter) (*models.MemberPage, error) {
	if filter.Status == "Todos" {
		filter.Status = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	members, total, err := s.memberRepo.GetMembers(ctx, s.db, organizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	return &models.MemberPage{
		Members: members,
		Total:   total,
		Page:    filter.Page,
		Pages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetCapacity compares the member count with the organization's current limit.
func (s *memberService) GetCapacity(ctx context.Context, organizationID int64) (*models.Capacity, error) {
	org, err := s.orgRepo.GetOrganizationByID(ctx, s.db, organizationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error fetching organization: %w", err)
	}
	total, active, err := s.memberRepo.CountMembers(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error counting members: %w", err)
	}

	limit := org.MemberLimit
	if limit <= 0 {
		limit = models.DefaultMemberLimit
	}
	return &models.Capacity{
		Total:     total,
		Active:    active,
		Limit:     limit,
		Available: limit - total,
		Percent:   int(math.Round(float64(total) * 100 / float64(limit))),
	}, nil
}

func (s *memberService) GetMemberSummaries(ctx context.Context, organizationID int64) ([]models.MemberSummary, error) {
	summaries, err := s.memberRepo.GetMemberSummaries(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	return summaries, nil
}

func (s *memberService) GetMemberByID(ctx context.Context, organizationID, id int64) (*models.Member, error) {
	m, err := s.memberRepo.GetMemberByID(ctx, s.db, organizationID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("error fetching member: %w", err)
	}
	return m, nil
}

// CreateMember checks the capacity and assigns the next number inside one
// transaction, so two concurrent sign-ups cannot share a number.
func (s *memberService) CreateMember(ctx context.Context, organizationID int64, req models.MemberPayload) (*models.Member, error) {
	m := &models.Member{OrganizationID: organizationID}
	if err := normalizeMember(req, m); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	org, err := s.orgRepo.GetOrganizationByID(ctx, tx, organizationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error fetching organization: %w", err)
	}
	total, _, err := s.memberRepo.CountMembers(ctx, tx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error counting members: %w", err)
	}
	if total >= org.MemberLimit {
		return nil, fmt.Errorf("%w: limit is %d", ErrMemberLimitReached, org.MemberLimit)
	}

	last, err := s.memberRepo.MaxMemberNumber(ctx, tx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error reading last member number: %w", err)
	}
	m.Number = utils.PadNumber(last+1, memberNumberLen)

	if _, err := s.memberRepo.CreateMember(ctx, tx, m); err != nil {
		return nil, mapMemberWriteError(err, "creating")
	}
	created, err := s.memberRepo.GetMemberByID(ctx, tx, organizationID, m.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching created member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit member: %w", err)
	}
	return created, nil
}

func (s *memberService) UpdateMember(ctx context.Context, organizationID, id int64, req models.MemberPayload) (*models.Member, error) {
	m := &models.Member{ID: id, OrganizationID: organizationID}
	if err := normalizeMember(req, m); err != nil {
		return nil, err
	}
	if err := s.memberRepo.UpdateMember(ctx, s.db, m); err != nil {
		return nil, mapMemberWriteError(err, "updating")
	}
	return s.GetMemberByID(ctx, organizationID, id)
}

// DeleteMember removes the member and, by cascade, their dues.
func (s *memberService) DeleteMember(ctx context.Context, organizationID, id int64) error {
	if err := s.memberRepo.DeleteMember(ctx, s.db, organizationID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("error deleting member: %w", err)
	}
	utils.LogInfo("Member deleted", map[string]interface{}{"associacao_id": organizationID, "associado_id": id})
	return nil
}
