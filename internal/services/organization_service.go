package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
	"associa_backend/pkg/utils"
)

var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrOrganizationEmailExists = errors.New("organization email already registered")
	ErrRegistrationValidation  = errors.New("registration data validation error")
)

// OrganizationService handles public sign-up of new tenants.
type OrganizationService interface {
	Register(ctx context.Context, req models.RegistrationPayload) (*models.RegistrationResponse, error)
}

type organizationService struct {
	orgRepo      repositories.OrganizationRepository
	authRepo     repositories.AuthRepository
	settingRepo  repositories.SettingRepository
	db           *sql.DB
	tokenManager *utils.TokenManager
}

// NewOrganizationService creates a new instance of OrganizationService.
func NewOrganizationService(
	orgRepo repositories.OrganizationRepository,
	authRepo repositories.AuthRepository,
	settingRepo repositories.SettingRepository,
	db *sql.DB,
	tm *utils.TokenManager,
) OrganizationService {
	return &organizationService{
		orgRepo:      orgRepo,
		authRepo:     authRepo,
		settingRepo:  settingRepo,
		db:           db,
		tokenManager: tm,
	}
}

func validateRegistration(req *models.RegistrationPayload) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.Username = strings.TrimSpace(req.Username)

	if req.Name == "" || req.Email == "" || req.AdminName == "" || req.Username == "" || req.Password == "" {
		return fmt.Errorf("%w: nome, email, nomeAdmin, username and senha are required", ErrRegistrationValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return fmt.Errorf("%w: email format is invalid", ErrRegistrationValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, minPasswordLength) {
		return ErrWeakPassword
	}
	return nil
}

// Register creates the organization, its admin user and the default configuration
// in one transaction, then signs the admin in.
func (s *organizationService) Register(ctx context.Context, req models.RegistrationPayload) (*models.RegistrationResponse, error) {
	if err := validateRegistration(&req); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	org := &models.Organization{
		Name:        req.Name,
		CNPJ:        strings.TrimSpace(req.CNPJ),
		Email:       req.Email,
		Phone:       strings.TrimSpace(req.Phone),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		MemberLimit: models.DefaultMemberLimit,
		Status:      models.OrganizationActive,
	}
	if _, err := s.orgRepo.CreateOrganization(ctx, tx, org); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrOrganizationEmailExists
		}
		return nil, fmt.Errorf("error creating organization: %w", err)
	}

	admin := &models.User{
		OrganizationID: org.ID,
		Username:       req.Username,
		PasswordHash:   hashed,
		Name:           req.AdminName,
		Role:           models.RoleAdmin,
	}
	if _, err := s.authRepo.CreateUser(ctx, tx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("error creating admin user: %w", err)
	}

	defaults := [][2]string{
		{models.DuesAmountKey, models.DefaultDuesAmount.StringFixed(2)},
		{models.SettingPresident, ""},
		{models.SettingOrgAddress, ""},
		{models.SettingOrgPhone, org.Phone},
		{models.SettingOrgEmail, org.Email},
	}
	for _, kv := range defaults {
		if err := s.settingRepo.UpsertSetting(ctx, tx, org.ID, kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("error saving default settings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}
	utils.LogInfo("Organization registered", map[string]interface{}{"associacao_id": org.ID, "admin_id": admin.ID})

	created, err := s.orgRepo.GetOrganizationByID(ctx, s.db, org.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching created organization: %w", err)
	}
	session, err := issueSession(s.tokenManager, models.SessionUser{
		ID:               admin.ID,
		Username:         admin.Username,
		Role:             admin.Role,
		Name:             admin.Name,
		OrganizationID:   created.ID,
		OrganizationName: created.Name,
		MemberLimit:      created.MemberLimit,
	})
	if err != nil {
		return nil, err
	}
	return &models.RegistrationResponse{
		Message:      "Associação cadastrada com sucesso!",
		Token:        session.Token,
		User:         session.User,
		Organization: created,
	}, nil
}
