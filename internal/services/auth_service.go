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

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// --- Custom Service Errors ---
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrOrganizationInactive = errors.New("organization is inactive")
	ErrUsernameExists       = errors.New("username already exists in this organization")
	ErrWeakPassword         = errors.New("password must have at least 6 characters")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrInvalidRole          = errors.New("role must be admin or secretario")
	ErrCannotDeleteSelf     = errors.New("users cannot delete their own account")
	ErrTokenGeneration      = errors.New("failed to generate token")
	ErrUserValidation       = errors.New("user data validation error")
)

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, req models.Credentials) (*models.LoginResponse, error)
	CurrentUser(ctx context.Context, organizationID, userID int64) (*models.SessionUser, error)
	ChangePassword(ctx context.Context, organizationID, userID int64, req models.ChangePasswordPayload) error
	ListUsers(ctx context.Context, organizationID int64) ([]models.User, error)
	CreateUser(ctx context.Context, organizationID int64, req models.CreateUserPayload) (*models.User, error)
	DeleteUser(ctx context.Context, organizationID, callerID, userID int64) error
	UsernameAvailable(ctx context.Context, organizationID int64, username string) (bool, error)
}

// --- authService Implementation ---
type authService struct {
	authRepo     repositories.AuthRepository
	orgRepo      repositories.OrganizationRepository
	db           *sql.DB // Used as SQLExecutor for single repo calls
	tokenManager *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, orgRepo repositories.OrganizationRepository, db *sql.DB, tm *utils.TokenManager) AuthService {
	return &authService{
		authRepo:     authRepo,
		orgRepo:      orgRepo,
		db:           db,
		tokenManager: tm,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// issueSession signs a token for the session user.
func issueSession(tm *utils.TokenManager, su models.SessionUser) (*models.LoginResponse, error) {
	token, err := tm.GenerateAccessToken(utils.Claims{
		UserID:           su.ID,
		Username:         su.Username,
		Name:             su.Name,
		Role:             su.Role,
		OrganizationID:   su.OrganizationID,
		OrganizationName: su.OrganizationName,
		MemberLimit:      su.MemberLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &models.LoginResponse{Token: token, User: su}, nil
}

// Login checks the password against every account with that username.
// Usernames are only unique per organization, so the first (oldest) account
// whose hash matches wins.
func (s *authService) Login(ctx context.Context, req models.Credentials) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	candidates, err := s.authRepo.FindLoginCandidates(ctx, s.db, username)
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	for _, c := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)) != nil {
			continue
		}
		if c.OrganizationStatus != models.OrganizationActive {
			return nil, ErrOrganizationInactive
		}
		utils.LogInfo("User logged in", map[string]interface{}{"user_id": c.ID, "associacao_id": c.OrganizationID})
		return issueSession(s.tokenManager, models.SessionUser{
			ID:               c.ID,
			Username:         c.Username,
			Role:             c.Role,
			Name:             c.Name,
			OrganizationID:   c.OrganizationID,
			OrganizationName: c.OrganizationName,
			MemberLimit:      c.MemberLimit,
		})
	}
	return nil, ErrInvalidCredentials
}

// CurrentUser reloads the caller from storage so renamed organizations and new limits show up.
func (s *authService) CurrentUser(ctx context.Context, organizationID, userID int64) (*models.SessionUser, error) {
	user, err := s.authRepo.FindUserByID(ctx, s.db, organizationID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	org, err := s.orgRepo.GetOrganizationByID(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error fetching organization: %w", err)
	}
	return &models.SessionUser{
		ID:               user.ID,
		Username:         user.Username,
		Role:             user.Role,
		Name:             user.Name,
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		MemberLimit:      org.MemberLimit,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, organizationID, userID int64, req models.ChangePasswordPayload) error {
	user, err := s.authRepo.FindUserByID(ctx, s.db, organizationID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error fetching user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	if !utils.IsValidPasswordLength(req.NewPassword, minPasswordLength) {
		return ErrWeakPassword
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.authRepo.UpdatePassword(ctx, s.db, organizationID, userID, hashed); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

func (s *authService) ListUsers(ctx context.Context, organizationID int64) ([]models.User, error) {
	users, err := s.authRepo.ListUsers(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// CreateUser adds an operator to the caller's organization. Role defaults to secretario.
func (s *authService) CreateUser(ctx context.Context, organizationID int64, req models.CreateUserPayload) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	if username == "" || name == "" {
		return nil, fmt.Errorf("%w: username and name are required", ErrUserValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, minPasswordLength) {
		return nil, ErrWeakPassword
	}
	role := req.Role
	if role == "" {
		role = models.RoleSecretary
	}
	if role != models.RoleAdmin && role != models.RoleSecretary {
		return nil, ErrInvalidRole
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		OrganizationID: organizationID,
		Username:       username,
		PasswordHash:   hashed,
		Name:           name,
		Role:           role,
	}
	if _, err := s.authRepo.CreateUser(ctx, s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return s.authRepo.FindUserByID(ctx, s.db, organizationID, user.ID)
}

func (s *authService) DeleteUser(ctx context.Context, organizationID, callerID, userID int64) error {
	if callerID == userID {
		return ErrCannotDeleteSelf
	}
	if err := s.authRepo.DeleteUser(ctx, s.db, organizationID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// UsernameAvailable reports whether the username is free within the organization.
func (s *authService) UsernameAvailable(ctx context.Context, organizationID int64, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}
	exists, err := s.authRepo.UsernameExists(ctx, s.db, organizationID, username)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return !exists, nil
}
