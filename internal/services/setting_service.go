package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"associa_backend/internal/models"
	"associa_backend/internal/repositories"
	"associa_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var ErrSettingValidation = errors.New("setting validation error")

// SettingService reads and writes an organization's configuration, including
// the profile fields kept on the organization row.
type SettingService interface {
	GetSettings(ctx context.Context, organizationID int64) (map[string]string, error)
	SaveSettings(ctx context.Context, organizationID int64, values map[string]string) error
}

type settingService struct {
	settingRepo repositories.SettingRepository
	orgRepo     repositories.OrganizationRepository
	db          *sql.DB
}

// NewSettingService creates a new instance of SettingService.
func NewSettingService(settingRepo repositories.SettingRepository, orgRepo repositories.OrganizationRepository, db *sql.DB) SettingService {
	return &settingService{settingRepo: settingRepo, orgRepo: orgRepo, db: db}
}

// GetSettings merges stored keys with the organization profile; profile values win.
func (s *settingService) GetSettings(ctx context.Context, organizationID int64) (map[string]string, error) {
	settings, err := s.settingRepo.GetSettings(ctx, s.db, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	org, err := s.orgRepo.GetOrganizationByID(ctx, s.db, organizationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error fetching organization: %w", err)
	}

	result := make(map[string]string, len(settings)+8)
	for _, st := range settings {
		result[st.Key] = st.Value
	}
	result[models.SettingOrgName] = org.Name
	result[models.SettingOrgCNPJ] = org.CNPJ
	result[models.SettingOrgAddress] = org.Address
	result[models.SettingOrgPhone] = org.Phone
	result[models.SettingOrgEmail] = org.Email
	result[models.SettingOrgCity] = org.City
	result[models.SettingOrgState] = org.State
	result[models.SettingOrgLimit] = strconv.Itoa(org.MemberLimit)
	return result, nil
}

func validateSetting(key, value string) error {
	switch key {
	case models.DuesAmountKey:
		amount, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || !amount.IsPositive() {
			return fmt.Errorf("%w: %s must be a positive number", ErrSettingValidation, key)
		}
	case models.SettingOrgName:
		if utils.IsEmpty(value) {
			return fmt.Errorf("%w: %s cannot be empty", ErrSettingValidation, key)
		}
	case models.SettingOrgEmail:
		if !utils.IsValidEmail(value) {
			return fmt.Errorf("%w: %s format is invalid", ErrSettingValidation, key)
		}
	}
	return nil
}

// SaveSettings applies every key in one transaction: profile keys update the
// organization row, the rest are upserted. limite_socios is read-only here.
func (s *settingService) SaveSettings(ctx context.Context, organizationID int64, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key, value := range values {
		if utils.IsEmpty(key) {
			return fmt.Errorf("%w: empty key", ErrSettingValidation)
		}
		if key == models.SettingOrgLimit {
			continue
		}
		if err := validateSetting(key, value); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		value := values[key]
		if repositories.IsProfileKey(key) {
			if key == models.SettingOrgEmail {
				value = strings.ToLower(strings.TrimSpace(value))
			}
			if err := s.orgRepo.UpdateProfileField(ctx, tx, organizationID, key, value); err != nil {
				switch {
				case errors.Is(err, repositories.ErrNotFound):
					return ErrOrganizationNotFound
				case errors.Is(err, repositories.ErrDuplicateKey):
					return ErrOrganizationEmailExists
				}
				return fmt.Errorf("error updating organization profile: %w", err)
			}
			continue
		}
		if err := s.settingRepo.UpsertSetting(ctx, tx, organizationID, key, value); err != nil {
			return fmt.Errorf("error saving setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	utils.LogInfo("Settings saved", map[string]interface{}{"associacao_id": organizationID, "keys": len(keys)})
	return nil
}
