package services

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/ledger"
	"khatabook/internal/logger"
	"khatabook/internal/models"
)

// settingsStore reads and writes the per-user JSON documents that hold the
// chart-of-accounts overrides and the category lists.
type settingsStore struct {
	db *gorm.DB
}

func (s settingsStore) load(ctx context.Context, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserSettings{UserID: userID}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// accountOverrides returns the stored overrides. A malformed document is
// logged and treated as no overrides.
func (s settingsStore) accountOverrides(ctx context.Context, userID string) ([]ledger.AccountOverride, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings.AccountConfig == "" {
		return nil, nil
	}
	var overrides []ledger.AccountOverride
	if err := json.Unmarshal([]byte(settings.AccountConfig), &overrides); err != nil {
		logger.Get().Warnw("ignoring malformed account config", "user_id", userID, "error", err)
		return nil, nil
	}
	return overrides, nil
}

// categories returns the stored lists with defaults substituted per side.
func (s settingsStore) categories(ctx context.Context, userID string) (ledger.Categories, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return ledger.Categories{}, err
	}
	var stored ledger.Categories
	if settings.CategoryConfig != "" {
		if err := json.Unmarshal([]byte(settings.CategoryConfig), &stored); err != nil {
			logger.Get().Warnw("ignoring malformed category config", "user_id", userID, "error", err)
			stored = ledger.Categories{}
		}
	}
	return ledger.NormalizeCategories(stored), nil
}

func (s settingsStore) saveAccounts(userID string, reg *ledger.Registry) error {
	return s.save(userID, "account_config", reg.Overrides())
}

func (s settingsStore) saveCategories(userID string, cats ledger.Categories) error {
	return s.save(userID, "category_config", cats)
}

// save upserts one JSON column of the user's settings row.
func (s settingsStore) save(userID, column string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings := &models.UserSettings{UserID: userID}
	switch column {
	case "account_config":
		settings.AccountConfig = string(data)
	case "category_config":
		settings.CategoryConfig = string(data)
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(settings).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ledgerError maps the ledger's sentinel errors to API errors.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		return apperrors.ErrAccountNotFound
	case errors.Is(err, ledger.ErrDefaultAccount):
		return apperrors.ErrDefaultAccount
	case errors.Is(err, ledger.ErrInvalidAccount),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, ledger.ErrInvalidSide):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	case errors.Is(err, ledger.ErrDuplicateCategory):
		return apperrors.ErrDuplicateCategory
	case errors.Is(err, ledger.ErrCategoryIndex):
		return apperrors.ErrCategoryIndex
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
