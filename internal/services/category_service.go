package services

import (
	"context"

	"gorm.io/gorm"

	"khatabook/internal/ledger"
)

// categoryService handles the per-user category lists.
type categoryService struct {
	store settingsStore
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{store: settingsStore{db: db}}
}

// GetCategories returns both lists, with defaults for any empty side.
func (s *categoryService) GetCategories(userID string) (ledger.Categories, error) {
	return s.store.categories(context.Background(), userID)
}

// AddCategory appends a label to one side.
func (s *categoryService) AddCategory(userID string, side ledger.FlowType, label string) (ledger.Categories, error) {
	return s.mutate(userID, func(c *ledger.Categories) error {
		return c.Add(side, label)
	})
}

// RenameCategory replaces the label at index. Existing transactions keep the
// old label.
func (s *categoryService) RenameCategory(userID string, side ledger.FlowType, index int, label string) (ledger.Categories, error) {
	return s.mutate(userID, func(c *ledger.Categories) error {
		return c.Rename(side, index, label)
	})
}

// DeleteCategory removes the label at index.
func (s *categoryService) DeleteCategory(userID string, side ledger.FlowType, index int) (ledger.Categories, error) {
	return s.mutate(userID, func(c *ledger.Categories) error {
		return c.Delete(side, index)
	})
}

func (s *categoryService) mutate(userID string, fn func(*ledger.Categories) error) (ledger.Categories, error) {
	cats, err := s.store.categories(context.Background(), userID)
	if err != nil {
		return ledger.Categories{}, err
	}
	if err := fn(&cats); err != nil {
		return ledger.Categories{}, ledgerError(err)
	}
	if err := s.store.saveCategories(userID, cats); err != nil {
		return ledger.Categories{}, err
	}
	return cats, nil
}
