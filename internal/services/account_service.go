package services

import (
	"context"

	"gorm.io/gorm"

	"khatabook/internal/ledger"
)

// accountService handles the per-user chart of accounts.
type accountService struct {
	store settingsStore
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{store: settingsStore{db: db}}
}

// GetRegistry builds the user's registry from the defaults and their stored
// overrides.
func (s *accountService) GetRegistry(ctx context.Context, userID string) (*ledger.Registry, error) {
	overrides, err := s.store.accountOverrides(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.NewRegistry(overrides), nil
}

// ListAccounts returns accounts in display order.
func (s *accountService) ListAccounts(userID string, visibleOnly bool) ([]ledger.Account, error) {
	reg, err := s.GetRegistry(context.Background(), userID)
	if err != nil {
		return nil, err
	}
	if visibleOnly {
		return reg.Visible(), nil
	}
	return reg.Accounts(), nil
}

// UpsertAccount updates the account with in.ID, or creates a new account
// when the ID is empty or unknown.
func (s *accountService) UpsertAccount(userID string, in ledger.AccountInput) (*ledger.Account, error) {
	reg, err := s.GetRegistry(context.Background(), userID)
	if err != nil {
		return nil, err
	}
	acc, err := reg.Upsert(in)
	if err != nil {
		return nil, ledgerError(err)
	}
	if err := s.store.saveAccounts(userID, reg); err != nil {
		return nil, err
	}
	return &acc, nil
}

// DeleteAccount removes a user-created account. Transactions referencing it
// are left as they are.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	reg, err := s.GetRegistry(context.Background(), userID)
	if err != nil {
		return err
	}
	if err := reg.Delete(accountID); err != nil {
		return ledgerError(err)
	}
	return s.store.saveAccounts(userID, reg)
}

// ReorderAccounts moves the listed accounts to the front and returns the new
// order.
func (s *accountService) ReorderAccounts(userID string, ids []string) ([]ledger.Account, error) {
	reg, err := s.GetRegistry(context.Background(), userID)
	if err != nil {
		return nil, err
	}
	reg.Reorder(ids)
	if err := s.store.saveAccounts(userID, reg); err != nil {
		return nil, err
	}
	return reg.Accounts(), nil
}
