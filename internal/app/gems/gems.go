// Package gems implements the double-entry gems ledger. Every grant or
// spend creates matched DEBIT/CREDIT entries between the reward_pool and
// wallet accounts; SUM(debits) == SUM(credits) is an invariant. The wallet
// balance mirrors UserProfile.Gems, and the ledger is the audit trail.
package gems

import (
	"fmt"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/infra/sqlite"
)

const (
	accountWallet = "wallet"
	accountPool   = "reward_pool"
)

// Service manages the gems economy.
type Service struct {
	db *sqlite.DB
}

// NewService creates a gems service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Balance returns the current wallet balance per the ledger.
func (s *Service) Balance() (int64, error) {
	return s.db.AccountBalance(accountWallet)
}

// Grant records gems earned from a reward (quest claim, streak bonus).
// Creates matched DEBIT (reward_pool) and CREDIT (wallet) entries in one
// transaction.
func (s *Service) Grant(amount int64, ref, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	poolBal, err := s.db.AccountBalance(accountPool)
	if err != nil {
		return fmt.Errorf("get pool balance: %w", err)
	}
	walletBal, err := s.db.AccountBalance(accountWallet)
	if err != nil {
		return fmt.Errorf("get wallet balance: %w", err)
	}

	now := time.Now()
	return s.db.AppendLedgerEntries([]domain.LedgerEntry{
		{
			Timestamp: now, Type: domain.TxGrant, EntryType: domain.EntryDebit,
			Account: accountPool, Amount: amount, Ref: ref,
			Description: reason, Balance: poolBal - amount,
		},
		{
			Timestamp: now, Type: domain.TxGrant, EntryType: domain.EntryCredit,
			Account: accountWallet, Amount: amount, Ref: ref,
			Description: reason, Balance: walletBal + amount,
		},
	})
}

// Spend records gems spent in the shop. Fails with
// domain.ErrInsufficientGems when the wallet cannot cover the amount.
func (s *Service) Spend(amount int64, ref, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("spend amount must be positive, got %d", amount)
	}

	walletBal, err := s.db.AccountBalance(accountWallet)
	if err != nil {
		return fmt.Errorf("get wallet balance: %w", err)
	}
	if walletBal < amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientGems, walletBal, amount)
	}
	poolBal, err := s.db.AccountBalance(accountPool)
	if err != nil {
		return fmt.Errorf("get pool balance: %w", err)
	}

	now := time.Now()
	return s.db.AppendLedgerEntries([]domain.LedgerEntry{
		{
			Timestamp: now, Type: domain.TxSpend, EntryType: domain.EntryDebit,
			Account: accountWallet, Amount: amount, Ref: ref,
			Description: reason, Balance: walletBal - amount,
		},
		{
			Timestamp: now, Type: domain.TxSpend, EntryType: domain.EntryCredit,
			Account: accountPool, Amount: amount, Ref: ref,
			Description: reason, Balance: poolBal + amount,
		},
	})
}

// History returns recent ledger rows, newest first.
func (s *Service) History(limit int) ([]domain.LedgerEntry, error) {
	return s.db.LedgerHistory(limit)
}

// Verify checks the double-entry invariant across the whole ledger.
func (s *Service) Verify() error {
	debits, credits, err := s.db.LedgerTotals()
	if err != nil {
		return err
	}
	if debits != credits {
		return fmt.Errorf("ledger unbalanced: debits=%d credits=%d", debits, credits)
	}
	return nil
}
