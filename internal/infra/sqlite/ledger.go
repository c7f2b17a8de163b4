package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
)

// AppendLedgerEntries writes matched ledger rows in a single transaction.
// Callers pass both sides of a double-entry pair so either both land or
// neither does.
func (d *DB) AppendLedgerEntries(entries []domain.LedgerEntry) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.Exec(
			`INSERT INTO gem_ledger (timestamp, type, entry_type, account, amount, ref, description, balance)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Timestamp.Unix(), string(e.Type), string(e.EntryType),
			e.Account, e.Amount, e.Ref, e.Description, e.Balance,
		)
		if err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}
	return tx.Commit()
}

// AccountBalance returns the running balance of an account, zero when the
// account has no entries yet.
func (d *DB) AccountBalance(account string) (int64, error) {
	var balance int64
	err := d.db.QueryRow(
		`SELECT balance FROM gem_ledger WHERE account = ? ORDER BY id DESC LIMIT 1`,
		account,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("account balance: %w", err)
	}
	return balance, nil
}

// LedgerHistory returns the most recent ledger rows, newest first.
func (d *DB) LedgerHistory(limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, timestamp, type, entry_type, account, amount, ref, description, balance
		 FROM gem_ledger ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger history: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts int64
		var ref, desc sql.NullString
		if err := rows.Scan(&e.ID, &ts, &e.Type, &e.EntryType, &e.Account,
			&e.Amount, &ref, &desc, &e.Balance); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0)
		e.Ref = ref.String
		e.Description = desc.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LedgerTotals returns the debit and credit sums across all accounts.
// A well-formed ledger always has them equal.
func (d *DB) LedgerTotals() (debits, credits int64, err error) {
	err = d.db.QueryRow(
		`SELECT
			COALESCE(SUM(CASE WHEN entry_type = 'DEBIT' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN entry_type = 'CREDIT' THEN amount ELSE 0 END), 0)
		 FROM gem_ledger`,
	).Scan(&debits, &credits)
	if err != nil {
		return 0, 0, fmt.Errorf("ledger totals: %w", err)
	}
	return debits, credits, nil
}
