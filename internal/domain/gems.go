package domain

import "time"

// ─── Gems Ledger Types ──────────────────────────────────────────────────────
// Every gems grant or spend creates matched DEBIT/CREDIT entries between the
// reward_pool and wallet accounts. SUM(debits) == SUM(credits) is an
// invariant; the wallet balance mirrors UserProfile.Gems.

// TxType categorizes a gems transaction.
type TxType string

const (
	TxGrant TxType = "GRANT"
	TxSpend TxType = "SPEND"
)

// EntryType is the bookkeeping side of a ledger entry.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// LedgerEntry is one row of the gems audit trail.
type LedgerEntry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        TxType    `json:"type"`
	EntryType   EntryType `json:"entry_type"`
	Account     string    `json:"account"`
	Amount      int64     `json:"amount"`
	Ref         string    `json:"ref,omitempty"` // quest id, session id, ...
	Description string    `json:"description,omitempty"`
	Balance     int64     `json:"balance"`
}
