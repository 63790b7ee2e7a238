package domain

import "time"

// BonusTransaction is one append-only ledger row. Positive Amount is earned, negative is spent.
type BonusTransaction struct {
	ID           string    `json:"id"`
	GuestID      string    `json:"guest_id"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	Note         *string   `json:"note,omitempty"`
	CreatedBy    *string   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type BonusSummary struct {
	TotalEarned    int64 `json:"total_earned"`
	TotalSpent     int64 `json:"total_spent"`
	CurrentBalance int64 `json:"current_balance"`
}

// BonusDraft is a transaction about to be appended; BalanceAfter is computed by the store.
type BonusDraft struct {
	ID        string
	GuestID   string
	Amount    int64
	Note      *string
	CreatedBy *string
	CreatedAt time.Time
}

// LedgerDiscrepancy marks a row whose balance_after does not follow from its predecessor.
type LedgerDiscrepancy struct {
	TransactionID string `json:"transaction_id"`
	Expected      int64  `json:"expected"`
	Actual        int64  `json:"actual"`
}

// BonusView is what the portal shows for one guest. Transactions are newest first.
type BonusView struct {
	GuestID      string             `json:"guest_id"`
	Summary      BonusSummary       `json:"summary"`
	Transactions []BonusTransaction `json:"transactions"`
}
