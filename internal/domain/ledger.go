package domain

// Aggregate summarizes a guest's ledger. txs must be ordered newest first;
// the newest row's balance_after is the current balance. The ledger is not
// validated here, see VerifyLedger.
func Aggregate(txs []BonusTransaction) BonusSummary {
	var s BonusSummary
	for _, t := range txs {
		switch {
		case t.Amount > 0:
			s.TotalEarned += t.Amount
		case t.Amount < 0:
			s.TotalSpent += t.Amount
		}
	}
	if len(txs) > 0 {
		s.CurrentBalance = txs[0].BalanceAfter
	}
	return s
}

// VerifyLedger replays a newest-first ledger from the oldest row and reports every
// row whose balance_after is not the previous balance_after plus its amount.
// The oldest row is checked against a starting balance of 0.
func VerifyLedger(txs []BonusTransaction) []LedgerDiscrepancy {
	var out []LedgerDiscrepancy
	var prev int64
	for i := len(txs) - 1; i >= 0; i-- {
		t := txs[i]
		if want := prev + t.Amount; t.BalanceAfter != want {
			out = append(out, LedgerDiscrepancy{TransactionID: t.ID, Expected: want, Actual: t.BalanceAfter})
		}
		prev = t.BalanceAfter
	}
	return out
}

// NextBalance is the balance after applying amount to current.
func NextBalance(current, amount int64) (int64, error) {
	if amount == 0 {
		return current, ErrInvalidAmount
	}
	next := current + amount
	if next < 0 {
		return current, ErrInsufficientBalance
	}
	return next, nil
}
