package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting describes a single credit or debit requested against an account.
type Posting struct {
	Amount    decimal.Decimal
	Direction Direction
	VendorID  string
	Type      string
}

// Apply validates p against account and returns the account with its new
// balance plus the transaction stamped at now. Apply never mutates its
// inputs; on error both returned values are zero.
func Apply(account Account, p Posting, now time.Time) (Account, Transaction, error) {
	if !p.Amount.IsPositive() {
		return Account{}, Transaction{}, ErrInvalidAmount
	}
	if !p.Direction.Valid() {
		return Account{}, Transaction{}, ErrInvalidDirection
	}
	// Draining the account to exactly zero is allowed.
	if p.Direction == Out && p.Amount.GreaterThan(account.Balance) {
		return Account{}, Transaction{}, ErrInsufficientFunds
	}

	txType := p.Type
	if txType == "" {
		txType = DefaultTransactionType
	}

	tx := Transaction{
		AccountID: account.ID,
		Amount:    p.Amount,
		Currency:  account.Currency,
		Direction: p.Direction,
		Type:      txType,
		VendorID:  p.VendorID,
		CreatedAt: now,
	}
	account.Balance = account.Balance.Add(tx.Delta())
	return account, tx, nil
}
