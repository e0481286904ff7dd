package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAccountNotFound is returned when no account exists for the requested id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds occurs when an outgoing posting exceeds the
	// account's current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount rejects postings whose amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidDirection rejects postings that are neither IN nor OUT.
	ErrInvalidDirection = errors.New("direction must be IN or OUT")
)

// PostFunc computes the new state of an account together with the
// transaction that explains the change. Returning an error aborts the post
// and leaves the store untouched.
type PostFunc func(account Account) (Account, Transaction, error)

// Store defines the contract implemented by ledger backends (e.g. Postgres).
type Store interface {
	// CreateAccount persists a new account and assigns its identifier.
	CreateAccount(ctx context.Context, account Account) (Account, error)
	// Account loads a single account.
	Account(ctx context.Context, id int64) (Account, error)
	// Transactions returns the account's transactions created within the
	// closed interval [from, to], oldest first.
	Transactions(ctx context.Context, accountID int64, from, to time.Time) ([]Transaction, error)
	// Post runs fn against the current account state and persists both the
	// updated account and the returned transaction as one atomic unit.
	Post(ctx context.Context, accountID int64, fn PostFunc) (Account, Transaction, error)
}
