package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/clock"
	"github.com/tally-ledger/tally/internal/ledger"
)

// DefaultCurrency labels accounts opened without a currency.
const DefaultCurrency = "GBP"

// ErrInvalidAccount rejects account creation requests with missing or
// malformed fields.
var ErrInvalidAccount = errors.New("invalid account")

// Service exposes account operations backed by the ledger store.
type Service struct {
	store ledger.Store
	clock clock.Clock
}

// NewService builds an account service instance.
func NewService(store ledger.Store, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

// CreateInput captures data required to open an account.
type CreateInput struct {
	FullName      string
	Email         string
	InitialAmount decimal.Decimal
	Currency      string
}

// Add opens an account holding the initial amount.
func (s *Service) Add(ctx context.Context, input CreateInput) (ledger.Account, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	if fullName == "" {
		return ledger.Account{}, fmt.Errorf("%w: full name is required", ErrInvalidAccount)
	}
	if email == "" || !strings.Contains(email, "@") {
		return ledger.Account{}, fmt.Errorf("%w: email is required", ErrInvalidAccount)
	}
	if input.InitialAmount.IsNegative() {
		return ledger.Account{}, fmt.Errorf("%w: initial amount must not be negative", ErrInvalidAccount)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	return s.store.CreateAccount(ctx, ledger.Account{
		FullName:  fullName,
		Email:     email,
		Balance:   input.InitialAmount,
		Currency:  currency,
		CreatedAt: s.clock.Now(),
	})
}

// Get retrieves an account snapshot.
func (s *Service) Get(ctx context.Context, id int64) (ledger.Account, error) {
	return s.store.Account(ctx, id)
}
