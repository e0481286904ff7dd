package transactions

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/clock"
	"github.com/tally-ledger/tally/internal/ledger"
	"github.com/tally-ledger/tally/internal/metrics"
	"github.com/tally-ledger/tally/internal/notification"
)

// Service posts transactions against accounts.
type Service struct {
	store    ledger.Store
	clock    clock.Clock
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs a transaction service. notifier may be nil.
func NewService(store ledger.Store, clk clock.Clock, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, clock: clk, notifier: notifier, logger: logger}
}

// AddInput captures a single posting request.
type AddInput struct {
	AccountID int64
	Amount    decimal.Decimal
	Direction ledger.Direction
	VendorID  string
	Type      string
}

// AddResult describes the ledger outcome of a posting.
type AddResult struct {
	Transaction ledger.Transaction
	Balance     decimal.Decimal
}

// Add applies the posting to the account and records the transaction
// atomically, then publishes a transaction.posted event.
func (s *Service) Add(ctx context.Context, input AddInput) (AddResult, error) {
	posting := ledger.Posting{
		Amount:    input.Amount,
		Direction: input.Direction,
		VendorID:  input.VendorID,
		Type:      input.Type,
	}
	now := s.clock.Now()

	account, tx, err := s.store.Post(ctx, input.AccountID, func(current ledger.Account) (ledger.Account, ledger.Transaction, error) {
		return ledger.Apply(current, posting, now)
	})
	if err != nil {
		metrics.TransactionsPosted.WithLabelValues(input.Direction.String(), "rejected").Inc()
		return AddResult{}, err
	}
	metrics.TransactionsPosted.WithLabelValues(tx.Direction.String(), "ok").Inc()

	s.publish(ctx, account, tx)
	return AddResult{Transaction: tx, Balance: account.Balance}, nil
}

func (s *Service) publish(ctx context.Context, account ledger.Account, tx ledger.Transaction) {
	if s.notifier == nil {
		return
	}
	event := notification.NewEvent(notification.KindTransactionPosted)
	event.AccountID = account.ID
	event.TransactionID = tx.ID
	event.Direction = tx.Direction.String()
	event.Amount = tx.Amount
	event.Currency = tx.Currency
	event.Balance = account.Balance
	event.OccurredAt = tx.CreatedAt

	if err := s.notifier.Send(ctx, event); err != nil {
		metrics.EventPublishErrors.Inc()
		if s.logger != nil {
			s.logger.Warn("publish transaction event",
				slog.Int64("account_id", account.ID),
				slog.Int64("transaction_id", tx.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}
