package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// KindTransactionPosted indicates a transaction was applied to an account.
	KindTransactionPosted = "transaction.posted"
)

// Event describes a ledger event published to downstream systems.
type Event struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	AccountID     int64           `json:"account_id"`
	TransactionID int64           `json:"transaction_id"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewEvent stamps a fresh event id on an event of the given kind.
func NewEvent(kind string) Event {
	return Event{ID: uuid.NewString(), Kind: kind}
}

// Notifier delivers events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LoggerNotifier writes events to the logger. It backs local development
// when no broker is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"id", event.ID,
		"kind", event.Kind,
		"account_id", event.AccountID,
		"transaction_id", event.TransactionID,
		"direction", event.Direction,
		"amount", event.Amount.String(),
		"balance", event.Balance.String(),
	)
	return nil
}
