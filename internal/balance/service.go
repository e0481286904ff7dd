// Package balance answers balance queries over a time window, replaying
// history for the past and forecasting the future.
package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/clock"
	"github.com/tally-ledger/tally/internal/forecast"
	"github.com/tally-ledger/tally/internal/ledger"
	"github.com/tally-ledger/tally/internal/metrics"
)

// ErrInvalidTimestampRange is returned when a query window starts after it ends.
var ErrInvalidTimestampRange = errors.New("from must not be after to")

// Source reports which branch produced a balance.
type Source string

const (
	SourceCurrent    Source = "current"
	SourceHistorical Source = "historical"
	SourceForecast   Source = "forecast"
)

// Query scopes a balance lookup to the closed window [From, To].
type Query struct {
	AccountID int64
	From      time.Time
	To        time.Time
}

// Result is the answer to a Query.
type Result struct {
	AccountID int64
	Balance   decimal.Decimal
	Source    Source
}

// Service orchestrates balance queries against the ledger store.
type Service struct {
	store     ledger.Store
	predictor forecast.Predictor
	clock     clock.Clock
	logger    *slog.Logger
}

// NewService constructs a balance query service.
func NewService(store ledger.Store, predictor forecast.Predictor, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{store: store, predictor: predictor, clock: clk, logger: logger}
}

// Calculate returns the balance for the query window. A window with no
// transactions reports the stored balance; a window ending at or before now
// reports the net movement inside it; a window ending after now reports the
// forecast at its end.
func (s *Service) Calculate(ctx context.Context, q Query) (Result, error) {
	if q.From.After(q.To) {
		return Result{}, ErrInvalidTimestampRange
	}

	account, err := s.store.Account(ctx, q.AccountID)
	if err != nil {
		return Result{}, err
	}

	history, err := s.store.Transactions(ctx, account.ID, q.From, q.To)
	if err != nil {
		return Result{}, fmt.Errorf("load transactions: %w", err)
	}

	result := Result{AccountID: account.ID}
	now := s.clock.Now()
	switch {
	case len(history) == 0:
		result.Balance, result.Source = account.Balance, SourceCurrent
	case !q.To.After(now):
		result.Balance, result.Source = ledger.Replay(history), SourceHistorical
	default:
		predicted, err := s.predictor.Predict(q.To, history, now)
		if err != nil {
			return Result{}, err
		}
		result.Balance, result.Source = predicted, SourceForecast
	}

	metrics.BalanceQueries.WithLabelValues(string(result.Source)).Inc()
	if s.logger != nil {
		s.logger.Debug("balance calculated",
			slog.Int64("account_id", result.AccountID),
			slog.String("source", string(result.Source)),
			slog.Int("transactions", len(history)),
		)
	}
	return result, nil
}
