package balance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-ledger/tally/internal/clock"
	"github.com/tally-ledger/tally/internal/forecast"
	"github.com/tally-ledger/tally/internal/ledger"
	"github.com/tally-ledger/tally/internal/logging"
)

const day = 24 * time.Hour

var now = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store   ledger.Store
	service *Service
	account ledger.Account
}

func newFixture(t *testing.T, balance int64) fixture {
	t.Helper()
	store := ledger.NewInMemory()
	account, err := store.CreateAccount(context.Background(), ledger.Account{
		FullName:  "Grace Hopper",
		Email:     "grace@example.com",
		Balance:   decimal.NewFromInt(balance),
		Currency:  "GBP",
		CreatedAt: now.Add(-30 * day),
	})
	require.NoError(t, err)
	svc := NewService(store, forecast.LinearRegression{}, clock.NewFixed(now), logging.Discard())
	return fixture{store: store, service: svc, account: account}
}

func (f fixture) seed(direction ledger.Direction, amount int64, at time.Time) {
	ledger.SeedTransaction(f.store, ledger.Transaction{
		AccountID: f.account.ID,
		Amount:    decimal.NewFromInt(amount),
		Currency:  "GBP",
		Direction: direction,
		Type:      ledger.DefaultTransactionType,
		CreatedAt: at,
	})
}

func TestCalculate_EmptyWindowReturnsStoredBalance(t *testing.T) {
	f := newFixture(t, 1000)

	res, err := f.service.Calculate(context.Background(), Query{AccountID: f.account.ID, From: now.Add(-day), To: now})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(1000)), "got %s", res.Balance)
	assert.Equal(t, SourceCurrent, res.Source)
	assert.Equal(t, f.account.ID, res.AccountID)
}

func TestCalculate_PastWindowReplaysNetMovement(t *testing.T) {
	f := newFixture(t, 1000)
	f.seed(ledger.In, 300, now.Add(-5*day))
	f.seed(ledger.Out, 100, now.Add(-2*day))

	res, err := f.service.Calculate(context.Background(), Query{AccountID: f.account.ID, From: now.Add(-10 * day), To: now})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(200)), "got %s", res.Balance)
	assert.Equal(t, SourceHistorical, res.Source)
}

// The historical branch reports movement within the window, not the stored
// balance at its end.
func TestCalculate_PastWindowIgnoresOpeningBalance(t *testing.T) {
	f := newFixture(t, 5000)
	f.seed(ledger.Out, 40, now.Add(-3*day))

	res, err := f.service.Calculate(context.Background(), Query{AccountID: f.account.ID, From: now.Add(-7 * day), To: now.Add(-day)})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(-40)), "got %s", res.Balance)
	assert.Equal(t, SourceHistorical, res.Source)
}

func TestCalculate_FutureWindowForecasts(t *testing.T) {
	f := newFixture(t, 0)
	f.seed(ledger.In, 100, now.Add(-4*day))
	f.seed(ledger.In, 200, now.Add(-3*day))
	f.seed(ledger.Out, 50, now.Add(-2*day))
	f.seed(ledger.Out, 30, now.Add(-day))

	res, err := f.service.Calculate(context.Background(), Query{AccountID: f.account.ID, From: now.Add(-10 * day), To: now.Add(5 * day)})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(419)), "got %s", res.Balance)
	assert.Equal(t, SourceForecast, res.Source)
}

func TestCalculate_FromEqualsToIsValid(t *testing.T) {
	f := newFixture(t, 10)
	at := now.Add(-day)
	f.seed(ledger.In, 7, at)

	res, err := f.service.Calculate(context.Background(), Query{AccountID: f.account.ID, From: at, To: at})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(7)), "got %s", res.Balance)
}

func TestCalculate_InvalidRange(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.service.Calculate(context.Background(), Query{AccountID: f.account.ID, From: now, To: now.Add(-time.Second)})
	assert.True(t, errors.Is(err, ErrInvalidTimestampRange), "got %v", err)
}

func TestCalculate_UnknownAccount(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.service.Calculate(context.Background(), Query{AccountID: f.account.ID + 1, From: now.Add(-day), To: now})
	assert.True(t, errors.Is(err, ledger.ErrAccountNotFound), "got %v", err)
}

type failingPredictor struct{ err error }

func (p failingPredictor) Predict(time.Time, []ledger.Transaction, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, p.err
}

func TestCalculate_PredictorErrorPropagates(t *testing.T) {
	f := newFixture(t, 10)
	f.seed(ledger.In, 5, now.Add(-day))
	svc := NewService(f.store, failingPredictor{err: forecast.ErrUndefinedForecast}, clock.NewFixed(now), nil)

	_, err := svc.Calculate(context.Background(), Query{AccountID: f.account.ID, From: now.Add(-2 * day), To: now.Add(day)})
	assert.True(t, errors.Is(err, forecast.ErrUndefinedForecast), "got %v", err)
}
