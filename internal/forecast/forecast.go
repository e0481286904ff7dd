// Package forecast projects an account balance into the future from its
// transaction history.
package forecast

import (
	"errors"
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/ledger"
)

var (
	// ErrEmptyHistory is returned when there are no transactions to fit.
	ErrEmptyHistory = errors.New("no transaction history to forecast from")

	// ErrUndefinedForecast is returned when the fitted line does not yield a
	// finite value.
	ErrUndefinedForecast = errors.New("forecast is undefined for this history")
)

const secondsPerDay = 24 * 60 * 60

// Predictor estimates the balance at a future instant.
type Predictor interface {
	Predict(future time.Time, history []ledger.Transaction, now time.Time) (decimal.Decimal, error)
}

// LinearRegression fits an ordinary least squares line through the running
// balance of the history, indexed by whole days since the first
// transaction, and extrapolates it to the future instant.
type LinearRegression struct{}

// Predict implements Predictor. The result is rounded half-up to two decimal
// places.
func (LinearRegression) Predict(future time.Time, history []ledger.Transaction, now time.Time) (decimal.Decimal, error) {
	if len(history) == 0 {
		return decimal.Zero, ErrEmptyHistory
	}

	ordered := make([]ledger.Transaction, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	origin := ordered[0].CreatedAt
	running := ledger.RunningBalances(ordered)
	xs := make([]float64, len(ordered))
	ys := make([]float64, len(ordered))
	for i, tx := range ordered {
		xs[i] = float64(WholeDaysBetween(origin, tx.CreatedAt))
		ys[i] = running[i].InexactFloat64()
	}

	slope, intercept := fit(xs, ys)
	target := xs[len(xs)-1] + float64(WholeDaysBetween(now, future))
	value := intercept + slope*target
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero, ErrUndefinedForecast
	}
	return RoundHalfUp2(value), nil
}

// WholeDaysBetween counts the complete 24 hour periods from a to b,
// truncating toward zero. It works on Unix seconds so spans longer than a
// time.Duration can hold are counted exactly.
func WholeDaysBetween(a, b time.Time) int64 {
	secs := b.Unix() - a.Unix()
	nanos := int64(b.Nanosecond() - a.Nanosecond())
	// Give the sub-second remainder the same sign as the whole seconds.
	switch {
	case secs > 0 && nanos < 0:
		secs--
	case secs < 0 && nanos > 0:
		secs++
	}
	return secs / secondsPerDay
}

// RoundHalfUp2 rounds the exact binary value of v to two decimal places,
// halves away from zero. v must be finite.
func RoundHalfUp2(v float64) decimal.Decimal {
	scaled := new(big.Rat).SetFloat64(v)
	scaled.Mul(scaled, big.NewRat(100, 1))

	num := new(big.Int).Abs(scaled.Num())
	den := scaled.Denom()
	// floor((2|n| + d) / 2d) == floor(|n|/d + 1/2)
	q := new(big.Int).Lsh(num, 1)
	q.Add(q, den)
	q.Quo(q, new(big.Int).Lsh(den, 1))
	if scaled.Sign() < 0 {
		q.Neg(q)
	}
	return decimal.NewFromBigInt(q, -2)
}

// fit returns the least squares slope and intercept. When every x is the
// same the line is flat through the mean of y.
func fit(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return 0, meanY
	}
	slope = sxy / sxx
	return slope, meanY - slope*meanX
}
