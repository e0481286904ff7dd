package transactions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tally-ledger/tally/internal/clock"
	"github.com/tally-ledger/tally/internal/ledger"
	"github.com/tally-ledger/tally/internal/logging"
	"github.com/tally-ledger/tally/internal/notification"
)

var postedAt = time.Date(2024, 4, 5, 10, 0, 0, 0, time.UTC)

type testNotifier struct {
	events []notification.Event
	err    error
}

func (n *testNotifier) Send(_ context.Context, event notification.Event) error {
	n.events = append(n.events, event)
	return n.err
}

func setup(t *testing.T, balance int64, notifier notification.Notifier) (*Service, ledger.Store, ledger.Account) {
	t.Helper()
	store := ledger.NewInMemory()
	account, err := store.CreateAccount(context.Background(), ledger.Account{
		FullName: "Ada", Email: "ada@example.com", Currency: "GBP", Balance: decimal.NewFromInt(balance), CreatedAt: postedAt,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return NewService(store, clock.NewFixed(postedAt), notifier, logging.Discard()), store, account
}

func TestAddSuccess(t *testing.T) {
	notifier := &testNotifier{}
	svc, store, account := setup(t, 100, notifier)
	ctx := context.Background()

	res, err := svc.Add(ctx, AddInput{AccountID: account.ID, Amount: decimal.NewFromInt(40), Direction: ledger.Out, VendorID: "acme"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !res.Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected balance 60, got %s", res.Balance)
	}
	if res.Transaction.Type != ledger.DefaultTransactionType || res.Transaction.Currency != "GBP" {
		t.Fatalf("unexpected transaction %+v", res.Transaction)
	}
	if !res.Transaction.CreatedAt.Equal(postedAt) {
		t.Fatalf("expected clock timestamp, got %v", res.Transaction.CreatedAt)
	}

	stored, _ := store.Account(ctx, account.ID)
	if !stored.Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected stored balance 60, got %s", stored.Balance)
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected one event, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.Kind != notification.KindTransactionPosted || event.TransactionID != res.Transaction.ID || event.Direction != "OUT" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestAddInsufficientFunds(t *testing.T) {
	notifier := &testNotifier{}
	svc, store, account := setup(t, 100, notifier)
	ctx := context.Background()

	_, err := svc.Add(ctx, AddInput{AccountID: account.ID, Amount: decimal.NewFromInt(200), Direction: ledger.Out})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	stored, _ := store.Account(ctx, account.ID)
	if !stored.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance to stay 100, got %s", stored.Balance)
	}
	txs, _ := store.Transactions(ctx, account.ID, postedAt.Add(-time.Hour), postedAt.Add(time.Hour))
	if len(txs) != 0 {
		t.Fatalf("expected no persisted transaction, got %d", len(txs))
	}
	if len(notifier.events) != 0 {
		t.Fatalf("expected no event for rejected posting")
	}
}

func TestAddUnknownAccount(t *testing.T) {
	svc, _, _ := setup(t, 0, nil)
	_, err := svc.Add(context.Background(), AddInput{AccountID: 99, Amount: decimal.NewFromInt(1), Direction: ledger.In})
	if !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddSucceedsWhenPublishFails(t *testing.T) {
	notifier := &testNotifier{err: errors.New("broker down")}
	svc, _, account := setup(t, 0, notifier)

	res, err := svc.Add(context.Background(), AddInput{AccountID: account.ID, Amount: decimal.NewFromInt(5), Direction: ledger.In})
	if err != nil {
		t.Fatalf("expected post to succeed, got %v", err)
	}
	if !res.Balance.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected balance 5, got %s", res.Balance)
	}
}

func TestHandlerAdd(t *testing.T) {
	svc, _, account := setup(t, 100, nil)
	app := fiber.New()
	app.Post("/transactions/:accountId", NewHandler(svc).Add)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"credit", "/transactions/1", `{"amount":"10.25","direction":"IN","vendor_id":"v1"}`, http.StatusCreated},
		{"overdraw", "/transactions/1", `{"amount":"500","direction":"OUT"}`, http.StatusBadRequest},
		{"zero amount", "/transactions/1", `{"amount":"0","direction":"IN"}`, http.StatusBadRequest},
		{"bad direction", "/transactions/1", `{"amount":"1","direction":"UP"}`, http.StatusBadRequest},
		{"unknown account", "/transactions/7", `{"amount":"1","direction":"IN"}`, http.StatusNotFound},
		{"bad id", "/transactions/x", `{"amount":"1","direction":"IN"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
	if account.ID != 1 {
		t.Fatalf("expected first account id to be 1, got %d", account.ID)
	}
}
