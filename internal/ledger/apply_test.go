package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var applyNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func accountWith(balance string) Account {
	return Account{ID: 7, Balance: decimal.RequireFromString(balance), Currency: "GBP"}
}

func TestApply_CreditAndDebit(t *testing.T) {
	account := accountWith("10.10")

	updated, tx, err := Apply(account, Posting{Amount: decimal.RequireFromString("0.20"), Direction: In, VendorID: "v1"}, applyNow)
	if err != nil {
		t.Fatalf("apply credit: %v", err)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("10.30")) {
		t.Fatalf("expected 10.30, got %s", updated.Balance)
	}
	if tx.Type != DefaultTransactionType {
		t.Fatalf("expected default type, got %q", tx.Type)
	}
	if tx.Currency != "GBP" || tx.AccountID != 7 || !tx.CreatedAt.Equal(applyNow) {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if !account.Balance.Equal(decimal.RequireFromString("10.10")) {
		t.Fatalf("input account mutated: %s", account.Balance)
	}

	updated, tx, err = Apply(updated, Posting{Amount: decimal.RequireFromString("0.30"), Direction: Out, Type: "Card"}, applyNow)
	if err != nil {
		t.Fatalf("apply debit: %v", err)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected 10.00, got %s", updated.Balance)
	}
	if tx.Type != "Card" || tx.Direction != Out {
		t.Fatalf("unexpected transaction %+v", tx)
	}
}

func TestApply_DrainToZero(t *testing.T) {
	updated, _, err := Apply(accountWith("50"), Posting{Amount: decimal.NewFromInt(50), Direction: Out}, applyNow)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if !updated.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", updated.Balance)
	}
}

func TestApply_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		posting Posting
		want    error
	}{
		{"insufficient", Posting{Amount: decimal.RequireFromString("50.01"), Direction: Out}, ErrInsufficientFunds},
		{"zero amount", Posting{Amount: decimal.Zero, Direction: In}, ErrInvalidAmount},
		{"negative amount", Posting{Amount: decimal.NewFromInt(-5), Direction: In}, ErrInvalidAmount},
		{"missing direction", Posting{Amount: decimal.NewFromInt(5)}, ErrInvalidDirection},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			updated, tx, err := Apply(accountWith("50"), tc.posting, applyNow)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if updated != (Account{}) || tx != (Transaction{}) {
				t.Fatalf("expected zero values on error")
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	for input, want := range map[string]Direction{"IN": In, "out": Out, " In ": In} {
		got, err := ParseDirection(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := ParseDirection("SIDEWAYS"); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected invalid direction, got %v", err)
	}
	if _, err := (Direction{}).MarshalText(); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected zero direction to fail marshalling, got %v", err)
	}
}
