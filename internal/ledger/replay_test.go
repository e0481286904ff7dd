package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func txOf(direction Direction, amount string) Transaction {
	return Transaction{Direction: direction, Amount: decimal.RequireFromString(amount)}
}

func TestReplay_OrderIndependent(t *testing.T) {
	txs := []Transaction{txOf(In, "100"), txOf(Out, "30.25"), txOf(In, "0.50"), txOf(Out, "20")}
	reversed := []Transaction{txs[3], txs[2], txs[1], txs[0]}

	want := decimal.RequireFromString("50.25")
	if got := Replay(txs); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got := Replay(reversed); !got.Equal(want) {
		t.Fatalf("expected %s for reversed input, got %s", want, got)
	}
}

func TestReplay_Empty(t *testing.T) {
	if got := Replay(nil); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestRunningBalances(t *testing.T) {
	got := RunningBalances([]Transaction{txOf(In, "100"), txOf(In, "200"), txOf(Out, "50"), txOf(Out, "30")})
	want := []string{"100", "300", "250", "220"}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(decimal.RequireFromString(want[i])) {
			t.Fatalf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestReplay_PanicsOnMissingDirection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for transaction without direction")
		}
	}()
	Replay([]Transaction{txOf(In, "1"), {ID: 9, Amount: decimal.NewFromInt(5)}})
}
