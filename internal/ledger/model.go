package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTransactionType labels postings submitted without a type.
const DefaultTransactionType = "Recurring_Payment"

// Direction is the sign tag of a transaction. The only valid values are In
// and Out; the zero Direction is invalid.
type Direction struct {
	name string
	sign int64
}

var (
	// In credits the account.
	In = Direction{name: "IN", sign: 1}
	// Out debits the account.
	Out = Direction{name: "OUT", sign: -1}
)

// ParseDirection maps the wire representation onto a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case In.name:
		return In, nil
	case Out.name:
		return Out, nil
	}
	return Direction{}, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Valid reports whether d is In or Out.
func (d Direction) Valid() bool {
	return d.sign != 0
}

// Signed returns amount with the sign carried by the direction.
func (d Direction) Signed(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(d.sign))
}

func (d Direction) String() string {
	return d.name
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	return []byte(d.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Account is a balance-carrying ledger account.
type Account struct {
	ID        int64
	FullName  string
	Email     string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
}

// Transaction is an immutable signed movement recorded against one account.
type Transaction struct {
	ID        int64
	AccountID int64
	Amount    decimal.Decimal
	Currency  string
	Direction Direction
	Type      string
	VendorID  string
	CreatedAt time.Time
}

// Delta is the signed effect of the transaction on its account balance. It
// panics on a transaction without a direction.
func (t Transaction) Delta() decimal.Decimal {
	if !t.Direction.Valid() {
		panic(fmt.Sprintf("ledger: transaction %d has no direction", t.ID))
	}
	return t.Direction.Signed(t.Amount)
}
