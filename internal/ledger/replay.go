package ledger

import "github.com/shopspring/decimal"

// Replay folds transactions into their net balance delta. The result does
// not depend on the order of the input.
func Replay(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Delta())
	}
	return total
}

// RunningBalances returns the cumulative delta after each transaction, in
// input order.
func RunningBalances(transactions []Transaction) []decimal.Decimal {
	running := make([]decimal.Decimal, len(transactions))
	total := decimal.Zero
	for i, tx := range transactions {
		total = total.Add(tx.Delta())
		running[i] = total
	}
	return running
}
