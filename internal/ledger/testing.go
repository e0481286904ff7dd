package ledger

// SeedTransaction is a test helper that records tx in the in-memory store
// without touching the account balance, so history can be back-dated.
func SeedTransaction(s Store, tx Transaction) Transaction {
	mem, ok := s.(*inMemoryStore)
	if !ok {
		return tx
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	mem.lastTx++
	tx.ID = mem.lastTx
	mem.transactions[tx.AccountID] = append(mem.transactions[tx.AccountID], tx)
	return tx
}
