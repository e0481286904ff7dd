package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

type inMemoryStore struct {
	mu           sync.RWMutex
	lastAccount  int64
	lastTx       int64
	accounts     map[int64]Account
	transactions map[int64][]Transaction
}

// NewInMemory creates a concurrency-safe in-memory store useful for unit
// tests and local development.
func NewInMemory() Store {
	return &inMemoryStore{
		accounts:     make(map[int64]Account),
		transactions: make(map[int64][]Transaction),
	}
}

func (s *inMemoryStore) CreateAccount(_ context.Context, account Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccount++
	account.ID = s.lastAccount
	s.accounts[account.ID] = account
	return account, nil
}

func (s *inMemoryStore) Account(_ context.Context, id int64) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (s *inMemoryStore) Transactions(_ context.Context, accountID int64, from, to time.Time) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var window []Transaction
	for _, tx := range s.transactions[accountID] {
		if tx.CreatedAt.Before(from) || tx.CreatedAt.After(to) {
			continue
		}
		window = append(window, tx)
	}
	sortByCreation(window)
	return window, nil
}

func (s *inMemoryStore) Post(_ context.Context, accountID int64, fn PostFunc) (Account, Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[accountID]
	if !ok {
		return Account{}, Transaction{}, ErrAccountNotFound
	}

	updated, tx, err := fn(current)
	if err != nil {
		return Account{}, Transaction{}, err
	}

	s.lastTx++
	tx.ID = s.lastTx
	tx.AccountID = current.ID
	updated.ID = current.ID

	s.accounts[current.ID] = updated
	s.transactions[current.ID] = append(s.transactions[current.ID], tx)
	return updated, tx, nil
}

func sortByCreation(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
}
