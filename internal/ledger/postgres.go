package ledger

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

var _ Store = (*PostgresStore)(nil)

// PostgresStore persists accounts and their transactions in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables used by the store when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate ledger schema: %w", err)
	}
	return nil
}

// CreateAccount inserts the account and returns it with its generated id.
func (s *PostgresStore) CreateAccount(ctx context.Context, account Account) (Account, error) {
	const query = `INSERT INTO accounts (full_name, email, balance, currency, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := s.db.QueryRow(ctx, query,
		account.FullName, account.Email, account.Balance.String(), account.Currency, account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

// Account loads an account by id.
func (s *PostgresStore) Account(ctx context.Context, id int64) (Account, error) {
	const query = `SELECT id, full_name, email, balance::text, currency, created_at
        FROM accounts WHERE id = $1`
	return scanAccount(s.db.QueryRow(ctx, query, id))
}

// Transactions lists the account's transactions created within [from, to].
func (s *PostgresStore) Transactions(ctx context.Context, accountID int64, from, to time.Time) ([]Transaction, error) {
	const query = `
        SELECT id, account_id, amount::text, currency, direction, type, vendor_id, created_at
        FROM transactions
        WHERE account_id = $1 AND created_at >= $2 AND created_at <= $3
        ORDER BY created_at, id`
	rows, err := s.db.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var (
			tx        Transaction
			amount    string
			direction string
		)
		if err := rows.Scan(&tx.ID, &tx.AccountID, &amount, &tx.Currency, &direction, &tx.Type, &tx.VendorID, &tx.CreatedAt); err != nil {
			return nil, err
		}
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %d amount: %w", tx.ID, err)
		}
		if tx.Direction, err = ParseDirection(direction); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
		tx.CreatedAt = tx.CreatedAt.UTC()
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Post locks the account row, applies fn and writes the new balance and the
// transaction in a single database transaction.
func (s *PostgresStore) Post(ctx context.Context, accountID int64, fn PostFunc) (Account, Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Account{}, Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const lockQuery = `SELECT id, full_name, email, balance::text, currency, created_at
        FROM accounts WHERE id = $1 FOR UPDATE`
	current, err := scanAccount(tx.QueryRow(ctx, lockQuery, accountID))
	if err != nil {
		return Account{}, Transaction{}, err
	}

	updated, entry, err := fn(current)
	if err != nil {
		return Account{}, Transaction{}, err
	}
	updated.ID = current.ID
	entry.AccountID = current.ID

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, updated.Balance.String(), current.ID); err != nil {
		return Account{}, Transaction{}, err
	}

	const insertQuery = `INSERT INTO transactions (account_id, amount, currency, direction, type, vendor_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := tx.QueryRow(ctx, insertQuery,
		entry.AccountID, entry.Amount.String(), entry.Currency, entry.Direction.String(), entry.Type, entry.VendorID, entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return Account{}, Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Account{}, Transaction{}, err
	}
	return updated, entry, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		account Account
		balance string
	)
	if err := row.Scan(&account.ID, &account.FullName, &account.Email, &balance, &account.Currency, &account.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return Account{}, fmt.Errorf("account %d balance: %w", account.ID, err)
	}
	account.Balance = parsed
	account.CreatedAt = account.CreatedAt.UTC()
	return account, nil
}
