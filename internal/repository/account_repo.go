package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository owns the authoritative balance per account and enforces
// the non-negative invariant at the point of mutation.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Open creates a new account with an optional opening balance.
func (r *AccountRepository) Open(ctx context.Context, email string, initialCents int64) (*models.Account, error) {
	account := &models.Account{Email: email, BalanceCents: initialCents}
	query := `INSERT INTO accounts (email, balance_cents, created_at) VALUES ($1, $2, NOW()) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, email, initialCents).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.NewAlreadyExists("Account already exists")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// Balance reads the current balance without mutating anything.
func (r *AccountRepository) Balance(ctx context.Context, email string) (int64, error) {
	var cents int64
	query := `SELECT balance_cents FROM accounts WHERE email = $1`
	err := r.db.QueryRow(ctx, query, email).Scan(&cents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewNotFound("Account not found")
		}
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return cents, nil
}

// Credit adds amountCents to the account and returns the new balance.
func (r *AccountRepository) Credit(ctx context.Context, email string, amountCents int64) (int64, error) {
	var cents int64
	query := `UPDATE accounts SET balance_cents = balance_cents + $2 WHERE email = $1 RETURNING balance_cents`
	err := r.db.QueryRow(ctx, query, email, amountCents).Scan(&cents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewNotFound("Account not found")
		}
		return 0, fmt.Errorf("failed to credit account: %w", err)
	}
	return cents, nil
}

// Debit deducts amountCents and returns the new balance. The balance check and
// the deduction are one statement, so concurrent debits on the same account
// cannot interleave between check and write. This is the invariant guard.
// A no-row result is classified afterwards into NotFound or InsufficientFunds;
// the probe only names the failure, it plays no part in the guard itself.
func (r *AccountRepository) Debit(ctx context.Context, email string, amountCents int64) (int64, error) {
	var cents int64
	query := `UPDATE accounts SET balance_cents = balance_cents - $2 WHERE email = $1 AND balance_cents >= $2 RETURNING balance_cents`
	err := r.db.QueryRow(ctx, query, email, amountCents).Scan(&cents)
	if err == nil {
		return cents, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to debit account: %w", err)
	}

	var exists bool
	probe := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`
	if probeErr := r.db.QueryRow(ctx, probe, email).Scan(&exists); probeErr != nil {
		return 0, fmt.Errorf("failed to classify debit failure: %w", probeErr)
	}
	if !exists {
		return 0, domain.NewNotFound("Account not found")
	}
	return 0, domain.NewInsufficientFunds("Insufficient funds")
}
