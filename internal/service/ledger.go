package service

import (
	"context"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/events"
	"github.com/debanjo/microledger/internal/models"
	"github.com/debanjo/microledger/internal/observability"
	"go.uber.org/zap"
)

const serviceName = "account-service"

// AccountStore is the balance storage contract the ledger service drives.
// The store, not this service, provides the atomic check-and-deduct on debit.
type AccountStore interface {
	Open(ctx context.Context, email string, initialCents int64) (*models.Account, error)
	Balance(ctx context.Context, email string) (int64, error)
	Credit(ctx context.Context, email string, amountCents int64) (int64, error)
	Debit(ctx context.Context, email string, amountCents int64) (int64, error)
}

// LedgerService exposes the invariant-preserving balance mutations and emits
// a fire-and-forget analytics event for each committed one.
type LedgerService struct {
	accounts AccountStore
	sink     events.Sink
	logger   *zap.Logger
}

func NewLedgerService(accounts AccountStore, sink events.Sink, logger *zap.Logger) *LedgerService {
	if sink == nil {
		sink = events.Nop{}
	}
	return &LedgerService{accounts: accounts, sink: sink, logger: logger}
}

// Open creates an account with an optional non-negative opening balance.
func (s *LedgerService) Open(ctx context.Context, email string, initialCents int64) (*models.Account, error) {
	email, err := domain.NormalizeIdentity(email)
	if err != nil {
		return nil, err
	}
	if initialCents < 0 {
		return nil, domain.NewInvalidInput("balance must not be negative")
	}

	account, err := s.accounts.Open(ctx, email, initialCents)
	if err != nil {
		observability.IncrementLedgerOp("open", "error")
		return nil, err
	}
	observability.IncrementLedgerOp("open", "ok")

	s.sink.Emit(events.Event{
		Service:   serviceName,
		EventType: "account_created",
		Metadata:  map[string]any{"email": email, "balance": domain.FormatAmount(initialCents)},
	})
	return account, nil
}

// Balance reads the current balance. Reads never mutate state.
func (s *LedgerService) Balance(ctx context.Context, email string) (int64, error) {
	email, err := domain.NormalizeIdentity(email)
	if err != nil {
		return 0, err
	}
	return s.accounts.Balance(ctx, email)
}

// Deposit credits amountCents into an existing account.
func (s *LedgerService) Deposit(ctx context.Context, email string, amountCents int64) (int64, error) {
	email, err := domain.NormalizeIdentity(email)
	if err != nil {
		return 0, err
	}
	if amountCents <= 0 {
		return 0, domain.NewInvalidInput("Amount must be greater than 0")
	}

	balance, err := s.accounts.Credit(ctx, email, amountCents)
	if err != nil {
		observability.IncrementLedgerOp("credit", "error")
		return 0, err
	}
	observability.IncrementLedgerOp("credit", "ok")

	s.sink.Emit(events.Event{
		Service:   serviceName,
		EventType: "deposit",
		Metadata:  map[string]any{"email": email, "amount": domain.FormatAmount(amountCents)},
	})
	return balance, nil
}

// Withdraw debits amountCents from an existing account. Fails with
// InsufficientFunds when the balance cannot cover the amount.
func (s *LedgerService) Withdraw(ctx context.Context, email string, amountCents int64) (int64, error) {
	email, err := domain.NormalizeIdentity(email)
	if err != nil {
		return 0, err
	}
	if amountCents <= 0 {
		return 0, domain.NewInvalidInput("Amount must be greater than 0")
	}

	balance, err := s.accounts.Debit(ctx, email, amountCents)
	if err != nil {
		observability.IncrementLedgerOp("debit", "error")
		return 0, err
	}
	observability.IncrementLedgerOp("debit", "ok")

	s.sink.Emit(events.Event{
		Service:   serviceName,
		EventType: "withdraw",
		Metadata:  map[string]any{"email": email, "amount": domain.FormatAmount(amountCents)},
	})
	return balance, nil
}
