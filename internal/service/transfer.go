package service

import (
	"context"
	"time"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/events"
	"github.com/debanjo/microledger/internal/models"
	"github.com/debanjo/microledger/internal/observability"
	"go.uber.org/zap"
)

// LedgerClient is the orchestrator's only channel to the remote ledger store.
type LedgerClient interface {
	Balance(ctx context.Context, email string) (int64, error)
	Debit(ctx context.Context, email string, amountCents int64) (int64, error)
	Credit(ctx context.Context, email string, amountCents int64) (int64, error)
}

// TransactionLedger is the local append-only record of committed transfers.
type TransactionLedger interface {
	Append(ctx context.Context, rec *models.TransactionRecord) error
	RecentByParticipant(ctx context.Context, email string, limit int) ([]models.TransactionRecord, error)
}

// TransferService drives a two-leg money transfer as a saga: pre-check,
// debit sender, credit receiver, best-effort compensating credit when the
// credit leg fails. It owns no balance state; the non-negative invariant is
// entirely the ledger store's atomic debit.
type TransferService struct {
	ledger      LedgerClient
	records     TransactionLedger
	sink        events.Sink
	logger      *zap.Logger
	recentLimit int
	compTimeout time.Duration
}

func NewTransferService(ledger LedgerClient, records TransactionLedger, sink events.Sink, logger *zap.Logger) *TransferService {
	if sink == nil {
		sink = events.Nop{}
	}
	return &TransferService{
		ledger:      ledger,
		records:     records,
		sink:        sink,
		logger:      logger,
		recentLimit: 10,
		compTimeout: 5 * time.Second,
	}
}

// WithRecentLimit overrides the default recent-transfers query limit.
func (s *TransferService) WithRecentLimit(limit int) *TransferService {
	if limit > 0 {
		s.recentLimit = limit
	}
	return s
}

// Transfer moves amountCents from sender to receiver. On full success it
// appends exactly one TransactionRecord and returns it. Multiple transfers
// may run concurrently, including ones sharing a participant; nothing here
// serializes them.
func (s *TransferService) Transfer(ctx context.Context, sender, receiver string, amountCents int64) (*models.TransactionRecord, error) {
	// Validated once at saga entry, never re-checked mid-flight. No remote
	// call happens before this passes.
	if amountCents <= 0 {
		observability.IncrementTransfer("invalid_input")
		return nil, domain.NewInvalidInput("Amount must be greater than 0")
	}
	sender, err := domain.NormalizeIdentity(sender)
	if err != nil {
		observability.IncrementTransfer("invalid_input")
		return nil, err
	}
	receiver, err = domain.NormalizeIdentity(receiver)
	if err != nil {
		observability.IncrementTransfer("invalid_input")
		return nil, err
	}

	// Advisory pre-check: fail fast on an obviously underfunded sender.
	// The debit's own atomic check remains the invariant guard, so a true
	// insufficiency slipping past here is still caught below with the same
	// classification.
	balance, err := s.ledger.Balance(ctx, sender)
	if err != nil {
		observability.IncrementTransfer("precheck_failed")
		return nil, err
	}
	if balance < amountCents {
		observability.IncrementTransfer("insufficient_funds")
		return nil, domain.NewInsufficientFunds("Insufficient funds")
	}

	// Debit leg. A failure here needs no compensation: nothing has been
	// mutated yet, or (on timeout) no mutation is guaranteed to have
	// happened and we surface the unknown outcome as-is.
	if _, err := s.ledger.Debit(ctx, sender, amountCents); err != nil {
		observability.IncrementTransfer("debit_failed")
		return nil, err
	}

	// Credit leg. Any failure, hard rejection or timeout alike, triggers
	// compensation: a stuck debited-but-uncredited sender is worse than a
	// rare double credit.
	if _, err := s.ledger.Credit(ctx, receiver, amountCents); err != nil {
		s.compensate(ctx, sender, receiver, amountCents)
		observability.IncrementTransfer("credit_failed")
		return nil, err
	}

	rec := &models.TransactionRecord{
		SenderEmail:   sender,
		ReceiverEmail: receiver,
		AmountCents:   amountCents,
	}
	if err := s.records.Append(ctx, rec); err != nil {
		// Money has moved; only the local record is missing.
		s.logger.Error("transfer committed but record append failed",
			zap.Error(err),
			zap.String("sender", sender),
			zap.String("receiver", receiver),
		)
		observability.IncrementTransfer("record_failed")
		return nil, domain.NewInfrastructure("failed to record transfer", err)
	}

	observability.IncrementTransfer("committed")
	s.sink.Emit(events.Event{
		Service:   "transaction-service",
		EventType: "transfer",
		Metadata: map[string]any{
			"sender":   sender,
			"receiver": receiver,
			"amount":   domain.FormatAmount(amountCents),
		},
	})
	return rec, nil
}

// compensate issues one best-effort credit back to the sender. It runs on a
// context detached from the request so a cancelled or timed-out request
// cannot doom the rollback. Its own failure is reported, never propagated:
// the original credit error is what the caller must see.
func (s *TransferService) compensate(ctx context.Context, sender, receiver string, amountCents int64) {
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.compTimeout)
	defer cancel()

	if _, err := s.ledger.Credit(compCtx, sender, amountCents); err != nil {
		observability.IncrementCompensation("failed")
		compErr := domain.NewCompensationFailed("rollback credit to sender failed", err)
		s.logger.Error("transfer compensation failed",
			zap.Error(compErr),
			zap.String("sender", sender),
			zap.String("receiver", receiver),
			zap.String("amount", domain.FormatAmount(amountCents)),
		)
		return
	}
	observability.IncrementCompensation("ok")
	s.logger.Warn("transfer compensated after credit failure",
		zap.String("sender", sender),
		zap.String("receiver", receiver),
		zap.String("amount", domain.FormatAmount(amountCents)),
	)
}

// Recent returns the newest transfers involving email, capped at the
// configured limit.
func (s *TransferService) Recent(ctx context.Context, email string) ([]models.TransactionRecord, error) {
	email, err := domain.NormalizeIdentity(email)
	if err != nil {
		return nil, err
	}
	return s.records.RecentByParticipant(ctx, email, s.recentLimit)
}
