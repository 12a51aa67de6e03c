package models

import (
	"time"

	"github.com/debanjo/microledger/internal/domain"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Account is one balance record in the ledger store, keyed by email.
// BalanceCents is never negative outside an in-flight mutation.
type Account struct {
	ID           int64     `json:"-"`
	Email        string    `json:"email"`
	BalanceCents int64     `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// TransactionRecord is one committed transfer in the append-only ledger.
// It is created exactly once, after both legs of a transfer succeeded, and is
// immutable thereafter.
type TransactionRecord struct {
	ID            int64     `json:"id"`
	SenderEmail   string    `json:"sender_email"`
	ReceiverEmail string    `json:"receiver_email"`
	AmountCents   int64     `json:"-"`
	Timestamp     time.Time `json:"timestamp"`
}

// BalanceResponse is the wire shape shared by the ledger service endpoints.
type BalanceResponse struct {
	Email   string `json:"email"`
	Balance string `json:"balance"`
}

func NewBalanceResponse(email string, cents int64) BalanceResponse {
	return BalanceResponse{Email: email, Balance: domain.FormatAmount(cents)}
}

// TransferResponse is the wire shape of a committed transfer.
type TransferResponse struct {
	ID            int64     `json:"id"`
	SenderEmail   string    `json:"sender_email"`
	ReceiverEmail string    `json:"receiver_email"`
	Amount        string    `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransferResponse(rec *TransactionRecord) TransferResponse {
	return TransferResponse{
		ID:            rec.ID,
		SenderEmail:   rec.SenderEmail,
		ReceiverEmail: rec.ReceiverEmail,
		Amount:        domain.FormatAmount(rec.AmountCents),
		Timestamp:     rec.Timestamp,
	}
}
