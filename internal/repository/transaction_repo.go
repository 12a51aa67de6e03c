package repository

import (
	"context"
	"fmt"

	"github.com/debanjo/microledger/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the append-only record of committed transfers.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append stores one committed transfer. The id and commit timestamp are
// assigned by the database; the record is immutable from here on.
func (r *TransactionRepository) Append(ctx context.Context, rec *models.TransactionRecord) error {
	query := `INSERT INTO transactions (sender_email, receiver_email, amount_cents, created_at)
		VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, rec.SenderEmail, rec.ReceiverEmail, rec.AmountCents).
		Scan(&rec.ID, &rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// RecentByParticipant returns up to limit transfers where email appears as
// sender or receiver, newest first.
func (r *TransactionRepository) RecentByParticipant(ctx context.Context, email string, limit int) ([]models.TransactionRecord, error) {
	query := `
		SELECT id, sender_email, receiver_email, amount_cents, created_at
		FROM transactions
		WHERE sender_email = $1 OR receiver_email = $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, email, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions: %w", err)
	}
	defer rows.Close()

	records := make([]models.TransactionRecord, 0, limit)
	for rows.Next() {
		var rec models.TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.SenderEmail, &rec.ReceiverEmail, &rec.AmountCents, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
