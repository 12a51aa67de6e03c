package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/models"
	"github.com/go-chi/chi/v5"
)

// TransferService is the slice of the orchestrator the handlers use.
type TransferService interface {
	Transfer(ctx context.Context, sender, receiver string, amountCents int64) (*models.TransactionRecord, error)
	Recent(ctx context.Context, email string) ([]models.TransactionRecord, error)
}

type TransferHandler struct {
	svc TransferService
}

func NewTransferHandler(svc TransferService) *TransferHandler {
	return &TransferHandler{svc: svc}
}

func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderEmail   string `json:"sender_email"`
		ReceiverEmail string `json:"receiver_email"`
		Amount        string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	cents, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	record, err := h.svc.Transfer(r.Context(), req.SenderEmail, req.ReceiverEmail, cents)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, models.NewTransferResponse(record))
}

func (h *TransferHandler) RecentTransfers(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	records, err := h.svc.Recent(r.Context(), email)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	out := make([]models.TransferResponse, 0, len(records))
	for i := range records {
		out = append(out, models.NewTransferResponse(&records[i]))
	}
	RespondJSON(w, http.StatusOK, out)
}
