package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/models"
	"github.com/go-chi/chi/v5"
)

// LedgerService is the slice of the ledger service the account handlers use.
type LedgerService interface {
	Open(ctx context.Context, email string, initialCents int64) (*models.Account, error)
	Balance(ctx context.Context, email string) (int64, error)
	Deposit(ctx context.Context, email string, amountCents int64) (int64, error)
	Withdraw(ctx context.Context, email string, amountCents int64) (int64, error)
}

type AccountHandler struct {
	svc LedgerService
}

func NewAccountHandler(svc LedgerService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email          string `json:"email"`
		InitialBalance string `json:"initial_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	initialCents, err := domain.ParseBalance(req.InitialBalance)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	account, err := h.svc.Open(r.Context(), req.Email, initialCents)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, models.NewBalanceResponse(account.Email, account.BalanceCents))
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	cents, err := h.svc.Balance(r.Context(), email)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, models.NewBalanceResponse(email, cents))
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	email, cents, ok := decodeMutation(w, r)
	if !ok {
		return
	}

	balance, err := h.svc.Deposit(r.Context(), email, cents)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, models.NewBalanceResponse(email, balance))
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	email, cents, ok := decodeMutation(w, r)
	if !ok {
		return
	}

	balance, err := h.svc.Withdraw(r.Context(), email, cents)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, models.NewBalanceResponse(email, balance))
}

func decodeMutation(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	var req struct {
		Email  string `json:"email"`
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return "", 0, false
	}
	cents, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondDomainError(w, r, err)
		return "", 0, false
	}
	return req.Email, cents, true
}
