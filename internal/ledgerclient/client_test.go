package ledgerclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Balance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/accounts/ayo@example.com/balance", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"email": "ayo@example.com", "balance": "60.00"})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), time.Second)
	cents, err := client.Balance(context.Background(), "ayo@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(6000), cents)
}

func TestClient_BalanceEscapesEmailInPath(t *testing.T) {
	// "?" is a legal atext character in the local part. Unescaped it would
	// terminate the path and start the query string, so the read would hit
	// "/v1/accounts/a" instead of the account's route.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts/a?b@example.com/balance", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]string{"email": "a?b@example.com", "balance": "10.00"})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), time.Second)
	cents, err := client.Balance(context.Background(), "a?b@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cents)
}

func TestClient_DebitSendsAmountString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts/debit", r.URL.Path)
		var req struct {
			Email  string `json:"email"`
			Amount string `json:"amount"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ayo@example.com", req.Email)
		assert.Equal(t, "40.00", req.Amount)
		json.NewEncoder(w).Encode(map[string]string{"email": req.Email, "balance": "60.00"})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), time.Second)
	cents, err := client.Debit(context.Background(), "ayo@example.com", 4000)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), cents)
}

func TestClient_BusinessErrorPreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"type":   "https://errors.microledger.dev/account/insufficient-funds",
			"title":  "Bad Request",
			"status": 400,
			"detail": "Insufficient funds",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), time.Second)
	_, err := client.Debit(context.Background(), "ayo@example.com", 4000)
	require.Error(t, err)

	// Remote classification and detail survive the hop verbatim.
	assert.Equal(t, domain.KindInsufficientFunds, domain.KindOf(err))
	assert.Equal(t, http.StatusBadRequest, domain.HTTPStatus(err))
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Insufficient funds", de.Detail)
}

func TestClient_NotFoundPreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"type":   "https://errors.microledger.dev/account/not-found",
			"detail": "Account not found",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), time.Second)
	_, err := client.Credit(context.Background(), "ghost@example.com", 100)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, http.StatusNotFound, domain.HTTPStatus(err))
}

func TestClient_TransportFailureIsInfrastructure(t *testing.T) {
	// Nothing listens here; the dial fails immediately.
	client := New("http://127.0.0.1:1", nil, time.Second)
	_, err := client.Balance(context.Background(), "ayo@example.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindInfrastructure, domain.KindOf(err))
	assert.False(t, domain.IsBusiness(err))
	assert.Equal(t, http.StatusBadGateway, domain.HTTPStatus(err))
}

func TestClient_TimeoutIsInfrastructure(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	client := New(srv.URL, srv.Client(), 50*time.Millisecond)
	_, err := client.Balance(context.Background(), "ayo@example.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindInfrastructure, domain.KindOf(err))
}

func TestClient_RemoteServerErrorIsInfrastructure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), time.Second)
	_, err := client.Credit(context.Background(), "ayo@example.com", 100)
	require.Error(t, err)
	assert.Equal(t, domain.KindInfrastructure, domain.KindOf(err))
	assert.Equal(t, http.StatusBadGateway, domain.HTTPStatus(err))
}

func TestClient_MalformedResponseIsInfrastructure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), time.Second)
	_, err := client.Balance(context.Background(), "ayo@example.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindInfrastructure, domain.KindOf(err))
}
