// Package ledgerclient is the orchestrator's sole channel to the remote
// ledger store. It presents debit/credit/read as ordinary fallible calls:
// transport failures come back as infrastructure errors carrying the cause,
// remote business rejections keep their original classification and detail
// verbatim. No retries are performed here; that is the caller's decision.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/debanjo/microledger/internal/domain"
	"github.com/debanjo/microledger/internal/models"
)

const (
	routeBalance = "/v1/accounts/%s/balance"
	routeDebit   = "/v1/accounts/debit"
	routeCredit  = "/v1/accounts/credit"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New builds a client around an injected http.Client. Every call is bounded
// by timeout regardless of the caller's context.
func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// Balance reads the current balance of an account, in cents. The email goes
// into the path escaped: the local part may legally contain characters like
// "?" or "#" that would otherwise cut the URL short.
func (c *Client) Balance(ctx context.Context, email string) (int64, error) {
	return c.call(ctx, http.MethodGet, fmt.Sprintf(routeBalance, url.PathEscape(email)), nil)
}

// Debit deducts amountCents from the account and returns the new balance.
func (c *Client) Debit(ctx context.Context, email string, amountCents int64) (int64, error) {
	return c.call(ctx, http.MethodPost, routeDebit, &mutationRequest{
		Email:  email,
		Amount: domain.FormatAmount(amountCents),
	})
}

// Credit adds amountCents to the account and returns the new balance.
func (c *Client) Credit(ctx context.Context, email string, amountCents int64) (int64, error) {
	return c.call(ctx, http.MethodPost, routeCredit, &mutationRequest{
		Email:  email,
		Amount: domain.FormatAmount(amountCents),
	})
}

type mutationRequest struct {
	Email  string `json:"email"`
	Amount string `json:"amount"`
}

func (c *Client) call(ctx context.Context, method, path string, payload *mutationRequest) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, domain.NewInfrastructure("encode ledger request", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, domain.NewInfrastructure("build ledger request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// DNS, connection reset, timeout: the outcome of the remote
		// operation is unknown.
		return 0, domain.NewInfrastructure("account-service unavailable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, domain.NewInfrastructure("read ledger response", err)
	}

	if resp.StatusCode >= 400 {
		return 0, remoteError(resp.StatusCode, raw)
	}

	var out models.BalanceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, domain.NewInfrastructure("malformed ledger response", err)
	}
	cents, err := domain.ParseBalance(out.Balance)
	if err != nil {
		return 0, domain.NewInfrastructure("malformed ledger balance", err)
	}
	return cents, nil
}

// remoteError rebuilds the ledger service's own classification from its RFC
// 7807 body, keeping the detail message untouched. Responses that don't parse
// as problem+json fall back to a status-code mapping.
func remoteError(status int, raw []byte) error {
	detail := strings.TrimSpace(string(raw))
	kind := kindForStatus(status)

	var prob struct {
		Type   string `json:"type"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &prob); err == nil {
		if prob.Detail != "" {
			detail = prob.Detail
		}
		if k, ok := kindForProblemType(prob.Type); ok {
			kind = k
		}
	}
	if detail == "" {
		detail = fmt.Sprintf("account-service error %d", status)
	}

	if status >= 500 {
		return &domain.Error{Kind: domain.KindInfrastructure, Detail: detail, Status: http.StatusBadGateway}
	}
	return &domain.Error{Kind: kind, Detail: detail, Status: status}
}

func kindForProblemType(problemType string) (domain.Kind, bool) {
	switch {
	case strings.HasSuffix(problemType, "account/not-found"):
		return domain.KindNotFound, true
	case strings.HasSuffix(problemType, "account/insufficient-funds"):
		return domain.KindInsufficientFunds, true
	case strings.HasSuffix(problemType, "account/already-exists"):
		return domain.KindAlreadyExists, true
	}
	return "", false
}

func kindForStatus(status int) domain.Kind {
	switch status {
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusConflict:
		return domain.KindAlreadyExists
	default:
		return domain.KindInvalidInput
	}
}
