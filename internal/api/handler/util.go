package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/debanjo/microledger/internal/api/problem"
	"github.com/debanjo/microledger/internal/domain"
	"go.uber.org/zap"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// RespondDomainError surfaces a classified error. Business rejections keep
// their original status and detail message; infrastructure failures become a
// generic bad gateway with the cause logged, never exposed to the caller.
func RespondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) && domain.IsBusiness(err) {
		RespondError(w, r, de.Status, problemSlug(de.Kind), de.Detail)
		return
	}

	zap.L().Error("request failed",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("kind", string(domain.KindOf(err))),
	)
	RespondError(w, r, http.StatusBadGateway, "infrastructure/unavailable", "service unavailable")
}

func problemSlug(kind domain.Kind) string {
	switch kind {
	case domain.KindNotFound:
		return "account/not-found"
	case domain.KindInsufficientFunds:
		return "account/insufficient-funds"
	case domain.KindAlreadyExists:
		return "account/already-exists"
	case domain.KindInvalidInput:
		return "request/invalid-input"
	default:
		return "infrastructure/unavailable"
	}
}
