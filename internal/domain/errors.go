package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can tell "the operation definitely did
// not happen" apart from "the outcome is unknown" without inspecting error text.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
	KindInsufficientFunds  Kind = "insufficient_funds"
	KindAlreadyExists      Kind = "already_exists"
	KindInfrastructure     Kind = "infrastructure"
	KindCompensationFailed Kind = "compensation_failed"
)

// Error is the tagged result type carried across every ledger and transfer
// boundary. Business errors keep their original detail message intact; an
// infrastructure error keeps the transport cause for diagnostics but is never
// shown verbatim to end users.
type Error struct {
	Kind   Kind
	Detail string
	Status int // HTTP status of the remote rejection, when one exists
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewInvalidInput(detail string) *Error {
	return &Error{Kind: KindInvalidInput, Detail: detail, Status: http.StatusBadRequest}
}

func NewNotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail, Status: http.StatusNotFound}
}

func NewInsufficientFunds(detail string) *Error {
	return &Error{Kind: KindInsufficientFunds, Detail: detail, Status: http.StatusBadRequest}
}

func NewAlreadyExists(detail string) *Error {
	return &Error{Kind: KindAlreadyExists, Detail: detail, Status: http.StatusConflict}
}

func NewInfrastructure(detail string, cause error) *Error {
	return &Error{Kind: KindInfrastructure, Detail: detail, Status: http.StatusBadGateway, Cause: cause}
}

func NewCompensationFailed(detail string, cause error) *Error {
	return &Error{Kind: KindCompensationFailed, Detail: detail, Status: http.StatusBadGateway, Cause: cause}
}

// KindOf extracts the classification of err, or KindInfrastructure when err
// carries no tag at all (unknown failures are never treated as business ones).
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInfrastructure
}

// IsBusiness reports whether err is a business rejection, i.e. the remote
// operation definitely did not happen.
func IsBusiness(err error) bool {
	switch KindOf(err) {
	case KindInvalidInput, KindNotFound, KindInsufficientFunds, KindAlreadyExists:
		return true
	}
	return false
}

// HTTPStatus returns the status an error should surface with. Untagged errors
// are reported as bad gateway, matching the infrastructure classification.
func HTTPStatus(err error) int {
	var de *Error
	if errors.As(err, &de) && de.Status != 0 {
		return de.Status
	}
	return http.StatusBadGateway
}
