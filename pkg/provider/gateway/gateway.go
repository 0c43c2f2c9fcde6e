// Package gateway defines the contract for the external banking gateway
// that brokers the actual money transfer.
package gateway

import (
	"context"
	"errors"
)

// ErrTokenExpired signals that the gateway rejected the session token
// (HTTP 401). It is distinguished from generic failures so callers can
// re-login and retry instead of giving up.
var ErrTokenExpired = errors.New("gateway session token expired")

// Session is the result of the gateway login handshake. The token's
// lifetime is bounded but unknown in advance; expiry is discovered
// reactively via ErrTokenExpired.
type Session struct {
	CSRFToken string
}

// RedirectParams are the fields of the create-redirect-url call.
type RedirectParams struct {
	TransactionID string
	PhoneNumber   string
	ClientIP      string
	FailURL       string
	ReturnURL     string
	SuccessURL    string
	Amount        int64
	Currency      string
}

// Gateway is a stateless request/response wrapper around the three
// external banking operations.
type Gateway interface {
	// Login performs the session handshake. It fails with a generic error
	// if the call fails or the response lacks a token field; no retry.
	Login(ctx context.Context) (*Session, error)

	// CreateRedirectURL requests the one-time deep link into the banking
	// app. The returned URL's shape is not validated.
	CreateRedirectURL(ctx context.Context, token string, params *RedirectParams) (string, error)

	// VerifyStatus checks the transaction status. An HTTP 401 response
	// maps to ErrTokenExpired; every other non-2xx or transport failure
	// is a generic error.
	VerifyStatus(ctx context.Context, token, transactionID string) (*StatusPayload, error)
}
