// Package mblaos implements the gateway.Gateway contract against the
// MBLaos banking gateway HTTP API.
package mblaos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/provider/gateway"
)

const (
	loginPath       = "/api/v1/sessions"
	redirectURLPath = "/api/v1/payments/redirect-url"
	verifyPath      = "/api/v1/payments/verify"
)

// Client talks to the MBLaos gateway. It holds no session state; tokens
// are owned by the caller.
type Client struct {
	cfg     *config.Gateway
	http    *http.Client
	sealKey []byte
	logger  *slog.Logger
}

var _ gateway.Gateway = (*Client)(nil)

// New builds a Client from config. The seal key must be a hex-encoded
// 32-byte key.
func New(cfg *config.Gateway, logger *slog.Logger) (*Client, error) {
	key, err := parseSealKey(cfg.SealKey)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		sealKey: key,
		logger:  logger.With("provider", "mblaos"),
	}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// Login performs the session handshake with a freshly sealed password blob.
func (c *Client) Login(ctx context.Context) (*gateway.Session, error) {
	sealed, err := sealPassword(c.sealKey, c.cfg.Password)
	if err != nil {
		return nil, err
	}
	body, status, err := c.post(ctx, loginPath, "", loginRequest{
		Username: c.cfg.PhoneNumber,
		Password: sealed,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway login: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("gateway login: unexpected status %d", status)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gateway login: %w", err)
	}
	if resp.CSRFToken == "" {
		return nil, fmt.Errorf("gateway login: response missing csrfToken")
	}
	c.logger.Info("gateway login ok", "phone", mask(c.cfg.PhoneNumber))
	return &gateway.Session{CSRFToken: resp.CSRFToken}, nil
}

type redirectURLRequest struct {
	TransactionID string `json:"transactionId"`
	PhoneNumber   string `json:"phoneNumber"`
	ClientIP      string `json:"clientIp"`
	FailURL       string `json:"failUrl"`
	ReturnURL     string `json:"returnUrl"`
	SuccessURL    string `json:"successUrl"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

type redirectURLResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// CreateRedirectURL requests the one-time deep link into the banking app.
// The currency defaults from config when the caller leaves it empty; the
// returned URL is passed through unvalidated.
func (c *Client) CreateRedirectURL(
	ctx context.Context,
	token string,
	params *gateway.RedirectParams,
) (string, error) {
	currency := params.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	body, status, err := c.post(ctx, redirectURLPath, token, redirectURLRequest{
		TransactionID: params.TransactionID,
		PhoneNumber:   params.PhoneNumber,
		ClientIP:      params.ClientIP,
		FailURL:       params.FailURL,
		ReturnURL:     params.ReturnURL,
		SuccessURL:    params.SuccessURL,
		Amount:        params.Amount,
		Currency:      currency,
	})
	if err != nil {
		return "", fmt.Errorf("create redirect url: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("create redirect url: unexpected status %d", status)
	}

	var resp redirectURLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("create redirect url: %w", err)
	}
	if resp.RedirectURL == "" {
		return "", fmt.Errorf("create redirect url: response missing redirectUrl")
	}
	c.logger.Info("redirect url created",
		"transaction_id", params.TransactionID,
		"amount", params.Amount,
		"currency", currency,
	)
	return resp.RedirectURL, nil
}

type verifyRequest struct {
	TransactionID string `json:"transactionId"`
}

// VerifyStatus checks the transaction status. HTTP 401 maps to
// gateway.ErrTokenExpired so the caller can refresh the session and retry.
func (c *Client) VerifyStatus(
	ctx context.Context,
	token, transactionID string,
) (*gateway.StatusPayload, error) {
	body, status, err := c.post(ctx, verifyPath, token, verifyRequest{TransactionID: transactionID})
	if err != nil {
		return nil, fmt.Errorf("verify status: %w", err)
	}
	if status == http.StatusUnauthorized {
		return nil, gateway.ErrTokenExpired
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("verify status: unexpected status %d", status)
	}

	payload, err := gateway.DecodeStatus(body)
	if err != nil {
		return nil, fmt.Errorf("verify status: %w", err)
	}
	c.logger.Debug("verify status",
		"transaction_id", transactionID,
		"status", payload.Status,
		"token", mask(token),
	)
	return payload, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.BaseUrl+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// mask hides all but the edges of a credential before it reaches the logs.
func mask(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-4:]
}
