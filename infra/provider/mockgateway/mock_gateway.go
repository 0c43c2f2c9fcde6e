// Package mockgateway simulates the MBLaos banking gateway for tests and
// local development. NOT for production use.
package mockgateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/laokitchen/payflow/pkg/provider/gateway"
)

// MockGateway implements gateway.Gateway with programmable responses and
// call counters. The zero-value behavior is a happy path: logins hand out
// sequential tokens and verifies report PENDING.
type MockGateway struct {
	mu sync.Mutex

	LoginFunc             func(ctx context.Context) (*gateway.Session, error)
	CreateRedirectURLFunc func(ctx context.Context, token string, params *gateway.RedirectParams) (string, error)
	VerifyStatusFunc      func(ctx context.Context, token, transactionID string) (*gateway.StatusPayload, error)

	logins    int
	redirects int
	verifies  int

	// VerifyCalls records the (token, transactionID) pairs seen.
	VerifyCalls [][2]string
	// RedirectParams records the params of every redirect-url call.
	RedirectParams []*gateway.RedirectParams
}

var _ gateway.Gateway = (*MockGateway)(nil)

// New creates a MockGateway with happy-path defaults.
func New() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Login(ctx context.Context) (*gateway.Session, error) {
	m.mu.Lock()
	m.logins++
	n := m.logins
	fn := m.LoginFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return &gateway.Session{CSRFToken: fmt.Sprintf("token-%d", n)}, nil
}

func (m *MockGateway) CreateRedirectURL(
	ctx context.Context,
	token string,
	params *gateway.RedirectParams,
) (string, error) {
	m.mu.Lock()
	m.redirects++
	m.RedirectParams = append(m.RedirectParams, params)
	fn := m.CreateRedirectURLFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, token, params)
	}
	return "mblaos://checkout/" + params.TransactionID, nil
}

func (m *MockGateway) VerifyStatus(
	ctx context.Context,
	token, transactionID string,
) (*gateway.StatusPayload, error) {
	m.mu.Lock()
	m.verifies++
	m.VerifyCalls = append(m.VerifyCalls, [2]string{token, transactionID})
	fn := m.VerifyStatusFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, token, transactionID)
	}
	return &gateway.StatusPayload{Status: "PENDING"}, nil
}

// Logins returns how many login calls were made.
func (m *MockGateway) Logins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logins
}

// Verifies returns how many verify-status calls were made.
func (m *MockGateway) Verifies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifies
}
