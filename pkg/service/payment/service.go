// Package payment drives a payment transaction from creation to terminal
// status, reconciling the two independent status-observation channels
// (banking-app deep link and the status poller).
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/deeplink"
	"github.com/laokitchen/payflow/pkg/domain/payment"
	"github.com/laokitchen/payflow/pkg/eventbus"
	"github.com/laokitchen/payflow/pkg/money"
	"github.com/laokitchen/payflow/pkg/provider/gateway"
	txrepo "github.com/laokitchen/payflow/pkg/repository/transaction"
)

// Service owns the in-flight payment flows and routes deep-link callbacks
// to them.
type Service struct {
	gw     gateway.Gateway
	ledger txrepo.Repository // nil disables bookkeeping
	bus    eventbus.Bus
	conv   *money.Converter
	cfg    *config.App
	logger *slog.Logger

	mu    sync.Mutex
	flows map[string]*Flow
}

// New creates the payment service. The ledger may be nil; bookkeeping is
// best-effort and never blocks the payment path.
func New(
	gw gateway.Gateway,
	ledger txrepo.Repository,
	bus eventbus.Bus,
	conv *money.Converter,
	cfg *config.App,
	logger *slog.Logger,
) *Service {
	return &Service{
		gw:     gw,
		ledger: ledger,
		bus:    bus,
		conv:   conv,
		cfg:    cfg,
		logger: logger.With("service", "payment"),
		flows:  make(map[string]*Flow),
	}
}

// BeginParams are the inputs of one payment attempt.
type BeginParams struct {
	Amount   float64
	Category string
}

// Begin creates a new transaction, obtains a gateway session and redirect
// URL, and registers the attempt in the ledger. On success the flow is
// READY: the caller hands the redirect URL to the banking app and reports
// back via MarkRedirected.
func (s *Service) Begin(ctx context.Context, params BeginParams) (*Flow, error) {
	gatewayAmount, err := s.conv.ToGateway(params.Amount)
	if err != nil {
		return nil, err
	}

	flow := newFlow(s, &payment.Transaction{
		ID:            payment.NewTransactionID(),
		DisplayAmount: params.Amount,
		GatewayAmount: gatewayAmount,
		Currency:      s.conv.GatewayCurrency(),
		Status:        payment.StatusPending,
	})

	if err := flow.begin(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.flows[flow.ID()] = flow
	s.mu.Unlock()

	s.logger.Info("payment flow ready",
		"transaction_id", flow.ID(),
		"amount", params.Amount,
		"gateway_amount", gatewayAmount,
		"category", params.Category,
	)
	return flow, nil
}

// Flow returns the tracked flow for a transaction id.
func (s *Service) Flow(id string) (*Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[id]
	return f, ok
}

// HandleDeepLink processes an inbound banking-app callback. Links with an
// unrecognized path are ignored entirely. A missing transactionId falls
// back to the single active flow; a missing token falls back to that
// flow's current session token. The verify runs immediately, independent
// of the poller.
func (s *Service) HandleDeepLink(ctx context.Context, link *deeplink.Link) error {
	if link == nil || link.Path != deeplink.PathPay {
		return nil
	}

	txID := link.Params[deeplink.ParamTransactionID]
	flow, err := s.resolveFlow(txID)
	if err != nil {
		return err
	}

	token := link.Params[deeplink.ParamToken]
	return flow.VerifyNow(ctx, token, txID)
}

func (s *Service) resolveFlow(txID string) (*Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if txID != "" {
		if f, ok := s.flows[txID]; ok {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %s", payment.ErrNotFound, txID)
	}

	// No id in the callback: fall back to the tracked transaction, which
	// is only unambiguous while a single flow is active.
	var active *Flow
	for _, f := range s.flows {
		if f.Active() {
			if active != nil {
				return nil, fmt.Errorf("%w: ambiguous callback without transactionId", payment.ErrNotFound)
			}
			active = f
		}
	}
	if active == nil {
		return nil, payment.ErrNotFound
	}
	return active, nil
}

// Close tears down every flow: polling stops and late observations become
// no-ops.
func (s *Service) Close() {
	s.mu.Lock()
	flows := make([]*Flow, 0, len(s.flows))
	for _, f := range s.flows {
		flows = append(flows, f)
	}
	s.mu.Unlock()

	for _, f := range flows {
		f.Close()
	}
}
