package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/laokitchen/payflow/pkg/domain/common"
	"github.com/laokitchen/payflow/pkg/domain/events"
	"github.com/laokitchen/payflow/pkg/domain/payment"
	"github.com/laokitchen/payflow/pkg/dto"
	"github.com/laokitchen/payflow/pkg/provider/gateway"
)

// ledgerTimeout bounds each detached bookkeeping write.
const ledgerTimeout = 5 * time.Second

// Flow is the state machine for a single payment attempt:
//
//	CREATED -> READY -> AWAITING_RESULT -> SETTLED
//	any state -> ABORTED on unrecoverable setup error
//
// Two channels race to observe a terminal status: the poller started by
// MarkRedirected and deep-link callbacks arriving via VerifyNow. The first
// terminal observation wins exactly once; the loser's observation is a
// no-op.
type Flow struct {
	svc    *Service
	logger *slog.Logger

	mu          sync.Mutex
	id          string
	tx          *payment.Transaction // cleared on settle
	session     *gateway.Session
	state       payment.State
	redirectURL string
	settled     bool
	closed      bool
	pollCancel  context.CancelFunc
	result      *dto.TransactionRead
}

func newFlow(svc *Service, tx *payment.Transaction) *Flow {
	return &Flow{
		svc:    svc,
		logger: svc.logger.With("transaction_id", tx.ID),
		id:     tx.ID,
		tx:     tx,
		state:  payment.StateCreated,
	}
}

// ID returns the transaction id. Immutable once created.
func (f *Flow) ID() string { return f.id }

// State returns the current lifecycle state.
func (f *Flow) State() payment.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// RedirectURL returns the one-time deep link into the banking app.
func (f *Flow) RedirectURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirectURL
}

// Active reports whether the flow still awaits a terminal status.
func (f *Flow) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.settled && !f.closed && f.state != payment.StateAborted
}

// Result returns the terminal outcome once settled, nil before.
func (f *Flow) Result() *dto.TransactionRead {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// begin performs the setup phase: gateway login, best-effort ledger
// registration, callback construction and redirect-URL creation. Ledger
// failure is deliberately swallowed; everything else aborts the flow.
func (f *Flow) begin(ctx context.Context) error {
	sess, err := f.svc.gw.Login(ctx)
	if err != nil {
		f.abort()
		return fmt.Errorf("%w: login: %v", payment.ErrSetupFailed, err)
	}
	f.setSession(sess)

	f.mu.Lock()
	tx := *f.tx
	f.mu.Unlock()
	f.registerLedger(tx)

	cfg := f.svc.cfg
	params := &gateway.RedirectParams{
		TransactionID: f.id,
		PhoneNumber:   cfg.Gateway.PhoneNumber,
		ClientIP:      cfg.Gateway.ClientIp,
		FailURL:       f.callbackURL(cfg.Callback.FailUrl),
		ReturnURL:     f.callbackURL(cfg.Callback.ReturnUrl),
		SuccessURL:    f.callbackURL(cfg.Callback.SuccessUrl),
		Amount:        tx.GatewayAmount,
		Currency:      tx.Currency,
	}
	redirectURL, err := f.svc.gw.CreateRedirectURL(ctx, f.sessionToken(), params)
	if err != nil {
		f.abort()
		return fmt.Errorf("%w: redirect url: %v", payment.ErrSetupFailed, err)
	}

	f.mu.Lock()
	f.redirectURL = redirectURL
	f.state = payment.StateReady
	f.mu.Unlock()
	return nil
}

// callbackURL embeds the transaction id and current session token into a
// configured deep-link base so the banking app can call back.
func (f *Flow) callbackURL(base string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%stransactionId=%s&token=%s",
		base, sep, url.QueryEscape(f.id), url.QueryEscape(f.sessionToken()))
}

// MarkRedirected records that the user was actually handed off to the
// banking app and starts the status poller. Polling never runs earlier: a
// poll against an unstarted transaction would read a false negative.
func (f *Flow) MarkRedirected() error {
	f.mu.Lock()
	if f.state != payment.StateReady {
		f.mu.Unlock()
		return fmt.Errorf("%w: state %s", payment.ErrNotReady, f.state)
	}
	f.state = payment.StateAwaitingResult
	pollCtx, cancel := context.WithCancel(context.Background())
	f.pollCancel = cancel
	f.mu.Unlock()

	f.logger.Info("redirected to banking app, polling starts")
	go f.pollLoop(pollCtx)
	return nil
}

// StoreURL returns the platform app-store fallback used when the banking
// app is not installed. The flow stays READY and no polling starts.
func (f *Flow) StoreURL(platform string) string {
	if platform == "ios" {
		return f.svc.cfg.Callback.AppStoreUrl
	}
	return f.svc.cfg.Callback.PlayStoreUrl
}

// VerifyNow is the deep-link observation channel. Empty token and
// transaction id fall back to the flow's current session token and tracked
// id. Already-settled flows treat the call as an idempotent no-op.
func (f *Flow) VerifyNow(ctx context.Context, token, transactionID string) error {
	return f.checkStatus(ctx, token, transactionID)
}

// Close tears the flow down: polling stops, and in-flight verifies that
// resolve later are discarded by the settled/closed check in observe.
func (f *Flow) Close() {
	f.mu.Lock()
	f.closed = true
	cancel := f.pollCancel
	f.pollCancel = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (f *Flow) abort() {
	f.mu.Lock()
	f.state = payment.StateAborted
	f.mu.Unlock()
}

// setSession is the single writer of the session token. Both the setup
// phase and the mid-flow refresh on expiry go through here, so every later
// call reads the latest token rather than a stale captured copy.
func (f *Flow) setSession(sess *gateway.Session) {
	f.mu.Lock()
	f.session = sess
	f.mu.Unlock()
}

func (f *Flow) sessionToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return ""
	}
	return f.session.CSRFToken
}

// pollLoop drives the poll channel with bounded exponential backoff. The
// legacy clients polled every 5s forever; here the total wait is bounded
// and exhaustion publishes a timeout event instead of spinning silently.
func (f *Flow) pollLoop(ctx context.Context) {
	cfg := f.svc.cfg.Poll
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.Multiplier = cfg.Multiplier
	b.MaxInterval = cfg.MaxInterval
	b.MaxElapsedTime = cfg.MaxElapsedTime
	b.Reset()

	start := time.Now()
	for {
		next := b.NextBackOff()
		if next == backoff.Stop {
			f.onPollTimeout(ctx, time.Since(start))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(next):
		}

		if !f.Active() {
			return
		}
		// Polling-phase errors are swallowed; the next tick retries.
		if err := f.checkStatus(ctx, "", ""); err != nil {
			f.logger.Debug("poll verify failed", "error", err)
		}
	}
}

func (f *Flow) onPollTimeout(ctx context.Context, elapsed time.Duration) {
	f.mu.Lock()
	if f.settled || f.closed {
		f.mu.Unlock()
		return
	}
	f.pollCancel = nil
	f.mu.Unlock()

	f.logger.Warn("status polling exhausted", "elapsed", elapsed)
	// The deep-link channel stays usable after the timeout.
	f.emit(ctx, events.PaymentTimedOut{TransactionID: f.id, Elapsed: elapsed})
}

// checkStatus is the shared status-handling path for both channels.
func (f *Flow) checkStatus(ctx context.Context, tokenOverride, txOverride string) error {
	f.mu.Lock()
	if f.settled || f.closed || f.tx == nil {
		f.mu.Unlock()
		return nil
	}
	token := tokenOverride
	if token == "" && f.session != nil {
		token = f.session.CSRFToken
	}
	txID := txOverride
	if txID == "" {
		txID = f.tx.ID
	}
	f.mu.Unlock()

	payload, err := f.verifyOnce(ctx, token, txID)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrVerifyFailed, err)
	}
	f.observe(ctx, payload)
	return nil
}

// verifyOnce calls the gateway and recovers from token expiry exactly
// once: one re-login, one retry with the fresh token. A failed re-login
// gives up for this invocation; the next poll tick tries independently.
func (f *Flow) verifyOnce(ctx context.Context, token, txID string) (*gateway.StatusPayload, error) {
	payload, err := f.svc.gw.VerifyStatus(ctx, token, txID)
	if !errors.Is(err, gateway.ErrTokenExpired) {
		return payload, err
	}

	f.logger.Info("session token expired, re-login")
	sess, loginErr := f.svc.gw.Login(ctx)
	if loginErr != nil {
		return nil, fmt.Errorf("re-login after token expiry: %w", loginErr)
	}
	f.setSession(sess)
	return f.svc.gw.VerifyStatus(ctx, f.sessionToken(), txID)
}

// observe applies one status observation. The check-and-clear of the
// settled flag happens synchronously under the lock before any further
// work, so the losing channel's observation of the same terminal status
// cannot publish a second time.
func (f *Flow) observe(ctx context.Context, p *gateway.StatusPayload) {
	f.mu.Lock()
	if f.settled || f.closed || f.tx == nil {
		f.mu.Unlock()
		return
	}

	if !p.Status.Terminal() {
		f.mu.Unlock()
		if p.Status == payment.StatusPending {
			f.emit(ctx, events.PaymentPending{TransactionID: f.id})
		}
		return
	}

	f.settled = true
	f.state = payment.StateSettled
	tx := *f.tx
	f.tx = nil // tracked id cleared: later observations are no-ops
	cancel := f.pollCancel
	f.pollCancel = nil

	amount := p.Amount
	if amount == 0 {
		amount = tx.DisplayAmount
	}
	currency := p.Currency
	if currency == "" {
		currency = tx.Currency
	}
	f.result = &dto.TransactionRead{
		ID:            tx.ID,
		DisplayAmount: tx.DisplayAmount,
		GatewayAmount: tx.GatewayAmount,
		Currency:      currency,
		Status:        p.Status,
		Recipient:     p.Recipient,
		FinishedAt:    p.FinishedAt,
		CreatedAt:     tx.CreatedAt,
	}
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	f.updateLedger(dto.TransactionUpdate{
		Status:     p.Status,
		Recipient:  p.Recipient,
		FinishedAt: p.FinishedAt,
	})

	switch p.Status {
	case payment.StatusSuccess:
		f.logger.Info("payment completed", "amount", amount, "recipient", p.Recipient)
		f.emit(ctx, events.PaymentCompleted{
			TransactionID: tx.ID,
			Amount:        amount,
			Currency:      currency,
			Recipient:     p.Recipient,
			FinishedAt:    p.FinishedAt,
		})
	default:
		f.logger.Warn("payment did not complete", "status", p.Status)
		f.emit(ctx, events.PaymentFailed{
			TransactionID: tx.ID,
			Status:        p.Status,
			Reason:        p.Code,
		})
	}
}

func (f *Flow) emit(ctx context.Context, event common.Event) {
	if err := f.svc.bus.Emit(ctx, event); err != nil {
		f.logger.Error("emit event failed", "event_type", event.Type(), "error", err)
	}
}

// registerLedger records the attempt without blocking the payment path.
func (f *Flow) registerLedger(tx payment.Transaction) {
	if f.svc.ledger == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
		defer cancel()
		err := f.svc.ledger.Create(ctx, dto.TransactionCreate{
			ID:            tx.ID,
			DisplayAmount: tx.DisplayAmount,
			GatewayAmount: tx.GatewayAmount,
			Currency:      tx.Currency,
			Status:        payment.StatusPending,
		})
		if err != nil {
			f.logger.Warn("ledger registration failed", "error", err)
		}
	}()
}

// updateLedger records the terminal outcome, also detached.
func (f *Flow) updateLedger(update dto.TransactionUpdate) {
	if f.svc.ledger == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
		defer cancel()
		if err := f.svc.ledger.Update(ctx, f.id, update); err != nil {
			f.logger.Warn("ledger update failed", "error", err)
		}
	}()
}
