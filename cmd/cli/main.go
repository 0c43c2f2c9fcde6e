// Command cli drives a payment attempt from the terminal, standing in for
// the mobile payment screen: it prints the banking-app redirect URL,
// reports the hand-off and waits for either observation channel to settle
// the transaction.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/laokitchen/payflow/infra/initializer"
	"github.com/laokitchen/payflow/pkg/app"
	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/domain/common"
	"github.com/laokitchen/payflow/pkg/domain/events"
	paymentsvc "github.com/laokitchen/payflow/pkg/service/payment"
)

func main() {
	if len(os.Args) < 3 || os.Args[1] != "pay" {
		fmt.Println("Usage: cli pay <amount>")
		return
	}
	amount, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		color.Red("Invalid amount: %v", err)
		return
	}

	if os.Getenv("GATEWAY_PASSWORD") == "" {
		fmt.Print("Gateway password: ")
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			color.Red("Failed to read password: %v", err)
			return
		}
		os.Setenv("GATEWAY_PASSWORD", string(secret)) //nolint:errcheck
	}

	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		return
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		color.Red("Failed to initialize dependencies: %v", err)
		return
	}
	a := app.New(deps, cfg)
	defer a.PaymentService.Close()

	done := make(chan struct{})
	deps.EventBus.Register(events.EventTypePaymentCompleted, func(ctx context.Context, e common.Event) {
		completed := e.(events.PaymentCompleted)
		color.Green("Payment completed: %.2f %s to %s at %s",
			completed.Amount, completed.Currency, completed.Recipient, completed.FinishedAt)
		close(done)
	})
	deps.EventBus.Register(events.EventTypePaymentFailed, func(ctx context.Context, e common.Event) {
		failed := e.(events.PaymentFailed)
		color.Red("Payment %s (%s)", failed.Status, failed.Reason)
		close(done)
	})
	deps.EventBus.Register(events.EventTypePaymentPending, func(ctx context.Context, e common.Event) {
		color.Yellow("Still pending...")
	})
	deps.EventBus.Register(events.EventTypePaymentTimedOut, func(ctx context.Context, e common.Event) {
		color.Red("Gave up waiting for a result after %s", e.(events.PaymentTimedOut).Elapsed)
		close(done)
	})

	ctx := context.Background()
	flow, err := a.PaymentService.Begin(ctx, paymentsvc.BeginParams{
		Amount:   amount,
		Category: "mblaos",
	})
	if err != nil {
		color.Red("Failed to start payment: %v", err)
		return
	}

	fmt.Println("Open this URL in the MBLaos app to approve the payment:")
	color.Cyan("  %s", flow.RedirectURL())
	fmt.Printf("Transaction id: %s\n", flow.ID())

	if err := flow.MarkRedirected(); err != nil {
		color.Red("Failed to start status polling: %v", err)
		return
	}

	<-done
}
