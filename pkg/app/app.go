package app

import (
	"log/slog"

	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/eventbus"
	"github.com/laokitchen/payflow/pkg/money"
	"github.com/laokitchen/payflow/pkg/provider/gateway"
	txrepo "github.com/laokitchen/payflow/pkg/repository/transaction"
	paymentsvc "github.com/laokitchen/payflow/pkg/service/payment"
)

// Deps contains all the dependencies needed to assemble the application.
type Deps struct {
	Gateway   gateway.Gateway
	Ledger    txrepo.Repository // nil disables bookkeeping
	EventBus  eventbus.Bus
	Converter *money.Converter
	Logger    *slog.Logger
}

type App struct {
	Deps           *Deps
	Config         *config.App
	PaymentService *paymentsvc.Service
}

func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:   deps,
		Config: cfg,
		PaymentService: paymentsvc.New(
			deps.Gateway,
			deps.Ledger,
			deps.EventBus,
			deps.Converter,
			cfg,
			deps.Logger,
		),
	}
}
