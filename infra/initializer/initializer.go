// Package initializer assembles the concrete infrastructure behind the
// application dependencies.
package initializer

import (
	"fmt"

	"github.com/laokitchen/payflow/infra"
	infraeventbus "github.com/laokitchen/payflow/infra/eventbus"
	"github.com/laokitchen/payflow/infra/provider/mblaos"
	infratx "github.com/laokitchen/payflow/infra/repository/transaction"
	"github.com/laokitchen/payflow/pkg/app"
	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/money"
)

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	deps := &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	gw, err := mblaos.New(cfg.Gateway, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gateway client: %w", err)
	}
	deps.Gateway = gw

	converter, err := money.NewConverter(cfg.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize amount converter: %w", err)
	}
	deps.Converter = converter

	deps.EventBus = infraeventbus.NewWithMemory(logger)

	// The ledger is best-effort bookkeeping; running without a database
	// is supported.
	if cfg.DB.Url == "" {
		logger.Warn("DB_URL not set, transaction bookkeeping disabled")
		return deps, nil
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ledger database: %w", err)
	}
	deps.Ledger = infratx.New(db)

	return deps, nil
}
