package main

import (
	"fmt"
	"log/slog"

	log "github.com/charmbracelet/log"

	"github.com/laokitchen/payflow/infra/initializer"
	"github.com/laokitchen/payflow/pkg/app"
	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	logger.Info(
		"starting server",
		"env", cfg.Env,
		"scheme", cfg.Server.Scheme,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	a := app.New(deps, cfg)
	defer a.PaymentService.Close()

	fiberApp := webapi.New(a)
	return fiberApp.Listen(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
}
