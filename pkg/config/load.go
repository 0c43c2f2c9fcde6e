package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the optional .env file(s) and processes the environment into
// an App config. Missing .env files are not an error; required variables
// missing from the environment are.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		if err := godotenv.Load(path); err != nil {
			logger.Debug("Environment file not loaded", "path", path, "error", err)
			continue
		}
		logger.Info("Environment loaded from file", "path", path)
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger := slog.Default()
	logger.Info("App config loaded",
		"env", cfg.Env,
		"gateway_base_url", cfg.Gateway.BaseUrl,
		"gateway_phone", maskValue(cfg.Gateway.PhoneNumber),
		"gateway_seal_key", maskValue(cfg.Gateway.SealKey),
		"db", maskValue(cfg.DB.Url),
		"poll_initial_interval", cfg.Poll.InitialInterval,
		"poll_max_elapsed_time", cfg.Poll.MaxElapsedTime,
		"display_currency", cfg.Amount.DisplayCurrency,
		"gateway_currency", cfg.Amount.GatewayCurrency,
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
