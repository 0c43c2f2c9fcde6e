// Package money holds the display-currency to gateway-currency conversion
// boundary. The mobile clients showed USD amounts but passed the raw number
// to the LAK-denominated gateway; the conversion here makes that boundary
// explicit and configurable instead of implicit.
package money

import (
	"errors"
	"math"

	"github.com/laokitchen/payflow/pkg/config"
)

var (
	// ErrInvalidRate is returned when the configured conversion rate is
	// not a positive finite number.
	ErrInvalidRate = errors.New("conversion rate must be a positive number")
	// ErrAmountMustBePositive is returned for zero or negative amounts.
	ErrAmountMustBePositive = errors.New("amount must be positive")
)

// Converter converts user-facing display amounts into the integral
// gateway-currency amounts the banking gateway expects.
type Converter struct {
	displayCurrency string
	gatewayCurrency string
	rate            float64
}

// NewConverter builds a Converter from config. Rate is gateway units per
// display unit; the default of 1 reproduces the legacy pass-through.
func NewConverter(cfg *config.Amount) (*Converter, error) {
	if cfg.Rate <= 0 || math.IsInf(cfg.Rate, 0) || math.IsNaN(cfg.Rate) {
		return nil, ErrInvalidRate
	}
	return &Converter{
		displayCurrency: cfg.DisplayCurrency,
		gatewayCurrency: cfg.GatewayCurrency,
		rate:            cfg.Rate,
	}, nil
}

// ToGateway converts a display amount to the whole gateway-currency units
// the gateway expects (LAK carries no decimals), rounding half away from
// zero.
func (c *Converter) ToGateway(display float64) (int64, error) {
	if display <= 0 || math.IsInf(display, 0) || math.IsNaN(display) {
		return 0, ErrAmountMustBePositive
	}
	return int64(math.Round(display * c.rate)), nil
}

// DisplayCurrency returns the user-facing currency code.
func (c *Converter) DisplayCurrency() string { return c.displayCurrency }

// GatewayCurrency returns the currency code sent to the gateway.
func (c *Converter) GatewayCurrency() string { return c.gatewayCurrency }
