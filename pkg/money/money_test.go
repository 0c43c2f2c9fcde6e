package money_test

import (
	"testing"

	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConverter(t *testing.T, rate float64) *money.Converter {
	t.Helper()
	c, err := money.NewConverter(&config.Amount{
		DisplayCurrency: "USD",
		GatewayCurrency: "LAK",
		Rate:            rate,
	})
	require.NoError(t, err)
	return c
}

func TestNewConverter_InvalidRate(t *testing.T) {
	for _, rate := range []float64{0, -1} {
		_, err := money.NewConverter(&config.Amount{Rate: rate})
		assert.ErrorIs(t, err, money.ErrInvalidRate)
	}
}

func TestToGateway(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		display float64
		want    int64
		wantErr error
	}{
		{"pass-through rate preserves legacy behavior", 1, 10, 10, nil},
		{"usd to lak", 21500, 10, 215000, nil},
		{"rounds half up", 1, 0, 0, money.ErrAmountMustBePositive},
		{"fractional display", 21500, 0.5, 10750, nil},
		{"rounding", 3, 10.5, 32, nil}, // 31.5 rounds away from zero
		{"negative rejected", 1, -5, 0, money.ErrAmountMustBePositive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConverter(t, tt.rate)
			got, err := c.ToGateway(tt.display)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrencies(t *testing.T) {
	c := newConverter(t, 1)
	assert.Equal(t, "USD", c.DisplayCurrency())
	assert.Equal(t, "LAK", c.GatewayCurrency())
}
