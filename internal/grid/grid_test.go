package grid

import (
	"bitkub-grid-bot-go/internal/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *models.Config {
	return &models.Config{
		BudgetTHB:       200,
		BuyDropPercent:  1.0,
		SellRisePercent: 1.2,
		PricePrecision:  2,
		AmountPrecision: 4,
	}
}

// TestComputeReferenceValues checks the worked example: price=100,
// drop=1.0%, rise=1.2%, budget=200.
func TestComputeReferenceValues(t *testing.T) {
	d := Compute(decimal.NewFromInt(100), testConfig())

	assert.True(t, d.BuyPrice.Equal(decimal.NewFromInt(99)), "buy price should be 99, got %s", d.BuyPrice)
	assert.True(t, d.SellPrice.Equal(decimal.RequireFromString("101.2")), "sell price should be 101.2, got %s", d.SellPrice)
	// 200/99 = 2.0202..., rounded down to 4 decimal places
	assert.True(t, d.Quantity.Equal(decimal.RequireFromString("2.0202")), "quantity should be 2.0202, got %s", d.Quantity)
}

// TestComputeBracketsPrice verifies buyPrice < price < sellPrice for a
// spread of positive prices.
func TestComputeBracketsPrice(t *testing.T) {
	cfg := testConfig()
	// prices well above the 0.01 tick so rounding cannot collapse the spread
	for _, p := range []string{"3.21", "100", "1250.55", "987654.32"} {
		price := decimal.RequireFromString(p)
		d := Compute(price, cfg)
		assert.True(t, d.BuyPrice.LessThan(price), "buy %s should be below price %s", d.BuyPrice, price)
		assert.True(t, d.SellPrice.GreaterThan(price), "sell %s should be above price %s", d.SellPrice, price)
	}
}

// TestComputeNeverOverspends verifies that after rounding the quantity down,
// quantity * buyPrice never exceeds the configured budget.
func TestComputeNeverOverspends(t *testing.T) {
	cfg := testConfig()
	budget := decimal.NewFromFloat(cfg.BudgetTHB)
	for _, p := range []string{"3.33", "99.99", "107", "0.13"} {
		d := Compute(decimal.RequireFromString(p), cfg)
		cost := d.Quantity.Mul(d.BuyPrice)
		assert.True(t, cost.LessThanOrEqual(budget),
			"cost %s exceeds budget %s at price %s", cost, budget, p)
	}
}

// TestComputeQuantityFormula verifies quantity = budget / buyPrice before
// rounding: with a generous precision the rounded value matches the exact
// quotient.
func TestComputeQuantityFormula(t *testing.T) {
	cfg := testConfig()
	cfg.AmountPrecision = 12
	d := Compute(decimal.NewFromInt(100), cfg)

	exact := decimal.NewFromFloat(cfg.BudgetTHB).Div(d.BuyPrice).RoundDown(12)
	assert.True(t, d.Quantity.Equal(exact))
}

// TestComputeZeroBuyPrice covers the degenerate case where the price
// precision rounds the buy price to zero.
func TestComputeZeroBuyPrice(t *testing.T) {
	cfg := testConfig()
	d := Compute(decimal.RequireFromString("0.004"), cfg)
	require.True(t, d.BuyPrice.IsZero())
	assert.True(t, d.Quantity.IsZero(), "quantity must be zero when buy price rounds to zero")
}
