// Package grid 是纯计算的网格策略: 根据现价和配置推导一组买卖价与数量,
// 无任何I/O与副作用。
package grid

import (
	"bitkub-grid-bot-go/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compute 根据现价推导本周期的网格参数:
//
//	buyPrice  = price * (1 - buy_drop_percent/100)
//	sellPrice = price * (1 + sell_rise_percent/100)
//	quantity  = budget_thb / buyPrice
//
// 价格按 price_precision 四舍五入; 数量按 amount_precision 向下取整,
// 保证取整后 quantity*buyPrice 不会超出预算。
func Compute(price decimal.Decimal, cfg *models.Config) models.GridDecision {
	drop := decimal.NewFromFloat(cfg.BuyDropPercent).Div(hundred)
	rise := decimal.NewFromFloat(cfg.SellRisePercent).Div(hundred)
	budget := decimal.NewFromFloat(cfg.BudgetTHB)

	buyPrice := price.Mul(decimal.NewFromInt(1).Sub(drop)).Round(cfg.PricePrecision)
	sellPrice := price.Mul(decimal.NewFromInt(1).Add(rise)).Round(cfg.PricePrecision)

	// 价格精度过低时买价可能被舍入到0, 此时数量无从谈起
	var quantity decimal.Decimal
	if buyPrice.IsPositive() {
		quantity = budget.Div(buyPrice).RoundDown(cfg.AmountPrecision)
	}

	return models.GridDecision{
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Quantity:  quantity,
	}
}
