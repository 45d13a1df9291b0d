package exchange

import (
	"bitkub-grid-bot-go/internal/models"
	"context"

	"github.com/shopspring/decimal"
)

// Exchange 定义了交易所客户端必须提供的操作。
// 机器人只依赖这个接口, 便于在测试中替换为mock实现。
type Exchange interface {
	// GetPrice 返回指定行情交易对的最新成交价
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	// GetOpenOrders 返回指定交易对的全部挂单, 无挂单时返回空列表
	GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error)
	// PlaceOrder 提交一个限价单, side 为 "buy" 或 "sell"
	PlaceOrder(ctx context.Context, symbol, side string, quantity, price decimal.Decimal) (*models.OrderReceipt, error)
	// CancelOrder 请求撤销指定订单
	CancelOrder(ctx context.Context, symbol, orderID string) error
	// GetBalances 返回账户全部币种余额
	GetBalances(ctx context.Context) (map[string]models.Balance, error)
}
