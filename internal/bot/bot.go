package bot

import (
	"bitkub-grid-bot-go/internal/exchange"
	"bitkub-grid-bot-go/internal/grid"
	"bitkub-grid-bot-go/internal/journal"
	"bitkub-grid-bot-go/internal/models"
	"bitkub-grid-bot-go/internal/notifier"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GridBot 是单周期网格控制器。每次 RunCycle 都是一次完整独立的执行:
// 所有状态从交易所的挂单列表现场推导, 周期之间不保留任何内存状态,
// 调度由外部完成。
type GridBot struct {
	config   *models.Config
	exchange exchange.Exchange
	notifier notifier.Notifier
	journal  journal.Journal
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewGridBot 创建一个网格控制器实例
func NewGridBot(cfg *models.Config, ex exchange.Exchange, n notifier.Notifier, j journal.Journal, logger *zap.SugaredLogger) *GridBot {
	return &GridBot{
		config:   cfg,
		exchange: ex,
		notifier: n,
		journal:  j,
		logger:   logger,
		now:      time.Now,
	}
}

// RunCycle 执行一次完整的对账周期:
//
//	获取现价 → 获取挂单 → 撤销超时挂单 → (挂单为空时)铺设一组网格
//
// 行情或挂单查询失败会中止整个周期并返回错误; 单个撤单或单边下单的
// 失败只通知不中止。
func (b *GridBot) RunCycle(ctx context.Context) error {
	// 1. 获取现价。没有价格就没有任何安全的后续动作。
	price, err := b.exchange.GetPrice(ctx, b.config.SymbolTicker)
	if err != nil {
		b.failCycle("获取价格失败", err)
		return fmt.Errorf("获取价格失败: %w", err)
	}
	b.logger.Infow("获取到最新成交价", "symbol", b.config.SymbolTicker, "price", price)

	// 2. 获取当前挂单列表
	openOrders, err := b.exchange.GetOpenOrders(ctx, b.config.SymbolTrade)
	if err != nil {
		b.failCycle("获取挂单失败", err)
		return fmt.Errorf("获取挂单失败: %w", err)
	}
	b.logger.Infow("获取到当前挂单", "count", len(openOrders))

	// 3. 撤销超时挂单。各订单互不依赖, 并发撤销, 单个失败不影响其他。
	cancelled := b.cancelStaleOrders(ctx, openOrders)

	rec := &models.CycleRecord{
		Time:         b.now(),
		Price:        price.String(),
		CancelledIDs: cancelled,
	}

	// 4. 决策依据是第2步取回的列表, 而不是撤单后的重新查询:
	//    同一时刻最多只允许一组网格在场。
	if len(openOrders) > 0 {
		b.logger.Infow("仍有挂单在场, 本周期跳过铺设网格", "count", len(openOrders))
		rec.Action = "skipped"
		b.record(rec)
		return nil
	}

	// 5. 铺设新网格: 先买后卖, 两腿互相独立
	decision := grid.Compute(price, b.config)
	rec.BuyPrice = decision.BuyPrice.String()
	rec.SellPrice = decision.SellPrice.String()
	rec.Quantity = decision.Quantity.String()

	if !decision.Quantity.IsPositive() {
		err := fmt.Errorf("数量按精度取整后为零, 预算 %.2f 过小", b.config.BudgetTHB)
		b.failCycle("铺设网格失败", err)
		return err
	}

	b.logger.Infow("计算网格参数",
		"buy_price", decision.BuyPrice,
		"sell_price", decision.SellPrice,
		"quantity", decision.Quantity)

	var legErrs []string
	if _, err := b.exchange.PlaceOrder(ctx, b.config.SymbolTrade, "buy", decision.Quantity, decision.BuyPrice); err != nil {
		// 买腿失败不回滚也不阻止卖腿, 交易所没有跨订单的事务原语
		b.logger.Errorw("买单下单失败", "error", err)
		b.notifyError("买单下单失败", err)
		legErrs = append(legErrs, fmt.Sprintf("buy: %v", err))
	} else {
		b.notifier.Notify(fmt.Sprintf("🟢 BUY\nprice: %s\nqty: %s", decision.BuyPrice, decision.Quantity))
	}

	if _, err := b.exchange.PlaceOrder(ctx, b.config.SymbolTrade, "sell", decision.Quantity, decision.SellPrice); err != nil {
		b.logger.Errorw("卖单下单失败", "error", err)
		b.notifyError("卖单下单失败", err)
		legErrs = append(legErrs, fmt.Sprintf("sell: %v", err))
	} else {
		b.notifier.Notify(fmt.Sprintf("🔵 SELL\nprice: %s\nqty: %s", decision.SellPrice, decision.Quantity))
	}

	rec.Action = "placed"
	if len(legErrs) > 0 {
		rec.Error = fmt.Sprintf("%v", legErrs)
	}
	b.record(rec)
	return nil
}

// cancelStaleOrders 并发撤销所有超时挂单, 返回成功撤销的订单号。
// 判定超时用的是第2步取回列表时的本地时钟与订单创建时间之差。
func (b *GridBot) cancelStaleOrders(ctx context.Context, orders []models.Order) []string {
	now := b.now()
	maxAge := time.Duration(b.config.MaxOrderMinutes * float64(time.Minute))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var cancelled []string

	for _, o := range orders {
		age := o.Age(now)
		if age <= maxAge {
			continue
		}

		wg.Add(1)
		go func(o models.Order, age time.Duration) {
			defer wg.Done()
			ageMin := age.Minutes()

			if err := b.exchange.CancelOrder(ctx, b.config.SymbolTrade, o.ID); err != nil {
				// 单个撤单失败只通知, 不中止周期
				b.logger.Warnw("撤销超时挂单失败", "order_id", o.ID, "age_min", ageMin, "error", err)
				b.notifyError(fmt.Sprintf("撤销订单 %s 失败", o.ID), err)
				return
			}

			b.logger.Infow("已撤销超时挂单", "order_id", o.ID, "age_min", ageMin)
			b.notifier.Notify(fmt.Sprintf("❌ Cancel order %s (timeout %.1f min)", o.ID, ageMin))

			mu.Lock()
			cancelled = append(cancelled, o.ID)
			mu.Unlock()
		}(o, age)
	}
	wg.Wait()

	return cancelled
}

// failCycle 统一处理致命失败: 记日志、发通知、写周期记录
func (b *GridBot) failCycle(stage string, err error) {
	b.logger.Errorw(stage, "error", err)
	b.notifyError(stage, err)
	b.record(&models.CycleRecord{
		Time:   b.now(),
		Action: "failed",
		Error:  fmt.Sprintf("%s: %v", stage, err),
	})
}

// notifyError 将错误转换为通知文本。签名被拒意味着配置错误而非临时
// 故障, 需要在通知中单独点明。
func (b *GridBot) notifyError(stage string, err error) {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.IsAuthError() {
		b.notifier.Notify(fmt.Sprintf("🔐 AUTH ERROR\n%s: %v\n请检查 API 密钥与签名配置", stage, err))
		return
	}
	b.notifier.Notify(fmt.Sprintf("⚠️ ERROR\n%s: %v", stage, err))
}

// record 尽力而为地写入周期日志, 失败只记日志
func (b *GridBot) record(rec *models.CycleRecord) {
	if err := b.journal.Append(rec); err != nil {
		b.logger.Warnw("写入周期日志失败", "error", err)
	}
}
