package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config 结构体定义了机器人的所有配置参数
type Config struct {
	APIBaseURL      string    `json:"api_base_url"`                  // REST API基础地址, 如 "https://api.bitkub.com"
	WSBaseURL       string    `json:"ws_base_url,omitempty"`         // WebSocket基础地址, 仅 watch 模式使用
	SymbolTicker    string    `json:"symbol_ticker"`                 // 行情查询用交易对, 如 "THB_DOGE"
	SymbolTrade     string    `json:"symbol_trade"`                  // 下单用交易对, 如 "doge_thb" (两种写法不可混用)
	BudgetTHB       float64   `json:"budget_thb"`                    // 每组网格的法币预算 (THB)
	BuyDropPercent  float64   `json:"buy_drop_percent"`              // 买单相对现价的下探百分比
	SellRisePercent float64   `json:"sell_rise_percent"`             // 卖单相对现价的上浮百分比
	MaxOrderMinutes float64   `json:"max_order_minutes"`             // 挂单最大存活时间（分钟），超时撤单
	PricePrecision  int32     `json:"price_precision"`               // 价格小数位数（按交易对规则配置）
	AmountPrecision int32     `json:"amount_precision"`              // 数量小数位数（按交易对规则配置）
	JournalPath     string    `json:"journal_path,omitempty"`        // 周期日志数据库路径, 为空则不记录
	RequestTimeout  int       `json:"request_timeout_sec,omitempty"` // 单次HTTP请求超时（秒），默认10
	LogConfig       LogConfig `json:"log"`                           // 日志配置

	// 凭证从环境变量加载, 不出现在配置文件中
	APIKey         string `json:"-"`
	SecretKey      string `json:"-"`
	TelegramToken  string `json:"-"`
	TelegramChatID string `json:"-"`
}

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Level      string `json:"level"`       // 日志级别, e.g., "debug", "info", "warn", "error"
	Output     string `json:"output"`      // 输出模式: "console", "file", "both"
	File       string `json:"file"`        // 日志文件路径
	MaxSize    int    `json:"max_size"`    // 单个日志文件的最大大小 (MB)
	MaxBackups int    `json:"max_backups"` // 保留的旧日志文件最大数量
	MaxAge     int    `json:"max_age"`     // 旧日志文件的最大保留天数
	Compress   bool   `json:"compress"`    // 是否压缩旧日志文件
}

// Order 定义了交易所返回的挂单信息
type Order struct {
	ID     string          `json:"id"`
	Hash   string          `json:"hash"`
	Side   string          `json:"side"` // "buy" 或 "sell"
	Type   string          `json:"type"` // "limit" 或 "market"
	Rate   decimal.Decimal `json:"rate"` // 委托价
	Amount decimal.Decimal `json:"amount"`
	TS     int64           `json:"ts"` // 创建时间, 毫秒, 交易所时钟
}

// Age 返回订单从创建到 now 的存活时长
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(o.TS))
}

// Ticker 是行情接口中单个交易对的快照, 我们只关心最新成交价
type Ticker struct {
	Last decimal.Decimal `json:"last"`
}

// OrderReceipt 是下单接口的回执, 调用方只需要知道成功与否和订单号
type OrderReceipt struct {
	ID   string          `json:"id"`
	Hash string          `json:"hash"`
	Typ  string          `json:"typ"`
	Amt  decimal.Decimal `json:"amt"`
	Rat  decimal.Decimal `json:"rat"`
	TS   int64           `json:"ts"`
}

// Balance 定义了账户中单个币种的余额
type Balance struct {
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
}

// GridDecision 是每个周期根据现价推导出的网格参数, 用后即弃, 从不持久化
type GridDecision struct {
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Quantity  decimal.Decimal
}

// CycleRecord 记录一次完整周期的执行结果, 仅用于审计与报表, 决策逻辑从不读取
type CycleRecord struct {
	Time         time.Time `json:"time"`
	Price        string    `json:"price"`
	Action       string    `json:"action"` // "placed", "skipped", "failed"
	BuyPrice     string    `json:"buy_price,omitempty"`
	SellPrice    string    `json:"sell_price,omitempty"`
	Quantity     string    `json:"quantity,omitempty"`
	CancelledIDs []string  `json:"cancelled_ids,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// APIError 定义了Bitkub API返回的业务错误 (error 字段非零)
type APIError struct {
	Code    int    `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error 方法使得 APIError 实现了 error 接口
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API Error: code=%d, msg=%s", e.Code, e.Message)
	}
	return fmt.Sprintf("API Error: code=%d", e.Code)
}

// 鉴权类错误码。签名被拒说明密钥或序列化配置有误, 不是可重试的临时故障。
const (
	ErrCodeInvalidAPIKey    = 3
	ErrCodeInvalidSignature = 6
	ErrCodeInvalidTimestamp = 10
)

// IsAuthError 判断 API 错误是否属于鉴权类错误
func (e *APIError) IsAuthError() bool {
	switch e.Code {
	case ErrCodeInvalidAPIKey, ErrCodeInvalidSignature, ErrCodeInvalidTimestamp:
		return true
	}
	return false
}
