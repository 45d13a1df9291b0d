package config

import (
	"bitkub-grid-bot-go/internal/models"
	"encoding/json"
	"fmt"
	"os"
)

const defaultAPIBaseURL = "https://api.bitkub.com"

// LoadConfig 从指定路径加载JSON配置文件并解析到Config结构体中,
// 凭证类字段从环境变量读取。返回的配置在进程生命周期内只读。
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &models.Config{}
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10
	}

	// 凭证只从环境变量加载, 避免把密钥写进配置文件
	cfg.APIKey = os.Getenv("BITKUB_API_KEY")
	cfg.SecretKey = os.Getenv("BITKUB_API_SECRET")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate 检查交易相关参数, 配置错误应在启动时立刻失败而不是在周期中途
func validate(cfg *models.Config) error {
	if cfg.SymbolTicker == "" {
		return fmt.Errorf("配置缺少 symbol_ticker")
	}
	if cfg.SymbolTrade == "" {
		return fmt.Errorf("配置缺少 symbol_trade")
	}
	if cfg.BudgetTHB <= 0 {
		return fmt.Errorf("budget_thb 必须为正数, 当前值: %v", cfg.BudgetTHB)
	}
	if cfg.BuyDropPercent <= 0 || cfg.BuyDropPercent >= 100 {
		return fmt.Errorf("buy_drop_percent 必须在 (0, 100) 区间内, 当前值: %v", cfg.BuyDropPercent)
	}
	if cfg.SellRisePercent <= 0 {
		return fmt.Errorf("sell_rise_percent 必须为正数, 当前值: %v", cfg.SellRisePercent)
	}
	if cfg.MaxOrderMinutes <= 0 {
		return fmt.Errorf("max_order_minutes 必须为正数, 当前值: %v", cfg.MaxOrderMinutes)
	}
	if cfg.PricePrecision < 0 || cfg.AmountPrecision < 0 {
		return fmt.Errorf("price_precision 和 amount_precision 不能为负数")
	}
	return nil
}
