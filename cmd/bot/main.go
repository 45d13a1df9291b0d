package main

import (
	"bitkub-grid-bot-go/internal/bot"
	"bitkub-grid-bot-go/internal/config"
	"bitkub-grid-bot-go/internal/exchange"
	"bitkub-grid-bot-go/internal/journal"
	"bitkub-grid-bot-go/internal/logger"
	"bitkub-grid-bot-go/internal/models"
	"bitkub-grid-bot-go/internal/notifier"
	"bitkub-grid-bot-go/internal/report"
	"bitkub-grid-bot-go/internal/stream"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	// --- 命令行参数定义 ---
	configPath := flag.String("config", "config.json", "path to the config file")
	mode := flag.String("mode", "cycle", "running mode: cycle, watch or report")
	flag.Parse()

	// --- 初始化日志 (提前) ---
	// 在加载.env和配置文件的阶段就需要日志, 先用默认配置初始化一次
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	// --- 加载 .env 文件 ---
	if err := godotenv.Load(); err != nil {
		logger.S().Info("未找到 .env 文件，将从系统环境变量中读取。")
	} else {
		logger.S().Info("成功从 .env 文件加载配置。")
	}

	// --- 加载 JSON 配置 ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("无法加载配置文件: %v", err)
	}

	// --- 使用文件中的配置重新初始化日志 ---
	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	switch *mode {
	case "cycle":
		runCycleMode(cfg)
	case "watch":
		runWatchMode(cfg)
	case "report":
		runReportMode(cfg)
	default:
		logger.S().Fatalf("未知的运行模式: %s。请选择 'cycle'、'watch' 或 'report'。", *mode)
	}
}

// newExchange 根据配置构造交易所客户端
func newExchange(cfg *models.Config) *exchange.BitkubExchange {
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		logger.S().Fatal("错误：BITKUB_API_KEY 和 BITKUB_API_SECRET 环境变量必须被设置。")
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	return exchange.NewBitkubExchange(cfg.APIKey, cfg.SecretKey, cfg.APIBaseURL, timeout, logger.S())
}

// openJournal 打开周期日志, 未配置路径时返回无操作实现
func openJournal(cfg *models.Config) journal.Journal {
	if cfg.JournalPath == "" {
		return journal.Nop{}
	}
	j, err := journal.NewBadgerJournal(cfg.JournalPath)
	if err != nil {
		logger.S().Fatalf("无法打开周期日志数据库: %v", err)
	}
	return j
}

// runCycleMode 执行一次对账周期后退出。
// 退出码: 0 表示周期完成（包括跳过铺设）, 1 表示周期中止。
func runCycleMode(cfg *models.Config) {
	logger.S().Infof("--- 开始对账周期: %s ---", cfg.SymbolTrade)

	ex := newExchange(cfg)
	n := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	j := openJournal(cfg)
	defer j.Close()

	gridBot := bot.NewGridBot(cfg, ex, n, j, logger.S())

	ctx := context.Background()
	if err := gridBot.RunCycle(ctx); err != nil {
		logger.S().Errorf("周期中止: %v", err)
		logger.S().Sync()
		j.Close()
		os.Exit(1)
	}
	logger.S().Info("--- 周期结束 ---")
}

// runWatchMode 持续观察行情流, 直到收到中断信号
func runWatchMode(cfg *models.Config) {
	if cfg.WSBaseURL == "" {
		logger.S().Fatal("watch 模式需要在配置中设置 ws_base_url。")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := stream.NewWatcher(cfg.WSBaseURL, cfg.SymbolTicker, logger.S())
	if err := watcher.Run(ctx); err != nil {
		logger.S().Fatalf("行情观察退出: %v", err)
	}
	logger.S().Info("行情观察已停止。")
}

// runReportMode 打印周期历史与账户余额
func runReportMode(cfg *models.Config) {
	if cfg.JournalPath == "" {
		logger.S().Fatal("report 模式需要在配置中设置 journal_path。")
	}

	j, err := journal.NewBadgerJournal(cfg.JournalPath)
	if err != nil {
		logger.S().Fatalf("无法打开周期日志数据库: %v", err)
	}
	defer j.Close()

	if err := report.PrintCycleHistory(j); err != nil {
		logger.S().Fatalf("生成周期报表失败: %v", err)
	}

	// 余额查询需要有效凭证, 凭证缺失时只打印周期历史
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		logger.S().Info("未设置 API 凭证, 跳过余额查询。")
		return
	}
	ex := newExchange(cfg)
	if err := report.PrintBalances(context.Background(), ex); err != nil {
		logger.S().Warnf("查询余额失败: %v", err)
	}
}
