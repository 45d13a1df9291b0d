package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// tickerMessage 是行情流中的一条推送, 我们只关心最新价
type tickerMessage struct {
	Stream string  `json:"stream"`
	Last   float64 `json:"last"`
}

// Watcher 维护一条到交易所公开行情流的 WebSocket 连接并持续打印报价。
// 纯观察用途, 与对账周期不共享任何状态。
type Watcher struct {
	wsBaseURL string
	symbol    string
	logger    *zap.SugaredLogger
}

// NewWatcher 创建一个行情观察器
func NewWatcher(wsBaseURL, symbolTicker string, logger *zap.SugaredLogger) *Watcher {
	return &Watcher{
		wsBaseURL: wsBaseURL,
		symbol:    symbolTicker,
		logger:    logger,
	}
}

// Run 建立连接并阻塞在读循环上, 直到 ctx 取消或连接断开。
// 流名采用小写交易对, 如 market.ticker.thb_doge。
func (w *Watcher) Run(ctx context.Context) error {
	streamName := fmt.Sprintf("market.ticker.%s", strings.ToLower(w.symbol))
	wsURL := fmt.Sprintf("%s/websocket-api/%s", w.wsBaseURL, streamName)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("无法连接到行情流 %s: %v", wsURL, err)
	}
	defer conn.Close()
	w.logger.Infow("行情流已连接", "stream", streamName)

	// ctx取消时关闭连接, 让读循环立即退出
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("读取行情流失败: %v", err)
		}

		var msg tickerMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			w.logger.Debugw("无法解析的行情消息, 跳过", "raw", string(message))
			continue
		}
		w.logger.Infow("行情更新", "symbol", w.symbol, "last", msg.Last)
	}
}
