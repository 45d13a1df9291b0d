package notifier

import (
	"bitkub-grid-bot-go/internal/logger"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier 是尽力而为的通知通道。Notify 从不返回错误也从不阻塞主流程,
// 发送失败只在内部消化, 周期逻辑无需为通知器失败做任何特殊处理。
type Notifier interface {
	Notify(text string)
}

// NewTelegramNotifier 根据凭证创建通知器, 凭证缺失时返回无操作实现
func NewTelegramNotifier(token, chatID string) Notifier {
	if token == "" || chatID == "" {
		logger.S().Info("未配置 Telegram 凭证, 通知将被静默丢弃。")
		return &nopNotifier{}
	}
	return &telegramNotifier{
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		apiBaseURL: defaultTelegramAPI,
	}
}

const defaultTelegramAPI = "https://api.telegram.org"

// telegramNotifier 通过 Telegram Bot API 发送文本消息
type telegramNotifier struct {
	token      string
	chatID     string
	httpClient *http.Client
	apiBaseURL string
}

func (t *telegramNotifier) Notify(text string) {
	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		logger.S().Debugf("构造 Telegram 消息失败: %v", err)
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBaseURL, t.token)
	resp, err := t.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.S().Debugf("发送 Telegram 通知失败: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.S().Debugf("Telegram 返回非200状态码: %d", resp.StatusCode)
	}
}

// nopNotifier 在没有凭证时充当占位实现
type nopNotifier struct{}

func (n *nopNotifier) Notify(string) {}
