package exchange

import (
	"bitkub-grid-bot-go/internal/models"
	"bitkub-grid-bot-go/internal/signer"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jxskiss/base62"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrSymbolNotFound 表示行情响应中不存在配置的交易对。
// 没有安全的默认价格可用, 调用方必须中止本周期。
var ErrSymbolNotFound = errors.New("行情中未找到交易对")

const (
	endpointTicker     = "/api/market/ticker"
	endpointOpenOrders = "/api/market/my-open-orders"
	endpointPlaceBid   = "/api/market/place-bid"
	endpointPlaceAsk   = "/api/market/place-ask"
	endpointCancel     = "/api/market/cancel-order"
	endpointBalances   = "/api/market/balances"
)

// BitkubExchange 实现了 Exchange 接口, 与Bitkub交易所进行交互
type BitkubExchange struct {
	apiKey     string
	baseURL    string
	signer     *signer.Signer
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewBitkubExchange 创建一个新的 BitkubExchange 实例
func NewBitkubExchange(apiKey, secretKey, baseURL string, timeout time.Duration, logger *zap.SugaredLogger) *BitkubExchange {
	return &BitkubExchange{
		apiKey:     apiKey,
		baseURL:    baseURL,
		signer:     signer.New(secretKey),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// doRequest 是通用的请求处理函数。对于签名请求, 在发送前捕获时间戳、
// 追加到payload末尾并计算签名; 时间戳从不跨调用复用, 因为每个端点
// 都会独立校验其新鲜度。
func (e *BitkubExchange) doRequest(ctx context.Context, method, endpoint string, payload signer.Payload, signed bool) ([]byte, error) {
	fullURL := e.baseURL + endpoint

	var req *http.Request
	var err error

	if method == http.MethodGet {
		finalURL := fullURL
		if encoded := payload.Encode(); encoded != "" {
			finalURL = fmt.Sprintf("%s?%s", fullURL, encoded)
		}
		req, err = http.NewRequestWithContext(ctx, method, finalURL, nil)
	} else {
		body := payload
		if signed {
			ts := time.Now().UnixMilli()
			body = append(body, signer.Field{Key: "ts", Value: strconv.FormatInt(ts, 10)})
		}
		encoded := body.Encode()
		if signed {
			sig := e.signer.Sign(body)
			e.logger.Debugw("生成签名", "payload", encoded)
			encoded = fmt.Sprintf("%s&sig=%s", encoded, sig)
		}
		req, err = http.NewRequestWithContext(ctx, method, fullURL, strings.NewReader(encoded))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %v", err)
	}
	if signed {
		req.Header.Set("X-BTK-APIKEY", e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("执行请求失败: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %v", err)
	}

	// 业务错误通过响应体中的 error 字段返回, HTTP状态码可能仍是200
	var apiErr models.APIError
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != 0 {
		if apiErr.IsAuthError() {
			e.logger.Errorw("签名被交易所拒绝, 请检查密钥与序列化配置", "code", apiErr.Code)
		}
		return data, &apiErr
	}

	if resp.StatusCode != http.StatusOK {
		return data, fmt.Errorf("API请求失败, 状态码: %d, 响应: %s", resp.StatusCode, string(data))
	}

	return data, nil
}

// GetPrice 获取指定行情交易对的最新成交价。行情接口无需签名,
// 返回以交易对为键的快照表。
func (e *BitkubExchange) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	data, err := e.doRequest(ctx, http.MethodGet, endpointTicker, nil, false)
	if err != nil {
		return decimal.Zero, err
	}

	var tickers map[string]models.Ticker
	if err := json.Unmarshal(data, &tickers); err != nil {
		return decimal.Zero, fmt.Errorf("解析行情响应失败: %v", err)
	}

	ticker, ok := tickers[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return ticker.Last, nil
}

// GetOpenOrders 获取指定交易对的全部挂单
func (e *BitkubExchange) GetOpenOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	payload := signer.Payload{
		{Key: "sym", Value: symbol},
	}
	data, err := e.doRequest(ctx, http.MethodPost, endpointOpenOrders, payload, true)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result []models.Order `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("解析挂单响应失败: %v", err)
	}
	return resp.Result, nil
}

// PlaceOrder 提交一个限价单。side 决定了买卖端点, 数量与价格按
// 调用方已经完成的精度处理原样发送。
func (e *BitkubExchange) PlaceOrder(ctx context.Context, symbol, side string, quantity, price decimal.Decimal) (*models.OrderReceipt, error) {
	var endpoint string
	switch side {
	case "buy":
		endpoint = endpointPlaceBid
	case "sell":
		endpoint = endpointPlaceAsk
	default:
		return nil, fmt.Errorf("无效的订单方向: %s", side)
	}

	payload := signer.Payload{
		{Key: "sym", Value: symbol},
		{Key: "amt", Value: quantity.String()},
		{Key: "rat", Value: price.String()},
		{Key: "typ", Value: "limit"},
		{Key: "client_id", Value: newClientOrderID()},
	}
	data, err := e.doRequest(ctx, http.MethodPost, endpoint, payload, true)
	if err != nil {
		e.logger.Errorw("下单请求失败", "side", side, "error", err, "raw_response", string(data))
		return nil, err
	}

	var resp struct {
		Result models.OrderReceipt `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("解析下单回执失败: %v", err)
	}
	return &resp.Result, nil
}

// CancelOrder 请求撤销指定订单。订单已成交或已撤销时交易所会返回
// 业务错误, 是否视为致命由调用方决定。
func (e *BitkubExchange) CancelOrder(ctx context.Context, symbol, orderID string) error {
	payload := signer.Payload{
		{Key: "sym", Value: symbol},
		{Key: "id", Value: orderID},
	}
	_, err := e.doRequest(ctx, http.MethodPost, endpointCancel, payload, true)
	return err
}

// GetBalances 获取账户全部币种余额
func (e *BitkubExchange) GetBalances(ctx context.Context) (map[string]models.Balance, error) {
	data, err := e.doRequest(ctx, http.MethodPost, endpointBalances, nil, true)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result map[string]models.Balance `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("解析余额响应失败: %v", err)
	}
	return resp.Result, nil
}

// newClientOrderID 生成一个紧凑的客户端订单号, 便于在交易所界面上
// 辨认本机器人下的单
func newClientOrderID() string {
	return "gb" + string(base62.FormatInt(time.Now().UnixNano()))
}
