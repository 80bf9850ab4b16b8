// Package binance 实现合约行情 REST 采集器。
// 单个交易对的四个接口调用并发发出并汇合；非基准交易对额外并发拉取基准 K 线。
// 按契约不做重试；超时仅依赖传输层默认行为。
package binance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"futures-flow-screener/internal/core/model"
)

// 采集参数
const (
	// KlineInterval K 线周期
	KlineInterval = "5m"
	// KlineLimit 每个交易对拉取的 K 线根数
	KlineLimit = 50
	// BenchmarkKlineLimit 基准交易对拉取的 K 线根数（相对强弱用）
	BenchmarkKlineLimit = 7
	// DepthLimit 深度档位数（单边）
	DepthLimit = 50
	// FundingLimit 资金费率记录条数
	FundingLimit = 2

	// userAgent 出站请求 User-Agent
	userAgent = "futures-flow-screener/1.0"
)

// NetworkError 行情接口网络错误
// 覆盖传输失败与非 2xx 状态码两种情形；Status 为 0 表示传输层失败。
type NetworkError struct {
	// Endpoint 出错的接口路径
	Endpoint string
	// Status HTTP 状态码（传输失败时为 0）
	Status int
	// Err 底层错误（可能为 nil）
	Err error
}

// Error 实现 error 接口
func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("行情接口 %s 返回状态码 %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("行情接口 %s 请求失败: %v", e.Endpoint, e.Err)
}

// Unwrap 返回底层错误
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client 行情 REST 客户端
type Client struct {
	// baseURL 接口根地址，如 https://fapi.binance.com/fapi/v1
	baseURL string
	// client HTTP 客户端（不设置显式超时，按契约依赖传输层默认）
	client *http.Client
	// logger 日志
	logger *zap.Logger
}

// NewClient 创建行情客户端
// 参数 baseURL: 接口根地址
// 参数 logger: 日志对象
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
		logger:  logger,
	}
}

// Klines 拉取指定交易对的 K 线
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Kline, error) {
	url := fmt.Sprintf("%s%s?symbol=%s&interval=%s&limit=%d", c.baseURL, EndpointKlines, symbol, interval, limit)
	body, err := c.get(ctx, EndpointKlines, url)
	if err != nil {
		return nil, err
	}
	return parseKlines(body)
}

// Depth 拉取订单簿深度（单边 limit 档）
func (c *Client) Depth(ctx context.Context, symbol string, limit int) (model.Depth, error) {
	url := fmt.Sprintf("%s%s?symbol=%s&limit=%d", c.baseURL, EndpointDepth, symbol, limit)
	body, err := c.get(ctx, EndpointDepth, url)
	if err != nil {
		return model.Depth{}, err
	}
	return parseDepth(body, limit)
}

// OpenInterest 拉取当前未平仓量
// 读数非法时返回 NaN（而非错误），由特征提取阶段决定跳过。
func (c *Client) OpenInterest(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s%s?symbol=%s", c.baseURL, EndpointOpenInterest, symbol)
	body, err := c.get(ctx, EndpointOpenInterest, url)
	if err != nil {
		return 0, err
	}
	return parseOpenInterest(body)
}

// FundingRates 拉取最近 limit 条资金费率记录
func (c *Client) FundingRates(ctx context.Context, symbol string, limit int) ([]model.FundingRecord, error) {
	url := fmt.Sprintf("%s%s?symbol=%s&limit=%s", c.baseURL, EndpointFundingRate, symbol, strconv.Itoa(limit))
	body, err := c.get(ctx, EndpointFundingRate, url)
	if err != nil {
		return nil, err
	}
	return parseFundingRates(body)
}

// FetchMarketData 采集单个交易对一次 tick 所需的全部原始行情
// 四个接口调用并发发出并汇合；非基准交易对同时并发拉取基准 K 线。
// 任一调用失败则整体失败，返回首个遇到的错误。
func (c *Client) FetchMarketData(ctx context.Context, symbol string) (*model.RawMarketData, error) {
	raw := &model.RawMarketData{Symbol: symbol}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	collect := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		klines, err := c.Klines(ctx, symbol, KlineInterval, KlineLimit)
		raw.Klines = klines
		collect(err)
	}()
	go func() {
		defer wg.Done()
		depth, err := c.Depth(ctx, symbol, DepthLimit)
		raw.Depth = depth
		collect(err)
	}()
	go func() {
		defer wg.Done()
		oi, err := c.OpenInterest(ctx, symbol)
		raw.OpenInterest = oi
		collect(err)
	}()
	go func() {
		defer wg.Done()
		funding, err := c.FundingRates(ctx, symbol, FundingLimit)
		raw.Funding = funding
		collect(err)
	}()

	if symbol != model.BenchmarkSymbol {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bench, err := c.Klines(ctx, model.BenchmarkSymbol, KlineInterval, BenchmarkKlineLimit)
			raw.BenchmarkKlines = bench
			collect(err)
		}()
	}

	wg.Wait()
	if len(errs) > 0 {
		c.logger.Debug("行情采集失败", zap.String("symbol", symbol), zap.Int("errors", len(errs)), zap.Error(errs[0]))
		return nil, fmt.Errorf("采集交易对 %s 行情失败: %w", symbol, errs[0])
	}
	return raw, nil
}

// get 执行 HTTP GET 请求
// 非 2xx 状态码与传输错误统一归为 NetworkError。
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &NetworkError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpoint, Err: err}
	}
	return body, nil
}
