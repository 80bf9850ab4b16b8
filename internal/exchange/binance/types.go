// Package binance 定义合约行情 REST 接口的报文类型。
package binance

import "encoding/json"

// 接口路径
// 所有路径均挂载在配置的 base URL（默认 https://fapi.binance.com/fapi/v1）之下。
const (
	// EndpointKlines K 线接口
	EndpointKlines = "/klines"
	// EndpointDepth 订单簿深度接口
	EndpointDepth = "/depth"
	// EndpointOpenInterest 未平仓量接口
	EndpointOpenInterest = "/openInterest"
	// EndpointFundingRate 资金费率历史接口
	EndpointFundingRate = "/fundingRate"
)

// RawKline K 线的原始数组形式
// 交易所按定长数组返回，字段依位置解释：
// [0] 开盘时间（毫秒） [1] 开盘价 [2] 最高价 [3] 最低价 [4] 收盘价
// [5] 成交量 [6] 收盘时间 [7] 计价币成交额 [8] 成交笔数
// [9] 主动买入成交量 [10] 主动买入成交额 [11] 保留字段
// 价格与数量为带引号的字符串，时间与笔数为数字。
type RawKline []json.RawMessage

// DepthResponse 订单簿深度响应
// 档位为 [价格, 数量] 的字符串对。
type DepthResponse struct {
	// LastUpdateID 深度快照序列号
	LastUpdateID int64 `json:"lastUpdateId"`
	// Bids 买盘档位
	Bids [][]string `json:"bids"`
	// Asks 卖盘档位
	Asks [][]string `json:"asks"`
}

// OpenInterestResponse 未平仓量响应
type OpenInterestResponse struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// OpenInterest 未平仓量（字符串）
	OpenInterest string `json:"openInterest"`
	// TimeMs 读数时间（毫秒）
	TimeMs int64 `json:"time"`
}

// FundingRateRecord 资金费率历史记录
type FundingRateRecord struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// FundingTimeMs 费率结算时间（毫秒）
	FundingTimeMs int64 `json:"fundingTime"`
	// FundingRate 资金费率（字符串）
	FundingRate string `json:"fundingRate"`
}
