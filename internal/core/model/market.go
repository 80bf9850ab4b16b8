// Package model 定义筛选引擎中使用的核心数据结构。
// 包含原始行情数据、特征集、综合评分和全局快照等核心类型。
package model

// BenchmarkSymbol 基准交易对
// 相对强弱（relBTC）以该交易对的收益率为基准计算。
const BenchmarkSymbol = "BTCUSDT"

// Kline 单根 K 线（已归一化为数值）
// 交易所返回的价格/成交量字段为字符串，解析阶段统一转换为 float64。
type Kline struct {
	// OpenTimeMs K 线开盘时间（毫秒）
	OpenTimeMs int64
	// Open 开盘价
	Open float64
	// High 最高价
	High float64
	// Low 最低价
	Low float64
	// Close 收盘价
	Close float64
	// Volume 成交量（基础币种）
	Volume float64
	// TakerBuyVolume 主动买入成交量（基础币种）
	TakerBuyVolume float64
}

// DepthLevel 订单簿深度档位
type DepthLevel struct {
	// Price 价格
	Price float64
	// Qty 数量
	Qty float64
}

// Depth 订单簿深度快照（单边最多 50 档）
type Depth struct {
	// Bids 买盘档位（按价格降序）
	Bids []DepthLevel
	// Asks 卖盘档位（按价格升序）
	Asks []DepthLevel
}

// FundingRecord 单条资金费率记录
type FundingRecord struct {
	// FundingTimeMs 费率结算时间（毫秒）
	FundingTimeMs int64
	// Rate 资金费率
	Rate float64
}

// RawMarketData 单个交易对单次 tick 的原始行情拉取结果
// 由采集器一次性产出，特征提取后即丢弃，不做保留。
type RawMarketData struct {
	// Symbol 交易对（大写）
	Symbol string
	// Klines 5 分钟 K 线（最多 50 根，按时间升序）
	Klines []Kline
	// Depth 订单簿深度
	Depth Depth
	// OpenInterest 当前未平仓合约量
	// 若交易所返回非法值则为 NaN，特征提取阶段据此跳过该交易对。
	OpenInterest float64
	// Funding 最近两条资金费率记录（顺序不保证，提取阶段按时间排序）
	Funding []FundingRecord
	// BenchmarkKlines 基准交易对的 K 线（7 根，用于相对强弱）
	// 基准交易对本身该字段为空。
	BenchmarkKlines []Kline
}
