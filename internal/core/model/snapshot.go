// Package model 全局快照定义。
package model

// SymbolResult 单个交易对的 tick 结果（快照条目）
// JSON 字段名与仪表盘约定保持一致。
type SymbolResult struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Dir 信号方向: LongAge 或 ShortAge
	Dir Direction `json:"dir"`
	// Score 信号强度（round(max(long, short))）
	Score int `json:"score"`
	// LongScore 多头得分（四舍五入后）
	LongScore int `json:"longScore"`
	// ShortScore 空头得分（四舍五入后）
	ShortScore int `json:"shortScore"`
	// OIZ 未平仓量 z-score
	OIZ float64 `json:"oiZ"`
	// Taker 主动买卖比
	Taker float64 `json:"taker"`
	// OBImb 订单簿失衡
	OBImb float64 `json:"obImb"`
	// VolFactor 量能放大倍数
	VolFactor float64 `json:"volFactor"`
	// FundingDelta 资金费率变化
	FundingDelta float64 `json:"fundingDelta"`
	// RelBTC 相对基准收益
	RelBTC float64 `json:"relBTC"`
}

// GlobalSnapshot 全局快照
// 每次 tick 整体替换（不做增量合并），是 HTTP 读取方可见的唯一实体。
// 发布后视为不可变；读取方不得修改 Items。
type GlobalSnapshot struct {
	// UpdatedAtMs 快照生成时间（毫秒）
	UpdatedAtMs int64 `json:"updatedAt"`
	// Items 按配置顺序排列的各交易对结果
	Items []SymbolResult `json:"items"`
}

// EmptySnapshot 首次 tick 完成前的默认快照
// 保证 /snapshot 始终返回合法 JSON：{updatedAt:0, items:[]}。
func EmptySnapshot() *GlobalSnapshot {
	return &GlobalSnapshot{UpdatedAtMs: 0, Items: []SymbolResult{}}
}
