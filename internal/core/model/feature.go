// Package model 特征集定义。
package model

// FeatureSet 单个交易对单次 tick 的特征集
// 由原始行情数据与 OI 历史纯推导而来，是评分器的唯一输入。
type FeatureSet struct {
	// Symbol 交易对（大写）
	Symbol string

	// OIZ 未平仓量 z-score（总体标准差，历史不足 6 个样本时为 0）
	OIZ float64
	// OIReady OI 历史是否已积累足够样本（>= 6）
	OIReady bool

	// Taker 主动买卖比：takerBuy / max(takerSell, ε)
	Taker float64
	// OBImb 订单簿失衡：Σ买盘量 / max(Σ卖盘量, ε)（前 50 档）
	OBImb float64
	// VolFactor 量能放大倍数：最新一根成交量 / 前 20 根均量（均量为 0 时取 1）
	VolFactor float64
	// FundingDelta 资金费率变化：(最新 - 上一期) × 100，不足两条记录时为 0
	FundingDelta float64
	// RelBTC 相对基准收益：6 期收益率之差，基准交易对自身为 0
	RelBTC float64

	// BreakoutUp 向上突破：最新收盘价高于此前 49 根最高收盘价且 VolFactor >= 2
	BreakoutUp bool
	// BreakoutDn 向下突破：对称定义于最低收盘价
	BreakoutDn bool
}
