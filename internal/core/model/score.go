// Package model 综合评分定义。
package model

// Direction 信号方向
type Direction string

const (
	// DirectionLong 多头方向（longScore >= shortScore 时取该值，平局归多头）
	DirectionLong Direction = "LongAge"
	// DirectionShort 空头方向
	DirectionShort Direction = "ShortAge"
)

// CompositeScore 综合评分结果
// 由 FeatureSet 纯推导，评分器保证 LongScore/ShortScore 始终落在 [0, 100]。
type CompositeScore struct {
	// LongScore 多头得分（封顶/惩罚后，0-100）
	LongScore float64
	// ShortScore 空头得分（封顶/惩罚后，0-100）
	ShortScore float64
	// Direction 信号方向：LongScore >= ShortScore 为 LongAge
	Direction Direction
	// Magnitude 信号强度：round(max(LongScore, ShortScore))
	Magnitude int
}

// AlertEvent 告警事件（瞬态，不做持久化）
type AlertEvent struct {
	// Symbol 交易对
	Symbol string `json:"symbol"`
	// Direction 信号方向
	Direction Direction `json:"direction"`
	// Score 信号强度
	Score int `json:"score"`
	// TsMs 触发时间（毫秒）
	TsMs int64 `json:"ts_ms"`
	// Text 已格式化的告警文本
	Text string `json:"text"`
}
