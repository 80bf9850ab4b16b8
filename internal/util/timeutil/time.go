// Package timeutil 提供时间相关的工具函数。
// 快照时间戳与告警冷却统一使用 Unix 毫秒。
package timeutil

import "time"

// NowMs 获取当前时间的毫秒时间戳
// 交易所时间戳与快照 updatedAt 均为毫秒，统一在此换算。
func NowMs() int64 {
	return time.Now().UnixMilli()
}

// MsToTime 将毫秒时间戳转换为 time.Time
// 参数 ms: 毫秒时间戳
func MsToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// SinceMs 计算从指定毫秒时间戳到现在的时间差
// 参数 startMs: 开始时间（毫秒）
// 返回: 时间差（毫秒）
func SinceMs(startMs int64) int64 {
	return NowMs() - startMs
}
