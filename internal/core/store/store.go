// Package store 维护各交易对的滚动状态。
// 使用单写者模式避免锁和竞态条件。
package store

import (
	"futures-flow-screener/internal/stats/rolling"
)

// OIHistoryCap 未平仓量历史窗口容量
const OIHistoryCap = 60

// symbolState 单个交易对的滚动状态
type symbolState struct {
	// oi 未平仓量滚动窗口（容量 60，淘汰最旧）
	oi *rolling.Window
	// lastAlertMs 最近一次告警时间（毫秒，初始为 0 即 epoch）
	lastAlertMs int64
}

// Store 交易对状态缓存（单写者）
// 注意：本结构体默认由调度器 tick 单 goroutine 写入；状态随进程存活，不做销毁。
type Store struct {
	// states 按交易对缓存滚动状态
	states map[string]*symbolState
}

// New 创建状态缓存
func New() *Store {
	return &Store{
		states: make(map[string]*symbolState),
	}
}

func (s *Store) getState(symbol string) *symbolState {
	st, ok := s.states[symbol]
	if ok {
		return st
	}
	st = &symbolState{
		oi: rolling.NewWindow(OIHistoryCap),
	}
	s.states[symbol] = st
	return st
}

// PushOI 写入一条未平仓量读数
// 超出容量 60 时淘汰最旧读数。
func (s *Store) PushOI(symbol string, value float64) {
	s.getState(symbol).oi.Push(value)
}

// OIHistory 获取交易对的未平仓量滚动窗口
// 返回的窗口应视为只读；写入必须经由 PushOI。
func (s *Store) OIHistory(symbol string) *rolling.Window {
	return s.getState(symbol).oi
}

// LastAlertAt 获取最近一次告警时间（毫秒）
// 从未告警的交易对返回 0。
func (s *Store) LastAlertAt(symbol string) int64 {
	return s.getState(symbol).lastAlertMs
}

// SetLastAlertAt 更新最近一次告警时间（毫秒）
func (s *Store) SetLastAlertAt(symbol string, tsMs int64) {
	s.getState(symbol).lastAlertMs = tsMs
}
