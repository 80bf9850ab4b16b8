// Package rolling 实现固定容量的滚动统计窗口。
// 为未平仓量（OI）历史维护环形缓冲区，并以 O(1) 维护均值与总体标准差。
package rolling

import "math"

// Window 固定容量滚动窗口（环形缓冲区）
// 超出容量时淘汰最旧样本；统计量随写入增量维护，读取为 O(1)。
// 注意：本结构体不加锁，默认由单一写者（调度器 tick）持有。
type Window struct {
	// cap 窗口容量
	cap int
	// buf 环形缓冲区
	buf []float64
	// pos 写入位置
	pos int
	// full 是否已填满
	full bool

	// sum 样本和
	sum float64
	// sumSq 样本平方和
	sumSq float64
}

// NewWindow 创建滚动窗口
// 参数 capacity: 窗口容量（必须 > 0，非法值回退为 1）
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window{
		cap: capacity,
		buf: make([]float64, capacity),
	}
}

// Push 写入一个样本
// 窗口已满时先移除最旧样本对统计量的贡献，再写入新样本。
func (w *Window) Push(v float64) {
	if w.full {
		old := w.buf[w.pos]
		w.sum -= old
		w.sumSq -= old * old
	}

	w.buf[w.pos] = v
	w.sum += v
	w.sumSq += v * v

	w.pos++
	if w.pos >= w.cap {
		w.pos = 0
		w.full = true
	}
}

// Len 当前样本数
func (w *Window) Len() int {
	if w.full {
		return w.cap
	}
	return w.pos
}

// Cap 窗口容量
func (w *Window) Cap() int {
	return w.cap
}

// Mean 样本均值（窗口为空时返回 0）
func (w *Window) Mean() float64 {
	n := w.Len()
	if n == 0 {
		return 0
	}
	return w.sum / float64(n)
}

// PopStdDev 总体标准差（除数为 N，而非 N-1；窗口为空时返回 0）
// 增量维护的平方和可能因浮点误差产生微小负方差，此处钳制为 0。
func (w *Window) PopStdDev() float64 {
	n := w.Len()
	if n == 0 {
		return 0
	}
	mean := w.sum / float64(n)
	variance := w.sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Last 最近一次写入的样本（窗口为空时返回 0）
func (w *Window) Last() float64 {
	if w.Len() == 0 {
		return 0
	}
	idx := w.pos - 1
	if idx < 0 {
		idx = w.cap - 1
	}
	return w.buf[idx]
}

// Values 按时间升序返回窗口内全部样本的拷贝
// 返回值为新切片，调用方可自由持有。
func (w *Window) Values() []float64 {
	n := w.Len()
	out := make([]float64, 0, n)
	if !w.full {
		return append(out, w.buf[:w.pos]...)
	}
	out = append(out, w.buf[w.pos:]...)
	return append(out, w.buf[:w.pos]...)
}
