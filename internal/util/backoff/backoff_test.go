// Package backoff 退避算法测试
package backoff

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// **Feature: futures-flow-screener, Property: Exponential Backoff Bounds**

// TestBackoff_ExponentialGrowth 测试退避时间指数增长
func TestBackoff_ExponentialGrowth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// 属性: 退避时间应该指数增长（在达到最大值之前）
	properties.Property("退避时间指数增长", prop.ForAll(
		func(baseMs int, maxMs int) bool {
			if baseMs <= 0 || maxMs <= baseMs {
				return true // 跳过无效输入
			}

			base := time.Duration(baseMs) * time.Millisecond
			max := time.Duration(maxMs) * time.Millisecond
			b := New(base, max, 0) // 无抖动，便于验证

			prev := time.Duration(0)
			for i := 0; i < 10; i++ {
				delay := b.Next()
				if delay < prev && delay != max {
					return false
				}
				if delay > max {
					return false
				}
				prev = delay
			}
			return true
		},
		gen.IntRange(100, 2000),
		gen.IntRange(5000, 60000),
	))

	properties.TestingRun(t)
}

// TestBackoff_MaxBound 测试最大值边界
func TestBackoff_MaxBound(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// 属性: 延迟永远不应超过最大值（考虑抖动）
	properties.Property("延迟不超过最大值上限", prop.ForAll(
		func(baseMs int, maxMs int, jitterPercent int) bool {
			if baseMs <= 0 || maxMs <= 0 {
				return true
			}

			base := time.Duration(baseMs) * time.Millisecond
			max := time.Duration(maxMs) * time.Millisecond
			jitter := float64(jitterPercent) / 100.0
			b := New(base, max, jitter)

			maxPossible := float64(max) * (1 + jitter)
			for i := 0; i < 20; i++ {
				delay := b.Next()
				if float64(delay) > maxPossible {
					return false
				}
			}
			return true
		},
		gen.IntRange(100, 2000),
		gen.IntRange(1000, 60000),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

// TestBackoff_SpecificValues 测试特定值（单元测试）
func TestBackoff_SpecificValues(t *testing.T) {
	// 无抖动的情况下验证指数增长
	b := New(500*time.Millisecond, 5*time.Second, 0)

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 500 * time.Millisecond}, // 2^0
		{1, time.Second},            // 2^1
		{2, 2 * time.Second},        // 2^2
		{3, 4 * time.Second},        // 2^3
		{4, 5 * time.Second},        // 2^4 = 8s, 但限制为 5s
		{5, 5 * time.Second},        // 继续保持最大值
	}

	for _, tt := range tests {
		b.Reset()
		for i := 0; i < tt.attempt; i++ {
			b.Next()
		}
		got := b.Next()
		if got != tt.expected {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

// TestBackoff_Reset 测试重置功能
func TestBackoff_Reset(t *testing.T) {
	b := New(500*time.Millisecond, 5*time.Second, 0)
	for i := 0; i < 4; i++ {
		b.Next()
	}
	b.Reset()
	if b.Attempt() != 0 {
		t.Fatalf("重置后 Attempt=%d, want 0", b.Attempt())
	}
	if got := b.Next(); got != 500*time.Millisecond {
		t.Fatalf("重置后首次延迟=%v, want 500ms", got)
	}
}
