// Package alert 实现告警门控与派发。
// 阈值 + 冷却双重门控；通知下游失败只记日志，不影响评分、状态与快照发布。
package alert

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"futures-flow-screener/internal/core/model"
	"futures-flow-screener/internal/core/store"
	"futures-flow-screener/internal/output/jsonl"
)

// DefaultCooldownMs 默认告警冷却窗口（5 分钟）
// 同一交易对在窗口内无论多少次 tick 越过阈值，至多派发一次告警。
const DefaultCooldownMs = int64(5 * 60 * 1000)

// Sink 告警通知下游
type Sink interface {
	// Send 发送一条已格式化的告警文本
	Send(ctx context.Context, text string) error
}

// Dispatcher 告警派发器
// 与调度器共享状态缓存；lastAlertAt 的读写都发生在 tick 协程内。
type Dispatcher struct {
	// threshold 信号强度阈值（含）
	threshold int
	// cooldownMs 冷却窗口（毫秒）
	cooldownMs int64
	// store 交易对状态缓存
	store *store.Store
	// sink 通知下游；为 nil 时仅记日志
	sink Sink
	// audit 告警审计写入器；为 nil 时不落盘
	audit *jsonl.Writer
	// logger 日志
	logger *zap.Logger
}

// NewDispatcher 创建告警派发器
// 参数 threshold: 信号强度阈值
// 参数 cooldownMs: 冷却窗口（毫秒，<=0 时取默认 5 分钟）
// 参数 st: 交易对状态缓存
// 参数 sink: 通知下游，可为 nil
// 参数 audit: 审计写入器，可为 nil
func NewDispatcher(threshold int, cooldownMs int64, st *store.Store, sink Sink, audit *jsonl.Writer, logger *zap.Logger) *Dispatcher {
	if cooldownMs <= 0 {
		cooldownMs = DefaultCooldownMs
	}
	return &Dispatcher{
		threshold:  threshold,
		cooldownMs: cooldownMs,
		store:      st,
		sink:       sink,
		audit:      audit,
		logger:     logger,
	}
}

// Dispatch 按门控条件派发告警
// 条件：强度达到阈值 且 距上次告警超过冷却窗口。
// 通过门控后先更新 lastAlertAt（防止慢网络下重复派发），再发送通知。
// 返回: 实际派发的告警事件；未派发时返回 nil。
func (d *Dispatcher) Dispatch(ctx context.Context, fs *model.FeatureSet, cs model.CompositeScore, nowMs int64) *model.AlertEvent {
	if cs.Magnitude < d.threshold {
		return nil
	}
	if nowMs-d.store.LastAlertAt(fs.Symbol) <= d.cooldownMs {
		return nil
	}

	d.store.SetLastAlertAt(fs.Symbol, nowMs)

	ev := &model.AlertEvent{
		Symbol:    fs.Symbol,
		Direction: cs.Direction,
		Score:     cs.Magnitude,
		TsMs:      nowMs,
		Text:      FormatMessage(fs, cs),
	}

	d.logger.Info("触发告警",
		zap.String("symbol", ev.Symbol),
		zap.String("dir", string(ev.Direction)),
		zap.Int("score", ev.Score))

	if d.audit != nil {
		if err := d.audit.Write(ev); err != nil {
			d.logger.Warn("写入告警审计失败", zap.Error(err))
		}
	}

	if d.sink != nil {
		if err := d.sink.Send(ctx, ev.Text); err != nil {
			// 通知失败不回滚 lastAlertAt，避免慢网络下的重复派发
			d.logger.Warn("告警通知发送失败", zap.String("symbol", ev.Symbol), zap.Error(err))
		}
	}

	return ev
}

// FormatMessage 格式化告警文本
// 包含交易对、方向、强度与各特征值，供人工快速判读。
func FormatMessage(fs *model.FeatureSet, cs model.CompositeScore) string {
	var b strings.Builder
	side := "做多"
	if cs.Direction == model.DirectionShort {
		side = "做空"
	}
	fmt.Fprintf(&b, "⚡ %s %s 信号强度 %d\n", fs.Symbol, side, cs.Magnitude)
	fmt.Fprintf(&b, "OI z-score: %.2f", fs.OIZ)
	if !fs.OIReady {
		b.WriteString(" (未就绪)")
	}
	fmt.Fprintf(&b, "\n主动买卖比: %.2f | 盘口失衡: %.2f\n", fs.Taker, fs.OBImb)
	fmt.Fprintf(&b, "量能倍数: %.2f | 费率变化: %.4f | 相对基准: %.4f", fs.VolFactor, fs.FundingDelta, fs.RelBTC)
	if fs.BreakoutUp {
		b.WriteString("\n📈 放量向上突破")
	}
	if fs.BreakoutDn {
		b.WriteString("\n📉 放量向下突破")
	}
	return b.String()
}
