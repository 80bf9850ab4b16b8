// Package scheduler 驱动周期性扫描 tick。
// 每次 tick：并发采集各交易对行情（有界 worker 池）→ 按配置顺序串行完成
// 特征提取、评分与告警 → 组装快照并整体发布。
// 滚动状态（OI 历史、lastAlertAt）只在 tick 协程内变更；采集阶段只做 I/O，
// 因而无需对状态加锁。
package scheduler

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"futures-flow-screener/internal/alert"
	"futures-flow-screener/internal/config"
	"futures-flow-screener/internal/core/feature"
	"futures-flow-screener/internal/core/model"
	"futures-flow-screener/internal/core/score"
	"futures-flow-screener/internal/server"
	"futures-flow-screener/internal/util/timeutil"
)

// Collector 行情采集器接口
// 由 binance.Client 实现；测试中以假实现替换。
type Collector interface {
	// FetchMarketData 采集单个交易对一次 tick 所需的全部原始行情
	FetchMarketData(ctx context.Context, symbol string) (*model.RawMarketData, error)
}

// Scheduler tick 调度器
type Scheduler struct {
	// symbols 扫描的交易对（顺序即快照条目顺序）
	symbols []string
	// interval tick 间隔
	interval time.Duration
	// concurrency 跨交易对采集并发上限
	concurrency int
	// retainOnFailure 快照策略：true 表示任一交易对失败时保留旧快照
	retainOnFailure bool

	// collector 行情采集器
	collector Collector
	// extractor 特征提取器
	extractor *feature.Extractor
	// dispatcher 告警派发器
	dispatcher *alert.Dispatcher
	// pub 快照发布器
	pub *server.Publisher
	// logger 日志
	logger *zap.Logger

	// inFlight 单飞保护：tick 执行期间为 1，后续到期的 tick 被跳过
	inFlight atomic.Bool
}

// New 创建调度器
func New(cfg *config.Config, collector Collector, extractor *feature.Extractor, dispatcher *alert.Dispatcher, pub *server.Publisher, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		symbols:         cfg.Scan.Symbols,
		interval:        time.Duration(cfg.Scan.IntervalSec) * time.Second,
		concurrency:     cfg.Scan.Concurrency,
		retainOnFailure: cfg.Scan.SnapshotPolicy == config.SnapshotPolicyRetain,
		collector:       collector,
		extractor:       extractor,
		dispatcher:      dispatcher,
		pub:             pub,
		logger:          logger,
	}
}

// Run 启动调度循环并阻塞至 ctx 取消
// 启动时立即执行一次 tick，之后按固定间隔触发。
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("调度器启动",
		zap.Strings("symbols", s.symbols),
		zap.Duration("interval", s.interval),
		zap.Int("concurrency", s.concurrency))

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("调度器退出")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick 执行一轮完整扫描
// 若上一轮仍在执行（tick 耗时超过间隔），本轮直接跳过，
// 避免两个写者并发变更同一份滚动状态。
func (s *Scheduler) tick(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("上一轮 tick 仍在执行，跳过本轮")
		return
	}
	defer s.inFlight.Store(false)

	startMs := timeutil.NowMs()

	// 采集阶段：有界并发拉取，各交易对互不拖累
	raws := s.collect(ctx)

	// 处理阶段：按配置顺序串行提取/评分/告警（滚动状态单写者）
	items := make([]model.SymbolResult, 0, len(s.symbols))
	failed := 0
	for i, symbol := range s.symbols {
		r := raws[i]
		if r.err != nil {
			failed++
			s.logger.Warn("交易对采集失败，跳过", zap.String("symbol", symbol), zap.Error(r.err))
			continue
		}

		fs, err := s.extractor.Extract(r.raw)
		if err != nil {
			failed++
			s.logger.Warn("特征提取失败，跳过", zap.String("symbol", symbol), zap.Error(err))
			continue
		}

		cs := score.Score(fs)
		s.dispatcher.Dispatch(ctx, fs, cs, timeutil.NowMs())

		items = append(items, toResult(fs, cs))
	}

	if failed > 0 && s.retainOnFailure {
		s.logger.Warn("本轮存在失败交易对，按策略保留上一次快照",
			zap.Int("failed", failed), zap.Int("ok", len(items)))
		return
	}

	s.pub.Publish(&model.GlobalSnapshot{
		UpdatedAtMs: timeutil.NowMs(),
		Items:       items,
	})

	s.logger.Info("tick 完成",
		zap.Int("symbols", len(s.symbols)),
		zap.Int("ok", len(items)),
		zap.Int("failed", failed),
		zap.Int64("elapsed_ms", timeutil.SinceMs(startMs)))
}

type fetchResult struct {
	raw *model.RawMarketData
	err error
}

// collect 有界并发采集全部交易对
// 返回与 symbols 等长、按序对齐的结果切片。
func (s *Scheduler) collect(ctx context.Context) []fetchResult {
	results := make([]fetchResult, len(s.symbols))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, symbol := range s.symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			raw, err := s.collector.FetchMarketData(ctx, symbol)
			results[i] = fetchResult{raw: raw, err: err}
		}(i, symbol)
	}
	wg.Wait()

	return results
}

// toResult 组装快照条目
func toResult(fs *model.FeatureSet, cs model.CompositeScore) model.SymbolResult {
	return model.SymbolResult{
		Symbol:       fs.Symbol,
		Dir:          cs.Direction,
		Score:        cs.Magnitude,
		LongScore:    int(math.Round(cs.LongScore)),
		ShortScore:   int(math.Round(cs.ShortScore)),
		OIZ:          fs.OIZ,
		Taker:        fs.Taker,
		OBImb:        fs.OBImb,
		VolFactor:    fs.VolFactor,
		FundingDelta: fs.FundingDelta,
		RelBTC:       fs.RelBTC,
	}
}
