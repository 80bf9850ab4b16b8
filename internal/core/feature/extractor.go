// Package feature 实现单交易对特征提取。
// 由原始行情数据与 OI 滚动历史推导特征集；除 OI 非法外不产生错误，
// 退化情形（样本不足、除零）一律以 epsilon 下限和就绪标志兜底。
package feature

import (
	"fmt"
	"math"
	"sort"

	"futures-flow-screener/internal/core/model"
	"futures-flow-screener/internal/core/store"
)

const (
	// epsilon 除零保护下限
	epsilon = 1e-9

	// volLookback 量能均值回看根数
	volLookback = 20
	// breakoutLookback 突破判定回看根数
	breakoutLookback = 49
	// breakoutVolFactor 突破确认所需的最小量能倍数
	breakoutVolFactor = 2.0
	// relPeriods 相对强弱收益期数
	relPeriods = 6
	// oiMinSamples z-score 就绪所需的最小样本数
	oiMinSamples = 6
)

// Extractor 特征提取器
// 持有状态缓存引用；Extract 是每次 tick 对 OI 历史的唯一写入方。
type Extractor struct {
	// store 交易对状态缓存
	store *store.Store
}

// NewExtractor 创建特征提取器
// 参数 st: 交易对状态缓存（与调度器共享，单写者约束见 store 包注释）
func NewExtractor(st *store.Store) *Extractor {
	return &Extractor{store: st}
}

// Extract 从原始行情数据提取特征集
// 会将本次 OI 读数写入滚动历史。OI 为 NaN 时返回错误，该交易对本次 tick 无结果。
func (e *Extractor) Extract(raw *model.RawMarketData) (*model.FeatureSet, error) {
	if raw == nil {
		return nil, fmt.Errorf("原始行情数据为空")
	}
	if math.IsNaN(raw.OpenInterest) || math.IsInf(raw.OpenInterest, 0) {
		return nil, fmt.Errorf("交易对 %s 的未平仓量读数非法", raw.Symbol)
	}

	fs := &model.FeatureSet{Symbol: raw.Symbol}

	fs.VolFactor = volFactor(raw.Klines)
	fs.BreakoutUp, fs.BreakoutDn = breakouts(raw.Klines, fs.VolFactor)
	fs.Taker = takerRatio(raw.Klines)
	fs.OBImb = bookImbalance(raw.Depth)
	fs.FundingDelta = fundingDelta(raw.Funding)
	fs.RelBTC = relReturn(raw.Symbol, raw.Klines, raw.BenchmarkKlines)

	// OI 写入历史后计算 z-score；样本不足时标记未就绪
	e.store.PushOI(raw.Symbol, raw.OpenInterest)
	w := e.store.OIHistory(raw.Symbol)
	if w.Len() >= oiMinSamples {
		std := w.PopStdDev()
		if std < 1 {
			std = 1
		}
		fs.OIZ = (raw.OpenInterest - w.Mean()) / std
		fs.OIReady = true
	}

	return fs, nil
}

// volFactor 量能放大倍数：最新一根成交量 / 此前最多 20 根均量
// 均量为 0 或 K 线不足时返回 1。
func volFactor(klines []model.Kline) float64 {
	n := len(klines)
	if n < 2 {
		return 1
	}

	start := n - 1 - volLookback
	if start < 0 {
		start = 0
	}
	prev := klines[start : n-1]

	var sum float64
	for _, k := range prev {
		sum += k.Volume
	}
	mean := sum / float64(len(prev))
	if mean == 0 {
		return 1
	}
	return klines[n-1].Volume / mean
}

// breakouts 突破判定
// 最新收盘价越过此前最多 49 根的收盘极值，且量能倍数达到确认阈值。
func breakouts(klines []model.Kline, volFac float64) (up, dn bool) {
	n := len(klines)
	if n < 2 {
		return false, false
	}

	start := n - 1 - breakoutLookback
	if start < 0 {
		start = 0
	}

	hi := klines[start].Close
	lo := klines[start].Close
	for _, k := range klines[start : n-1] {
		if k.Close > hi {
			hi = k.Close
		}
		if k.Close < lo {
			lo = k.Close
		}
	}

	last := klines[n-1].Close
	confirmed := volFac >= breakoutVolFactor
	return last > hi && confirmed, last < lo && confirmed
}

// takerRatio 主动买卖比
// takerSell = max(成交量 - 主动买入量, ε)，避免除零。
func takerRatio(klines []model.Kline) float64 {
	n := len(klines)
	if n == 0 {
		return 1
	}
	last := klines[n-1]
	sell := last.Volume - last.TakerBuyVolume
	if sell < epsilon {
		sell = epsilon
	}
	return last.TakerBuyVolume / sell
}

// bookImbalance 订单簿失衡：Σ买盘量 / max(Σ卖盘量, ε)
func bookImbalance(d model.Depth) float64 {
	var bid, ask float64
	for _, lv := range d.Bids {
		bid += lv.Qty
	}
	for _, lv := range d.Asks {
		ask += lv.Qty
	}
	if ask < epsilon {
		ask = epsilon
	}
	return bid / ask
}

// fundingDelta 资金费率变化：(最新 - 上一期) × 100
// 记录按结算时间升序排序；不足两条时返回 0。
func fundingDelta(records []model.FundingRecord) float64 {
	if len(records) < 2 {
		return 0
	}
	sorted := make([]model.FundingRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FundingTimeMs < sorted[j].FundingTimeMs
	})
	n := len(sorted)
	return (sorted[n-1].Rate - sorted[n-2].Rate) * 100
}

// relReturn 相对基准收益：6 期收益率之差
// 基准交易对自身或历史不足时返回 0。
func relReturn(symbol string, klines, bench []model.Kline) float64 {
	if symbol == model.BenchmarkSymbol {
		return 0
	}
	symRet, ok1 := periodReturn(klines)
	benchRet, ok2 := periodReturn(bench)
	if !ok1 || !ok2 {
		return 0
	}
	return symRet - benchRet
}

// periodReturn 收盘价的 6 期收益率
func periodReturn(klines []model.Kline) (float64, bool) {
	n := len(klines)
	if n < relPeriods+1 {
		return 0, false
	}
	base := klines[n-1-relPeriods].Close
	if base == 0 {
		return 0, false
	}
	return (klines[n-1].Close - base) / base, true
}
