// Package score 实现多空综合评分。
// Score 是特征集的纯函数：相同输入必然产生相同输出，无任何内部状态。
package score

import (
	"math"

	"futures-flow-screener/internal/core/model"
)

// 阈值与分值表
// 各条件独立累加到多头/空头得分。
const (
	// oiZExtreme 极端 OI z-score 阈值
	oiZExtreme = 2.0
	// oiPoints OI 极端值得分
	oiPoints = 28.0

	// fundingDeltaThreshold 资金费率变化阈值
	fundingDeltaThreshold = 0.02
	// fundingPoints 资金费率变化得分
	fundingPoints = 18.0

	// takerLongThreshold 主动买卖比多头阈值
	takerLongThreshold = 1.25
	// takerShortThreshold 主动买卖比空头阈值
	takerShortThreshold = 0.80
	// takerPoints 主动买卖比得分
	takerPoints = 18.0

	// obLongThreshold 订单簿失衡多头阈值
	obLongThreshold = 1.8
	// obShortThreshold 订单簿失衡空头阈值
	obShortThreshold = 0.55
	// obPoints 订单簿失衡得分
	obPoints = 12.0

	// breakoutPoints 突破得分
	breakoutPoints = 18.0

	// relThreshold 相对基准收益阈值
	relThreshold = 0.001
	// relPoints 相对基准收益得分
	relPoints = 6.0

	// noParticipationCap 无量能确认时的得分上限
	// 极端 OI 变动若缺少成交量佐证，单靠持仓变化不构成强信号。
	noParticipationCap = 69.0
	// noParticipationVolFactor 量能确认所需的最小倍数
	noParticipationVolFactor = 1.2

	// conflictPenalty 资金费率与主动买卖方向冲突时的惩罚
	conflictPenalty = 10.0
	// conflictTakerBearish 冲突判定的主动买卖比空头边界
	conflictTakerBearish = 0.9
	// conflictTakerBullish 冲突判定的主动买卖比多头边界
	conflictTakerBullish = 1.1

	// maxScore 得分上限
	maxScore = 100.0
)

// Score 由特征集计算综合评分
// 累加各条件得分后依次应用：无量能封顶、多空冲突惩罚。
// 保证 LongScore/ShortScore 落在 [0, 100]。
func Score(fs *model.FeatureSet) model.CompositeScore {
	var long, short float64

	oiExtreme := false
	if fs.OIReady && fs.OIZ >= oiZExtreme {
		long += oiPoints
		oiExtreme = true
	}
	if fs.OIReady && fs.OIZ <= -oiZExtreme {
		short += oiPoints
		oiExtreme = true
	}

	if fs.FundingDelta >= fundingDeltaThreshold {
		long += fundingPoints
	}
	if fs.FundingDelta <= -fundingDeltaThreshold {
		short += fundingPoints
	}

	if fs.Taker >= takerLongThreshold {
		long += takerPoints
	}
	if fs.Taker <= takerShortThreshold {
		short += takerPoints
	}

	if fs.OBImb >= obLongThreshold {
		long += obPoints
	}
	if fs.OBImb <= obShortThreshold {
		short += obPoints
	}

	if fs.BreakoutUp {
		long += breakoutPoints
	}
	if fs.BreakoutDn {
		short += breakoutPoints
	}

	if fs.RelBTC > relThreshold {
		long += relPoints
	}
	if fs.RelBTC < -relThreshold {
		short += relPoints
	}

	// 无量能封顶：极端 OI 变动缺少成交量确认时，双边得分封顶
	if oiExtreme && fs.VolFactor < noParticipationVolFactor {
		if long > noParticipationCap {
			long = noParticipationCap
		}
		if short > noParticipationCap {
			short = noParticipationCap
		}
	}

	// 冲突惩罚：资金费率与主动买卖方向相悖时双边扣分，下限 0
	fundingBullish := fs.FundingDelta >= fundingDeltaThreshold
	fundingBearish := fs.FundingDelta <= -fundingDeltaThreshold
	if (fundingBullish && fs.Taker <= conflictTakerBearish) ||
		(fundingBearish && fs.Taker >= conflictTakerBullish) {
		long -= conflictPenalty
		short -= conflictPenalty
	}

	long = clamp(long)
	short = clamp(short)

	dir := model.DirectionShort
	if long >= short {
		dir = model.DirectionLong
	}

	return model.CompositeScore{
		LongScore:  long,
		ShortScore: short,
		Direction:  dir,
		Magnitude:  int(math.Round(math.Max(long, short))),
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
