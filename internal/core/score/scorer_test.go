// Package score 综合评分测试
package score

import (
	"testing"

	"futures-flow-screener/internal/core/model"
)

func TestScore_PointTable_Long(t *testing.T) {
	fs := &model.FeatureSet{
		OIReady:      true,
		OIZ:          2.5,
		FundingDelta: 0.03,
		Taker:        1.5,
		OBImb:        2.0,
		VolFactor:    3.0,
		BreakoutUp:   true,
		RelBTC:       0.01,
	}
	// 28 + 18 + 18 + 12 + 18 + 6 = 100
	got := Score(fs)
	if got.LongScore != 100 {
		t.Fatalf("LongScore=%v, want 100", got.LongScore)
	}
	if got.ShortScore != 0 {
		t.Fatalf("ShortScore=%v, want 0", got.ShortScore)
	}
	if got.Direction != model.DirectionLong {
		t.Fatalf("Direction=%s, want %s", got.Direction, model.DirectionLong)
	}
	if got.Magnitude != 100 {
		t.Fatalf("Magnitude=%d, want 100", got.Magnitude)
	}
}

func TestScore_PointTable_Short(t *testing.T) {
	fs := &model.FeatureSet{
		OIReady:      true,
		OIZ:          -2.5,
		FundingDelta: -0.03,
		Taker:        0.5,
		OBImb:        0.4,
		VolFactor:    3.0,
		BreakoutDn:   true,
		RelBTC:       -0.01,
	}
	got := Score(fs)
	if got.ShortScore != 100 {
		t.Fatalf("ShortScore=%v, want 100", got.ShortScore)
	}
	if got.Direction != model.DirectionShort {
		t.Fatalf("Direction=%s, want %s", got.Direction, model.DirectionShort)
	}
}

func TestScore_TakerContribution(t *testing.T) {
	// taker=1.5 >= 1.25 应为多头贡献 18 分
	fs := &model.FeatureSet{Taker: 1.5, VolFactor: 1}
	got := Score(fs)
	if got.LongScore != 18 {
		t.Fatalf("LongScore=%v, want 18", got.LongScore)
	}
}

func TestScore_NoParticipationCap(t *testing.T) {
	// 极端 OI（z=2.5）但量能倍数 1.0 < 1.2：封顶 69
	fs := &model.FeatureSet{
		OIReady:      true,
		OIZ:          2.5,
		VolFactor:    1.0,
		FundingDelta: 0.03,
		Taker:        1.5,
		OBImb:        2.0,
		BreakoutUp:   true,
	}
	// 原始累加 28+18+18+12+18 = 94 > 69
	got := Score(fs)
	if got.LongScore > 69 {
		t.Fatalf("无量能确认 LongScore=%v, want <= 69", got.LongScore)
	}
	if got.LongScore != 69 {
		t.Fatalf("LongScore=%v, want 封顶值 69", got.LongScore)
	}
}

func TestScore_NoCapWithVolume(t *testing.T) {
	// 同样的极端 OI，量能倍数 1.5 >= 1.2 时不封顶
	fs := &model.FeatureSet{
		OIReady:      true,
		OIZ:          2.5,
		VolFactor:    1.5,
		FundingDelta: 0.03,
		Taker:        1.5,
		OBImb:        2.0,
		BreakoutUp:   true,
	}
	got := Score(fs)
	if got.LongScore != 94 {
		t.Fatalf("LongScore=%v, want 94", got.LongScore)
	}
}

func TestScore_ConflictPenalty(t *testing.T) {
	// 资金费率看多（0.03）但主动买卖看空（0.85 <= 0.9）：双边 -10
	base := &model.FeatureSet{
		FundingDelta: 0.03,
		Taker:        1.0, // 无冲突参照
		VolFactor:    1,
	}
	conflicted := &model.FeatureSet{
		FundingDelta: 0.03,
		Taker:        0.85,
		VolFactor:    1,
	}

	ref := Score(base)
	got := Score(conflicted)

	// 参照: funding 贡献 18 -> long=18；冲突时 18-10=8
	if ref.LongScore != 18 {
		t.Fatalf("参照 LongScore=%v, want 18", ref.LongScore)
	}
	if got.LongScore != 8 {
		t.Fatalf("冲突 LongScore=%v, want 8", got.LongScore)
	}
	// 空头本无得分，惩罚后下限 0
	if got.ShortScore != 0 {
		t.Fatalf("冲突 ShortScore=%v, want 0（下限）", got.ShortScore)
	}
}

func TestScore_TieResolvesLong(t *testing.T) {
	// 双边同分时方向归多头（>= 比较为既定契约）
	fs := &model.FeatureSet{VolFactor: 1}
	got := Score(fs)
	if got.LongScore != got.ShortScore {
		t.Fatalf("构造平局失败: long=%v short=%v", got.LongScore, got.ShortScore)
	}
	if got.Direction != model.DirectionLong {
		t.Fatalf("平局 Direction=%s, want %s", got.Direction, model.DirectionLong)
	}
}

func TestScore_Deterministic(t *testing.T) {
	fs := &model.FeatureSet{
		OIReady:      true,
		OIZ:          2.1,
		FundingDelta: -0.05,
		Taker:        0.7,
		OBImb:        0.5,
		VolFactor:    2.5,
		BreakoutDn:   true,
		RelBTC:       -0.002,
	}
	first := Score(fs)
	for i := 0; i < 10; i++ {
		if got := Score(fs); got != first {
			t.Fatalf("相同输入第 %d 次输出不一致: %+v != %+v", i, got, first)
		}
	}
}
