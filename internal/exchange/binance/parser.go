// Package binance 实现 REST 报文到内部模型的解析。
// 价格/数量字段为带引号的字符串，统一经 fastparse 转换为 float64。
package binance

import (
	"encoding/json"
	"fmt"
	"math"

	"futures-flow-screener/internal/core/model"
	"futures-flow-screener/internal/util/fastparse"
)

// parseKlines 解析 K 线数组列表
// 字段不足 10 个的行视为报文损坏。
func parseKlines(data []byte) ([]model.Kline, error) {
	var raw []RawKline
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析 K 线响应失败: %w", err)
	}

	out := make([]model.Kline, 0, len(raw))
	for i, row := range raw {
		if len(row) < 10 {
			return nil, fmt.Errorf("第 %d 根 K 线字段不足: %d", i, len(row))
		}

		var k model.Kline
		if err := json.Unmarshal(row[0], &k.OpenTimeMs); err != nil {
			return nil, fmt.Errorf("第 %d 根 K 线开盘时间解析失败: %w", i, err)
		}
		var err error
		if k.Open, err = quotedFloat(row[1]); err != nil {
			return nil, fmt.Errorf("第 %d 根 K 线开盘价解析失败: %w", i, err)
		}
		if k.High, err = quotedFloat(row[2]); err != nil {
			return nil, fmt.Errorf("第 %d 根 K 线最高价解析失败: %w", i, err)
		}
		if k.Low, err = quotedFloat(row[3]); err != nil {
			return nil, fmt.Errorf("第 %d 根 K 线最低价解析失败: %w", i, err)
		}
		if k.Close, err = quotedFloat(row[4]); err != nil {
			return nil, fmt.Errorf("第 %d 根 K 线收盘价解析失败: %w", i, err)
		}
		if k.Volume, err = quotedFloat(row[5]); err != nil {
			return nil, fmt.Errorf("第 %d 根 K 线成交量解析失败: %w", i, err)
		}
		if k.TakerBuyVolume, err = quotedFloat(row[9]); err != nil {
			return nil, fmt.Errorf("第 %d 根 K 线主动买入量解析失败: %w", i, err)
		}

		out = append(out, k)
	}
	return out, nil
}

// parseDepth 解析订单簿深度响应
// 单边超过 maxLevels 的档位被截断；档位格式非法的行被跳过。
func parseDepth(data []byte, maxLevels int) (model.Depth, error) {
	var resp DepthResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return model.Depth{}, fmt.Errorf("解析深度响应失败: %w", err)
	}

	return model.Depth{
		Bids: parseLevels(resp.Bids, maxLevels),
		Asks: parseLevels(resp.Asks, maxLevels),
	}, nil
}

func parseLevels(raw [][]string, maxLevels int) []model.DepthLevel {
	out := make([]model.DepthLevel, 0, maxLevels)
	for i, lv := range raw {
		if i >= maxLevels || len(lv) < 2 {
			break
		}
		px, _ := fastparse.ParseFloat(lv[0])
		qty, _ := fastparse.ParseFloat(lv[1])
		out = append(out, model.DepthLevel{Price: px, Qty: qty})
	}
	return out
}

// parseOpenInterest 解析未平仓量响应
// 字段缺失或非法时返回 NaN，由特征提取阶段跳过该交易对本次 tick。
func parseOpenInterest(data []byte) (float64, error) {
	var resp OpenInterestResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return math.NaN(), fmt.Errorf("解析未平仓量响应失败: %w", err)
	}
	if resp.OpenInterest == "" {
		return math.NaN(), nil
	}
	v, err := fastparse.ParseFloat(resp.OpenInterest)
	if err != nil {
		return math.NaN(), nil
	}
	return v, nil
}

// parseFundingRates 解析资金费率历史响应
func parseFundingRates(data []byte) ([]model.FundingRecord, error) {
	var raw []FundingRateRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析资金费率响应失败: %w", err)
	}

	out := make([]model.FundingRecord, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.FundingRecord{
			FundingTimeMs: r.FundingTimeMs,
			Rate:          fastparse.MustParseFloat(r.FundingRate),
		})
	}
	return out, nil
}

// quotedFloat 解析带引号的浮点数字段
func quotedFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return fastparse.ParseFloat(s)
}
