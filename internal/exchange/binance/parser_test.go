// Package binance 报文解析测试
package binance

import (
	"math"
	"testing"
)

func TestParseKlines(t *testing.T) {
	data := []byte(`[
		[1700000000000,"100.1","101.5","99.8","101.0","1234.5",1700000299999,"124000.0",42,"700.25","70500.0","0"],
		[1700000300000,"101.0","102.0","100.5","101.8","2000.0",1700000599999,"203000.0",55,"1200.0","122000.0","0"]
	]`)

	klines, err := parseKlines(data)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(klines) != 2 {
		t.Fatalf("K 线数量=%d, want 2", len(klines))
	}

	k := klines[0]
	if k.OpenTimeMs != 1700000000000 {
		t.Fatalf("OpenTimeMs=%d", k.OpenTimeMs)
	}
	if k.Close != 101.0 {
		t.Fatalf("Close=%v, want 101.0", k.Close)
	}
	if k.Volume != 1234.5 {
		t.Fatalf("Volume=%v, want 1234.5", k.Volume)
	}
	if k.TakerBuyVolume != 700.25 {
		t.Fatalf("TakerBuyVolume=%v, want 700.25", k.TakerBuyVolume)
	}
}

func TestParseKlines_TruncatedRow(t *testing.T) {
	data := []byte(`[[1700000000000,"100.1"]]`)
	if _, err := parseKlines(data); err == nil {
		t.Fatalf("字段不足应返回错误")
	}
}

func TestParseDepth(t *testing.T) {
	data := []byte(`{
		"lastUpdateId": 12345,
		"bids": [["100.5","3.2"],["100.4","1.8"]],
		"asks": [["100.6","2.0"]]
	}`)

	depth, err := parseDepth(data, 50)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(depth.Bids) != 2 || len(depth.Asks) != 1 {
		t.Fatalf("档位数量: bids=%d asks=%d", len(depth.Bids), len(depth.Asks))
	}
	if depth.Bids[0].Price != 100.5 || depth.Bids[0].Qty != 3.2 {
		t.Fatalf("买一档=%+v", depth.Bids[0])
	}
}

func TestParseDepth_TruncatesToLimit(t *testing.T) {
	data := []byte(`{
		"bids": [["3","1"],["2","1"],["1","1"]],
		"asks": []
	}`)

	depth, err := parseDepth(data, 2)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(depth.Bids) != 2 {
		t.Fatalf("超出档位应截断: %d", len(depth.Bids))
	}
}

func TestParseOpenInterest(t *testing.T) {
	data := []byte(`{"symbol":"BTCUSDT","openInterest":"82345.678","time":1700000000000}`)
	oi, err := parseOpenInterest(data)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if oi != 82345.678 {
		t.Fatalf("OpenInterest=%v", oi)
	}
}

func TestParseOpenInterest_InvalidIsNaN(t *testing.T) {
	// 字段缺失或非法时返回 NaN，由特征提取阶段跳过该交易对
	for _, data := range []string{
		`{"symbol":"BTCUSDT","time":1700000000000}`,
		`{"symbol":"BTCUSDT","openInterest":"not-a-number"}`,
	} {
		oi, err := parseOpenInterest([]byte(data))
		if err != nil {
			t.Fatalf("非法读数不应报错: %v", err)
		}
		if !math.IsNaN(oi) {
			t.Fatalf("非法读数应为 NaN: %v", oi)
		}
	}
}

func TestParseFundingRates(t *testing.T) {
	data := []byte(`[
		{"symbol":"BTCUSDT","fundingTime":1700000000000,"fundingRate":"0.00010000"},
		{"symbol":"BTCUSDT","fundingTime":1700028800000,"fundingRate":"-0.00025000"}
	]`)

	records, err := parseFundingRates(data)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("记录数=%d, want 2", len(records))
	}
	if records[1].Rate != -0.00025 {
		t.Fatalf("Rate=%v, want -0.00025", records[1].Rate)
	}
}
