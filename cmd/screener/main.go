// Package main 是合约资金流筛选器的入口点。
// 进程按固定间隔扫描配置的合约交易对，从 K 线、盘口、未平仓量与资金费率
// 推导特征并合成多空信号强度，越过阈值时经 Telegram 告警，
// 并通过 HTTP/WS 对外发布全量快照。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"futures-flow-screener/internal/alert"
	"futures-flow-screener/internal/config"
	"futures-flow-screener/internal/core/feature"
	"futures-flow-screener/internal/core/store"
	"futures-flow-screener/internal/exchange/binance"
	"futures-flow-screener/internal/output/jsonl"
	"futures-flow-screener/internal/scheduler"
	"futures-flow-screener/internal/server"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获 SIGINT/SIGTERM，触发优雅退出
	sigCh := make(chan os.Signal, 2)
	ossignal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("收到退出信号，开始优雅关闭")
		cancel()
	}()

	var auditWriter *jsonl.Writer
	if cfg.Output.AlertsEnabled {
		auditWriter, err = jsonl.NewWriter(fmt.Sprintf("%s/alerts.jsonl", cfg.Output.Dir), cfg.Output.BufferSize)
		if err != nil {
			logger.Error("创建告警审计 writer 失败", zap.Error(err))
			os.Exit(1)
		}
	}

	var sink alert.Sink
	if cfg.TelegramEnabled() {
		sink = alert.NewTelegramSink(cfg.Alert.TelegramToken, cfg.Alert.TelegramChatID)
		logger.Info("Telegram 通知已启用", zap.String("chat_id", cfg.Alert.TelegramChatID))
	} else {
		logger.Info("未配置 Telegram 凭据，告警仅记日志")
	}

	// 初始化核心组件（滚动状态由调度器单写者驱动）
	st := store.New()
	extractor := feature.NewExtractor(st)
	client := binance.NewClient(cfg.Exchange.BaseURL, logger)
	dispatcher := alert.NewDispatcher(cfg.Alert.ScoreThreshold, cfg.CooldownMs(), st, sink, auditWriter, logger)
	pub := server.NewPublisher(logger)

	srv := server.New(cfg.Server.Port, pub, logger)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Error("HTTP 服务退出", zap.Error(err))
			cancel()
		}
	}()

	sched := scheduler.New(cfg, client, extractor, dispatcher, pub, logger)
	sched.Run(ctx)

	// 优雅关闭（10s 超时）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Shutdown(shutdownCtx)
		if auditWriter != nil {
			_ = auditWriter.Close()
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("关闭超时，强制退出")
	case <-done:
		logger.Info("关闭完成")
	}
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
