// Package config 负责加载和验证配置。
// 支持可选的 YAML 配置文件，叠加环境变量覆盖（.env 文件经 godotenv 读入）。
// 环境变量用于容器化部署，YAML 用于本地调试，两者字段语义一致。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 快照发布策略
const (
	// SnapshotPolicyPartial 部分发布：tick 中个别交易对失败时仍发布已有结果
	SnapshotPolicyPartial = "partial"
	// SnapshotPolicyRetain 保留旧值：tick 中出现失败时跳过发布，保留上一次快照
	SnapshotPolicyRetain = "retain"
)

// Config 应用配置根结构
type Config struct {
	// App 应用基础配置
	App AppConfig `yaml:"app"`
	// Scan 扫描配置
	Scan ScanConfig `yaml:"scan"`
	// Exchange 行情接口配置
	Exchange ExchangeConfig `yaml:"exchange"`
	// Alert 告警配置
	Alert AlertConfig `yaml:"alert"`
	// Server HTTP 服务配置
	Server ServerConfig `yaml:"server"`
	// Output 审计输出配置
	Output OutputConfig `yaml:"output"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	// Name 应用名称，用于日志标识
	Name string `yaml:"name"`
	// LogLevel 日志级别: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// ScanConfig 扫描配置
type ScanConfig struct {
	// Symbols 扫描的交易对列表（大写）
	Symbols []string `yaml:"symbols"`
	// IntervalSec tick 间隔（秒）
	IntervalSec int `yaml:"interval_sec"`
	// Concurrency 跨交易对并发上限（worker 数）
	Concurrency int `yaml:"concurrency"`
	// SnapshotPolicy 快照发布策略: partial 或 retain
	SnapshotPolicy string `yaml:"snapshot_policy"`
}

// ExchangeConfig 行情接口配置
type ExchangeConfig struct {
	// BaseURL 行情 REST 接口根地址
	BaseURL string `yaml:"base_url"`
}

// AlertConfig 告警配置
type AlertConfig struct {
	// ScoreThreshold 信号强度阈值（含）
	ScoreThreshold int `yaml:"score_threshold"`
	// CooldownSec 同一交易对的告警冷却窗口（秒）
	CooldownSec int `yaml:"cooldown_sec"`
	// TelegramToken Telegram Bot Token（可选；为空时告警仅记日志）
	TelegramToken string `yaml:"telegram_token"`
	// TelegramChatID Telegram 目标会话（可选）
	TelegramChatID string `yaml:"telegram_chat_id"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	// Port 监听端口
	Port int `yaml:"port"`
}

// OutputConfig 审计输出配置
type OutputConfig struct {
	// AlertsEnabled 是否落盘告警审计（JSONL）
	AlertsEnabled bool `yaml:"alerts_enabled"`
	// Dir 输出目录
	Dir string `yaml:"dir"`
	// BufferSize 异步写入缓冲区大小
	BufferSize int `yaml:"buffer_size"`
}

// Load 加载配置
// 参数 path: YAML 配置文件路径；文件不存在时仅用默认值 + 环境变量。
// 加载顺序: .env -> YAML -> 默认值 -> 环境变量覆盖 -> 验证。
func Load(path string) (*Config, error) {
	// .env 不存在时静默忽略
	_ = godotenv.Load()

	var cfg Config
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg.setDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置配置默认值
func (c *Config) setDefaults() {
	if c.App.Name == "" {
		c.App.Name = "futures-flow-screener"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	if len(c.Scan.Symbols) == 0 {
		c.Scan.Symbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	}
	if c.Scan.IntervalSec == 0 {
		c.Scan.IntervalSec = 60
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 4
	}
	if c.Scan.SnapshotPolicy == "" {
		c.Scan.SnapshotPolicy = SnapshotPolicyPartial
	}

	if c.Exchange.BaseURL == "" {
		c.Exchange.BaseURL = "https://fapi.binance.com/fapi/v1"
	}

	if c.Alert.ScoreThreshold == 0 {
		c.Alert.ScoreThreshold = 70
	}
	if c.Alert.CooldownSec == 0 {
		c.Alert.CooldownSec = 300
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8787
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Output.BufferSize == 0 {
		c.Output.BufferSize = 256
	}
}

// applyEnv 应用环境变量覆盖
// 容器部署时的主配置入口；空值不覆盖。
func (c *Config) applyEnv() {
	if v := os.Getenv("COINS"); v != "" {
		var symbols []string
		for _, s := range strings.Split(v, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) > 0 {
			c.Scan.Symbols = symbols
		}
	}
	if v, ok := envInt("ALERT_SCORE_THRESHOLD"); ok {
		c.Alert.ScoreThreshold = v
	}
	if v, ok := envInt("INTERVAL_SEC"); ok {
		c.Scan.IntervalSec = v
	}
	if v, ok := envInt("PORT"); ok {
		c.Server.Port = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Alert.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Alert.TelegramChatID = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate 验证配置合法性
// 检查所有必填项和数值范围
// 返回: 若配置无效则返回描述性错误
func (c *Config) Validate() error {
	var errs []string

	if len(c.Scan.Symbols) == 0 {
		errs = append(errs, "scan.symbols: 至少需要配置一个交易对")
	}
	for i, sym := range c.Scan.Symbols {
		if sym == "" {
			errs = append(errs, fmt.Sprintf("scan.symbols[%d]: 交易对不能为空", i))
		}
	}
	if c.Scan.IntervalSec <= 0 {
		errs = append(errs, "scan.interval_sec: tick 间隔必须为正数")
	}
	if c.Scan.Concurrency <= 0 {
		errs = append(errs, "scan.concurrency: 并发上限必须为正数")
	}
	if c.Scan.SnapshotPolicy != SnapshotPolicyPartial && c.Scan.SnapshotPolicy != SnapshotPolicyRetain {
		errs = append(errs, fmt.Sprintf("scan.snapshot_policy: 无效的策略 '%s'，有效值: partial, retain", c.Scan.SnapshotPolicy))
	}

	if c.Exchange.BaseURL == "" {
		errs = append(errs, "exchange.base_url: 行情接口地址不能为空")
	}

	if c.Alert.ScoreThreshold <= 0 || c.Alert.ScoreThreshold > 100 {
		errs = append(errs, fmt.Sprintf("alert.score_threshold: 阈值必须在 1-100 之间，当前值: %d", c.Alert.ScoreThreshold))
	}
	if c.Alert.CooldownSec < 0 {
		errs = append(errs, "alert.cooldown_sec: 冷却时间不能为负数")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: 端口必须在 1-65535 之间，当前值: %d", c.Server.Port))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.App.LogLevel)] {
		errs = append(errs, fmt.Sprintf("app.log_level: 无效的日志级别 '%s'，有效值: debug, info, warn, error", c.App.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证错误:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// TelegramEnabled 是否启用 Telegram 通知
// Token 与 ChatID 任一缺失时告警降级为仅记日志。
func (c *Config) TelegramEnabled() bool {
	return c.Alert.TelegramToken != "" && c.Alert.TelegramChatID != ""
}

// CooldownMs 告警冷却窗口（毫秒）
func (c *Config) CooldownMs() int64 {
	return int64(c.Alert.CooldownSec) * 1000
}
