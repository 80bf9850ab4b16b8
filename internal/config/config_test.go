// Package config 配置模块测试
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"COINS", "ALERT_SCORE_THRESHOLD", "INTERVAL_SEC", "PORT", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("无配置文件时应使用默认值: %v", err)
	}

	if got := strings.Join(cfg.Scan.Symbols, ","); got != "BTCUSDT,ETHUSDT,SOLUSDT" {
		t.Fatalf("默认交易对=%s", got)
	}
	if cfg.Scan.IntervalSec != 60 {
		t.Fatalf("默认间隔=%d, want 60", cfg.Scan.IntervalSec)
	}
	if cfg.Alert.ScoreThreshold != 70 {
		t.Fatalf("默认阈值=%d, want 70", cfg.Alert.ScoreThreshold)
	}
	if cfg.Server.Port != 8787 {
		t.Fatalf("默认端口=%d, want 8787", cfg.Server.Port)
	}
	if cfg.Scan.SnapshotPolicy != SnapshotPolicyPartial {
		t.Fatalf("默认快照策略=%s", cfg.Scan.SnapshotPolicy)
	}
	if cfg.TelegramEnabled() {
		t.Fatalf("未配置凭据时 Telegram 应禁用")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COINS", "dogeusdt, xrpusdt")
	t.Setenv("ALERT_SCORE_THRESHOLD", "80")
	t.Setenv("INTERVAL_SEC", "30")
	t.Setenv("PORT", "9000")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}

	if got := strings.Join(cfg.Scan.Symbols, ","); got != "DOGEUSDT,XRPUSDT" {
		t.Fatalf("COINS 覆盖失败: %s", got)
	}
	if cfg.Alert.ScoreThreshold != 80 || cfg.Scan.IntervalSec != 30 || cfg.Server.Port != 9000 {
		t.Fatalf("数值覆盖失败: %+v", cfg)
	}
	if !cfg.TelegramEnabled() {
		t.Fatalf("配置凭据后 Telegram 应启用")
	}
	if cfg.CooldownMs() != 300_000 {
		t.Fatalf("CooldownMs=%d, want 300000", cfg.CooldownMs())
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  log_level: debug
scan:
  symbols: [BNBUSDT]
  interval_sec: 15
  snapshot_policy: retain
server:
  port: 8080
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if cfg.App.LogLevel != "debug" || cfg.Scan.IntervalSec != 15 || cfg.Server.Port != 8080 {
		t.Fatalf("YAML 解析不一致: %+v", cfg)
	}
	if cfg.Scan.SnapshotPolicy != SnapshotPolicyRetain {
		t.Fatalf("快照策略=%s, want retain", cfg.Scan.SnapshotPolicy)
	}
}

func createValidConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// **Feature: futures-flow-screener, Property: Config Validation Correctness**

func TestConfigValidation_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// 属性: 阈值超出 (0, 100] 应验证失败
	properties.Property("阈值越界应验证失败", prop.ForAll(
		func(threshold int) bool {
			cfg := createValidConfig()
			cfg.Alert.ScoreThreshold = threshold
			err := cfg.Validate()
			if threshold > 0 && threshold <= 100 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-200, 300),
	))

	// 属性: 非法端口应验证失败
	properties.Property("端口越界应验证失败", prop.ForAll(
		func(port int) bool {
			cfg := createValidConfig()
			cfg.Server.Port = port
			err := cfg.Validate()
			if port > 0 && port <= 65535 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-10, 100000),
	))

	// 属性: 非法快照策略应验证失败
	properties.Property("快照策略只接受 partial/retain", prop.ForAll(
		func(policy string) bool {
			cfg := createValidConfig()
			cfg.Scan.SnapshotPolicy = policy
			err := cfg.Validate()
			if policy == SnapshotPolicyPartial || policy == SnapshotPolicyRetain {
				return err == nil
			}
			return err != nil
		},
		gen.OneConstOf(SnapshotPolicyPartial, SnapshotPolicyRetain, "", "both", "PARTIAL"),
	))

	properties.TestingRun(t)
}

func TestValidate_EmptySymbols(t *testing.T) {
	cfg := createValidConfig()
	cfg.Scan.Symbols = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("空交易对列表应验证失败")
	}
}
