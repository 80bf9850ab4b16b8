// Package alert Telegram 通知下游。
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"futures-flow-screener/internal/util/backoff"
)

// telegramAPIBase Telegram Bot API 根地址
const telegramAPIBase = "https://api.telegram.org"

// maxSendAttempts 单条告警的最大发送尝试次数（含首次）
const maxSendAttempts = 3

// TelegramSink Telegram 通知下游
// 通过 Bot API sendMessage 接口推送告警文本；瞬时失败按指数退避重试。
type TelegramSink struct {
	// apiBase API 根地址（测试时可替换）
	apiBase string
	// token Bot Token
	token string
	// chatID 目标会话
	chatID string
	// client HTTP 客户端
	client *http.Client
}

// sendMessageRequest sendMessage 请求体
type sendMessageRequest struct {
	// ChatID 目标会话
	ChatID string `json:"chat_id"`
	// Text 消息文本
	Text string `json:"text"`
	// ParseMode 文本解析模式
	ParseMode string `json:"parse_mode"`
}

// NewTelegramSink 创建 Telegram 通知下游
// 参数 token: Bot Token
// 参数 chatID: 目标会话 ID
func NewTelegramSink(token, chatID string) *TelegramSink {
	return &TelegramSink{
		apiBase: telegramAPIBase,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Send 发送一条告警文本
// 最多尝试 maxSendAttempts 次，重试间隔由退避计算器给出；
// 最终失败由调用方记日志，不向上传播影响。
func (t *TelegramSink) Send(ctx context.Context, text string) error {
	bo := backoff.NewDefault()

	var lastErr error
	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(bo.Next()):
			}
		}

		lastErr = t.send(ctx, text)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("Telegram 发送在 %d 次尝试后仍失败: %w", maxSendAttempts, lastErr)
}

func (t *TelegramSink) send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("编码请求体失败: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Telegram API 返回状态码 %d", resp.StatusCode)
	}
	return nil
}
