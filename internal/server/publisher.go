// Package server 实现快照发布与对外 HTTP 服务。
// 快照为单写者（调度器）、多读者（HTTP/WS）的不可变值，整体原子替换，
// 读取方永远不会观察到写了一半的快照。
package server

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"futures-flow-screener/internal/core/model"
)

// wsWriteTimeout 单个 WS 客户端的写超时
// 慢客户端超时即被丢弃，不拖累其余广播。
const wsWriteTimeout = 5 * time.Second

// Publisher 快照发布器
// 持有当前快照引用并维护 WS 订阅者集合；Publish 只应由调度器调用。
type Publisher struct {
	// snap 当前快照（原子替换，初始为空快照）
	snap atomic.Pointer[model.GlobalSnapshot]

	// mu 保护订阅者集合
	mu sync.Mutex
	// subs WS 订阅者集合
	subs map[*websocket.Conn]struct{}

	// logger 日志
	logger *zap.Logger
}

// NewPublisher 创建快照发布器
// 初始快照为 {updatedAt:0, items:[]}，保证首次 tick 前读取合法。
func NewPublisher(logger *zap.Logger) *Publisher {
	p := &Publisher{
		subs:   make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
	p.snap.Store(model.EmptySnapshot())
	return p
}

// Snapshot 获取当前快照
// 返回的快照视为不可变，读取方不得修改。
func (p *Publisher) Snapshot() *model.GlobalSnapshot {
	return p.snap.Load()
}

// Publish 发布新快照
// 原子替换当前引用，并向所有 WS 订阅者推送一帧 JSON。
func (p *Publisher) Publish(s *model.GlobalSnapshot) {
	if s == nil {
		return
	}
	p.snap.Store(s)
	p.broadcast(s)
}

// Subscribe 登记一个 WS 订阅者
// 接入时立即推送当前快照，避免客户端等待下一次 tick；
// 与广播共用同一把锁，保证单连接写不并发。
func (p *Publisher) Subscribe(conn *websocket.Conn) {
	p.mu.Lock()
	p.subs[conn] = struct{}{}
	n := len(p.subs)
	if data, err := json.Marshal(p.snap.Load()); err == nil {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		conn.WriteMessage(websocket.TextMessage, data)
	}
	p.mu.Unlock()
	p.logger.Debug("WS 订阅者接入", zap.Int("subscribers", n))
}

// Unsubscribe 移除一个 WS 订阅者并关闭连接
func (p *Publisher) Unsubscribe(conn *websocket.Conn) {
	p.mu.Lock()
	delete(p.subs, conn)
	p.mu.Unlock()
	conn.Close()
}

// broadcast 向全部订阅者推送快照
// 编码一次、逐个写出；写失败的连接就地摘除。
func (p *Publisher) broadcast(s *model.GlobalSnapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		p.logger.Warn("快照编码失败", zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.subs {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			p.logger.Debug("WS 推送失败，移除订阅者", zap.Error(err))
			delete(p.subs, conn)
			conn.Close()
		}
	}
}

// CloseAll 关闭全部订阅者（进程退出时调用）
func (p *Publisher) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.subs {
		conn.Close()
		delete(p.subs, conn)
	}
}
