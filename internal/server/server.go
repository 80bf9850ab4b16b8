// Package server 对外 HTTP 服务。
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server 快照 HTTP 服务
// 路由：
//   GET /          状态横幅（text/plain）
//   GET /snapshot  当前快照（application/json，宽松 CORS）
//   GET /ws        快照推送（WebSocket，每次发布推一帧）
// 快照端点永不阻塞在 tick 上，始终立即返回最近一次发布的值。
type Server struct {
	// pub 快照发布器
	pub *Publisher
	// httpSrv 底层 HTTP 服务
	httpSrv *http.Server
	// upgrader WS 升级器（仪表盘跨域访问，放开来源检查）
	upgrader websocket.Upgrader
	// logger 日志
	logger *zap.Logger
}

// New 创建 HTTP 服务
// 参数 port: 监听端口
// 参数 pub: 快照发布器
func New(port int, pub *Publisher, logger *zap.Logger) *Server {
	s := &Server{
		pub: pub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/ws", s.handleWS)

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

// Run 启动监听并阻塞至服务关闭
func (s *Server) Run() error {
	s.logger.Info("HTTP 服务启动", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP 服务异常退出: %w", err)
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	s.pub.CloseAll()
	return s.httpSrv.Shutdown(ctx)
}

// Handler 返回 HTTP 处理器（测试用）
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "futures-flow-screener: running")
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	// 宽松 CORS：快照是只读公开数据，仪表盘可能部署在任意来源
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err := json.NewEncoder(w).Encode(s.pub.Snapshot()); err != nil {
		s.logger.Warn("快照响应编码失败", zap.Error(err))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("WS 升级失败", zap.Error(err))
		return
	}

	s.pub.Subscribe(conn)

	// 读循环仅用于感知断开；收到任何错误即摘除订阅者
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.pub.Unsubscribe(conn)
				return
			}
		}
	}()
}
