package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/mo"

	"github.com/jinford/med-rag/internal/core/chat"
	"github.com/jinford/med-rag/internal/core/document"
	"github.com/jinford/med-rag/internal/core/retrieval"
)

const (
	// DefaultReadTimeout はリクエスト読み込みのタイムアウト
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout はレスポンス書き込みのタイムアウト。
	// 回答生成はLLM呼び出しを含むため長めに取る。
	DefaultWriteTimeout = 120 * time.Second
	// DefaultShutdownTimeout はグレースフルシャットダウンの猶予時間
	DefaultShutdownTimeout = 30 * time.Second
)

// ChatService は質問応答サービスへのインターフェース
type ChatService interface {
	ChatWithHistory(ctx context.Context, history []chat.Exchange, question string) (*chat.Result, error)
	SearchKnowledgeBase(ctx context.Context, query string, docType mo.Option[document.DocType]) []retrieval.Match
	Stats(ctx context.Context) (*chat.Stats, error)
}

// Server は質問応答APIを提供するHTTPサーバ
type Server struct {
	addr    string
	service ChatService
	logger  *slog.Logger
}

// ServerOption は Server のオプション設定
type ServerOption func(*Server)

// WithServerLogger は Server にロガーを設定する
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer は新しいHTTPサーバを作成する
func NewServer(port int, service ChatService, opts ...ServerOption) *Server {
	s := &Server{
		addr:    fmt.Sprintf(":%d", port),
		service: service,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler はルーティング済みのHTTPハンドラを返す
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/ai/chat", s.handleChat)
	mux.HandleFunc("/api/ai/search", s.handleSearch)
	mux.HandleFunc("/api/ai/stats", s.handleStats)

	return s.requestLogger(mux)
}

// Start はHTTPサーバを起動し、コンテキストのキャンセルで
// グレースフルシャットダウンする
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}
