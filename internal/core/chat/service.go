package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/mo"

	"github.com/jinford/med-rag/internal/core/document"
	"github.com/jinford/med-rag/internal/core/retrieval"
)

// Completer は生成モデルへの問い合わせインターフェース
type Completer interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// Planner は質問を優先順位付きの検索列に変換するインターフェース
type Planner interface {
	Plan(ctx context.Context, question string) []retrieval.Match
	PlanSymptomAdvice(ctx context.Context, question string) []retrieval.Match
}

// historyWindow は検索クエリ強化に使う直近の会話往復数
const historyWindow = 3

// directSearchLimit は知識ベース直接検索のデフォルト件数
const directSearchLimit = 10

// Service は検索とプロンプト組み立てと回答生成を束ねる質問応答サービス
type Service struct {
	planner   Planner
	retriever retrieval.Searcher
	repo      retrieval.Repository
	completer Completer
	logger    *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithChatLogger は Service にロガーを設定する
func WithChatLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService は新しい質問応答サービスを作成する
func NewService(
	planner Planner,
	retriever retrieval.Searcher,
	repo retrieval.Repository,
	completer Completer,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		planner:   planner,
		retriever: retriever,
		repo:      repo,
		completer: completer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat は質問に対してRAGベースで回答を生成する。
// 生成モデルの失敗は説明用のエラー文字列に変換され、取得済みの
// ソースとコンテキストは診断用に結果へ残る。
func (s *Service) Chat(ctx context.Context, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	matches := s.planner.Plan(ctx, question)
	contextText := retrieval.BuildContext(matches)

	s.logger.Info("context assembled",
		"question", question,
		"sources", len(matches),
	)

	return s.generate(ctx, question, matches, contextText), nil
}

// ChatWithHistory は直近の会話履歴で検索クエリを強化して回答を生成する
func (s *Service) ChatWithHistory(ctx context.Context, history []Exchange, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is required")
	}
	return s.Chat(ctx, enhanceQuery(history, question))
}

// MedicalAdvice は症状ベースの相談に特化した回答を生成する。
// 回答末尾には必ず免責文を付加する。
func (s *Service) MedicalAdvice(ctx context.Context, symptoms, additionalInfo string) (*Result, error) {
	if strings.TrimSpace(symptoms) == "" {
		return nil, fmt.Errorf("symptoms are required")
	}

	query := fmt.Sprintf("symptoms: %s", symptoms)
	if additionalInfo != "" {
		query += fmt.Sprintf(" additional information: %s", additionalInfo)
	}

	matches := s.planner.PlanSymptomAdvice(ctx, query)
	contextText := retrieval.BuildContext(matches)

	result := s.generate(ctx, query, matches, contextText)
	result.Response += Disclaimer
	return result, nil
}

// SearchKnowledgeBase は回答生成を行わずに知識ベースを直接検索する。
// ストア障害は空の結果に縮退する（文脈の欠如は呼び出し側が扱える状態）。
func (s *Service) SearchKnowledgeBase(ctx context.Context, query string, docType mo.Option[document.DocType]) []retrieval.Match {
	filter := mo.None[[]document.DocType]()
	if t, ok := docType.Get(); ok {
		filter = mo.Some([]document.DocType{t})
	}

	matches, err := s.retriever.Search(ctx, query, directSearchLimit, filter)
	if err != nil {
		s.logger.Warn("knowledge base search failed, returning empty results",
			"query", query,
			"error", err,
		)
		return nil
	}
	return matches
}

// Stats は知識ベースの統計情報を返す
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	byType, err := s.repo.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents by type: %w", err)
	}

	return &Stats{
		TotalDocuments: total,
		DocumentTypes:  byType,
	}, nil
}

// generate はプロンプトを組み立てて回答を生成し、結果エンベロープを返す
func (s *Service) generate(ctx context.Context, question string, matches []retrieval.Match, contextText string) *Result {
	prompt := BuildMedicalPrompt(contextText, question)

	response, err := s.completer.GenerateCompletion(ctx, prompt)
	if err != nil {
		s.logger.Error("completion failed", "error", err)
		response = fmt.Sprintf("Error generating response: %v", err)
	}

	return &Result{
		Question:   question,
		Response:   response,
		Matches:    matches,
		Context:    contextText,
		NumSources: len(matches),
	}
}

// enhanceQuery は直近の履歴を連結して検索クエリを強化する
func enhanceQuery(history []Exchange, question string) string {
	if len(history) == 0 {
		return question
	}

	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	parts := make([]string, 0, len(recent)+1)
	for _, ex := range recent {
		parts = append(parts, strings.TrimSpace(ex.Question+" "+ex.Response))
	}
	parts = append(parts, question)
	return strings.TrimSpace(strings.Join(parts, " "))
}
