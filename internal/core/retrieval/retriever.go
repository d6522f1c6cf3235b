package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/mo"

	"github.com/jinford/med-rag/internal/core/document"
)

// Embedder はクエリテキストのEmbedding生成インターフェース
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Match は類似検索の1件の結果を表す。
// Similarity は [0,1] の類似度で、大きいほど類似している
// （ストア固有の距離から similarity = 1 - distance で変換される）。
// クエリ時にのみ生成される読み取り専用の射影であり、永続化されない。
type Match struct {
	ID         string
	Text       string
	Metadata   document.Metadata
	Similarity float64
}

// Retriever はベクトルストアに対する類似検索を提供する
type Retriever struct {
	repo     Repository
	embedder Embedder
	logger   *slog.Logger
}

// RetrieverOption は Retriever のオプション設定
type RetrieverOption func(*Retriever)

// WithRetrieverLogger は Retriever にロガーを設定する
func WithRetrieverLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// NewRetriever は新しい Retriever を作成する
func NewRetriever(repo Repository, embedder Embedder, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		repo:     repo,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search はクエリに類似するドキュメントを類似度降順で最大 limit 件返す。
// filter が指定された場合、種別がその集合に含まれるものだけを対象にする。
// ストア境界の失敗は明示的なエラーとして返し、呼び出し側が
// 「文脈ゼロ」への縮退を判断する。
func (r *Retriever) Search(ctx context.Context, query string, limit int, filter mo.Option[[]document.DocType]) ([]Match, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	types := filter.OrElse(nil)
	rows, err := r.repo.Query(ctx, vector, limit, types)
	if err != nil {
		return nil, fmt.Errorf("vector store query failed: %w", err)
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{
			ID:         row.ID,
			Text:       row.Text,
			Metadata:   row.Metadata,
			Similarity: clampSimilarity(1 - row.Distance),
		})
	}

	// ストアは距離昇順で返す契約だが、類似度降順は
	// この層の不変条件なのでここで確定させる
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	r.logger.Debug("similarity search completed",
		"query", query,
		"limit", limit,
		"typeFilter", types,
		"results", len(matches),
	)

	return matches, nil
}

// clampSimilarity は類似度を [0,1] に収める
func clampSimilarity(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
