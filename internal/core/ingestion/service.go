package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/med-rag/internal/core/document"
)

// Embedder はテキストのEmbedding生成インターフェース
type Embedder interface {
	// BatchEmbed は複数テキストのEmbeddingをまとめて生成する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	// MaxBatchSize は1回の呼び出しで処理できる最大件数を返す
	MaxBatchSize() int
}

// StoredDocument はベクトルストアへ書き込む1ドキュメントを表す
type StoredDocument struct {
	ID       string
	Text     string
	Metadata document.Metadata
	Vector   []float32
}

// Store はベクトルストアへの書き込みインターフェース。
// Upsert はID単位で冪等であり、同じIDへの再書き込みは上書きになる。
type Store interface {
	Upsert(ctx context.Context, docs []StoredDocument) error
	DeleteAll(ctx context.Context) error
}

// Report は取り込み処理の結果集計
type Report struct {
	BuiltByType map[document.DocType]int
	TotalBuilt  int
	TotalStored int
	Skipped     int
}

// Service は取り込みパイプライン（レコード → チャンク → Embedding → ストア）を提供する
type Service struct {
	builder  *Builder
	embedder Embedder
	store    Store
	logger   *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithIngestionLogger は Service にロガーを設定する
func WithIngestionLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService は新しい取り込みサービスを作成する
func NewService(builder *Builder, embedder Embedder, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		builder:  builder,
		embedder: embedder,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildChunks はデータセット全体をチャンク列に変換する。
// 必須フィールドを欠くレコードはスキップとして数え、エラーにはしない。
func (s *Service) BuildChunks(ds *Dataset) ([]document.Chunk, *Report) {
	report := &Report{BuiltByType: make(map[document.DocType]int)}
	var chunks []document.Chunk

	collect := func(t document.DocType, built []document.Chunk) {
		if len(built) == 0 {
			report.Skipped++
			return
		}
		report.BuiltByType[t] += len(built)
		chunks = append(chunks, built...)
	}

	for i, rec := range ds.Dialogues {
		collect(document.DocTypeDialogue, s.builder.BuildDialogue(i, rec))
	}
	for i, rec := range ds.DiseaseDescriptions {
		collect(document.DocTypeDiseaseDescription, s.builder.BuildDiseaseDescription(i, rec))
	}
	for i, rec := range ds.Precautions {
		collect(document.DocTypePrecaution, s.builder.BuildPrecaution(i, rec))
	}
	for i, rec := range ds.FAQs {
		collect(document.DocTypeFAQ, s.builder.BuildFAQ(i, rec))
	}
	for i, rec := range ds.SymptomPatterns {
		collect(document.DocTypeSymptomPattern, s.builder.BuildSymptomPattern(i, rec))
	}
	for i, rec := range ds.MedicinesBasic {
		collect(document.DocTypeMedicineBasic, s.builder.BuildMedicineBasic(i, rec))
	}
	for i, rec := range ds.MedicinesDetailed {
		collect(document.DocTypeMedicineDetailed, s.builder.BuildMedicineDetailed(i, rec))
	}

	report.TotalBuilt = len(chunks)
	return chunks, report
}

// Ingest はデータセットをチャンク化し、バッチ単位でEmbedding生成とupsertを行う。
// バッチはペイロードサイズを抑えるためのもので、チャンクIDが大域一意なため
// バッチ間に順序依存はない。
func (s *Service) Ingest(ctx context.Context, ds *Dataset) (*Report, error) {
	chunks, report := s.BuildChunks(ds)
	s.logger.Info("chunks built",
		"total", report.TotalBuilt,
		"skipped", report.Skipped,
	)

	if len(chunks) == 0 {
		return report, nil
	}

	batchSize := s.embedder.MaxBatchSize()
	if batchSize <= 0 {
		return nil, fmt.Errorf("embedder reported invalid batch size: %d", batchSize)
	}

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.BatchEmbed(ctx, texts)
		if err != nil {
			return report, fmt.Errorf("failed to embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return report, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
		}

		docs := make([]StoredDocument, len(batch))
		for i, c := range batch {
			docs[i] = StoredDocument{
				ID:       c.ID,
				Text:     c.Text,
				Metadata: c.Metadata,
				Vector:   vectors[i],
			}
		}

		if err := s.store.Upsert(ctx, docs); err != nil {
			return report, fmt.Errorf("failed to upsert batch %d-%d: %w", start, end, err)
		}

		report.TotalStored += len(batch)
		s.logger.Info("batch stored", "from", start, "to", end, "total", len(chunks))
	}

	return report, nil
}

// Reset はストア内の全ドキュメントを削除する
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	s.logger.Info("knowledge base reset")
	return nil
}
