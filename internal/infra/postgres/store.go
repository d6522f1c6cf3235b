package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/samber/mo"

	"github.com/jinford/med-rag/internal/core/document"
	"github.com/jinford/med-rag/internal/core/ingestion"
	"github.com/jinford/med-rag/internal/core/retrieval"
)

// Store は pgvector を使った PostgreSQL ベクトルストア実装。
// ingestion.Store（書き込み）と retrieval.Repository（読み取り）の両方を満たす。
type Store struct {
	pool      *pgxpool.Pool
	dimension int
	logger    *slog.Logger
}

// StoreOption は Store のオプション設定
type StoreOption func(*Store)

// WithStoreLogger は Store にロガーを設定する
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore は新しい Store を作成する。
// dimension は格納する埋め込みベクトルの次元数。
func NewStore(pool *pgxpool.Pool, dimension int, opts ...StoreOption) *Store {
	s := &Store{
		pool:      pool,
		dimension: dimension,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init はスキーマとインデックスを初期化する。冪等に実行できる。
func (s *Store) Init(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			doc_type   TEXT NOT NULL,
			metadata   JSONB NOT NULL,
			embedding  vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dimension),
		`CREATE INDEX IF NOT EXISTS documents_doc_type_idx ON documents (doc_type)`,
		`CREATE INDEX IF NOT EXISTS documents_embedding_idx ON documents USING hnsw (embedding vector_cosine_ops)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	s.logger.Info("vector store schema initialized", "dimension", s.dimension)
	return nil
}

// Upsert はドキュメントをID単位で冪等に書き込む
func (s *Store) Upsert(ctx context.Context, docs []ingestion.StoredDocument) error {
	if len(docs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, doc := range docs {
		metadata, err := document.EncodeMetadata(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", doc.ID, err)
		}

		batch.Queue(`
			INSERT INTO documents (id, content, doc_type, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				content  = EXCLUDED.content,
				doc_type = EXCLUDED.doc_type,
				metadata = EXCLUDED.metadata,
				embedding = EXCLUDED.embedding`,
			doc.ID,
			doc.Text,
			string(doc.Metadata.DocType()),
			metadata,
			pgvector.NewVector(doc.Vector),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range docs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert documents: %w", err)
		}
	}

	return nil
}

// Query はクエリベクトルの近傍を距離昇順で最大 limit 件返す
func (s *Store) Query(ctx context.Context, vector []float32, limit int, types []document.DocType) ([]*retrieval.StoredMatch, error) {
	query := `
		SELECT id, content, metadata, embedding <=> $1 AS distance
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2`
	args := []any{pgvector.NewVector(vector), limit}

	if len(types) > 0 {
		query = `
			SELECT id, content, metadata, embedding <=> $1 AS distance
			FROM documents
			WHERE doc_type = ANY($3)
			ORDER BY embedding <=> $1
			LIMIT $2`
		typeNames := make([]string, len(types))
		for i, t := range types {
			typeNames[i] = string(t)
		}
		args = append(args, typeNames)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var matches []*retrieval.StoredMatch
	for rows.Next() {
		match, err := scanStoredMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read query results: %w", err)
	}

	return matches, nil
}

// Get はIDで1件取得する。存在しない場合は None を返す。
func (s *Store) Get(ctx context.Context, id string) (mo.Option[*retrieval.StoredMatch], error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, content, metadata, 0::float8 AS distance
		FROM documents
		WHERE id = $1`, id)

	match, err := scanStoredMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*retrieval.StoredMatch](), nil
		}
		return mo.None[*retrieval.StoredMatch](), err
	}
	return mo.Some(match), nil
}

// Count は格納済みドキュメントの総数を返す
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// CountByType は種別ごとのドキュメント数を返す
func (s *Store) CountByType(ctx context.Context) (map[document.DocType]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc_type, COUNT(*) FROM documents GROUP BY doc_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[document.DocType]int64)
	for rows.Next() {
		var (
			docType string
			count   int64
		)
		if err := rows.Scan(&docType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts[document.DocType(docType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read type counts: %w", err)
	}

	return counts, nil
}

// DeleteAll は全ドキュメントを削除する
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// scanStoredMatch は1行を StoredMatch に変換する（メタデータのデコードを含む）
func scanStoredMatch(row pgx.Row) (*retrieval.StoredMatch, error) {
	var (
		id       string
		content  string
		metaJSON []byte
		distance float64
	)
	if err := row.Scan(&id, &content, &metaJSON, &distance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan document row: %w", err)
	}

	meta, err := document.DecodeMetadata(metaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode metadata for %s: %w", id, err)
	}

	return &retrieval.StoredMatch{
		ID:       id,
		Text:     content,
		Metadata: meta,
		Distance: distance,
	}, nil
}

// インターフェース実装の確認
var (
	_ ingestion.Store      = (*Store)(nil)
	_ retrieval.Repository = (*Store)(nil)
)
