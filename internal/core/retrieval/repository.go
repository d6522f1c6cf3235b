package retrieval

import (
	"context"

	"github.com/samber/mo"

	"github.com/jinford/med-rag/internal/core/document"
)

// StoredMatch はベクトルストアが返す1件の近傍ドキュメント。
// Distance はストア固有の距離（コサイン距離）で、小さいほど近い。
type StoredMatch struct {
	ID       string
	Text     string
	Metadata document.Metadata
	Distance float64
}

// Repository はベクトルストアへの読み取りインターフェース
type Repository interface {
	// Query はクエリベクトルの近傍を距離昇順で最大 limit 件返す。
	// types が非空の場合、metadata.type がその集合に含まれるものだけを対象にする。
	Query(ctx context.Context, vector []float32, limit int, types []document.DocType) ([]*StoredMatch, error)
	// Get はIDで1件取得する。存在しない場合は None を返す。
	Get(ctx context.Context, id string) (mo.Option[*StoredMatch], error)
	// Count は格納済みドキュメントの総数を返す
	Count(ctx context.Context) (int64, error)
	// CountByType は種別ごとのドキュメント数を返す
	CountByType(ctx context.Context) (map[document.DocType]int64, error)
}
