package chat

import (
	"github.com/jinford/med-rag/internal/core/document"
	"github.com/jinford/med-rag/internal/core/retrieval"
)

// Result は1回の質問応答の結果を表す
type Result struct {
	Question   string            // 検索に使われた質問文
	Response   string            // 生成モデルによる回答（失敗時はエラー説明文）
	Matches    []retrieval.Match // 取得されたドキュメント
	Context    string            // プロンプトに埋め込まれたコンテキスト
	NumSources int               // 参照ソース数
}

// Exchange は会話履歴の1往復を表す
type Exchange struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

// Stats は知識ベースの統計情報を表す
type Stats struct {
	TotalDocuments int64                      `json:"total_documents"`
	DocumentTypes  map[document.DocType]int64 `json:"document_types"`
}
