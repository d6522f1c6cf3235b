package document

// Chunk は埋め込み対象となるテキスト断片を表す。
// IDは取り込み元レコードから決定的に導出され、同じソースを
// 再取り込みしても同一IDになる（冪等なupsertの前提）。
type Chunk struct {
	ID       string
	Text     string
	Metadata Metadata
}
