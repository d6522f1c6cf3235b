package retrieval

import (
	"fmt"
	"strings"

	"github.com/jinford/med-rag/internal/core/document"
)

// NoContextSentinel は検索結果が空のときに返す固定文
const NoContextSentinel = "No relevant information found in the knowledge base."

// BuildContext は検索結果を役割ごとにグループ化し、生成モデルへ渡す
// 1つのテキストブロックに整形する。
//
// グループは固定の順序で出力される:
//  1. 会話例 — 口調・コミュニケーションスタイルの手本として冒頭に置く
//  2. 医薬品・処方情報
//  3. 一般参照情報（その他すべて、種別ラベル付き）
//
// 入力順はグループ内で保持され（安定分割）、空のグループは
// ヘッダーごと省略される。この層では切り詰めは行わない。
func BuildContext(matches []Match) string {
	if len(matches) == 0 {
		return NoContextSentinel
	}

	var dialogues, medicines, references []string
	for _, m := range matches {
		switch m.Metadata.DocType() {
		case document.DocTypeDialogue:
			dialogues = append(dialogues,
				fmt.Sprintf("[Doctor-Patient Conversation Example %d]:\n%s", len(dialogues)+1, m.Text))
		case document.DocTypeMedicineBasic, document.DocTypeMedicineDetailed:
			medicines = append(medicines,
				fmt.Sprintf("[Medicine Information %d]:\n%s", len(medicines)+1, m.Text))
		default:
			references = append(references,
				fmt.Sprintf("[Medical Reference %d - %s]:\n%s", len(references)+1, m.Metadata.DocType().Label(), m.Text))
		}
	}

	var parts []string
	if len(dialogues) > 0 {
		parts = append(parts, "=== DOCTOR-PATIENT CONVERSATION EXAMPLES (Study these communication patterns carefully) ===")
		parts = append(parts, "Learn how these doctors respond naturally and conversationally:")
		parts = append(parts, dialogues...)
		parts = append(parts, "\n=== END OF CONVERSATION EXAMPLES ===")
		parts = append(parts, "Now respond to the current patient using the same natural, conversational style as the doctors above.")
	}
	if len(medicines) > 0 {
		parts = append(parts, "\n=== AVAILABLE MEDICINES FOR PRESCRIPTION ===")
		parts = append(parts, medicines...)
	}
	if len(references) > 0 {
		parts = append(parts, "\n=== ADDITIONAL MEDICAL INFORMATION ===")
		parts = append(parts, references...)
	}

	return strings.Join(parts, "\n\n")
}
