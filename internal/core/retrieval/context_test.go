package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/med-rag/internal/core/document"
)

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, NoContextSentinel, BuildContext(nil))
	assert.Equal(t, NoContextSentinel, BuildContext([]Match{}))
}

func TestBuildContextDialogueOnly(t *testing.T) {
	matches := []Match{
		{ID: "dialogue_0_0", Text: "Doctor: Hello.", Metadata: document.CommonMeta{Type: document.DocTypeDialogue}},
		{ID: "dialogue_1_0", Text: "Doctor: Hi there.", Metadata: document.CommonMeta{Type: document.DocTypeDialogue}},
	}

	got := BuildContext(matches)

	assert.Contains(t, got, "=== DOCTOR-PATIENT CONVERSATION EXAMPLES (Study these communication patterns carefully) ===")
	assert.Contains(t, got, "[Doctor-Patient Conversation Example 1]:\nDoctor: Hello.")
	assert.Contains(t, got, "[Doctor-Patient Conversation Example 2]:\nDoctor: Hi there.")
	assert.Contains(t, got, "=== END OF CONVERSATION EXAMPLES ===")

	// 空のグループはヘッダーごと省略される
	assert.NotContains(t, got, "AVAILABLE MEDICINES FOR PRESCRIPTION")
	assert.NotContains(t, got, "ADDITIONAL MEDICAL INFORMATION")
}

func TestBuildContextAllGroups(t *testing.T) {
	matches := []Match{
		{Text: "Doctor: Hello.", Metadata: document.CommonMeta{Type: document.DocTypeDialogue}},
		{Text: "Medicine: Paracetamol", Metadata: document.CommonMeta{Type: document.DocTypeMedicineBasic}},
		{Text: "Medicine: Crocin", Metadata: document.CommonMeta{Type: document.DocTypeMedicineDetailed}},
		{Text: "Disease: Influenza", Metadata: document.CommonMeta{Type: document.DocTypeDiseaseDescription}},
		{Text: "Q: What is flu?", Metadata: document.CommonMeta{Type: document.DocTypeFAQ}},
	}

	got := BuildContext(matches)

	// グループはこの順序で出力される
	dialoguePos := strings.Index(got, "DOCTOR-PATIENT CONVERSATION EXAMPLES")
	medicinePos := strings.Index(got, "AVAILABLE MEDICINES FOR PRESCRIPTION")
	referencePos := strings.Index(got, "ADDITIONAL MEDICAL INFORMATION")
	require.True(t, dialoguePos >= 0 && medicinePos >= 0 && referencePos >= 0)
	assert.Less(t, dialoguePos, medicinePos)
	assert.Less(t, medicinePos, referencePos)

	// グループごとの連番とラベル
	assert.Contains(t, got, "[Medicine Information 1]:\nMedicine: Paracetamol")
	assert.Contains(t, got, "[Medicine Information 2]:\nMedicine: Crocin")
	assert.Contains(t, got, "[Medical Reference 1 - Disease Description]:\nDisease: Influenza")
	assert.Contains(t, got, "[Medical Reference 2 - FAQ]:\nQ: What is flu?")
}

func TestBuildContextPreservesInputOrderWithinGroups(t *testing.T) {
	matches := []Match{
		{Text: "ref B", Metadata: document.CommonMeta{Type: document.DocTypeFAQ}},
		{Text: "Doctor: Hello.", Metadata: document.CommonMeta{Type: document.DocTypeDialogue}},
		{Text: "ref A", Metadata: document.CommonMeta{Type: document.DocTypePrecaution}},
	}

	got := BuildContext(matches)

	// 入力順が各グループ内で保持される（安定分割）
	assert.Less(t, strings.Index(got, "ref B"), strings.Index(got, "ref A"))
	// 会話例グループは参照情報グループより前に出る
	assert.Less(t, strings.Index(got, "Doctor: Hello."), strings.Index(got, "ref B"))
}
