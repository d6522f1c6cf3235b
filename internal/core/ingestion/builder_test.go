package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/med-rag/internal/core/document"
)

func TestBuildDialogue(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildDialogue(7, DialogueRecord{
		Dialogue:      "Doctor: How long have you had the fever? Patient: Three days.",
		SectionText:   "Patient reports fever.",
		SectionHeader: "GENHX",
	})

	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, "dialogue_7_0", c.ID)
	assert.True(t, strings.HasPrefix(c.Text, "Medical Dialogue:\n"))
	assert.Contains(t, c.Text, "\n\nContext: Patient reports fever.")
	assert.Contains(t, c.Text, "\nSection: GENHX")

	meta, ok := c.Metadata.(document.DialogueMeta)
	require.True(t, ok)
	assert.Equal(t, document.DocTypeDialogue, meta.DocType())
	assert.Equal(t, SourceFileDialogues, meta.SourceFile())
	assert.Equal(t, 7, meta.OriginIndex)
	assert.Equal(t, 0, meta.ChunkIndex)
	assert.Equal(t, "GENHX", meta.SectionHeader)
}

func TestBuildDialogueLongTextIsChunked(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildDialogue(0, DialogueRecord{
		Dialogue: strings.Repeat("Doctor: Please describe the pain. Patient: It hurts here. ", 30),
	})

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, chunkID(document.DocTypeDialogue, 0, i), c.ID)
		meta := c.Metadata.(document.DialogueMeta)
		assert.Equal(t, i, meta.ChunkIndex)
		assert.LessOrEqual(t, len([]rune(c.Text)), DefaultMaxChunkLength)
	}
}

func TestBuildDialogueSkipsEmpty(t *testing.T) {
	b := NewBuilder()
	assert.Nil(t, b.BuildDialogue(0, DialogueRecord{SectionHeader: "GENHX"}))
}

func TestBuildDiseaseDescription(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildDiseaseDescription(3, DiseaseDescriptionRecord{
		Disease:     "Influenza",
		Description: "A viral infection that attacks the respiratory system.",
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, "disease_desc_3", chunks[0].ID)
	assert.Equal(t, "Disease: Influenza\n\nDescription: A viral infection that attacks the respiratory system.", chunks[0].Text)

	meta := chunks[0].Metadata.(document.DiseaseDescriptionMeta)
	assert.Equal(t, "Influenza", meta.Disease)

	assert.Nil(t, b.BuildDiseaseDescription(0, DiseaseDescriptionRecord{Disease: "Influenza"}))
}

func TestBuildPrecaution(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildPrecaution(2, PrecautionRecord{
		Disease:     "Influenza",
		Precautions: []string{"rest", "", "drink fluids"},
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, "precaution_2", chunks[0].ID)
	assert.Equal(t, "Disease: Influenza\n\nPrecautions:\n• rest\n• drink fluids", chunks[0].Text)

	meta := chunks[0].Metadata.(document.PrecautionMeta)
	assert.Equal(t, 2, meta.PrecautionCount, "空の項目は数えない")

	assert.Nil(t, b.BuildPrecaution(0, PrecautionRecord{Disease: "Influenza"}))
}

func TestBuildFAQ(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildFAQ(5, FAQRecord{
		Question:     "Who is at risk for flu?",
		Answer:       "Everyone can catch the flu.",
		QuestionType: "susceptibility",
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, "faq_5_0", chunks[0].ID)
	assert.Equal(t, "Q: Who is at risk for flu?\n\nA: Everyone can catch the flu.", chunks[0].Text)

	meta := chunks[0].Metadata.(document.FAQMeta)
	assert.Equal(t, "susceptibility", meta.QuestionType)

	assert.Nil(t, b.BuildFAQ(0, FAQRecord{Question: "Q only"}))
}

func TestBuildSymptomPattern(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildSymptomPattern(9, SymptomPatternRecord{
		Prognosis: "Influenza",
		Symptoms:  []string{"high_fever", "muscle_pain"},
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, "symptom_9", chunks[0].ID)
	assert.Equal(t, "Diagnosis: Influenza\n\nSymptoms:\n• high fever\n• muscle pain\n\nThis pattern of 2 symptoms is associated with Influenza.", chunks[0].Text)

	meta := chunks[0].Metadata.(document.SymptomPatternMeta)
	assert.Equal(t, "Influenza", meta.Diagnosis)
	assert.Equal(t, 2, meta.SymptomCount)
	assert.Equal(t, "high fever, muscle pain", meta.Symptoms)

	assert.Nil(t, b.BuildSymptomPattern(0, SymptomPatternRecord{Prognosis: "Influenza"}))
}

func TestBuildMedicineBasic(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildMedicineBasic(4, MedicineBasicRecord{
		Name:           "Paracetamol",
		Category:       "Analgesic",
		DosageForm:     "Tablet",
		Strength:       "500mg",
		Manufacturer:   "Acme Pharma",
		Indication:     "Pain relief",
		Classification: "OTC",
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, "medicine_basic_4", chunks[0].ID)
	assert.Contains(t, chunks[0].Text, "Medicine: Paracetamol\n\n")
	assert.Contains(t, chunks[0].Text, "This analgesic medicine Paracetamol is available as tablet with strength 500mg manufactured by Acme Pharma.")
	assert.Contains(t, chunks[0].Text, "It is indicated for pain relief and classified as otc.")

	meta := chunks[0].Metadata.(document.MedicineBasicMeta)
	assert.Equal(t, "Paracetamol", meta.MedicineName)

	assert.Nil(t, b.BuildMedicineBasic(0, MedicineBasicRecord{Name: "   "}))
}

func TestBuildMedicineDetailed(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildMedicineDetailed(6, MedicineDetailedRecord{
		Name:             "Crocin 650",
		Composition1:     "Paracetamol (650mg)",
		MedicineType:     "allopathy",
		PackSize:         "strip of 15 tablets",
		Manufacturer:     "GSK",
		Price:            25.5,
		SideEffects:      "Nausea",
		DrugInteractions: emptyDrugInteractions,
	})

	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, "medicine_detailed_6", c.ID)
	assert.Contains(t, c.Text, "Composition: Paracetamol (650mg)\n")
	assert.Contains(t, c.Text, "Price: ₹25.5\n")
	assert.Contains(t, c.Text, "Status: Available")
	assert.Contains(t, c.Text, "Side Effects: Nausea")
	assert.NotContains(t, c.Text, "Drug Interactions", "実質空の相互作用情報は載せない")
	assert.NotContains(t, c.Text, "Salt Composition", "欠損フィールドは省略される")

	meta := c.Metadata.(document.MedicineDetailedMeta)
	assert.Equal(t, 25.5, meta.Price)
	assert.False(t, meta.IsDiscontinued)
	assert.Equal(t, "Paracetamol (650mg)", meta.Composition)
}

func TestBuildMedicineDetailedDiscontinued(t *testing.T) {
	b := NewBuilder()

	chunks := b.BuildMedicineDetailed(0, MedicineDetailedRecord{
		Name:           "OldMed",
		MedicineType:   "allopathy",
		PackSize:       "bottle of 100 ml",
		Manufacturer:   "Legacy Labs",
		Price:          10,
		IsDiscontinued: true,
	})

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "Status: Discontinued")
	assert.Contains(t, chunks[0].Text, "Price: ₹10\n")
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder()
	rec := DialogueRecord{Dialogue: "Doctor: Hello. Patient: Hi."}

	first := b.BuildDialogue(1, rec)
	second := b.BuildDialogue(1, rec)
	assert.Equal(t, first, second, "同じ入力からは同じIDとテキストが生成される")
}
