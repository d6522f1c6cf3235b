package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jinford/med-rag/internal/core/document"
)

// 取り込み元データセットのファイル名
const (
	SourceFileDialogues           = "MTS-Dialog-TrainingSet.csv"
	SourceFileDiseaseDescriptions = "symptom_Description.csv"
	SourceFilePrecautions         = "symptom_precaution.csv"
	SourceFileFAQs                = "trainQ&A.csv"
	SourceFileSymptomPatterns     = "training_data.csv"
	SourceFileMedicinesBasic      = "medicine_dataset.csv"
	SourceFileMedicinesDetailed   = "updated_indian_medicine_data.csv"
)

// Builder はソースレコードから種別タグ付きのチャンク列を組み立てる。
// 必須フィールドを欠くレコードはチャンクを生成せずスキップする。
// I/Oや埋め込み呼び出しは行わない。
type Builder struct {
	maxLength int
	overlap   int
}

// BuilderOption は Builder のオプション設定
type BuilderOption func(*Builder)

// WithMaxChunkLength はチャンクの最大文字数を上書きする
func WithMaxChunkLength(n int) BuilderOption {
	return func(b *Builder) {
		b.maxLength = n
	}
}

// WithChunkOverlap はチャンク間のオーバーラップ文字数を上書きする
func WithChunkOverlap(n int) BuilderOption {
	return func(b *Builder) {
		b.overlap = n
	}
}

// NewBuilder は新しい Builder を作成する
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		maxLength: DefaultMaxChunkLength,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildDialogue は会話レコードを1つ以上のチャンクに変換する
func (b *Builder) BuildDialogue(originIndex int, rec DialogueRecord) []document.Chunk {
	dialogue := CleanText(rec.Dialogue)
	if dialogue == "" {
		return nil
	}
	sectionText := CleanText(rec.SectionText)
	sectionHeader := CleanText(rec.SectionHeader)

	var sb strings.Builder
	sb.WriteString("Medical Dialogue:\n")
	sb.WriteString(dialogue)
	if sectionText != "" {
		sb.WriteString("\n\nContext: ")
		sb.WriteString(sectionText)
	}
	if sectionHeader != "" {
		sb.WriteString("\nSection: ")
		sb.WriteString(sectionHeader)
	}

	pieces := ChunkText(sb.String(), b.maxLength, b.overlap)
	chunks := make([]document.Chunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, document.Chunk{
			ID:   chunkID(document.DocTypeDialogue, originIndex, i),
			Text: text,
			Metadata: document.DialogueMeta{
				CommonMeta:    commonMeta(document.DocTypeDialogue, SourceFileDialogues, originIndex),
				ChunkIndex:    i,
				SectionHeader: sectionHeader,
			},
		})
	}
	return chunks
}

// BuildDiseaseDescription は疾患説明レコードを単一チャンクに変換する
func (b *Builder) BuildDiseaseDescription(originIndex int, rec DiseaseDescriptionRecord) []document.Chunk {
	disease := CleanText(rec.Disease)
	description := CleanText(rec.Description)
	if disease == "" || description == "" {
		return nil
	}

	text := fmt.Sprintf("Disease: %s\n\nDescription: %s", disease, description)
	return []document.Chunk{{
		ID:   singleChunkID(document.DocTypeDiseaseDescription, originIndex),
		Text: text,
		Metadata: document.DiseaseDescriptionMeta{
			CommonMeta: commonMeta(document.DocTypeDiseaseDescription, SourceFileDiseaseDescriptions, originIndex),
			Disease:    disease,
		},
	}}
}

// BuildPrecaution は注意事項レコードを単一チャンクに変換する。
// 1レコード1事実の種別であり、分割は行わない。
func (b *Builder) BuildPrecaution(originIndex int, rec PrecautionRecord) []document.Chunk {
	disease := CleanText(rec.Disease)
	precautions := make([]string, 0, len(rec.Precautions))
	for _, p := range rec.Precautions {
		if cleaned := CleanText(p); cleaned != "" {
			precautions = append(precautions, cleaned)
		}
	}
	if disease == "" || len(precautions) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Disease: %s\n\nPrecautions:\n", disease)
	for i, p := range precautions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("• ")
		sb.WriteString(p)
	}

	return []document.Chunk{{
		ID:   singleChunkID(document.DocTypePrecaution, originIndex),
		Text: sb.String(),
		Metadata: document.PrecautionMeta{
			CommonMeta:      commonMeta(document.DocTypePrecaution, SourceFilePrecautions, originIndex),
			Disease:         disease,
			PrecautionCount: len(precautions),
		},
	}}
}

// BuildFAQ はQ&Aレコードを1つ以上のチャンクに変換する
func (b *Builder) BuildFAQ(originIndex int, rec FAQRecord) []document.Chunk {
	question := CleanText(rec.Question)
	answer := CleanText(rec.Answer)
	if question == "" || answer == "" {
		return nil
	}
	questionType := CleanText(rec.QuestionType)

	text := fmt.Sprintf("Q: %s\n\nA: %s", question, answer)
	pieces := ChunkText(text, b.maxLength, b.overlap)
	chunks := make([]document.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, document.Chunk{
			ID:   chunkID(document.DocTypeFAQ, originIndex, i),
			Text: piece,
			Metadata: document.FAQMeta{
				CommonMeta:   commonMeta(document.DocTypeFAQ, SourceFileFAQs, originIndex),
				ChunkIndex:   i,
				QuestionType: questionType,
			},
		})
	}
	return chunks
}

// BuildSymptomPattern は症状パターンレコードを単一チャンクに変換する
func (b *Builder) BuildSymptomPattern(originIndex int, rec SymptomPatternRecord) []document.Chunk {
	prognosis := CleanText(rec.Prognosis)
	symptoms := make([]string, 0, len(rec.Symptoms))
	for _, s := range rec.Symptoms {
		name := CleanText(strings.ReplaceAll(s, "_", " "))
		if name != "" {
			symptoms = append(symptoms, name)
		}
	}
	if prognosis == "" || len(symptoms) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Diagnosis: %s\n\nSymptoms:\n", prognosis)
	for i, s := range symptoms {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("• ")
		sb.WriteString(s)
	}
	fmt.Fprintf(&sb, "\n\nThis pattern of %d symptoms is associated with %s.", len(symptoms), prognosis)

	return []document.Chunk{{
		ID:   singleChunkID(document.DocTypeSymptomPattern, originIndex),
		Text: sb.String(),
		Metadata: document.SymptomPatternMeta{
			CommonMeta:   commonMeta(document.DocTypeSymptomPattern, SourceFileSymptomPatterns, originIndex),
			Diagnosis:    prognosis,
			SymptomCount: len(symptoms),
			Symptoms:     strings.Join(symptoms, ", "),
		},
	}}
}

// BuildMedicineBasic は医薬品基本レコードを単一チャンクに変換する
func (b *Builder) BuildMedicineBasic(originIndex int, rec MedicineBasicRecord) []document.Chunk {
	if strings.TrimSpace(rec.Name) == "" {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Medicine: %s\n\n", rec.Name)
	fmt.Fprintf(&sb, "Category: %s\n", rec.Category)
	fmt.Fprintf(&sb, "Dosage Form: %s\n", rec.DosageForm)
	fmt.Fprintf(&sb, "Strength: %s\n", rec.Strength)
	fmt.Fprintf(&sb, "Manufacturer: %s\n", rec.Manufacturer)
	fmt.Fprintf(&sb, "Indication: %s\n", rec.Indication)
	fmt.Fprintf(&sb, "Classification: %s\n\n", rec.Classification)
	fmt.Fprintf(&sb, "This %s medicine %s is available as %s with strength %s manufactured by %s. ",
		strings.ToLower(rec.Category), rec.Name, strings.ToLower(rec.DosageForm), rec.Strength, rec.Manufacturer)
	fmt.Fprintf(&sb, "It is indicated for %s and classified as %s.",
		strings.ToLower(rec.Indication), strings.ToLower(rec.Classification))

	return []document.Chunk{{
		ID:   singleChunkID(document.DocTypeMedicineBasic, originIndex),
		Text: sb.String(),
		Metadata: document.MedicineBasicMeta{
			CommonMeta:     commonMeta(document.DocTypeMedicineBasic, SourceFileMedicinesBasic, originIndex),
			MedicineName:   rec.Name,
			Category:       rec.Category,
			DosageForm:     rec.DosageForm,
			Strength:       rec.Strength,
			Manufacturer:   rec.Manufacturer,
			Indication:     rec.Indication,
			Classification: rec.Classification,
		},
	}}
}

// emptyDrugInteractions は相互作用情報が実質空のときにソースが吐く値
const emptyDrugInteractions = `{"drug": [], "brand": [], "effect": []}`

// BuildMedicineDetailed は医薬品詳細レコードを単一チャンクに変換する
func (b *Builder) BuildMedicineDetailed(originIndex int, rec MedicineDetailedRecord) []document.Chunk {
	if strings.TrimSpace(rec.Name) == "" {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Medicine: %s\n\n", rec.Name)
	if rec.Composition1 != "" {
		sb.WriteString("Composition: ")
		sb.WriteString(rec.Composition1)
		if rec.Composition2 != "" {
			sb.WriteString(" + ")
			sb.WriteString(rec.Composition2)
		}
		sb.WriteString("\n")
	}
	if rec.SaltComposition != "" {
		fmt.Fprintf(&sb, "Salt Composition: %s\n", rec.SaltComposition)
	}
	fmt.Fprintf(&sb, "Type: %s\n", rec.MedicineType)
	fmt.Fprintf(&sb, "Pack Size: %s\n", rec.PackSize)
	fmt.Fprintf(&sb, "Manufacturer: %s\n", rec.Manufacturer)
	fmt.Fprintf(&sb, "Price: ₹%s\n", strconv.FormatFloat(rec.Price, 'f', -1, 64))
	status := "Available"
	if rec.IsDiscontinued {
		status = "Discontinued"
	}
	fmt.Fprintf(&sb, "Status: %s\n\n", status)
	if rec.Description != "" {
		fmt.Fprintf(&sb, "Description:\n%s\n\n", rec.Description)
	}
	if rec.SideEffects != "" {
		fmt.Fprintf(&sb, "Side Effects: %s\n\n", rec.SideEffects)
	}
	if rec.DrugInteractions != "" && rec.DrugInteractions != emptyDrugInteractions {
		fmt.Fprintf(&sb, "Drug Interactions: %s\n", rec.DrugInteractions)
	}

	return []document.Chunk{{
		ID:   singleChunkID(document.DocTypeMedicineDetailed, originIndex),
		Text: strings.TrimRight(sb.String(), "\n"),
		Metadata: document.MedicineDetailedMeta{
			CommonMeta:     commonMeta(document.DocTypeMedicineDetailed, SourceFileMedicinesDetailed, originIndex),
			MedicineName:   rec.Name,
			Price:          rec.Price,
			IsDiscontinued: rec.IsDiscontinued,
			Manufacturer:   rec.Manufacturer,
			MedicineType:   rec.MedicineType,
			PackSize:       rec.PackSize,
			Composition:    rec.Composition1,
		},
	}}
}

// chunkID は分割されうる種別のチャンクIDを生成する
func chunkID(t document.DocType, originIndex, chunkIndex int) string {
	return fmt.Sprintf("%s%d_%d", t.Prefix(), originIndex, chunkIndex)
}

// singleChunkID は分割されない種別のチャンクIDを生成する
func singleChunkID(t document.DocType, originIndex int) string {
	return fmt.Sprintf("%s%d", t.Prefix(), originIndex)
}

func commonMeta(t document.DocType, sourceFile string, originIndex int) document.CommonMeta {
	return document.CommonMeta{
		Type:        t,
		Source:      sourceFile,
		OriginIndex: originIndex,
	}
}
