package ingestion

// DialogueRecord は医師・患者の会話データの1レコード
type DialogueRecord struct {
	Dialogue      string
	SectionText   string
	SectionHeader string
}

// DiseaseDescriptionRecord は疾患説明データの1レコード
type DiseaseDescriptionRecord struct {
	Disease     string
	Description string
}

// PrecautionRecord は疾患ごとの注意事項データの1レコード
type PrecautionRecord struct {
	Disease     string
	Precautions []string
}

// FAQRecord は医療Q&Aデータの1レコード
type FAQRecord struct {
	Question     string
	Answer       string
	QuestionType string
}

// SymptomPatternRecord は症状パターンデータの1レコード。
// Symptoms には陽性の症状名のみが入る。
type SymptomPatternRecord struct {
	Prognosis string
	Symptoms  []string
}

// MedicineBasicRecord は医薬品基本データの1レコード
type MedicineBasicRecord struct {
	Name           string
	Category       string
	DosageForm     string
	Strength       string
	Manufacturer   string
	Indication     string
	Classification string
}

// MedicineDetailedRecord は医薬品詳細データの1レコード
type MedicineDetailedRecord struct {
	Name             string
	Composition1     string
	Composition2     string
	SaltComposition  string
	MedicineType     string
	PackSize         string
	Manufacturer     string
	Price            float64
	IsDiscontinued   bool
	Description      string
	SideEffects      string
	DrugInteractions string
}

// Dataset は取り込み対象の全レコードを種別ごとに保持する
type Dataset struct {
	Dialogues           []DialogueRecord
	DiseaseDescriptions []DiseaseDescriptionRecord
	Precautions         []PrecautionRecord
	FAQs                []FAQRecord
	SymptomPatterns     []SymptomPatternRecord
	MedicinesBasic      []MedicineBasicRecord
	MedicinesDetailed   []MedicineDetailedRecord
}
