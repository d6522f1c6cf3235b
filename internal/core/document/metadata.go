package document

import (
	"encoding/json"
	"fmt"
)

// Metadata はドキュメント種別ごとの付帯情報を表す。
// 種別ごとに固有のフィールドを持つクローズドなバリアント型であり、
// オープンなマップでの属性アクセスは行わない。
type Metadata interface {
	DocType() DocType
	SourceFile() string
}

// CommonMeta は全種別に共通するメタデータ
type CommonMeta struct {
	Type        DocType `json:"type"`
	Source      string  `json:"source_file"`
	OriginIndex int     `json:"origin_index"`
}

// DocType はドキュメント種別を返す
func (m CommonMeta) DocType() DocType { return m.Type }

// SourceFile は取り込み元ファイル名を返す
func (m CommonMeta) SourceFile() string { return m.Source }

// DialogueMeta は会話例のメタデータ
type DialogueMeta struct {
	CommonMeta
	ChunkIndex    int    `json:"chunk_index"`
	SectionHeader string `json:"section_header,omitempty"`
}

// DiseaseDescriptionMeta は疾患説明のメタデータ
type DiseaseDescriptionMeta struct {
	CommonMeta
	Disease string `json:"disease"`
}

// PrecautionMeta は注意事項リストのメタデータ
type PrecautionMeta struct {
	CommonMeta
	Disease         string `json:"disease"`
	PrecautionCount int    `json:"precaution_count"`
}

// FAQMeta は医療Q&Aのメタデータ
type FAQMeta struct {
	CommonMeta
	ChunkIndex   int    `json:"chunk_index"`
	QuestionType string `json:"question_type,omitempty"`
}

// SymptomPatternMeta は症状パターンのメタデータ
type SymptomPatternMeta struct {
	CommonMeta
	Diagnosis    string `json:"diagnosis"`
	SymptomCount int    `json:"symptom_count"`
	Symptoms     string `json:"symptoms"`
}

// MedicineBasicMeta は医薬品基本情報のメタデータ
type MedicineBasicMeta struct {
	CommonMeta
	MedicineName   string `json:"medicine_name"`
	Category       string `json:"category"`
	DosageForm     string `json:"dosage_form"`
	Strength       string `json:"strength"`
	Manufacturer   string `json:"manufacturer"`
	Indication     string `json:"indication"`
	Classification string `json:"classification"`
}

// MedicineDetailedMeta は医薬品詳細情報のメタデータ
type MedicineDetailedMeta struct {
	CommonMeta
	MedicineName   string  `json:"medicine_name"`
	Price          float64 `json:"price"`
	IsDiscontinued bool    `json:"is_discontinued"`
	Manufacturer   string  `json:"manufacturer"`
	MedicineType   string  `json:"medicine_type"`
	PackSize       string  `json:"pack_size"`
	Composition    string  `json:"composition"`
}

// EncodeMetadata はメタデータをJSONにエンコードする
func EncodeMetadata(m Metadata) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("metadata is nil")
	}
	if !m.DocType().Valid() {
		return nil, fmt.Errorf("unknown document type: %s", m.DocType())
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return data, nil
}

// DecodeMetadata はJSONを種別タグに応じたバリアントにデコードする
func DecodeMetadata(data []byte) (Metadata, error) {
	var probe struct {
		Type DocType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to probe metadata type: %w", err)
	}

	var (
		meta Metadata
		err  error
	)
	switch probe.Type {
	case DocTypeDialogue:
		var m DialogueMeta
		err = json.Unmarshal(data, &m)
		meta = m
	case DocTypeDiseaseDescription:
		var m DiseaseDescriptionMeta
		err = json.Unmarshal(data, &m)
		meta = m
	case DocTypePrecaution:
		var m PrecautionMeta
		err = json.Unmarshal(data, &m)
		meta = m
	case DocTypeFAQ:
		var m FAQMeta
		err = json.Unmarshal(data, &m)
		meta = m
	case DocTypeSymptomPattern:
		var m SymptomPatternMeta
		err = json.Unmarshal(data, &m)
		meta = m
	case DocTypeMedicineBasic:
		var m MedicineBasicMeta
		err = json.Unmarshal(data, &m)
		meta = m
	case DocTypeMedicineDetailed:
		var m MedicineDetailedMeta
		err = json.Unmarshal(data, &m)
		meta = m
	default:
		return nil, fmt.Errorf("unknown document type: %q", probe.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s metadata: %w", probe.Type, err)
	}
	return meta, nil
}
