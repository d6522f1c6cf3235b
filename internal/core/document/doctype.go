package document

// DocType は知識ベースに格納するドキュメント種別を表す
type DocType string

const (
	// DocTypeDialogue は医師と患者の会話例
	DocTypeDialogue DocType = "dialogue"
	// DocTypeDiseaseDescription は疾患の説明文
	DocTypeDiseaseDescription DocType = "disease_description"
	// DocTypePrecaution は疾患ごとの予防・注意事項リスト
	DocTypePrecaution DocType = "precaution"
	// DocTypeFAQ は医療Q&A
	DocTypeFAQ DocType = "faq"
	// DocTypeSymptomPattern は症状パターンと診断の対応
	DocTypeSymptomPattern DocType = "symptom_pattern"
	// DocTypeMedicineBasic は医薬品の基本情報
	DocTypeMedicineBasic DocType = "medicine_basic"
	// DocTypeMedicineDetailed は医薬品の詳細情報（価格・副作用など）
	DocTypeMedicineDetailed DocType = "medicine_detailed"
)

// AllDocTypes は全ドキュメント種別を定義順で返す
func AllDocTypes() []DocType {
	return []DocType{
		DocTypeDialogue,
		DocTypeDiseaseDescription,
		DocTypePrecaution,
		DocTypeFAQ,
		DocTypeSymptomPattern,
		DocTypeMedicineBasic,
		DocTypeMedicineDetailed,
	}
}

// Valid は既知のドキュメント種別かどうかを判定する
func (t DocType) Valid() bool {
	switch t {
	case DocTypeDialogue,
		DocTypeDiseaseDescription,
		DocTypePrecaution,
		DocTypeFAQ,
		DocTypeSymptomPattern,
		DocTypeMedicineBasic,
		DocTypeMedicineDetailed:
		return true
	}
	return false
}

// Prefix はドキュメントID生成に使う種別接頭辞を返す
func (t DocType) Prefix() string {
	switch t {
	case DocTypeDialogue:
		return "dialogue_"
	case DocTypeDiseaseDescription:
		return "disease_desc_"
	case DocTypePrecaution:
		return "precaution_"
	case DocTypeFAQ:
		return "faq_"
	case DocTypeSymptomPattern:
		return "symptom_"
	case DocTypeMedicineBasic:
		return "medicine_basic_"
	case DocTypeMedicineDetailed:
		return "medicine_detailed_"
	}
	return string(t) + "_"
}

// Label はコンテキスト整形で使う人間可読な種別名を返す
func (t DocType) Label() string {
	switch t {
	case DocTypeDialogue:
		return "Dialogue"
	case DocTypeDiseaseDescription:
		return "Disease Description"
	case DocTypePrecaution:
		return "Precaution"
	case DocTypeFAQ:
		return "FAQ"
	case DocTypeSymptomPattern:
		return "Symptom Pattern"
	case DocTypeMedicineBasic:
		return "Medicine Basic"
	case DocTypeMedicineDetailed:
		return "Medicine Detailed"
	}
	return string(t)
}
