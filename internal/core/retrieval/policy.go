package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/mo"

	"github.com/jinford/med-rag/internal/core/document"
)

// Searcher は Policy が利用する類似検索インターフェース
type Searcher interface {
	Search(ctx context.Context, query string, limit int, filter mo.Option[[]document.DocType]) ([]Match, error)
}

// treatmentKeywords は治療・投薬に関する質問を判定するキーワード集合。
// 単純な部分一致による判定であり、分類器ではない。
var treatmentKeywords = []string{
	"medicine",
	"medication",
	"drug",
	"treatment",
	"relief",
	"cure",
	"tablet",
	"syrup",
	"prescription",
	"dosage",
}

// 検索の固定件数。会話例は常に先頭に置かれ、回答のトーンを決める。
const (
	dialogueResultCount      = 3
	medicineResultCount      = 3
	treatmentRefResultCount  = 2
	generalRefResultCount    = 4
	symptomAdviceResultCount = 7
)

// Policy はユーザーの質問を、優先順位付きのフィルタ検索の列に変換する。
// 結果は呼び出し順に連結され、スコアによる再ランキングは行わない
// （会話例が常に先頭に来ることを保証するため、提示順はポリシーが決める）。
type Policy struct {
	searcher Searcher
	logger   *slog.Logger
}

// PolicyOption は Policy のオプション設定
type PolicyOption func(*Policy)

// WithPolicyLogger は Policy にロガーを設定する
func WithPolicyLogger(logger *slog.Logger) PolicyOption {
	return func(p *Policy) {
		p.logger = logger
	}
}

// NewPolicy は新しい Policy を作成する
func NewPolicy(searcher Searcher, opts ...PolicyOption) *Policy {
	p := &Policy{
		searcher: searcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsTreatmentQuery は質問が治療・投薬に関するものかを判定する
func IsTreatmentQuery(question string) bool {
	lowered := strings.ToLower(question)
	for _, kw := range treatmentKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Plan は質問に対する検索計画を実行し、結果を呼び出し順に連結して返す。
//   - 会話例（3件）は質問内容によらず常に先頭
//   - 治療系の質問: 医薬品（3件）+ 参照情報 {faq, symptom_pattern, precaution}（2件）
//   - それ以外: 参照情報 {faq, symptom_pattern, precaution, disease_description}（4件）
//
// 個々のサブ検索の失敗は他の検索を中断しない。部分的な文脈は
// 文脈ゼロより常に望ましい。
func (p *Policy) Plan(ctx context.Context, question string) []Match {
	matches := p.search(ctx, question, dialogueResultCount,
		[]document.DocType{document.DocTypeDialogue})

	if IsTreatmentQuery(question) {
		p.logger.Debug("treatment query detected", "question", question)
		matches = append(matches, p.search(ctx, question, medicineResultCount,
			[]document.DocType{document.DocTypeMedicineBasic, document.DocTypeMedicineDetailed})...)
		matches = append(matches, p.search(ctx, question, treatmentRefResultCount,
			[]document.DocType{document.DocTypeFAQ, document.DocTypeSymptomPattern, document.DocTypePrecaution})...)
		return matches
	}

	matches = append(matches, p.search(ctx, question, generalRefResultCount,
		[]document.DocType{
			document.DocTypeFAQ,
			document.DocTypeSymptomPattern,
			document.DocTypePrecaution,
			document.DocTypeDiseaseDescription,
		})...)
	return matches
}

// PlanSymptomAdvice は症状相談向けの検索計画を実行する。
// 治療キーワードによる分岐は行わず、症状関連の種別に限定した
// 7件の検索を会話例に続けて発行する。
func (p *Policy) PlanSymptomAdvice(ctx context.Context, question string) []Match {
	matches := p.search(ctx, question, dialogueResultCount,
		[]document.DocType{document.DocTypeDialogue})
	matches = append(matches, p.search(ctx, question, symptomAdviceResultCount,
		[]document.DocType{
			document.DocTypeSymptomPattern,
			document.DocTypeDiseaseDescription,
			document.DocTypePrecaution,
			document.DocTypeFAQ,
		})...)
	return matches
}

// search はサブ検索を実行し、失敗をログに記録して空の結果に縮退させる
func (p *Policy) search(ctx context.Context, query string, limit int, types []document.DocType) []Match {
	matches, err := p.searcher.Search(ctx, query, limit, mo.Some(types))
	if err != nil {
		p.logger.Warn("retrieval sub-call failed, continuing with partial context",
			"types", types,
			"error", err,
		)
		return nil
	}
	return matches
}
