package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/med-rag/internal/core/document"
)

// searchCall は recordingSearcher が記録する1回の検索呼び出し
type searchCall struct {
	query string
	limit int
	types []document.DocType
}

// recordingSearcher は呼び出しを記録し、種別ごとに固定の結果を返す
type recordingSearcher struct {
	calls   []searchCall
	results map[document.DocType][]Match
	failOn  document.DocType
}

func (s *recordingSearcher) Search(_ context.Context, query string, limit int, filter mo.Option[[]document.DocType]) ([]Match, error) {
	types := filter.OrElse(nil)
	s.calls = append(s.calls, searchCall{query: query, limit: limit, types: types})

	var matches []Match
	for _, t := range types {
		if t == s.failOn {
			return nil, fmt.Errorf("sub-call failed for %s", t)
		}
		matches = append(matches, s.results[t]...)
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func matchOf(t document.DocType, id string) Match {
	return Match{
		ID:       id,
		Text:     "text for " + id,
		Metadata: document.CommonMeta{Type: t},
	}
}

func TestIsTreatmentQuery(t *testing.T) {
	assert.True(t, IsTreatmentQuery("What medicine should I take?"))
	assert.True(t, IsTreatmentQuery("Recommended DOSAGE for children"))
	assert.True(t, IsTreatmentQuery("any cure for cold"))
	assert.False(t, IsTreatmentQuery("I have a headache and fever"))
	assert.False(t, IsTreatmentQuery("what are flu symptoms"))
}

func TestPlanGeneralQuery(t *testing.T) {
	searcher := &recordingSearcher{
		results: map[document.DocType][]Match{
			document.DocTypeDialogue: {matchOf(document.DocTypeDialogue, "dialogue_0_0")},
			document.DocTypeFAQ:      {matchOf(document.DocTypeFAQ, "faq_0_0")},
		},
	}
	p := NewPolicy(searcher)

	matches := p.Plan(context.Background(), "I have a fever")

	require.Len(t, searcher.calls, 2)

	// 会話例の検索が常に最初
	assert.Equal(t, 3, searcher.calls[0].limit)
	assert.Equal(t, []document.DocType{document.DocTypeDialogue}, searcher.calls[0].types)

	// 一般参照情報は4件、4種別から
	assert.Equal(t, 4, searcher.calls[1].limit)
	assert.Equal(t, []document.DocType{
		document.DocTypeFAQ,
		document.DocTypeSymptomPattern,
		document.DocTypePrecaution,
		document.DocTypeDiseaseDescription,
	}, searcher.calls[1].types)

	// 結果は呼び出し順に連結される（会話例が先頭）
	require.Len(t, matches, 2)
	assert.Equal(t, "dialogue_0_0", matches[0].ID)
	assert.Equal(t, "faq_0_0", matches[1].ID)
}

func TestPlanTreatmentQuery(t *testing.T) {
	searcher := &recordingSearcher{results: map[document.DocType][]Match{}}
	p := NewPolicy(searcher)

	p.Plan(context.Background(), "What medicine helps with fever?")

	require.Len(t, searcher.calls, 3)

	assert.Equal(t, []document.DocType{document.DocTypeDialogue}, searcher.calls[0].types)
	assert.Equal(t, 3, searcher.calls[0].limit)

	assert.Equal(t, []document.DocType{document.DocTypeMedicineBasic, document.DocTypeMedicineDetailed}, searcher.calls[1].types)
	assert.Equal(t, 3, searcher.calls[1].limit)

	assert.Equal(t, []document.DocType{document.DocTypeFAQ, document.DocTypeSymptomPattern, document.DocTypePrecaution}, searcher.calls[2].types)
	assert.Equal(t, 2, searcher.calls[2].limit)
}

func TestPlanOrderIsPolicyNotScore(t *testing.T) {
	// 参照情報の方が高い類似度でも、会話例が先頭に来る
	searcher := &recordingSearcher{
		results: map[document.DocType][]Match{
			document.DocTypeDialogue: {{ID: "dialogue_0_0", Metadata: document.CommonMeta{Type: document.DocTypeDialogue}, Similarity: 0.1}},
			document.DocTypeFAQ:      {{ID: "faq_0_0", Metadata: document.CommonMeta{Type: document.DocTypeFAQ}, Similarity: 0.99}},
		},
	}
	p := NewPolicy(searcher)

	matches := p.Plan(context.Background(), "I have a fever")
	require.Len(t, matches, 2)
	assert.Equal(t, "dialogue_0_0", matches[0].ID)
}

func TestPlanToleratesSubCallFailure(t *testing.T) {
	searcher := &recordingSearcher{
		results: map[document.DocType][]Match{
			document.DocTypeFAQ: {matchOf(document.DocTypeFAQ, "faq_0_0")},
		},
		failOn: document.DocTypeDialogue,
	}
	p := NewPolicy(searcher)

	matches := p.Plan(context.Background(), "I have a fever")

	// 会話例の検索が失敗しても参照情報は返る
	require.Len(t, matches, 1)
	assert.Equal(t, "faq_0_0", matches[0].ID)
}

func TestPlanSymptomAdvice(t *testing.T) {
	searcher := &recordingSearcher{results: map[document.DocType][]Match{}}
	p := NewPolicy(searcher)

	// 治療キーワードを含んでいても分岐しない
	p.PlanSymptomAdvice(context.Background(), "symptoms: fever, need medicine")

	require.Len(t, searcher.calls, 2)
	assert.Equal(t, []document.DocType{document.DocTypeDialogue}, searcher.calls[0].types)
	assert.Equal(t, 3, searcher.calls[0].limit)

	assert.Equal(t, []document.DocType{
		document.DocTypeSymptomPattern,
		document.DocTypeDiseaseDescription,
		document.DocTypePrecaution,
		document.DocTypeFAQ,
	}, searcher.calls[1].types)
	assert.Equal(t, 7, searcher.calls[1].limit)
}
