package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShortTextReturnedAsIs(t *testing.T) {
	text := "A short medical note."
	chunks := ChunkText(text, DefaultMaxChunkLength, DefaultChunkOverlap)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkTextExactLengthReturnedAsIs(t *testing.T) {
	text := strings.Repeat("a", 512)
	chunks := ChunkText(text, 512, 50)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkTextCutsAtSentenceBoundary(t *testing.T) {
	// 中間点（10）ちょうどに文末記号があるため、記号を含めて切られる
	text := "abcdefghij. klmnopqrstuvwxyz"
	chunks := ChunkText(text, 20, 5)

	require.Equal(t, []string{
		"abcdefghij.",
		"ghij. klmnopqrstuvwx",
		"tuvwxyz",
	}, chunks)
}

func TestChunkTextFallsBackToWindowBoundary(t *testing.T) {
	// 文末記号が一切ないため、各チャンクはウィンドウ境界で切られる
	text := strings.Repeat("abcde", 10) // 50 runes
	chunks := ChunkText(text, 20, 5)

	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 20)
	}
	assert.Equal(t, "abcdeabcdeabcdeabcde", chunks[0])
}

func TestChunkTextOverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("word ", 300) // 1500 runes
	chunks := ChunkText(text, DefaultMaxChunkLength, DefaultChunkOverlap)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		// 前チャンクの末尾とオーバーラップ領域が共有される
		tail := strings.TrimSpace(string(prev[len(prev)-DefaultChunkOverlap:]))
		assert.True(t, strings.HasPrefix(chunks[i], tail[:10]),
			"chunk %d should start within the overlap of chunk %d", i, i-1)
	}
}

func TestChunkTextNoChunkExceedsMaxLength(t *testing.T) {
	text := strings.Repeat("The patient presents with fever and cough. ", 50)
	chunks := ChunkText(text, DefaultMaxChunkLength, DefaultChunkOverlap)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), DefaultMaxChunkLength, "chunk %d", i)
		assert.NotEmpty(t, c)
	}
}

func TestChunkTextLargeOverlapTerminates(t *testing.T) {
	// 中間点での境界カットにより maxLength より大幅に短いチャンクができ、
	// overlap がそのチャンク長を上回るケース。開始位置は後退せず必ず前進する。
	text := "abcdefghij. " + strings.Repeat("x", 100)

	require.NotPanics(t, func() {
		chunks := ChunkText(text, 20, 15)

		require.NotEmpty(t, chunks)
		assert.Equal(t, "abcdefghij.", chunks[0])
		for i, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c)), 20, "chunk %d", i)
			assert.NotEmpty(t, c, "chunk %d", i)
		}
		// 末尾まで到達している（テキスト全体がカバーされる）
		last := chunks[len(chunks)-1]
		assert.True(t, strings.HasSuffix(text, last))
	})
}

func TestChunkTextLargeOverlapCoversFullText(t *testing.T) {
	// overlap < maxLength を満たす全域で、各チャンク開始位置は単調増加し
	// テキスト全体を取りこぼさない
	text := strings.TrimSpace("The flu causes fever. Rest is advised. " + strings.Repeat("Drink fluids often. ", 10))
	for _, overlap := range []int{10, 15, 19} {
		chunks := ChunkText(text, 20, overlap)

		require.NotEmpty(t, chunks, "overlap %d", overlap)
		assert.True(t, strings.HasPrefix(text, chunks[0]), "overlap %d", overlap)
		assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]), "overlap %d", overlap)
	}
}

func TestChunkTextMultiByteSafe(t *testing.T) {
	text := strings.Repeat("患者は発熱と咳を訴えている。", 100)
	chunks := ChunkText(text, DefaultMaxChunkLength, DefaultChunkOverlap)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.True(t, utf8ValidString(c), "chunk must not split a rune")
		assert.LessOrEqual(t, len([]rune(c)), DefaultMaxChunkLength)
	}
}

func utf8ValidString(s string) bool {
	return strings.ToValidUTF8(s, "�") == s
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"空文字列", "", ""},
		{"連続空白の畳み込み", "fever   and \t\n cough", "fever and cough"},
		{"許可された記号は残る", "Q: What is (acute) flu? Yes, it is!", "Q: What is (acute) flu? Yes, it is!"},
		{"不要な記号は除去", "fever* & cough #3", "fever cough 3"},
		{"前後の空白を除去", "  chest pain  ", "chest pain"},
		{"非ASCII文字は保持", "発熱と咳", "発熱と咳"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
