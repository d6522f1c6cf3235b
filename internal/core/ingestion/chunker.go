package ingestion

import (
	"strings"
)

const (
	// DefaultMaxChunkLength はチャンクの最大文字数
	DefaultMaxChunkLength = 512
	// DefaultChunkOverlap は連続するチャンク間のオーバーラップ文字数
	DefaultChunkOverlap = 50
)

// ChunkText はテキストを文境界を考慮して最大長以下のチャンクに分割する。
// 前提条件: text は非空、overlap < maxLength。
//
// 分割ルール:
//   - テキスト全体が maxLength 以下なら、そのまま1チャンクとして返す
//   - ウィンドウ末尾から後方に文末記号（. ? !）を探し、見つかった位置が
//     ウィンドウ中間点以降であればそこで（記号を含めて）切る
//   - 中間点より前にしか記号がなければウィンドウ境界で切る
//     （境界探索の失敗で極端に短いチャンクは作らない）
//   - 次のウィンドウは直前のチャンク終端から overlap 文字戻った位置から始まる
//   - 残りがウィンドウに収まった時点で、末尾の残りをそのまま最終チャンクにする
func ChunkText(text string, maxLength, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + maxLength
		if end >= len(runes) {
			// 残り全体が収まるので境界探索はしない
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		window := runes[start:end]
		if boundary := lastSentenceBoundary(window); boundary >= maxLength/2 {
			end = start + boundary + 1
		}

		chunks = append(chunks, strings.TrimSpace(string(runes[start:end])))

		// 境界カットでチャンクが overlap より短くなっても必ず前進させる
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// lastSentenceBoundary はウィンドウ内で最後に現れる文末記号の位置を返す。
// 見つからない場合は -1 を返す。
func lastSentenceBoundary(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '?', '!':
			return i
		}
	}
	return -1
}
