package ingestion

import (
	"regexp"
	"strings"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	// 医療文で意味を持つ句読点・記号は残し、それ以外の記号を落とす
	disallowedPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s.,?!:;\-()]`)
)

// CleanText はテキストを埋め込みに適した形に正規化する。
// 連続する空白類を単一スペースに畳み、制御文字や不要な記号を除去する。
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	cleaned := disallowedPattern.ReplaceAllString(text, " ")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
