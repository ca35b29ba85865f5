package segment

import (
	"strings"
	"unicode/utf8"
)

// isSentenceEnder reports the marks that close a natural sentence.
func isSentenceEnder(r rune) bool {
	switch r {
	case '。', '？', '；', '：', '，':
		return true
	default:
		return false
	}
}

// isClauseMark reports the marks an overlong sentence may be cut after.
func isClauseMark(r rune) bool {
	switch r {
	case '，', '。', '？', '！', '；', '：', '、':
		return true
	default:
		return false
	}
}

// SplitPunctuation splits text into natural sentences, cutting right after
// each of 。？；：， so every piece keeps its mark. Pieces are trimmed and
// empty ones dropped. Length is never inspected.
func SplitPunctuation(text string) []string {
	var sentences []string
	start := 0

	for i, r := range text {
		if !isSentenceEnder(r) {
			continue
		}
		end := i + utf8.RuneLen(r)
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	// Trailing text after the last mark (if any).
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

// stripTrailingMark removes one sentence ender from the end of s and returns
// it separately so it can be re-attached to the last piece.
func stripTrailingMark(s string) (body, mark string) {
	r, size := utf8.DecodeLastRuneInString(s)
	if size == 0 || !isSentenceEnder(r) {
		return s, ""
	}
	return s[:len(s)-size], s[len(s)-size:]
}
