package segment

import (
	"log/slog"
	"strings"
)

const (
	methodPunctuation = "punctuation"
	methodWord        = "word"
	methodOffset      = "offset"
)

// boundary is a candidate cut: a rune offset and the ideographs before it.
type boundary struct {
	cut   int
	hanzi int
}

// cutFunc picks where to cut body, which holds total ideographs.
type cutFunc func(body []rune, total int) (cut int, method string, ok bool)

// splitRecursive cuts sentence in two with choose and recurses on the
// remainder until every piece fits max or no cut respects the floor. The
// trailing mark of sentence only ever ends the last piece.
func splitRecursive(sentence string, cfg Config, log *slog.Logger, choose cutFunc) []string {
	if HanziCount(sentence) <= cfg.MaxLen {
		return []string{sentence}
	}

	body, mark := stripTrailingMark(sentence)
	rs := []rune(body)
	total := HanziCount(body)

	cut, method, ok := choose(rs, total)
	if !ok || cut <= 0 || cut >= len(rs) {
		log.Debug("sentence left unsplit",
			slog.Int("hanzi", total),
			slog.Int("max_len", cfg.MaxLen),
			slog.Int("min_len", cfg.MinLen),
		)
		return []string{sentence}
	}

	head := strings.TrimSpace(string(rs[:cut]))
	tail := strings.TrimSpace(string(rs[cut:])) + mark
	log.Debug("sentence split",
		slog.String("method", method),
		slog.Int("cut", cut),
		slog.Int("hanzi", total),
		slog.Int("head_hanzi", HanziCount(head)),
	)

	if HanziCount(tail) > cfg.MaxLen {
		return append([]string{head}, splitRecursive(tail, cfg, log, choose)...)
	}
	return []string{head, tail}
}

// splitAtMarks cuts sentence after every internal clause mark. A clause
// holding fewer than min ideographs runs on into the next one, and a short
// final clause joins the piece before it. The trailing mark of sentence stays
// on the last piece.
func splitAtMarks(sentence string, cfg Config) []string {
	body, mark := stripTrailingMark(sentence)
	rs := []rune(body)
	floor := max(cfg.MinLen, 1)

	var cuts []int
	prev := 0
	for _, b := range punctuationBoundaries(rs) {
		if b.hanzi-prev < floor {
			continue
		}
		cuts = append(cuts, b.cut)
		prev = b.hanzi
	}
	if len(cuts) > 0 && HanziCount(body)-prev < floor {
		cuts = cuts[:len(cuts)-1]
	}
	if len(cuts) == 0 {
		return []string{sentence}
	}

	pieces := make([]string, 0, len(cuts)+1)
	start := 0
	for _, cut := range cuts {
		pieces = append(pieces, strings.TrimSpace(string(rs[start:cut])))
		start = cut
	}
	return append(pieces, strings.TrimSpace(string(rs[start:]))+mark)
}

// nearest returns the boundary inside [lo, hi] closest to target. Ties go to
// the earlier boundary.
func nearest(bs []boundary, target, lo, hi int) (boundary, bool) {
	var best boundary
	bestDist := -1
	for _, b := range bs {
		if b.hanzi < lo || b.hanzi > hi {
			continue
		}
		d := b.hanzi - target
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, bestDist >= 0
}

// punctuationBoundaries lists the offsets right after clause marks inside rs.
// A run of marks yields one boundary, after its last mark.
func punctuationBoundaries(rs []rune) []boundary {
	var bs []boundary
	n := 0
	for i, r := range rs {
		if IsHanzi(r) {
			n++
		}
		if !isClauseMark(r) || i == len(rs)-1 || isClauseMark(rs[i+1]) {
			continue
		}
		bs = append(bs, boundary{cut: i + 1, hanzi: n})
	}
	return bs
}

// tokenBoundaries turns tokens into cut candidates over rs. ok is false when
// the tokens do not spell rs exactly, since offsets would be meaningless.
func tokenBoundaries(tokens []string, rs []rune) ([]boundary, bool) {
	var (
		bs     []boundary
		joined strings.Builder
		cut, n int
	)
	for _, tok := range tokens {
		joined.WriteString(tok)
		for _, r := range tok {
			cut++
			if IsHanzi(r) {
				n++
			}
		}
		if cut > 0 && cut < len(rs) {
			bs = append(bs, boundary{cut: cut, hanzi: n})
		}
	}
	if joined.String() != string(rs) {
		return nil, false
	}
	return bs, true
}

// offsetCut is the character-offset cut: right after the ideograph that
// reaches the target, moved left by min when the remainder would be too
// short, and finally clamped into the feasible window.
func offsetCut(rs []rune, total int, cfg Config) (int, string, bool) {
	lo, hi, ok := cfg.window(total)
	if !ok {
		return 0, methodOffset, false
	}

	n := cfg.target(total)
	if total-n < cfg.MinLen && n > 2*cfg.MinLen {
		n -= cfg.MinLen
	}
	if n < lo {
		n = lo
	} else if n > hi {
		n = hi
	}

	return cutAfterHanzi(rs, n), methodOffset, true
}

// SplitFallback splits an overlong sentence at computed character offsets
// only, without looking at punctuation or words.
func SplitFallback(sentence string, cfg Config) []string {
	return splitRecursive(sentence, cfg, slog.New(slog.DiscardHandler), func(rs []rune, total int) (int, string, bool) {
		return offsetCut(rs, total, cfg)
	})
}
