package vocab

import (
	"errors"
	"sort"
	"strings"

	"dictation/internal/domain"
	"dictation/internal/segment"
)

// DefaultMaxWords is used when Extract is called with a non-positive limit.
const DefaultMaxWords = 10

// FrequencyExtractor ranks the words of a text by how often they occur
// (stopwords filtered). Only tokens made entirely of two or more ideographs
// are candidates.
type FrequencyExtractor struct {
	tok       domain.Tokenizer
	stopwords map[string]struct{}
}

// NewFrequencyExtractor creates a frequency-based vocabulary extractor.
func NewFrequencyExtractor(tok domain.Tokenizer) *FrequencyExtractor {
	return &FrequencyExtractor{
		tok:       tok,
		stopwords: defaultStopwords(),
	}
}

// Extract returns up to maxWords distinct words, most frequent first. Ties
// keep the order of first occurrence.
func (e *FrequencyExtractor) Extract(text string, maxWords int) ([]string, error) {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if e.tok == nil {
		return nil, domain.ErrTokenizerUnavailable
	}
	tokens, err := e.tok.Tokenize(text)
	if err != nil {
		if errors.Is(err, domain.ErrTokenizerUnavailable) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrTokenizerUnavailable, err)
	}

	// Count word frequencies
	type entry struct {
		word  string
		first int
		count int
	}
	index := map[string]int{}
	var entries []entry
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if !e.candidate(tok) {
			continue
		}
		if i, ok := index[tok]; ok {
			entries[i].count++
			continue
		}
		index[tok] = len(entries)
		entries = append(entries, entry{word: tok, first: len(entries), count: 1})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].first < entries[j].first
	})
	if maxWords > len(entries) {
		maxWords = len(entries)
	}
	out := make([]string, 0, maxWords)
	for _, en := range entries[:maxWords] {
		out = append(out, en.word)
	}
	return out, nil
}

func (e *FrequencyExtractor) candidate(tok string) bool {
	n := segment.HanziCount(tok)
	if n < 2 || n != len([]rune(tok)) {
		return false
	}
	_, stop := e.stopwords[tok]
	return !stop
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"我们", "你们", "他们", "她们", "它们", "自己", "这个", "那个", "这些", "那些", "这里", "那里", "这样", "那样", "什么", "怎么", "为什么", "因为", "所以", "但是", "可是", "而且", "然后", "如果", "虽然", "就是", "还是", "或者", "已经", "一个", "一些", "一样", "没有", "不是", "可以", "应该", "时候", "现在", "的话", "之后", "之前", "以后", "以前", "非常", "觉得", "知道",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
