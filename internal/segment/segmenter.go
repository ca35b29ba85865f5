package segment

import (
	"context"
	"errors"
	"log/slog"

	"dictation/internal/domain"
)

// Segmenter turns free Chinese text into dictation sentences bounded by an
// ideographic size window. It is immutable and safe for concurrent use.
type Segmenter struct {
	cfg Config
	tok domain.Tokenizer
	log *slog.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithTokenizer sets the word segmentation used to find cut points. Without
// one, cuts fall back to punctuation and character offsets.
func WithTokenizer(t domain.Tokenizer) Option {
	return func(s *Segmenter) { s.tok = t }
}

// WithLogger sets the slog.Logger used to trace split decisions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Segmenter) { s.log = l }
}

// New validates cfg and returns a Segmenter.
func New(cfg Config, opts ...Option) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAuto
	}
	s := &Segmenter{cfg: cfg, log: slog.Default()}
	for _, fn := range opts {
		fn(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s, nil
}

// Segment is the one-call pipeline. Without WithTokenizer among opts, cuts
// use punctuation and character offsets only. Logging is discarded unless
// opts set a logger.
func Segment(text string, maxLen, minLen int, opts ...Option) ([]string, error) {
	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	s, err := New(Config{MaxLen: maxLen, MinLen: minLen, Strategy: StrategyAuto}, opts...)
	if err != nil {
		return nil, err
	}
	return s.Segment(text), nil
}

// Config returns the thresholds the segmenter was built with.
func (s *Segmenter) Config() Config { return s.cfg }

// TokenizerName returns the name of the configured tokenizer, or "none".
func (s *Segmenter) TokenizerName() string {
	if s.tok == nil {
		return "none"
	}
	return s.tok.Name()
}

// With returns a copy of s using cfg and the same tokenizer and logger.
func (s *Segmenter) With(cfg Config) (*Segmenter, error) {
	return New(cfg, WithTokenizer(s.tok), WithLogger(s.log))
}

// Segment splits text at sentence punctuation and then bounds every sentence
// longer than max. Empty input yields an empty, non-nil slice.
func (s *Segmenter) Segment(text string) []string {
	out := []string{}
	for _, sentence := range SplitPunctuation(text) {
		if HanziCount(sentence) <= s.cfg.MaxLen {
			out = append(out, sentence)
			continue
		}
		out = append(out, s.SplitLong(sentence)...)
	}
	return out
}

// SplitLong bounds a single sentence. Sentences within max come back as is.
// The auto strategy first cuts after every internal clause mark that leaves
// pieces of at least min, then bounds each piece still over max. A piece that
// cannot be cut without going under min comes back unsplit.
func (s *Segmenter) SplitLong(sentence string) []string {
	if HanziCount(sentence) <= s.cfg.MaxLen {
		return []string{sentence}
	}
	if s.cfg.Strategy == StrategyFallback {
		return splitRecursive(sentence, s.cfg, s.log, s.offsetCut)
	}

	clauses := splitAtMarks(sentence, s.cfg)
	if len(clauses) > 1 {
		s.log.Debug("sentence split at marks",
			slog.Int("hanzi", HanziCount(sentence)),
			slog.Int("pieces", len(clauses)),
		)
	}
	var out []string
	for _, clause := range clauses {
		out = append(out, splitRecursive(clause, s.cfg, s.log, s.chooseCut)...)
	}
	return out
}

func (s *Segmenter) offsetCut(rs []rune, total int) (int, string, bool) {
	return offsetCut(rs, total, s.cfg)
}

// chooseCut tries the clause mark nearest the target first, then word
// boundaries, then the character offset. Marks only remain inside a piece
// when a clause was too short to stand alone.
func (s *Segmenter) chooseCut(rs []rune, total int) (int, string, bool) {
	lo, hi, ok := s.cfg.window(total)
	if !ok {
		return 0, "", false
	}
	target := s.cfg.target(total)

	if b, ok := nearest(punctuationBoundaries(rs), target, lo, hi); ok {
		return b.cut, methodPunctuation, true
	}
	if bs, ok := s.wordBoundaries(rs); ok {
		if b, ok := nearest(bs, target, lo, hi); ok {
			return b.cut, methodWord, true
		}
	}
	return offsetCut(rs, total, s.cfg)
}

func (s *Segmenter) wordBoundaries(rs []rune) ([]boundary, bool) {
	if s.tok == nil {
		return nil, false
	}
	tokens, err := s.tok.Tokenize(string(rs))
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, domain.ErrTokenizerUnavailable) {
			level = slog.LevelDebug
		}
		s.log.Log(context.Background(), level, "word boundaries unavailable",
			slog.String("tokenizer", s.tok.Name()),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	bs, ok := tokenBoundaries(tokens, rs)
	if !ok {
		s.log.Debug("tokens do not match text", slog.String("tokenizer", s.tok.Name()))
	}
	return bs, ok
}
