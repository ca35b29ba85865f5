package segment

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dictation/internal/domain"
)

// fakeTokenizer returns canned tokens per input text.
type fakeTokenizer struct {
	tokens map[string][]string
	err    error
}

func (f fakeTokenizer) Name() string { return "fake" }

func (f fakeTokenizer) Tokenize(text string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if toks, ok := f.tokens[text]; ok {
		return toks, nil
	}
	// One token per rune keeps every offset available.
	var out []string
	for _, r := range text {
		out = append(out, string(r))
	}
	return out, nil
}

func newTestSegmenter(t *testing.T, cfg Config, opts ...Option) *Segmenter {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "min equals max", cfg: Config{MaxLen: 5, MinLen: 5}},
		{name: "zero min", cfg: Config{MaxLen: 3, MinLen: 0}},
		{name: "fallback strategy", cfg: Config{MaxLen: 15, MinLen: 5, Strategy: StrategyFallback}},
		{name: "zero max", cfg: Config{MaxLen: 0, MinLen: 0}, wantErr: true},
		{name: "negative min", cfg: Config{MaxLen: 15, MinLen: -1}, wantErr: true},
		{name: "min above max", cfg: Config{MaxLen: 4, MinLen: 5}, wantErr: true},
		{name: "unknown strategy", cfg: Config{MaxLen: 15, MinLen: 5, Strategy: "greedy"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestConfigTarget(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 14, cfg.target(16))
	assert.Equal(t, 14, cfg.target(20))
	assert.Equal(t, 12, cfg.target(21))
	assert.Equal(t, 12, cfg.target(25))
	assert.Equal(t, 15, cfg.target(26))
	assert.Equal(t, 15, cfg.target(100))

	small := Config{MaxLen: 2, MinLen: 1}
	assert.Equal(t, 1, small.target(4))
	assert.Equal(t, 1, small.target(8))
}

func TestConfigWindow(t *testing.T) {
	cfg := DefaultConfig()

	lo, hi, ok := cfg.window(16)
	assert.True(t, ok)
	assert.Equal(t, 5, lo)
	assert.Equal(t, 11, hi)

	lo, hi, ok = cfg.window(40)
	assert.True(t, ok)
	assert.Equal(t, 5, lo)
	assert.Equal(t, 15, hi)

	_, _, ok = Config{MaxLen: 6, MinLen: 5}.window(8)
	assert.False(t, ok)

	lo, _, ok = Config{MaxLen: 3, MinLen: 0}.window(4)
	assert.True(t, ok)
	assert.Equal(t, 1, lo)
}

func TestBoundsApply(t *testing.T) {
	ptr := func(v int) *int { return &v }
	base := DefaultConfig()

	tests := []struct {
		name   string
		bounds Bounds
		want   Config
	}{
		{name: "nothing set", bounds: Bounds{}, want: base},
		{name: "explicit zero min", bounds: Bounds{MinLen: ptr(0)}, want: Config{MaxLen: 15, MinLen: 0, Strategy: StrategyAuto}},
		{name: "max and zero min", bounds: Bounds{MaxLen: ptr(4), MinLen: ptr(0)}, want: Config{MaxLen: 4, MinLen: 0, Strategy: StrategyAuto}},
		{name: "wider max keeps min", bounds: Bounds{MaxLen: ptr(20)}, want: Config{MaxLen: 20, MinLen: 5, Strategy: StrategyAuto}},
		{name: "max under min halves it", bounds: Bounds{MaxLen: ptr(4)}, want: Config{MaxLen: 4, MinLen: 2, Strategy: StrategyAuto}},
		{name: "explicit min wins", bounds: Bounds{MaxLen: ptr(3), MinLen: ptr(4)}, want: Config{MaxLen: 3, MinLen: 4, Strategy: StrategyAuto}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bounds.Apply(base))
		})
	}

	assert.True(t, Bounds{}.IsZero())
	assert.False(t, Bounds{MinLen: ptr(0)}.IsZero())
}

func TestNew_rejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{MaxLen: 3, MinLen: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSegment_scenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "short sentence",
			text: "我很高兴。",
			want: []string{"我很高兴。"},
		},
		{
			name: "exactly fifteen ideographs",
			text: "这是一个恰好十五个汉字的短句子。",
			want: []string{"这是一个恰好十五个汉字的短句子。"},
		},
		{
			name: "sixteen ideographs split once",
			text: "这是一个恰好十六个汉字的更长句子。",
			want: []string{"这是一个恰好十六个", "汉字的更长句子。"},
		},
		{
			name: "thirty four ideographs without punctuation",
			text: "这是一个没有任何标点符号的非常长的句子需要被自动拆分成多个较短的部分",
			want: []string{"这是一个没有任何标点符号的非常", "长的句子需要被自动拆分成多个", "较短的部分"},
		},
		{
			name: "short natural sentence stays separate",
			text: "书包。这是一个非常长的句子需要被拆分。",
			want: []string{"书包。", "这是一个非常长的句子需要被拆分。"},
		},
		{
			name: "comma ends a natural sentence",
			text: "白日依山盡，黃河入海流；欲窮千里目，更上一層樓。",
			want: []string{"白日依山盡，", "黃河入海流；", "欲窮千里目，", "更上一層樓。"},
		},
		{
			name: "internal exclamation mark is preferred",
			text: "今天天气非常好！我们一起去公园散步吧。",
			want: []string{"今天天气非常好！", "我们一起去公园散步吧。"},
		},
		{
			name: "ideographic comma inside window is preferred",
			text: "青马大桥、疾驰的汽车、远眺的风景和俯瞰的海湾",
			want: []string{"青马大桥、疾驰的汽车、", "远眺的风景和俯瞰的海湾"},
		},
		{
			name: "every ideographic comma cuts",
			text: "甲乙丙丁戊己、庚辛壬癸子丑、寅卯辰巳午未",
			want: []string{"甲乙丙丁戊己、", "庚辛壬癸子丑、", "寅卯辰巳午未"},
		},
		{
			name: "short clause runs on into the next",
			text: "一二三、四五六七八九、十百千万亿兆京垓",
			want: []string{"一二三、四五六七八九、", "十百千万亿兆京垓"},
		},
		{
			name: "overlong clause is bounded after the mark cut",
			text: "我的书包很重！这是一个恰好十六个汉字的更长句子。",
			want: []string{"我的书包很重！", "这是一个恰好十六个", "汉字的更长句子。"},
		},
	}

	s := newTestSegmenter(t, DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Segment(tt.text))
		})
	}
}

func TestSegment_packageFunction(t *testing.T) {
	got, err := Segment("这是一个恰好十六个汉字的更长句子。", 15, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"这是一个恰好十六个", "汉字的更长句子。"}, got)

	_, err = Segment("你好", 5, 6)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSegment_packageFunctionWithTokenizer(t *testing.T) {
	tok := fakeTokenizer{tokens: map[string][]string{
		"这是一个恰好十六个汉字的更长句子": {"这是", "一个", "恰好", "十六个", "汉字", "的", "更长", "句子"},
	}}

	got, err := Segment("这是一个恰好十六个汉字的更长句子。", 15, 5, WithTokenizer(tok))
	require.NoError(t, err)
	assert.Equal(t, []string{"这是一个恰好十六个汉字", "的更长句子。"}, got)
}

func TestSplitLong_cutsAtEveryMark(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		text string
		want []string
	}{
		{
			name: "three clauses within bounds",
			cfg:  DefaultConfig(),
			text: "甲乙丙丁戊己、庚辛壬癸子丑、寅卯辰巳午未。",
			want: []string{"甲乙丙丁戊己、", "庚辛壬癸子丑、", "寅卯辰巳午未。"},
		},
		{
			name: "short final clause joins the previous piece",
			cfg:  DefaultConfig(),
			text: "甲乙丙丁戊己、庚辛壬癸子丑寅卯、辰巳。",
			want: []string{"甲乙丙丁戊己、", "庚辛壬癸子丑寅卯、辰巳。"},
		},
		{
			name: "zero min cuts at every mark",
			cfg:  Config{MaxLen: 4, MinLen: 0},
			text: "一、二三、四五六！七八",
			want: []string{"一、", "二三、", "四五六！", "七八"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSegmenter(t, tt.cfg, WithTokenizer(fakeTokenizer{}))
			assert.Equal(t, tt.want, s.SplitLong(tt.text))
		})
	}
}

func TestSplitLong_marksIgnoredWithinMax(t *testing.T) {
	s := newTestSegmenter(t, Config{MaxLen: 15, MinLen: 2})

	assert.Equal(t, []string{"青马大桥、疾驰的汽车"}, s.SplitLong("青马大桥、疾驰的汽车"))
}

func TestSplitLong_trailingMarkOnlyOnLastPiece(t *testing.T) {
	s := newTestSegmenter(t, DefaultConfig())

	got := s.SplitLong("这是一个没有任何标点符号的非常长的句子需要被自动拆分成多个较短的部分。")
	require.Len(t, got, 3)
	for _, piece := range got[:len(got)-1] {
		assert.False(t, strings.HasSuffix(piece, "。"), "intermediate piece %q carries the mark", piece)
	}
	assert.Equal(t, "较短的部分。", got[2])
}

func TestSplitLong_unsplittableReturnsSentence(t *testing.T) {
	s := newTestSegmenter(t, Config{MaxLen: 6, MinLen: 5})

	got := s.SplitLong("一二三四五六七八。")
	assert.Equal(t, []string{"一二三四五六七八。"}, got)
}

func TestSplitLong_withinMaxUnchanged(t *testing.T) {
	s := newTestSegmenter(t, DefaultConfig())

	assert.Equal(t, []string{"青马大桥"}, s.SplitLong("青马大桥"))
}

func TestSplitLong_punctuationOutsideWindowIgnored(t *testing.T) {
	s := newTestSegmenter(t, DefaultConfig())

	// The ideographic comma after one ideograph would leave a piece below min.
	got := s.SplitLong("红、这是一个恰好十六个汉字的更长句")
	require.Len(t, got, 2)
	for _, piece := range got {
		n := HanziCount(piece)
		assert.GreaterOrEqual(t, n, 5, piece)
		assert.LessOrEqual(t, n, 15, piece)
	}
	assert.NotEqual(t, "红、", got[0])
}

func TestSplitLong_wordBoundaries(t *testing.T) {
	tok := fakeTokenizer{tokens: map[string][]string{
		"这是一个恰好十六个汉字的更长句子": {"这是", "一个", "恰好", "十六个", "汉字", "的", "更长", "句子"},
	}}
	s := newTestSegmenter(t, DefaultConfig(), WithTokenizer(tok))

	got := s.SplitLong("这是一个恰好十六个汉字的更长句子。")
	assert.Equal(t, []string{"这是一个恰好十六个汉字", "的更长句子。"}, got)
}

func TestSplitLong_tokenizerErrorFallsBack(t *testing.T) {
	for _, tokErr := range []error{domain.ErrTokenizerUnavailable, errors.New("boom")} {
		s := newTestSegmenter(t, DefaultConfig(), WithTokenizer(fakeTokenizer{err: tokErr}))

		got := s.SplitLong("这是一个恰好十六个汉字的更长句子。")
		assert.Equal(t, []string{"这是一个恰好十六个", "汉字的更长句子。"}, got)
	}
}

func TestSplitLong_mismatchedTokensFallBack(t *testing.T) {
	tok := fakeTokenizer{tokens: map[string][]string{
		"这是一个恰好十六个汉字的更长句子": {"这是", "一个", "汉字"},
	}}
	s := newTestSegmenter(t, DefaultConfig(), WithTokenizer(tok))

	got := s.SplitLong("这是一个恰好十六个汉字的更长句子。")
	assert.Equal(t, []string{"这是一个恰好十六个", "汉字的更长句子。"}, got)
}

func TestSplitLong_punctuationBeatsWords(t *testing.T) {
	s := newTestSegmenter(t, DefaultConfig(), WithTokenizer(fakeTokenizer{}))

	got := s.SplitLong("今天天气非常好！我们一起去公园散步吧。")
	assert.Equal(t, []string{"今天天气非常好！", "我们一起去公园散步吧。"}, got)
}

func TestSplitLong_fallbackStrategyIgnoresPunctuation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyFallback
	s := newTestSegmenter(t, cfg, WithTokenizer(fakeTokenizer{}))

	got := s.SplitLong("今天天气非常好！我们一起去公园散步吧。")
	assert.Equal(t, []string{"今天天气非常好！我们", "一起去公园散步吧。"}, got)
}

func TestSplitFallback(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "within max",
			text: "我很高兴。",
			want: []string{"我很高兴。"},
		},
		{
			name: "rebalanced by min",
			text: "这是一个恰好十六个汉字的更长句子。",
			want: []string{"这是一个恰好十六个", "汉字的更长句子。"},
		},
		{
			name: "recursive",
			text: "这是一个没有任何标点符号的非常长的句子需要被自动拆分成多个较短的部分。",
			want: []string{"这是一个没有任何标点符号的非常", "长的句子需要被自动拆分成多个", "较短的部分。"},
		},
		{
			name: "latin stays with the following piece",
			text: "我们今天一起学习了十二个新的汉字ABC然后复习",
			want: []string{"我们今天一起学习了十二个新的", "汉字ABC然后复习"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFallback(tt.text, DefaultConfig()))
		})
	}
}

func TestSegmenter_With(t *testing.T) {
	s := newTestSegmenter(t, DefaultConfig(), WithTokenizer(fakeTokenizer{}))

	narrow, err := s.With(Config{MaxLen: 8, MinLen: 3})
	require.NoError(t, err)
	assert.Equal(t, "fake", narrow.TokenizerName())
	assert.Equal(t, 8, narrow.Config().MaxLen)
	assert.Equal(t, StrategyAuto, narrow.Config().Strategy)
	for _, piece := range narrow.Segment("这是一个恰好十六个汉字的更长句子。") {
		assert.LessOrEqual(t, HanziCount(piece), 8, piece)
	}

	_, err = s.With(Config{MaxLen: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSegmenter_TokenizerNameWithoutTokenizer(t *testing.T) {
	s := newTestSegmenter(t, DefaultConfig())
	assert.Equal(t, "none", s.TokenizerName())
}

func TestSegmenter_logsSplitDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := New(DefaultConfig(), WithLogger(logger))
	require.NoError(t, err)

	s.Segment("这是一个恰好十六个汉字的更长句子。")

	out := buf.String()
	assert.Contains(t, out, `"msg":"sentence split"`)
	assert.Contains(t, out, `"method":"offset"`)
	assert.Contains(t, out, `"hanzi":16`)
}

func TestSegmenter_concurrentUse(t *testing.T) {
	s := newTestSegmenter(t, DefaultConfig(), WithTokenizer(fakeTokenizer{}))
	text := "这是一个没有任何标点符号的非常长的句子需要被自动拆分成多个较短的部分。书包。"
	want := s.Segment(text)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Segment(text)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, fmt.Sprintf("goroutine %d", i))
	}
}
