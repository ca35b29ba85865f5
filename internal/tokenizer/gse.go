package tokenizer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-ego/gse"

	"dictation/internal/domain"
)

// GSE segments Chinese with the gse dictionary segmenter. The dictionary is
// loaded on first use; a failed load makes every call report
// domain.ErrTokenizerUnavailable.
type GSE struct {
	dictPath string
	log      *slog.Logger

	once sync.Once
	seg  gse.Segmenter
	err  error
}

// NewGSE returns a lazily initialised gse tokenizer.
func NewGSE(opts Options) *GSE {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &GSE{dictPath: opts.DictPath, log: log}
}

func (g *GSE) Name() string { return TypeGSE }

func (g *GSE) load() {
	g.seg.SkipLog = true
	if g.dictPath != "" {
		if err := g.seg.LoadDict(g.dictPath); err != nil {
			g.err = fmt.Errorf("%w: load dictionary %s: %v", domain.ErrTokenizerUnavailable, g.dictPath, err)
		}
	} else if err := g.seg.LoadDictEmbed(); err != nil {
		g.err = fmt.Errorf("%w: load embedded dictionary: %v", domain.ErrTokenizerUnavailable, err)
	}
	if g.err != nil {
		g.log.Warn("gse dictionary unavailable, falling back to character cuts",
			slog.String("error", g.err.Error()))
		return
	}
	g.log.Debug("gse dictionary loaded", slog.String("dict_path", g.dictPath))
}

// Tokenize cuts text into words using the HMM for unknown words.
func (g *GSE) Tokenize(text string) ([]string, error) {
	g.once.Do(g.load)
	if g.err != nil {
		return nil, g.err
	}
	return g.seg.Cut(text, true), nil
}
