package service

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"dictation/internal/domain"
	"dictation/internal/segment"
)

var _ domain.LessonService = (*LessonServiceImpl)(nil)

// ErrNoDocuments is returned when the given paths match no .txt files.
var ErrNoDocuments = errors.New("no .txt documents found")

const (
	defaultWorkers  = 4
	defaultMaxWords = 10
)

// LessonServiceImpl turns text files into dictation lessons.
type LessonServiceImpl struct {
	seg      *segment.Segmenter
	vocab    domain.VocabularyExtractor
	workers  int
	maxWords int
	log      *slog.Logger
}

// Option configures a LessonServiceImpl.
type Option func(*LessonServiceImpl)

// WithWorkers bounds how many files are read and segmented at once.
func WithWorkers(n int) Option {
	return func(s *LessonServiceImpl) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxWords sets the vocabulary list length per lesson.
func WithMaxWords(n int) Option {
	return func(s *LessonServiceImpl) {
		if n > 0 {
			s.maxWords = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *LessonServiceImpl) {
		if l != nil {
			s.log = l
		}
	}
}

// NewLessonService wires a segmenter and an optional vocabulary extractor.
func NewLessonService(seg *segment.Segmenter, vocab domain.VocabularyExtractor, opts ...Option) *LessonServiceImpl {
	s := &LessonServiceImpl{
		seg:      seg,
		vocab:    vocab,
		workers:  defaultWorkers,
		maxWords: defaultMaxWords,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segmenter returns the segmenter lessons are built with.
func (s *LessonServiceImpl) Segmenter() *segment.Segmenter { return s.seg }

// ResolvePaths expands globs and keeps .txt files, in argument order.
// A pattern with no matches is kept as a literal path.
func ResolvePaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

// IngestDocuments reads every .txt file named by paths and builds one lesson
// per file. Files are processed concurrently; the result keeps input order.
func (s *LessonServiceImpl) IngestDocuments(ctx context.Context, paths []string) ([]domain.Lesson, error) {
	files := ResolvePaths(paths)
	if len(files) == 0 {
		return nil, ErrNoDocuments
	}

	lessons := make([]domain.Lesson, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			lessons[i] = s.BuildLesson(domain.Document{ID: hashString(path), Path: path, Content: string(data)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("documents ingested", "documents", len(lessons))
	return lessons, nil
}

// BuildLesson splits a document into titled paragraphs of practice sentences
// and picks its vocabulary. Blank lines separate paragraphs; a line starting
// with '#' titles the paragraphs after it.
func (s *LessonServiceImpl) BuildLesson(doc domain.Document) domain.Lesson {
	lesson := domain.Lesson{
		ID:         doc.ID,
		Path:       doc.Path,
		Title:      strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path)),
		Words:      []string{},
		Paragraphs: []domain.Paragraph{},
	}
	if doc.Path == "" {
		lesson.Title = ""
	}

	var (
		title   string
		titled  bool
		block   strings.Builder
		content strings.Builder
	)
	flush := func() {
		if block.Len() == 0 {
			return
		}
		if sentences := s.Segment(block.String()); len(sentences) > 0 {
			lesson.Paragraphs = append(lesson.Paragraphs, domain.Paragraph{Title: title, Sentences: sentences})
		}
		block.Reset()
	}

	sc := bufio.NewScanner(strings.NewReader(doc.Content))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			flush()
			title = strings.TrimSpace(strings.TrimLeft(line, "#"))
			if !titled && title != "" {
				lesson.Title = title
				titled = true
			}
		default:
			block.WriteString(line)
			content.WriteString(line)
			content.WriteString("\n")
		}
	}
	flush()

	if s.vocab != nil {
		words, err := s.vocab.Extract(content.String(), s.maxWords)
		if err != nil {
			s.log.Warn("vocabulary unavailable", "path", doc.Path, "err", err)
		} else if words != nil {
			lesson.Words = words
		}
	}

	s.log.Debug("lesson built",
		"path", doc.Path,
		"paragraphs", len(lesson.Paragraphs),
		"sentences", lesson.SentenceCount(),
		"words", len(lesson.Words))
	return lesson
}

// Segment cuts ad-hoc text with the configured segmenter.
func (s *LessonServiceImpl) Segment(text string) []domain.Sentence {
	return Sentences(s.seg.Segment(text))
}

// SegmentWith cuts text with per-call bounds. Unset fields keep the
// configured bound.
func (s *LessonServiceImpl) SegmentWith(text string, b segment.Bounds) ([]domain.Sentence, error) {
	if b.IsZero() {
		return s.Segment(text), nil
	}
	seg, err := s.seg.With(b.Apply(s.seg.Config()))
	if err != nil {
		return nil, err
	}
	return Sentences(seg.Segment(text)), nil
}

// Sentences pairs each piece with its ideographic count.
func Sentences(pieces []string) []domain.Sentence {
	out := make([]domain.Sentence, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, domain.Sentence{Text: p, Hanzi: segment.HanziCount(p)})
	}
	return out
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
