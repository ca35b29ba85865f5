package domain

import (
	"context"
	"errors"
)

// ErrTokenizerUnavailable signals that word boundaries cannot be produced.
// Callers treat it as a cue to fall back, never as a failure.
var ErrTokenizerUnavailable = errors.New("tokenizer unavailable")

// Document represents a single text file loaded into the system.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Sentence is one dictation unit produced by the segmenter.
type Sentence struct {
	Text  string `json:"text"`
	Hanzi int    `json:"hanzi"`
}

// Paragraph groups the practice sentences cut from one block of source text.
type Paragraph struct {
	Title     string     `json:"title"`
	Sentences []Sentence `json:"sentences"`
}

// Lesson is a document turned into vocabulary and practice sentences.
type Lesson struct {
	ID         string      `json:"id"`
	Path       string      `json:"path"`
	Title      string      `json:"title"`
	Words      []string    `json:"words"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// SentenceCount returns the number of practice sentences across all paragraphs.
func (l Lesson) SentenceCount() int {
	n := 0
	for _, p := range l.Paragraphs {
		n += len(p.Sentences)
	}
	return n
}

// Tokenizer splits text into word tokens whose concatenation is the input.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	Name() string
	Tokenize(text string) ([]string, error)
}

// VocabularyExtractor picks the words worth practising from a text.
type VocabularyExtractor interface {
	Extract(text string, maxWords int) ([]string, error)
}

// LessonService defines the operations exposed by the application core.
type LessonService interface {
	IngestDocuments(ctx context.Context, paths []string) ([]Lesson, error)
	Segment(text string) []Sentence
}
