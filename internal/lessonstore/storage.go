package lessonstore

import (
	"errors"

	"dictation/internal/domain"
)

// ErrNotFound is returned by Get for an unknown lesson ID.
var ErrNotFound = errors.New("lesson not found")

// Storage keeps built lessons addressable by ID and supports text search.
type Storage interface {
	Upsert(lessons []domain.Lesson) error
	Get(id string) (domain.Lesson, error)
	List() ([]domain.Lesson, error)
	Search(query string, topK int) ([]domain.Lesson, error)
	Clear() error
}
