package memory

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"dictation/internal/domain"
	"dictation/internal/lessonstore"
)

var _ lessonstore.Storage = (*Storage)(nil)

// Storage is a simple in-memory lesson store. Lessons keep insertion order;
// re-inserting an ID replaces the lesson in place.
type Storage struct {
	mu      sync.RWMutex
	order   []string
	lessons map[string]domain.Lesson
}

func NewStorage() *Storage { return &Storage{lessons: map[string]domain.Lesson{}} }

func (s *Storage) Upsert(lessons []domain.Lesson) error {
	for _, l := range lessons {
		if l.ID == "" {
			return errors.New("lesson without id")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lessons {
		if _, ok := s.lessons[l.ID]; !ok {
			s.order = append(s.order, l.ID)
		}
		s.lessons[l.ID] = l
	}
	return nil
}

func (s *Storage) Get(id string) (domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lessons[id]
	if !ok {
		return domain.Lesson{}, lessonstore.ErrNotFound
	}
	return l, nil
}

func (s *Storage) List() ([]domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Lesson, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.lessons[id])
	}
	return out, nil
}

// Search ranks lessons by how many of their sentences, words and title
// contain query. Lessons without a match are left out.
func (s *Storage) Search(query string, topK int) ([]domain.Lesson, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Lesson{}, nil
	}
	if topK <= 0 {
		topK = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type pair struct {
		id    string
		score int
	}
	var scores []pair
	for _, id := range s.order {
		if n := matches(s.lessons[id], query); n > 0 {
			scores = append(scores, pair{id, n})
		}
	}
	// stable keeps insertion order among equal scores
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]domain.Lesson, 0, topK)
	for _, p := range scores[:topK] {
		out = append(out, s.lessons[p.id])
	}
	return out, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.lessons = map[string]domain.Lesson{}
	return nil
}

func matches(l domain.Lesson, query string) int {
	n := 0
	if strings.Contains(l.Title, query) {
		n++
	}
	for _, w := range l.Words {
		if strings.Contains(w, query) {
			n++
		}
	}
	for _, p := range l.Paragraphs {
		for _, s := range p.Sentences {
			n += strings.Count(s.Text, query)
		}
	}
	return n
}
