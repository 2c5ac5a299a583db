package memory

import (
	"context"
	"sync"

	"photo-quiz-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionStore (useful for tests/demos).
type QuestionStore struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionStore(seed ...domain.Question) *QuestionStore {
	return &QuestionStore{questions: clone(seed)}
}

func (s *QuestionStore) Load(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.questions), nil
}

func (s *QuestionStore) Save(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = clone(questions)
	return nil
}

func (s *QuestionStore) Append(_ context.Context, questions ...domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, clone(questions)...)
	return nil
}

func (s *QuestionStore) ReplaceAt(_ context.Context, index int, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.questions) {
		return domain.ErrIndexOutOfRange
	}
	s.questions[index] = clone([]domain.Question{q})[0]
	return nil
}

func (s *QuestionStore) Clear(ctx context.Context) error {
	return s.Save(ctx, nil)
}

// clone deep-copies questions so callers never share option slices with the store.
func clone(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
