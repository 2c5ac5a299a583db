package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"photo-quiz-service/internal/domain"
)

// QuestionStore keeps the collection in a single pretty-printed JSON file.
//
// Every operation holds mu for its whole read-modify-write cycle, and writes go to a
// temporary file that is renamed over the target, so readers never observe a partial file.
// The lock is per process; two processes sharing one file are not coordinated.
type QuestionStore struct {
	path string
	mu   sync.Mutex
}

func NewQuestionStore(path string) *QuestionStore {
	return &QuestionStore{path: path}
}

// Path returns the backing file location.
func (s *QuestionStore) Path() string {
	return s.path
}

func (s *QuestionStore) Load(_ context.Context) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *QuestionStore) Save(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(questions)
}

func (s *QuestionStore) Append(_ context.Context, questions ...domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.loadLocked()
	if err != nil {
		return err
	}
	return s.saveLocked(append(current, questions...))
}

func (s *QuestionStore) ReplaceAt(_ context.Context, index int, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.loadLocked()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(current) {
		return domain.ErrIndexOutOfRange
	}
	current[index] = q
	return s.saveLocked(current)
}

func (s *QuestionStore) Clear(ctx context.Context) error {
	return s.Save(ctx, nil)
}

func (s *QuestionStore) loadLocked() ([]domain.Question, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.writeLocked([]byte("[]")); err != nil {
			return nil, err
		}
		return []domain.Question{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrPersistence, filepath.Base(s.path), err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

func (s *QuestionStore) saveLocked(questions []domain.Question) error {
	if questions == nil {
		questions = []domain.Question{}
	}
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrPersistence, err)
	}
	return s.writeLocked(data)
}

// writeLocked replaces the file contents via a sibling temp file and rename.
func (s *QuestionStore) writeLocked(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", domain.ErrPersistence, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", domain.ErrPersistence, err)
	}
	return nil
}
