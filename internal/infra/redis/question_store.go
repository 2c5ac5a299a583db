package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"photo-quiz-service/internal/domain"
)

// DefaultKey holds the collection when no key is configured.
const DefaultKey = "quiz:questions"

// maxTxRetries bounds optimistic retries when another writer touches the key mid-update.
const maxTxRetries = 64

// QuestionStore keeps the collection as one JSON array under a single Redis key.
// Mutations run inside WATCH/MULTI so concurrent writers retry instead of overwriting
// each other, which also holds across service instances.
type QuestionStore struct {
	client *redis.Client
	key    string
}

func NewQuestionStore(client *redis.Client, key string) *QuestionStore {
	if key == "" {
		key = DefaultKey
	}
	return &QuestionStore{client: client, key: key}
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *QuestionStore) Load(ctx context.Context) ([]domain.Question, error) {
	questions, missing, err := s.read(ctx, s.client)
	if err != nil {
		return nil, err
	}
	if missing {
		// best-effort init; a concurrent writer may have won, which is fine
		if err := s.client.SetNX(ctx, s.key, "[]", 0).Err(); err != nil {
			return nil, fmt.Errorf("%w: init %s: %v", domain.ErrPersistence, s.key, err)
		}
	}
	return questions, nil
}

func (s *QuestionStore) Save(ctx context.Context, questions []domain.Question) error {
	data, err := encode(questions)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrPersistence, s.key, err)
	}
	return nil
}

func (s *QuestionStore) Append(ctx context.Context, questions ...domain.Question) error {
	return s.update(ctx, func(current []domain.Question) ([]domain.Question, error) {
		return append(current, questions...), nil
	})
}

func (s *QuestionStore) ReplaceAt(ctx context.Context, index int, q domain.Question) error {
	return s.update(ctx, func(current []domain.Question) ([]domain.Question, error) {
		if index < 0 || index >= len(current) {
			return nil, domain.ErrIndexOutOfRange
		}
		current[index] = q
		return current, nil
	})
}

func (s *QuestionStore) Clear(ctx context.Context) error {
	return s.Save(ctx, nil)
}

// update runs a read-modify-write cycle under WATCH, retrying on conflicts.
func (s *QuestionStore) update(ctx context.Context, mutate func([]domain.Question) ([]domain.Question, error)) error {
	txf := func(tx *redis.Tx) error {
		current, _, err := s.read(ctx, tx)
		if err != nil {
			return err
		}
		next, err := mutate(current)
		if err != nil {
			return err
		}
		data, err := encode(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrCorruptStore), errors.Is(err, domain.ErrPersistence):
			return err
		default:
			return fmt.Errorf("%w: update %s: %v", domain.ErrPersistence, s.key, err)
		}
	}
	return fmt.Errorf("%w: update %s: too many concurrent writers", domain.ErrPersistence, s.key)
}

func (s *QuestionStore) read(ctx context.Context, c getter) ([]domain.Question, bool, error) {
	raw, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Question{}, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", domain.ErrPersistence, s.key, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, false, nil
}

func encode(questions []domain.Question) ([]byte, error) {
	if questions == nil {
		questions = []domain.Question{}
	}
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrPersistence, err)
	}
	return data, nil
}
