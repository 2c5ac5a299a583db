package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"photo-quiz-service/internal/domain"
)

// DefaultBank names the row used when no bank is configured.
const DefaultBank = "default"

// QuestionStore keeps the collection as a JSONB array in one question_banks row.
// Mutations lock the row with SELECT ... FOR UPDATE inside a transaction.
type QuestionStore struct {
	pool *pgxpool.Pool
	bank string
}

func NewQuestionStore(pool *pgxpool.Pool, bank string) *QuestionStore {
	if bank == "" {
		bank = DefaultBank
	}
	return &QuestionStore{pool: pool, bank: bank}
}

const (
	ensureBankSQL = `INSERT INTO question_banks (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	selectSQL     = `SELECT questions FROM question_banks WHERE name=$1`
	lockSQL       = `SELECT questions FROM question_banks WHERE name=$1 FOR UPDATE`
	updateSQL     = `UPDATE question_banks SET questions=$2::jsonb, updated_at=now() WHERE name=$1`
)

func (s *QuestionStore) Load(ctx context.Context) ([]domain.Question, error) {
	if _, err := s.pool.Exec(ctx, ensureBankSQL, s.bank); err != nil {
		return nil, fmt.Errorf("%w: init bank: %v", domain.ErrPersistence, err)
	}
	var raw []byte
	if err := s.pool.QueryRow(ctx, selectSQL, s.bank).Scan(&raw); err != nil {
		return nil, fmt.Errorf("%w: load bank: %v", domain.ErrPersistence, err)
	}
	return decode(raw)
}

func (s *QuestionStore) Save(ctx context.Context, questions []domain.Question) error {
	return s.update(ctx, func([]domain.Question) ([]domain.Question, error) {
		return questions, nil
	})
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

func (s *QuestionStore) update(ctx context.Context, mutate func([]domain.Question) ([]domain.Question, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.mutateInTx(ctx, tx, mutate); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *QuestionStore) mutateInTx(ctx context.Context, tx pgx.Tx, mutate func([]domain.Question) ([]domain.Question, error)) error {
	if _, err := tx.Exec(ctx, ensureBankSQL, s.bank); err != nil {
		return fmt.Errorf("%w: init bank: %v", domain.ErrPersistence, err)
	}
	var raw []byte
	if err := tx.QueryRow(ctx, lockSQL, s.bank).Scan(&raw); err != nil {
		return fmt.Errorf("%w: lock bank: %v", domain.ErrPersistence, err)
	}
	current, err := decode(raw)
	if err != nil {
		return err
	}
	next, err := mutate(current)
	if err != nil {
		return err
	}
	if next == nil {
		next = []domain.Question{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrPersistence, err)
	}
	if _, err := tx.Exec(ctx, updateSQL, s.bank, string(data)); err != nil {
		return fmt.Errorf("%w: update bank: %v", domain.ErrPersistence, err)
	}
	return nil
}

func decode(raw []byte) ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}
