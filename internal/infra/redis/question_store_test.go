package redis

import (
	"context"
	"errors"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"photo-quiz-service/internal/domain"
)

func TestQuestionStoreInitializesMissingKey(t *testing.T) {
	mr, store := newTestStore(t)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %d", len(got))
	}
	val, err := mr.Get(DefaultKey)
	if err != nil {
		t.Fatalf("expected key to be created: %v", err)
	}
	if val != "[]" {
		t.Fatalf("expected [], got %q", val)
	}
}

func TestQuestionStoreAppendReplaceClear(t *testing.T) {
	ctx := context.Background()
	_, store := newTestStore(t)

	if err := store.Append(ctx, sampleQuestion("a"), sampleQuestion("b")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.ReplaceAt(ctx, 0, sampleQuestion("A")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ := store.Load(ctx)
	if len(got) != 2 || got[0].Question != "A" || got[1].Question != "b" {
		t.Fatalf("unexpected collection %+v", got)
	}

	if err := store.ReplaceAt(ctx, 2, sampleQuestion("x")); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = store.Load(ctx)
	if len(got) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(got))
	}
}

func TestQuestionStoreCorruptValue(t *testing.T) {
	mr, store := newTestStore(t)
	if err := mr.Set(DefaultKey, "nope"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := store.Load(context.Background()); !errors.Is(err, domain.ErrCorruptStore) {
		t.Fatalf("expected corrupt store, got %v", err)
	}
}

func TestQuestionStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	_, store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Append(ctx, sampleQuestion("q")); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(got))
	}
}

func newTestStore(t *testing.T) (*miniredis.Miniredis, *QuestionStore) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewQuestionStore(client, "")
}

func sampleQuestion(prompt string) domain.Question {
	return domain.Question{
		Question:   prompt,
		Options:    []string{"1", "2", "3", "4"},
		Correct:    2,
		ImageQuery: "numbers",
	}
}
