package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"photo-quiz-service/internal/app"
	"photo-quiz-service/internal/domain"
	"photo-quiz-service/internal/infra/memory"
)

type mapResolver struct {
	mu    sync.Mutex
	urls  map[string]string
	calls []string
	delay map[string]time.Duration
}

func (r *mapResolver) Resolve(_ context.Context, query string) string {
	if d := r.delay[query]; d > 0 {
		time.Sleep(d)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, query)
	return r.urls[query]
}

func TestQuizDecoratesInCollectionOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(question("first", "cats"), question("second", "dogs"), question("third", ""))
	resolver := &mapResolver{
		urls:  map[string]string{"cats": "https://img/cats", "dogs": "https://img/dogs"},
		delay: map[string]time.Duration{"cats": 30 * time.Millisecond},
	}
	service := app.NewQuizService(store, resolver, 4)

	got, err := service.Quiz(ctx, 0)
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got))
	}
	want := []struct{ prompt, image string }{
		{"first", "https://img/cats"},
		{"second", "https://img/dogs"},
		{"third", ""},
	}
	for i, w := range want {
		if got[i].Question.Question != w.prompt || got[i].AnswerImage != w.image {
			t.Fatalf("slot %d: expected %+v, got %+v", i, w, got[i])
		}
	}

	stored, _ := store.Load(ctx)
	if len(stored) != 3 {
		t.Fatalf("decoration must not touch the store")
	}
}

// stallingResolver ignores its context and blocks until released.
type stallingResolver struct{ release chan struct{} }

func (r stallingResolver) Resolve(context.Context, string) string {
	<-r.release
	return "https://img/late"
}

func TestQuizBudgetLeavesSlowImagesEmpty(t *testing.T) {
	seed := make([]domain.Question, 30)
	for i := range seed {
		seed[i] = question("q", "cats")
	}
	resolver := stallingResolver{release: make(chan struct{})}
	t.Cleanup(func() { close(resolver.release) })
	service := app.NewQuizService(memory.NewQuestionStore(seed...), resolver, 2).
		WithDecorateBudget(50 * time.Millisecond)

	start := time.Now()
	got, err := service.Quiz(context.Background(), 0)
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("quiz read ignored the lookup budget, took %s", elapsed)
	}
	if len(got) != 30 {
		t.Fatalf("expected 30 questions, got %d", len(got))
	}
	for i, q := range got {
		if q.AnswerImage != "" {
			t.Fatalf("slot %d: expected empty image, got %q", i, q.AnswerImage)
		}
	}
}

func TestQuizShortLimit(t *testing.T) {
	store := memory.NewQuestionStore(question("a", ""), question("b", ""), question("c", ""), question("d", ""))
	service := app.NewQuizService(store, &mapResolver{}, 1)

	got, err := service.Quiz(context.Background(), app.ShortQuizSize)
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if len(got) != 3 || got[2].Question.Question != "c" {
		t.Fatalf("expected first three questions, got %+v", got)
	}
}

func TestQuizEmptyIsConsistentlyNotFound(t *testing.T) {
	service := app.NewQuizService(memory.NewQuestionStore(), &mapResolver{}, 0)
	for i := 0; i < 3; i++ {
		if _, err := service.Quiz(context.Background(), 0); !errors.Is(err, domain.ErrNoQuestions) {
			t.Fatalf("call %d: expected ErrNoQuestions, got %v", i, err)
		}
	}
}

func TestAddRejectsMissingImageQuery(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(question("a", "cats"))
	service := app.NewQuizService(store, &mapResolver{}, 0)

	in := input("new", "dogs")
	in.ImageQuery = nil
	err := service.Add(ctx, in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "imageQuery" {
		t.Fatalf("expected imageQuery field error, got %v", err)
	}

	stored, _ := store.Load(ctx)
	if len(stored) != 1 {
		t.Fatalf("store changed on failed add: %d questions", len(stored))
	}
}

func TestAddAcceptsZeroValuesAndOutOfRangeCorrect(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore()
	service := app.NewQuizService(store, &mapResolver{}, 0)

	in := input("", "")
	bad := 7
	in.Correct = &bad
	if err := service.Add(ctx, in); err != nil {
		t.Fatalf("add: %v", err)
	}
	stored, _ := store.Load(ctx)
	if len(stored) != 1 || stored[0].Correct != 7 {
		t.Fatalf("unexpected store %+v", stored)
	}
}

func TestBulkAddAppendsParsedBlocks(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(question("existing", ""))
	service := app.NewQuizService(store, &mapResolver{}, 0)

	text := "What is 2+2?\nA) 3\nB) 4\nC) 5\nD) 6\nAnswer: B\nImage: math numbers\n\nShort?\nA) x\nAnswer: A\nImage: y"
	res, err := service.BulkAdd(ctx, text)
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}
	if len(res.Questions) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected 1 parsed and 1 skipped, got %d/%d", len(res.Questions), len(res.Skipped))
	}

	stored, _ := store.Load(ctx)
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored questions, got %d", len(stored))
	}
	got := stored[1]
	if got.Question != "What is 2+2?" || got.Correct != 1 || got.ImageQuery != "math numbers" {
		t.Fatalf("unexpected question %+v", got)
	}
	if len(got.Options) != 4 || got.Options[0] != "3" || got.Options[3] != "6" {
		t.Fatalf("unexpected options %v", got.Options)
	}
}

func TestBulkAddRequiresText(t *testing.T) {
	service := app.NewQuizService(memory.NewQuestionStore(), &mapResolver{}, 0)
	if _, err := service.BulkAdd(context.Background(), "  \n"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEditReplacesSlot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(question("a", ""), question("b", ""))
	service := app.NewQuizService(store, &mapResolver{}, 0)

	if err := service.Edit(ctx, 1, input("B", "birds")); err != nil {
		t.Fatalf("edit: %v", err)
	}
	stored, _ := store.Load(ctx)
	if stored[0].Question != "a" || stored[1].Question != "B" || stored[1].ImageQuery != "birds" {
		t.Fatalf("unexpected store %+v", stored)
	}

	for _, idx := range []int{-1, 2} {
		if err := service.Edit(ctx, idx, input("x", "")); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected out of range, got %v", idx, err)
		}
	}
	if err := service.Edit(ctx, 0, app.QuestionInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteAllAndChangeFeed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(question("a", ""), question("b", ""))
	service := app.NewQuizService(store, &mapResolver{}, 0)

	events, cancel := service.Subscribe(ctx)
	defer cancel()

	if err := service.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	stored, _ := service.List(ctx)
	if len(stored) != 0 {
		t.Fatalf("expected empty collection, got %d", len(stored))
	}

	select {
	case ev := <-events:
		if ev.Action != domain.ActionCleared {
			t.Fatalf("expected cleared event, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no change event delivered")
	}
}

func question(prompt, imageQuery string) domain.Question {
	return domain.Question{
		Question:   prompt,
		Options:    []string{"1", "2", "3", "4"},
		Correct:    0,
		ImageQuery: imageQuery,
	}
}

func input(prompt, imageQuery string) app.QuestionInput {
	correct := 1
	return app.QuestionInput{
		Question:   &prompt,
		Options:    []string{"1", "2", "3", "4"},
		Correct:    &correct,
		ImageQuery: &imageQuery,
	}
}
