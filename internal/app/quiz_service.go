package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"photo-quiz-service/internal/bulk"
	"photo-quiz-service/internal/domain"
)

// QuestionStore abstracts where the question collection lives (file, memory, Redis, Postgres).
// Implementations serialize their own read-modify-write cycles so concurrent mutations never
// drop an update.
type QuestionStore interface {
	Load(ctx context.Context) ([]domain.Question, error)
	Save(ctx context.Context, questions []domain.Question) error
	Append(ctx context.Context, questions ...domain.Question) error
	ReplaceAt(ctx context.Context, index int, q domain.Question) error
	Clear(ctx context.Context) error
}

// ImageResolver maps a search query to an image URL. It never fails; an empty string means
// no image.
type ImageResolver interface {
	Resolve(ctx context.Context, query string) string
}

type noImages struct{}

func (noImages) Resolve(context.Context, string) string { return "" }

// DefaultLookupWorkers bounds concurrent image lookups per quiz read.
const DefaultLookupWorkers = 4

// ShortQuizSize is the number of questions served by the short quiz.
const ShortQuizSize = 3

// DefaultDecorateBudget caps the time one quiz read spends on image lookups.
const DefaultDecorateBudget = 20 * time.Second

// QuizService contains the quiz and admin use cases.
type QuizService struct {
	store   QuestionStore
	images  ImageResolver
	feed    *Feed
	workers int
	budget  time.Duration
	now     func() time.Time
}

func NewQuizService(store QuestionStore, images ImageResolver, lookupWorkers int) *QuizService {
	if lookupWorkers <= 0 {
		lookupWorkers = DefaultLookupWorkers
	}
	if images == nil {
		images = noImages{}
	}
	return &QuizService{
		store:   store,
		images:  images,
		feed:    NewFeed(),
		workers: lookupWorkers,
		budget:  DefaultDecorateBudget,
		now:     time.Now,
	}
}

// WithDecorateBudget sets the total time a quiz read may spend on image lookups.
// Lookups still running when it expires leave their image empty.
func (s *QuizService) WithDecorateBudget(d time.Duration) *QuizService {
	if d > 0 {
		s.budget = d
	}
	return s
}

// Quiz loads the collection and decorates each question with an image URL.
// limit <= 0 serves every question. An empty collection yields domain.ErrNoQuestions.
func (s *QuizService) Quiz(ctx context.Context, limit int) ([]domain.DecoratedQuestion, error) {
	questions, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return s.decorate(ctx, questions), nil
}

// decorate resolves images concurrently; results keep collection order.
// It returns once every lookup is done or the budget runs out, whichever comes first.
func (s *QuizService) decorate(ctx context.Context, questions []domain.Question) []domain.DecoratedQuestion {
	ctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	var (
		mu     sync.Mutex
		sealed bool
		images = make([]string, len(questions))
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i, q := range questions {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				url := s.images.Resolve(ctx, q.ImageQuery)
				mu.Lock()
				if !sealed {
					images[i] = url
				}
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		log.Printf("image lookups stopped early: %v", ctx.Err())
	}

	mu.Lock()
	sealed = true
	out := make([]domain.DecoratedQuestion, len(questions))
	for i, q := range questions {
		out[i] = domain.DecoratedQuestion{Question: q, AnswerImage: images[i]}
	}
	mu.Unlock()
	return out
}

// List returns the raw collection without decoration.
func (s *QuizService) List(ctx context.Context) ([]domain.Question, error) {
	return s.store.Load(ctx)
}

// Add validates and appends a single question.
func (s *QuizService) Add(ctx context.Context, in QuestionInput) error {
	q, err := in.Validate()
	if err != nil {
		return err
	}
	if err := s.store.Append(ctx, q); err != nil {
		return err
	}
	s.publish(domain.ActionAdded, 1)
	return nil
}

// BulkAdd parses text and appends every well-formed block in one store write.
func (s *QuizService) BulkAdd(ctx context.Context, text string) (bulk.Result, error) {
	if strings.TrimSpace(text) == "" {
		return bulk.Result{}, domain.Missing("text")
	}
	res := bulk.Parse(text)
	for _, skipped := range res.Skipped {
		log.Printf("bulk import skipped %v", skipped)
	}
	if len(res.Questions) == 0 {
		return res, nil
	}
	if err := s.store.Append(ctx, res.Questions...); err != nil {
		return res, err
	}
	s.publish(domain.ActionBulkAdded, len(res.Questions))
	return res, nil
}

// Edit replaces the question at index.
func (s *QuizService) Edit(ctx context.Context, index int, in QuestionInput) error {
	if index < 0 {
		return domain.ErrIndexOutOfRange
	}
	q, err := in.Validate()
	if err != nil {
		return err
	}
	if err := s.store.ReplaceAt(ctx, index, q); err != nil {
		return err
	}
	s.publish(domain.ActionEdited, 1)
	return nil
}

// DeleteAll empties the collection. There is no undo.
func (s *QuizService) DeleteAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.publish(domain.ActionCleared, 0)
	return nil
}

// Subscribe returns a channel of change events. The caller must invoke cancel.
func (s *QuizService) Subscribe(_ context.Context) (<-chan domain.ChangeEvent, func()) {
	return s.feed.Subscribe()
}

func (s *QuizService) publish(action domain.ChangeAction, count int) {
	s.feed.Publish(domain.ChangeEvent{Action: action, Count: count, At: s.now()})
}
