package app

import (
	"sync"

	"photo-quiz-service/internal/domain"
)

// Feed fans change events out to admin subscribers.
type Feed struct {
	mu          sync.Mutex
	subscribers map[chan domain.ChangeEvent]struct{}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[chan domain.ChangeEvent]struct{})}
}

// Subscribe registers a buffered channel. cancel closes it and is safe to call twice.
func (f *Feed) Subscribe() (<-chan domain.ChangeEvent, func()) {
	ch := make(chan domain.ChangeEvent, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking. A full subscriber loses its
// oldest pending event.
func (f *Feed) Publish(ev domain.ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Len reports the number of active subscribers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
