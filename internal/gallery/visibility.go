package gallery

import "sync"

// VisibilityFeed delivers visibility changes of the "load more" sentinel.
type VisibilityFeed interface {
	Subscribe(fn func(visible bool)) (unsubscribe func())
}

// Feed is an in-process VisibilityFeed. Publishers report what the viewport
// observer saw; subscribers get every report in order.
type Feed struct {
	mu   sync.Mutex
	next int
	subs map[int]func(bool)
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(bool))}
}

// Subscribe registers fn. The returned function removes it and is safe to call more than once.
func (f *Feed) Subscribe(fn func(visible bool)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Publish notifies every subscriber. Callbacks run outside the feed lock.
func (f *Feed) Publish(visible bool) {
	f.mu.Lock()
	fns := make([]func(bool), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(visible)
	}
}

// Len reports the number of live subscriptions.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
