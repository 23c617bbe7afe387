package viewmodel

import (
	"sync"
	"sync/atomic"
)

// subscription delivers values to fn in the order they were queued. No lock is
// held while fn runs, so fn may subscribe, cancel or read state freely.
type subscription[T any] struct {
	id       int
	fn       func(T)
	canceled atomic.Bool

	mu       sync.Mutex
	pending  []T
	draining bool
}

func (s *subscription[T]) enqueue(v T) {
	s.mu.Lock()
	s.pending = append(s.pending, v)
	s.mu.Unlock()
}

// drain calls fn for every pending value. When another goroutine is already
// draining, it returns and leaves the values to that goroutine.
func (s *subscription[T]) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		v := s.pending[0]
		var zero T
		s.pending[0] = zero
		s.pending = s.pending[1:]
		s.mu.Unlock()

		if !s.canceled.Load() {
			s.fn(v)
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.draining = false
	s.mu.Unlock()
}

// subscribers is a registry of callbacks, notified in subscription order.
// publish is called with the owning view model's lock held so every
// subscription queues transitions in the order they happened; deliver runs
// after that lock is released.
type subscribers[T any] struct {
	mu   sync.Mutex
	next int
	subs []*subscription[T]
}

func (s *subscribers[T]) add(fn func(T)) (sub *subscription[T], cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	sub = &subscription[T]{id: s.next, fn: fn}
	s.subs = append(s.subs, sub)

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			sub.canceled.Store(true)
			s.remove(sub.id)
		})
	}
}

func (s *subscribers[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// publish queues v on every current subscription and returns them for deliver.
func (s *subscribers[T]) publish(v T) []*subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subs) == 0 {
		return nil
	}
	out := make([]*subscription[T], len(s.subs))
	copy(out, s.subs)
	for _, sub := range out {
		sub.enqueue(v)
	}
	return out
}

func deliver[T any](subs []*subscription[T]) {
	for _, sub := range subs {
		sub.drain()
	}
}
