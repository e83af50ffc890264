package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"nearby/pkg/location"
)

// Feed is the location provider for one session. The device pushes fixes
// (over the websocket or the one-shot endpoint) and consumers read them through
// the location.Provider interface.
type Feed struct {
	timeout time.Duration

	mu      sync.Mutex
	last    *location.Coordinate
	waiters []chan fixResult
	sub     *feedSubscription
	closed  bool
}

type fixResult struct {
	c   location.Coordinate
	err error
}

var _ location.Provider = (*Feed)(nil)

// NewFeed returns a feed whose Current waits at most timeout for a first fix.
func NewFeed(timeout time.Duration) *Feed {
	return &Feed{timeout: timeout}
}

// Last returns the most recent fix.
func (f *Feed) Last() (location.Coordinate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return location.Coordinate{}, false
	}
	return *f.last, true
}

// Closed reports whether the feed was closed with its session.
func (f *Feed) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Current returns the latest fix, waiting for the first one if none arrived yet.
func (f *Feed) Current(ctx context.Context) (location.Coordinate, error) {
	f.mu.Lock()
	if f.last != nil {
		c := *f.last
		f.mu.Unlock()
		return c, nil
	}
	if f.closed {
		f.mu.Unlock()
		return location.Coordinate{}, location.NewError(location.KindPositionUnavailable)
	}
	ch := make(chan fixResult, 1)
	f.waiters = append(f.waiters, ch)
	f.mu.Unlock()

	timer := time.NewTimer(f.timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.c, r.err
	case <-timer.C:
		f.dropWaiter(ch)
		return location.Coordinate{}, location.NewError(location.KindTimeout)
	case <-ctx.Done():
		f.dropWaiter(ch)
		return location.Coordinate{}, ctx.Err()
	}
}

func (f *Feed) dropWaiter(ch chan fixResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.waiters {
		if w == ch {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return
		}
	}
}

// Watch registers the single active subscription for this feed.
func (f *Feed) Watch(onUpdate func(location.Coordinate), onError func(error)) (location.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, location.NewError(location.KindPositionUnavailable)
	}
	if f.sub != nil {
		return nil, location.ErrSubscriptionActive
	}
	s := &feedSubscription{feed: f, onUpdate: onUpdate, onError: onError}
	s.active.Store(true)
	f.sub = s
	return s, nil
}

// Push records a new fix and delivers it to waiters and the subscriber.
// The subscriber callback runs on the caller's goroutine.
func (f *Feed) Push(c location.Coordinate) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.last = &c
	waiters := f.waiters
	f.waiters = nil
	sub := f.sub
	f.mu.Unlock()

	for _, w := range waiters {
		w <- fixResult{c: c}
	}
	if sub != nil && sub.active.Load() && sub.onUpdate != nil {
		sub.onUpdate(c)
	}
}

// Fail reports a provider error. Pending Current calls fail with it; the
// last known fix is kept.
func (f *Feed) Fail(err error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	waiters := f.waiters
	f.waiters = nil
	sub := f.sub
	f.mu.Unlock()

	for _, w := range waiters {
		w <- fixResult{err: err}
	}
	if sub != nil && sub.active.Load() && sub.onError != nil {
		sub.onError(err)
	}
}

// Close ends the feed. Pending and future reads without a fix report PositionUnavailable.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	waiters := f.waiters
	f.waiters = nil
	if f.sub != nil {
		f.sub.active.Store(false)
		f.sub = nil
	}
	f.mu.Unlock()

	for _, w := range waiters {
		w <- fixResult{err: location.NewError(location.KindPositionUnavailable)}
	}
}

type feedSubscription struct {
	feed     *Feed
	onUpdate func(location.Coordinate)
	onError  func(error)
	active   atomic.Bool
}

func (s *feedSubscription) Unsubscribe() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.feed.mu.Lock()
	if s.feed.sub == s {
		s.feed.sub = nil
	}
	s.feed.mu.Unlock()
}
