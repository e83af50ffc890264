package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"nearby/internal/models"
	"nearby/pkg/canvas"
	"nearby/pkg/location"
)

var fix = location.Coordinate{Latitude: 40.7128, Longitude: -74.006, AccuracyMeters: 10, TimestampMs: 1}

func TestFeedCurrentReturnsLastFix(t *testing.T) {
	f := NewFeed(time.Second)
	f.Push(fix)
	got, err := f.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fix {
		t.Fatalf("Current = %+v, want %+v", got, fix)
	}
}

func TestFeedCurrentWaitsForFirstFix(t *testing.T) {
	f := NewFeed(time.Second)
	done := make(chan location.Coordinate, 1)
	go func() {
		c, _ := f.Current(context.Background())
		done <- c
	}()
	// give Current time to register as a waiter
	for i := 0; i < 100; i++ {
		f.mu.Lock()
		n := len(f.waiters)
		f.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	f.Push(fix)
	select {
	case got := <-done:
		if got != fix {
			t.Fatalf("Current = %+v, want %+v", got, fix)
		}
	case <-time.After(time.Second):
		t.Fatal("Current did not return after Push")
	}
}

func TestFeedCurrentTimeout(t *testing.T) {
	f := NewFeed(10 * time.Millisecond)
	_, err := f.Current(context.Background())
	if !errors.Is(err, location.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.waiters) != 0 {
		t.Fatalf("timed out waiter was not removed")
	}
}

func TestFeedCurrentContextCanceled(t *testing.T) {
	f := NewFeed(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Current(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFeedWatchSingleSubscription(t *testing.T) {
	f := NewFeed(time.Second)
	var updates []location.Coordinate
	var errs []error

	sub, err := f.Watch(
		func(c location.Coordinate) { updates = append(updates, c) },
		func(err error) { errs = append(errs, err) },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Watch(nil, nil); !errors.Is(err, location.ErrSubscriptionActive) {
		t.Fatalf("second Watch err = %v, want ErrSubscriptionActive", err)
	}

	f.Push(fix)
	f.Fail(location.NewError(location.KindPermissionDenied))
	if len(updates) != 1 || updates[0] != fix {
		t.Fatalf("updates = %+v", updates)
	}
	if len(errs) != 1 || !errors.Is(errs[0], location.ErrPermissionDenied) {
		t.Fatalf("errors = %v", errs)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	f.Push(fix)
	if len(updates) != 1 {
		t.Fatalf("update delivered after Unsubscribe")
	}

	if _, err := f.Watch(nil, nil); err != nil {
		t.Fatalf("Watch after Unsubscribe: %v", err)
	}
}

func TestFeedFailKeepsLastFix(t *testing.T) {
	f := NewFeed(time.Second)
	f.Push(fix)
	f.Fail(location.NewError(location.KindPositionUnavailable))
	if got, ok := f.Last(); !ok || got != fix {
		t.Fatalf("Last = %+v, %v", got, ok)
	}
}

func TestFeedClose(t *testing.T) {
	f := NewFeed(time.Second)
	f.Close()
	if _, err := f.Current(context.Background()); !errors.Is(err, location.ErrPositionUnavailable) {
		t.Fatalf("Current after Close err = %v", err)
	}
	if _, err := f.Watch(nil, nil); err == nil {
		t.Fatalf("Watch after Close should fail")
	}
	f.Push(fix)
	if _, ok := f.Last(); ok {
		t.Fatalf("Push after Close recorded a fix")
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(time.Second)
	s := r.Create(DevProfile())
	if s.ID == "" {
		t.Fatal("session id is empty")
	}
	got, ok := r.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("Get(%q) = %v, %v", s.ID, got, ok)
	}
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}

	s.SetLayout([]canvas.Marker{{UserID: "user1", X: 1, Y: 2}})
	if l := s.Layout(); len(l) != 1 || l[0].UserID != "user1" {
		t.Fatalf("Layout = %+v", l)
	}

	r.Remove(s.ID)
	if _, ok := r.Get(s.ID); ok {
		t.Fatal("session still present after Remove")
	}
	if _, err := s.Feed.Watch(nil, nil); err == nil {
		t.Fatal("feed of removed session still accepts subscriptions")
	}
}

func TestRegistryOnRemove(t *testing.T) {
	r := NewRegistry(time.Second)
	var removed []string
	r.OnRemove(func(id string) { removed = append(removed, id) })

	s := r.Create(DevProfile())
	r.Remove(s.ID)
	r.Remove(s.ID)
	if len(removed) != 1 || removed[0] != s.ID {
		t.Fatalf("removed = %v, want [%s]", removed, s.ID)
	}
	if !s.Feed.Closed() {
		t.Fatal("feed of removed session is not closed")
	}

	stale := r.Create(DevProfile())
	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-time.Hour)
	stale.mu.Unlock()
	r.Prune(time.Now().Add(-time.Minute))
	if len(removed) != 2 || removed[1] != stale.ID {
		t.Fatalf("prune did not run the hook: %v", removed)
	}
}

func TestRegistryPrune(t *testing.T) {
	r := NewRegistry(time.Second)
	stale := r.Create(DevProfile())
	fresh := r.Create(DevProfile())
	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-time.Hour)
	stale.mu.Unlock()

	if n := r.Prune(time.Now().Add(-time.Minute)); n != 1 {
		t.Fatalf("Prune removed %d, want 1", n)
	}
	if _, ok := r.Get(fresh.ID); !ok {
		t.Fatal("fresh session was pruned")
	}
}

func TestSessionUpdateProfile(t *testing.T) {
	r := NewRegistry(time.Second)
	s := r.Create(DevProfile())
	bio := "Coffee"
	p, err := s.UpdateProfile(models.ProfileUpdate{Bio: &bio, Interests: []string{"Music"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasCompletedProfile() {
		t.Fatalf("profile should be completed: %+v", p)
	}
	empty := ""
	if _, err := s.UpdateProfile(models.ProfileUpdate{Bio: &empty}); !errors.Is(err, models.ErrBioRequired) {
		t.Fatalf("err = %v, want ErrBioRequired", err)
	}
	if s.Profile().Bio != "Coffee" {
		t.Fatalf("failed update changed the profile")
	}
}
