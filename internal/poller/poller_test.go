package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/model"
)

type stubFetcher struct {
	fetch func(ctx context.Context) ([]model.Order, error)
}

func (s *stubFetcher) ActiveOrders(ctx context.Context) ([]model.Order, error) {
	return s.fetch(ctx)
}

func orders(ids ...int64) []model.Order {
	out := make([]model.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Order{ID: id, Status: model.StatusMenunggu})
	}
	return out
}

func TestRefresh_ReplacesSnapshot(t *testing.T) {
	next := orders(1, 2)
	f := &stubFetcher{fetch: func(ctx context.Context) ([]model.Order, error) {
		return next, nil
	}}
	p := New(f, time.Hour, nil, zap.NewNop())

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	got, at := p.Snapshot()
	if len(got) != 2 || at.IsZero() {
		t.Fatalf("snapshot = %d orders, fetchedAt zero=%v", len(got), at.IsZero())
	}

	next = orders(3)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	got, _ = p.Snapshot()
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("snapshot not replaced: %+v", got)
	}
}

func TestRefresh_ErrorKeepsPreviousSnapshot(t *testing.T) {
	fail := false
	f := &stubFetcher{fetch: func(ctx context.Context) ([]model.Order, error) {
		if fail {
			return nil, errors.New("backend down")
		}
		return orders(1), nil
	}}
	p := New(f, time.Hour, nil, zap.NewNop())

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	fail = true
	if err := p.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	got, _ := p.Snapshot()
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("failed refresh must not clear the snapshot, got %+v", got)
	}
}

func TestPoll_InactiveGateSkipsFetch(t *testing.T) {
	var calls atomic.Int32
	f := &stubFetcher{fetch: func(ctx context.Context) ([]model.Order, error) {
		calls.Add(1)
		return nil, nil
	}}
	p := New(f, time.Hour, func() bool { return false }, zap.NewNop())

	p.poll(context.Background())
	if got := calls.Load(); got != 0 {
		t.Fatalf("inactive poller fetched %d times, want 0", got)
	}
}

func TestFetch_StaleResponseDiscarded(t *testing.T) {
	block := make(chan struct{})
	slowStarted := make(chan struct{})
	var first atomic.Bool
	first.Store(true)

	f := &stubFetcher{fetch: func(ctx context.Context) ([]model.Order, error) {
		if first.CompareAndSwap(true, false) {
			close(slowStarted)
			<-block
			return orders(1), nil
		}
		return orders(2), nil
	}}
	p := New(f, time.Hour, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Refresh(context.Background())
	}()

	<-slowStarted
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	close(block)
	<-done

	got, _ := p.Snapshot()
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("stale fetch overwrote newer snapshot: %+v", got)
	}
}

func TestRun_PollsImmediatelyAndStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	f := &stubFetcher{fetch: func(ctx context.Context) ([]model.Order, error) {
		calls.Add(1)
		return orders(1), nil
	}}
	p := New(f, time.Hour, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	deadline := time.After(time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("Run never polled")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(&stubFetcher{fetch: func(ctx context.Context) ([]model.Order, error) {
		return nil, nil
	}}, 0, nil, zap.NewNop())

	if p.interval != DefaultInterval {
		t.Fatalf("interval = %v, want %v", p.interval, DefaultInterval)
	}
	if !p.active() {
		t.Fatalf("nil gate must default to active")
	}
}
