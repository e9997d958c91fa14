// Package poller keeps a periodically refreshed snapshot of the customer's
// active orders. There is no push channel from the backend; each fetch fully
// replaces the snapshot, last write wins.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/model"
)

// DefaultInterval matches the mobile client's auto-refresh cadence.
const DefaultInterval = 30 * time.Second

// Fetcher is the read the poller repeats; *api.Client satisfies it.
type Fetcher interface {
	ActiveOrders(ctx context.Context) ([]model.Order, error)
}

// Poller owns the active-orders snapshot. Run ties its lifetime to a context
// so the ticker never leaks; Refresh is the pull-to-refresh path.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	// active gates fetching, wired to the session so a logged-out agent
	// does not hammer the backend into 401s.
	active func() bool
	logger *zap.Logger

	mu        sync.RWMutex
	orders    []model.Order
	fetchedAt time.Time
	applied   uint64

	seq atomic.Uint64
}

// New creates a poller. A non-positive interval falls back to DefaultInterval;
// a nil active gate always polls.
func New(fetcher Fetcher, interval time.Duration, active func() bool, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if active == nil {
		active = func() bool { return true }
	}
	return &Poller{fetcher: fetcher, interval: interval, active: active, logger: logger}
}

// Run fetches once immediately, then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if !p.active() {
		return
	}
	if err := p.fetch(ctx); err != nil {
		// Degrade: keep the previous snapshot, surface nothing.
		p.logger.Warn("refresh active orders", zap.Error(err))
	}
}

// Refresh fetches immediately, for the user-initiated pull-to-refresh path,
// and reports the failure instead of just logging it.
func (p *Poller) Refresh(ctx context.Context) error {
	return p.fetch(ctx)
}

func (p *Poller) fetch(ctx context.Context) error {
	seq := p.seq.Add(1)

	orders, err := p.fetcher.ActiveOrders(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// A slow response from an older fetch must not overwrite newer data.
	if seq <= p.applied {
		return nil
	}
	p.applied = seq
	p.orders = orders
	p.fetchedAt = time.Now()
	return nil
}

// Snapshot returns the current orders and when they were fetched. The zero
// time means no fetch has succeeded yet.
func (p *Poller) Snapshot() ([]model.Order, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]model.Order, len(p.orders))
	copy(out, p.orders)
	return out, p.fetchedAt
}
