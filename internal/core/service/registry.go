package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// sessionStore is a per-session store a registry can cache and evict.
type sessionStore interface {
	// watching reports how many observers are attached. Watched stores
	// are never evicted.
	watching() int
	// persistedAt is the last time the store loaded from or saved to
	// the snapshot repository.
	persistedAt() time.Time
}

type RegistryOption func(*registryOptions)

type registryOptions struct {
	idleTimeout time.Duration
	snapshotTTL time.Duration
	now         func() time.Time
}

// WithIdleTimeout evicts stores nobody has opened for d.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) { o.idleTimeout = d }
}

// WithSnapshotTTL evicts stores whose snapshot has expired from storage, so
// a cached store never outlives its snapshot.
func WithSnapshotTTL(d time.Duration) RegistryOption {
	return func(o *registryOptions) { o.snapshotTTL = d }
}

func withClock(now func() time.Time) RegistryOption {
	return func(o *registryOptions) { o.now = now }
}

type registryEntry[S sessionStore] struct {
	store    S
	lastUsed atomic.Int64 // unix nanos
}

// registry hands out one store per session and keeps it until it is evicted.
type registry[S sessionStore] struct {
	kind   string
	prefix string
	open   func(ctx context.Context, key string) (S, error)
	logger *zap.Logger
	opts   registryOptions

	entries sync.Map // map[string]*registryEntry[S]
	group   singleflight.Group
}

func newRegistry[S sessionStore](kind, prefix string, open func(context.Context, string) (S, error), logger *zap.Logger, opts []RegistryOption) *registry[S] {
	o := registryOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &registry[S]{
		kind:   kind,
		prefix: prefix,
		open:   open,
		logger: logger,
		opts:   o,
	}
}

// Open returns the session's store, restoring it from storage on first use.
func (r *registry[S]) Open(ctx context.Context, sessionID string) (S, error) {
	if v, ok := r.entries.Load(sessionID); ok {
		e := v.(*registryEntry[S])
		e.lastUsed.Store(r.opts.now().UnixNano())
		return e.store, nil
	}

	v, err, _ := r.group.Do(sessionID, func() (interface{}, error) {
		if v, ok := r.entries.Load(sessionID); ok {
			return v, nil
		}
		store, err := r.open(ctx, r.prefix+sessionID)
		if err != nil {
			return nil, err
		}
		e := &registryEntry[S]{store: store}
		r.entries.Store(sessionID, e)
		r.logger.Debug("opened session store", zap.String("kind", r.kind), zap.String("session_id", sessionID))
		return e, nil
	})
	if err != nil {
		var zero S
		return zero, err
	}

	e := v.(*registryEntry[S])
	e.lastUsed.Store(r.opts.now().UnixNano())
	return e.store, nil
}

// Len returns the number of cached stores.
func (r *registry[S]) Len() int {
	n := 0
	r.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Evict drops unwatched stores that have been idle longer than the idle
// timeout or whose snapshot has outlived the snapshot TTL. It returns the
// number of stores dropped.
func (r *registry[S]) Evict() int {
	if r.opts.idleTimeout <= 0 && r.opts.snapshotTTL <= 0 {
		return 0
	}

	now := r.opts.now()
	evicted := 0
	r.entries.Range(func(k, v interface{}) bool {
		e := v.(*registryEntry[S])
		if e.store.watching() > 0 || !r.expired(e, now) {
			return true
		}
		if r.entries.CompareAndDelete(k, e) {
			evicted++
		}
		return true
	})

	if evicted > 0 {
		r.logger.Debug("evicted session stores", zap.String("kind", r.kind), zap.Int("count", evicted))
	}
	return evicted
}

func (r *registry[S]) expired(e *registryEntry[S], now time.Time) bool {
	if r.opts.idleTimeout > 0 && now.Sub(time.Unix(0, e.lastUsed.Load())) >= r.opts.idleTimeout {
		return true
	}
	return r.opts.snapshotTTL > 0 && now.Sub(e.store.persistedAt()) >= r.opts.snapshotTTL
}

// Run calls Evict every interval until ctx is done.
func (r *registry[S]) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Evict()
		}
	}
}
