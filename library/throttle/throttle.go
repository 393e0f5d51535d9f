// Package throttle limits how often callers may hit upstream-backed endpoints.
package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
)

const (
	// DefaultMaxClients bounds how many per-client buckets are tracked
	DefaultMaxClients = 10000
	// DefaultIdleTimeout is how long an unused client bucket is kept
	DefaultIdleTimeout = 10 * time.Minute
)

// Config configuration for Throttle
type Config struct {
	TotalNPerSec, TotalBurst   int
	ClientNPerSec, ClientBurst int
	// MaxClients bounds tracked clients, extra clients share only the total bucket
	MaxClients int
	// IdleTimeout evicts client buckets unused for this long once the table is full
	IdleTimeout time.Duration
}

// Option customises a Throttle
type Option func(*Throttle)

// WithClock injects the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(t *Throttle) {
		if now != nil {
			t.now = now
		}
	}
}

type clientBucket struct {
	limiter  *gutils.RateLimiter
	lastSeen time.Time
}

// Throttle combines a process-wide bucket with one bucket per client
type Throttle struct {
	sync.Mutex
	ctx     context.Context
	cfg     Config
	now     func() time.Time
	total   *gutils.RateLimiter
	clients map[string]*clientBucket
}

// New create new Throttle, buckets stop refilling when ctx is done
func New(ctx context.Context, cfg Config, opts ...Option) (t *Throttle, err error) {
	if cfg.TotalNPerSec <= 0 || cfg.ClientNPerSec <= 0 {
		return nil, errors.New("NPerSec must bigger than 0")
	}
	if cfg.TotalBurst < cfg.TotalNPerSec || cfg.ClientBurst < cfg.ClientNPerSec {
		return nil, errors.New("burst must bigger than NPerSec")
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultMaxClients
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	total, err := gutils.NewRateLimiter(ctx, gutils.RateLimiterArgs{
		Max:     cfg.TotalBurst,
		NPerSec: cfg.TotalNPerSec,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create total throttle")
	}

	t = &Throttle{
		ctx:     ctx,
		cfg:     cfg,
		now:     time.Now,
		total:   total,
		clients: make(map[string]*clientBucket),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	return t, nil
}

// Allow reports whether client may issue one more request
func (t *Throttle) Allow(client string) bool {
	limiter, err := t.clientLimiter(client)
	if err != nil {
		log.Logger.Error("create client throttle", zap.Error(err),
			zap.String("client", client),
			zap.Int("max", t.cfg.ClientBurst),
			zap.Int("n_per_sec", t.cfg.ClientNPerSec))
		return t.total.Allow()
	}
	if limiter != nil && !limiter.Allow() {
		return false
	}

	return t.total.Allow()
}

// clientLimiter returns nil when the client table is full of active clients
func (t *Throttle) clientLimiter(client string) (*gutils.RateLimiter, error) {
	t.Lock()
	defer t.Unlock()

	now := t.now()
	if bucket, ok := t.clients[client]; ok {
		bucket.lastSeen = now
		return bucket.limiter, nil
	}
	if len(t.clients) >= t.cfg.MaxClients {
		t.evictIdleLocked(now)
		if len(t.clients) >= t.cfg.MaxClients {
			return nil, nil
		}
	}

	limiter, err := gutils.NewRateLimiter(t.ctx, gutils.RateLimiterArgs{
		Max:     t.cfg.ClientBurst,
		NPerSec: t.cfg.ClientNPerSec,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create client throttle")
	}
	t.clients[client] = &clientBucket{limiter: limiter, lastSeen: now}
	return limiter, nil
}

// evictIdleLocked drops and stops buckets unused for IdleTimeout, t must be locked
func (t *Throttle) evictIdleLocked(now time.Time) {
	for client, bucket := range t.clients {
		if now.Sub(bucket.lastSeen) < t.cfg.IdleTimeout {
			continue
		}

		bucket.limiter.Close()
		delete(t.clients, client)
	}
}
