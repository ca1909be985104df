package limiter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/clock"
	"github.com/and161185/jobboard/internal/model"
)

// Key prefixes of limiter records in the secure store.
const (
	AttemptsPrefix = "attempts_"
	LockoutPrefix  = "lockout_"
)

// KV is the subset of the secure store used by the limiter.
type KV interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any) bool
	Remove(ctx context.Context, key string)
	Keys(ctx context.Context, prefix string) []string
}

// Store is a Limiter persisted in the secure store.
type Store struct {
	kv          KV
	clk         clock.Clock
	log         *zap.Logger
	maxAttempts int
	lockout     time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAttempts sets the number of failures that triggers a lockout.
func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLockoutDuration sets both the lockout length and the attempt tracking window.
func WithLockoutDuration(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clk = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore constructs a store-backed limiter.
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:          kv,
		clk:         clock.Real{},
		log:         zap.NewNop(),
		maxAttempts: DefaultMaxAttempts,
		lockout:     DefaultLockoutDuration,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("limiter")
	return s
}

func (s *Store) CheckLockout(ctx context.Context, id string) Lockout {
	key := LockoutPrefix + id
	var rec model.LockoutRecord
	if !s.kv.Get(ctx, key, &rec) {
		return Lockout{}
	}

	elapsed := s.clk.Now().Sub(rec.LockedAt)
	if elapsed >= s.lockout {
		s.kv.Remove(ctx, key)
		s.log.Debug("lockout expired", zap.String("id", id))
		return Lockout{}
	}

	remaining := s.lockout - elapsed
	return Lockout{
		Locked:           true,
		Remaining:        remaining,
		RemainingMinutes: ceilMinutes(remaining),
	}
}

func (s *Store) RecordFailure(ctx context.Context, id string) Attempt {
	key := AttemptsPrefix + id
	now := s.clk.Now()

	var rec model.AttemptRecord
	if !s.kv.Get(ctx, key, &rec) || now.Sub(rec.FirstAttempt) >= s.lockout {
		rec = model.AttemptRecord{Count: 0, FirstAttempt: now}
	}
	rec.Count++

	if rec.Count >= s.maxAttempts {
		s.kv.Set(ctx, LockoutPrefix+id, model.LockoutRecord{LockedAt: now})
		s.kv.Remove(ctx, key)
		s.log.Info("identifier locked", zap.String("id", id), zap.Duration("for", s.lockout))
		return Attempt{AttemptsLeft: 0, Locked: true}
	}

	s.kv.Set(ctx, key, rec)
	return Attempt{AttemptsLeft: s.maxAttempts - rec.Count}
}

func (s *Store) Clear(ctx context.Context, id string) {
	s.kv.Remove(ctx, AttemptsPrefix+id)
	s.kv.Remove(ctx, LockoutPrefix+id)
}

func (s *Store) Sweep(ctx context.Context) int {
	now := s.clk.Now()
	removed := 0

	for _, key := range s.kv.Keys(ctx, LockoutPrefix) {
		var rec model.LockoutRecord
		if !s.kv.Get(ctx, key, &rec) || now.Sub(rec.LockedAt) >= s.lockout {
			s.kv.Remove(ctx, key)
			removed++
		}
	}
	for _, key := range s.kv.Keys(ctx, AttemptsPrefix) {
		var rec model.AttemptRecord
		if !s.kv.Get(ctx, key, &rec) || now.Sub(rec.FirstAttempt) >= s.lockout {
			s.kv.Remove(ctx, key)
			removed++
		}
	}

	if removed > 0 {
		s.log.Debug("swept limiter records", zap.Int("removed", removed))
	}
	return removed
}

func ceilMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}
