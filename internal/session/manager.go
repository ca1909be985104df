// Package session implements idle-timeout tracking for a logged-in user.
//
// A Manager moves Inactive -> Active on Init. Every activity event records the activity
// time and re-arms two one-shot timers: a warning timer at timeout-warningLead and an
// expiry timer at timeout. When the expiry timer fires the user is logged out and the
// Manager becomes Expired. End returns it to Inactive.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/clock"
	"github.com/and161185/jobboard/internal/events"
)

// Defaults used when no option overrides them.
const (
	DefaultTimeout     = 30 * time.Minute
	DefaultWarningLead = 2 * time.Minute
)

// State is the lifecycle state of a Manager.
type State int

const (
	Inactive State = iota
	Active
	Expired
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Store persists the last activity time.
type Store interface {
	Touch(ctx context.Context, at time.Time) error
	LastActivity(ctx context.Context) (time.Time, error)
}

// Logouter ends the authenticated session.
type Logouter interface {
	Logout(ctx context.Context)
}

// Manager tracks idle time of one session. It is safe for concurrent use.
type Manager struct {
	store  Store
	auth   Logouter
	source ActivitySource

	clk         clock.Clock
	bus         *events.Bus
	log         *zap.Logger
	timeout     time.Duration
	warningLead time.Duration
	onTimeout   func()

	mu        sync.Mutex
	state     State
	epoch     uint64 // bumped by every Init
	gen       uint64 // bumped whenever timers are re-armed or cancelled
	warnTimer clock.Timer
	expTimer  clock.Timer
	detach    []func()
	onWarning func(remainingSeconds int)
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets the idle timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithWarningLead sets how long before expiry the warning fires. Zero disables the warning.
func WithWarningLead(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.warningLead = d
		}
	}
}

func WithClock(c clock.Clock) Option { return func(m *Manager) { m.clk = c } }

// WithBus publishes session-warning and session-timeout on b.
func WithBus(b *events.Bus) Option { return func(m *Manager) { m.bus = b } }

func WithLogger(l *zap.Logger) Option { return func(m *Manager) { m.log = l } }

// WithOnTimeout sets a hook run after a forced logout, e.g. to return to the login prompt.
func WithOnTimeout(fn func()) Option { return func(m *Manager) { m.onTimeout = fn } }

// NewManager constructs an inactive Manager.
func NewManager(store Store, auth Logouter, source ActivitySource, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		auth:        auth,
		source:      source,
		clk:         clock.Real{},
		log:         zap.NewNop(),
		timeout:     DefaultTimeout,
		warningLead: DefaultWarningLead,
	}
	for _, o := range opts {
		o(m)
	}
	if m.clk == nil {
		m.clk = clock.Real{}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.log = m.log.Named("session")
	return m
}

// Init starts idle tracking. If the session is already expired it performs the timeout
// immediately, arms nothing and returns a no-op teardown. The returned teardown detaches the
// activity listeners and cancels both timers; it must be called when tracking is no longer needed.
func (m *Manager) Init(ctx context.Context, onWarning func(remainingSeconds int)) (teardown func()) {
	if m.IsExpired(ctx) {
		m.mu.Lock()
		m.stopLocked()
		m.state = Expired
		m.mu.Unlock()
		m.log.Info("session already expired at init")
		m.expire(ctx)
		return func() {}
	}

	m.mu.Lock()
	m.stopLocked()
	m.onWarning = onWarning
	for _, kind := range ActivityKinds {
		m.detach = append(m.detach, m.source.Listen(kind, m.activity))
	}
	m.state = Active
	m.epoch++
	epoch := m.epoch
	m.resetLocked(ctx)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// a later Init owns the timers now
			if m.epoch != epoch {
				return
			}
			m.stopLocked()
			if m.state == Active {
				m.state = Inactive
			}
		})
	}
}

// Extend records activity and re-arms the timers of an active session.
func (m *Manager) Extend(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Active {
		return
	}
	m.resetLocked(ctx)
}

// End cancels tracking and logs the user out.
func (m *Manager) End(ctx context.Context) {
	m.mu.Lock()
	m.stopLocked()
	m.state = Inactive
	m.mu.Unlock()
	m.auth.Logout(ctx)
}

// IsExpired reports whether the idle timeout elapsed since the last activity.
// A session without recorded activity is expired.
func (m *Manager) IsExpired(ctx context.Context) bool {
	last, err := m.store.LastActivity(ctx)
	if err != nil {
		return true
	}
	return m.clk.Now().Sub(last) >= m.timeout
}

// RemainingTime returns the whole seconds left before the idle timeout, never negative.
func (m *Manager) RemainingTime(ctx context.Context) int {
	last, err := m.store.LastActivity(ctx)
	if err != nil {
		return 0
	}
	remaining := m.timeout - m.clk.Now().Sub(last)
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Second)
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) activity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Active {
		return
	}
	m.resetLocked(context.Background())
}

// resetLocked records activity and re-arms both timers under a new generation.
func (m *Manager) resetLocked(ctx context.Context) {
	m.stopTimersLocked()
	if err := m.store.Touch(ctx, m.clk.Now()); err != nil {
		m.log.Warn("record activity", zap.Error(err))
	}

	gen := m.gen
	if m.warningLead > 0 && m.warningLead < m.timeout {
		m.warnTimer = m.clk.AfterFunc(m.timeout-m.warningLead, func() { m.fireWarning(gen) })
	}
	m.expTimer = m.clk.AfterFunc(m.timeout, func() { m.fireExpiry(gen) })
}

// stopTimersLocked cancels both timers and invalidates callbacks already in flight.
func (m *Manager) stopTimersLocked() {
	m.gen++
	if m.warnTimer != nil {
		m.warnTimer.Stop()
		m.warnTimer = nil
	}
	if m.expTimer != nil {
		m.expTimer.Stop()
		m.expTimer = nil
	}
}

func (m *Manager) stopLocked() {
	m.stopTimersLocked()
	for _, remove := range m.detach {
		remove()
	}
	m.detach = nil
}

func (m *Manager) fireWarning(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != Active {
		m.mu.Unlock()
		return
	}
	cb := m.onWarning
	m.mu.Unlock()

	ctx := context.Background()
	remaining := m.RemainingTime(ctx)
	if cb != nil {
		cb(remaining)
	}
	m.bus.Publish(events.Event{Kind: events.SessionWarning, RemainingSeconds: remaining})
}

func (m *Manager) fireExpiry(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != Active {
		m.mu.Unlock()
		return
	}
	m.stopLocked()
	m.state = Expired
	m.mu.Unlock()

	m.log.Info("session expired after inactivity", zap.Duration("timeout", m.timeout))
	m.expire(context.Background())
}

// expire performs the forced logout. It runs without holding m.mu.
func (m *Manager) expire(ctx context.Context) {
	m.auth.Logout(ctx)
	m.bus.Publish(events.Event{Kind: events.SessionTimeout})
	if m.onTimeout != nil {
		m.onTimeout()
	}
}
