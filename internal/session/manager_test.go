package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/jobboard/internal/clock"
	"github.com/and161185/jobboard/internal/events"
	"github.com/and161185/jobboard/internal/model"
	"github.com/and161185/jobboard/internal/repository/kv"
	"github.com/and161185/jobboard/internal/securestore"
	"github.com/and161185/jobboard/internal/storage"
)

type fakeAuth struct {
	sessions *kv.SessionRepo
	logouts  int
}

func (f *fakeAuth) Logout(ctx context.Context) {
	f.logouts++
	f.sessions.End(ctx)
}

type fixture struct {
	m        *Manager
	hub      *Hub
	clk      *clock.Fake
	auth     *fakeAuth
	sessions *kv.SessionRepo
	events   []events.Event
	timeouts int
}

var t0 = time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()
	store, err := securestore.New(storage.NewMemory(), []byte("secret"), zaptest.NewLogger(t))
	require.NoError(t, err)

	f := &fixture{
		hub:      NewHub(),
		clk:      clock.NewFake(t0),
		sessions: kv.NewSessionRepo(store),
	}
	f.auth = &fakeAuth{sessions: f.sessions}
	bus := events.NewBus()
	bus.Subscribe(func(e events.Event) { f.events = append(f.events, e) })

	if loggedIn {
		require.NoError(t, f.sessions.Start(context.Background(), model.User{ID: "u1"}, t0))
	}
	f.m = NewManager(f.sessions, f.auth, f.hub,
		WithClock(f.clk), WithBus(bus), WithLogger(zaptest.NewLogger(t)),
		WithOnTimeout(func() { f.timeouts++ }))
	return f
}

func (f *fixture) kinds() []events.Kind {
	out := make([]events.Kind, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

func TestInit_WithoutActivityTimesOutImmediately(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	require.True(t, f.m.IsExpired(ctx))
	require.Zero(t, f.m.RemainingTime(ctx))

	teardown := f.m.Init(ctx, func(int) { t.Fatal("no warning expected") })
	teardown()

	require.Equal(t, Expired, f.m.State())
	require.Equal(t, 1, f.auth.logouts)
	require.Equal(t, 1, f.timeouts)
	require.Equal(t, []events.Kind{events.SessionTimeout}, f.kinds())
	require.Zero(t, f.clk.Pending())
	require.Zero(t, f.hub.Listeners())
}

func TestInit_AfterIdlePeriodTimesOutImmediately(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.clk.Advance(30 * time.Minute)
	require.True(t, f.m.IsExpired(ctx))

	f.m.Init(ctx, nil)
	require.Equal(t, Expired, f.m.State())
	require.Equal(t, 1, f.auth.logouts)
	require.Zero(t, f.clk.Pending())

	_, err := f.sessions.CurrentUser(ctx)
	require.Error(t, err, "forced logout must clear the current user")
}

func TestWarningThenExpiry(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	var warned []int
	teardown := f.m.Init(ctx, func(sec int) { warned = append(warned, sec) })
	defer teardown()

	require.Equal(t, Active, f.m.State())
	require.False(t, f.m.IsExpired(ctx))
	require.Equal(t, 1800, f.m.RemainingTime(ctx))
	require.Equal(t, len(ActivityKinds), f.hub.Listeners())

	f.clk.Advance(28*time.Minute - time.Second)
	require.Empty(t, warned)

	f.clk.Advance(time.Second)
	require.Equal(t, []int{120}, warned)
	require.Equal(t, []events.Event{{Kind: events.SessionWarning, RemainingSeconds: 120}}, f.events)
	require.Equal(t, Active, f.m.State())

	f.clk.Advance(2 * time.Minute)
	require.Equal(t, Expired, f.m.State())
	require.Equal(t, 1, f.auth.logouts)
	require.Equal(t, 1, f.timeouts)
	require.Equal(t, []events.Kind{events.SessionWarning, events.SessionTimeout}, f.kinds())
	require.Zero(t, f.hub.Listeners())
	require.Zero(t, f.clk.Pending())
}

func TestActivityResetsTimers(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	teardown := f.m.Init(ctx, nil)
	defer teardown()

	f.clk.Advance(20 * time.Minute)
	f.hub.Emit(KeyDown)

	last, err := f.sessions.LastActivity(ctx)
	require.NoError(t, err)
	require.True(t, last.Equal(t0.Add(20*time.Minute)))

	f.clk.Advance(20 * time.Minute)
	require.Equal(t, Active, f.m.State(), "activity must postpone expiry")
	require.Empty(t, f.events)
	require.Equal(t, 600, f.m.RemainingTime(ctx))

	f.clk.Advance(10*time.Minute + 500*time.Millisecond)
	require.Equal(t, Expired, f.m.State())
	require.Equal(t, []events.Kind{events.SessionWarning, events.SessionTimeout}, f.kinds())

	// listeners are detached, further activity is ignored
	f.hub.Emit(Click)
	require.Zero(t, f.clk.Pending())
}

func TestTeardownCancelsEverything(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	teardown := f.m.Init(ctx, func(int) { t.Fatal("warning after teardown") })
	require.Equal(t, 2, f.clk.Pending())

	teardown()
	teardown()
	require.Equal(t, Inactive, f.m.State())
	require.Zero(t, f.clk.Pending())
	require.Zero(t, f.hub.Listeners())

	f.clk.Advance(time.Hour)
	require.Zero(t, f.auth.logouts)
	require.Empty(t, f.events)
}

func TestStaleTeardownDoesNotStopNewerInit(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	first := f.m.Init(ctx, nil)
	second := f.m.Init(ctx, nil)
	defer second()

	require.Equal(t, len(ActivityKinds), f.hub.Listeners())
	first()
	require.Equal(t, Active, f.m.State())
	require.Equal(t, 2, f.clk.Pending())
}

func TestExtendAndEnd(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.m.Extend(ctx)
	require.Zero(t, f.clk.Pending(), "Extend on an inactive manager arms nothing")

	teardown := f.m.Init(ctx, nil)
	defer teardown()

	f.clk.Advance(25 * time.Minute)
	f.m.Extend(ctx)
	require.Equal(t, 1800, f.m.RemainingTime(ctx))

	f.m.End(ctx)
	require.Equal(t, Inactive, f.m.State())
	require.Equal(t, 1, f.auth.logouts)
	require.Zero(t, f.clk.Pending())
	require.True(t, f.m.IsExpired(ctx))
}

func TestRemainingTimeFloors(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.clk.Advance(10*time.Second + 500*time.Millisecond)
	require.Equal(t, 1789, f.m.RemainingTime(ctx))

	f.clk.Advance(2 * time.Hour)
	require.Zero(t, f.m.RemainingTime(ctx))
}

func TestOptions(t *testing.T) {
	f := newFixture(t, true)
	m := NewManager(f.sessions, f.auth, f.hub,
		WithClock(f.clk), WithTimeout(time.Minute), WithWarningLead(0),
		WithTimeout(-1), WithWarningLead(-1), WithLogger(nil))
	require.Equal(t, time.Minute, m.timeout)
	require.Zero(t, m.warningLead)

	teardown := m.Init(context.Background(), nil)
	defer teardown()
	require.Equal(t, 1, f.clk.Pending(), "zero warning lead arms only the expiry timer")
	require.Equal(t, "active", m.State().String())
}
