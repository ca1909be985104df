package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/model"
	"github.com/and161185/jobboard/internal/repository"
	"github.com/and161185/jobboard/internal/securestore"
	"github.com/and161185/jobboard/internal/storage"
)

var (
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.ApplicationRepository = (*ApplicationRepo)(nil)
	_ repository.SessionRepository     = (*SessionRepo)(nil)
)

func newStore(t *testing.T) *securestore.Store {
	t.Helper()
	s, err := securestore.New(storage.NewMemory(), []byte("secret"), zap.NewNop())
	require.NoError(t, err)
	return s
}

// readOnly drops every write.
type readOnly struct{ Store }

func (readOnly) Set(context.Context, string, any) bool { return false }

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(newStore(t))

	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	ann := model.UserRecord{ID: "1", Name: "Ann", Email: "ann@example.com", PasswordHash: "h"}
	require.NoError(t, r.Create(ctx, ann))
	require.NoError(t, r.Create(ctx, model.UserRecord{ID: "2", Email: "bob@example.com"}))
	require.ErrorIs(t, r.Create(ctx, model.UserRecord{ID: "3", Email: "ann@example.com"}), errs.ErrAlreadyExists)

	got, err := r.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, ann, got)

	_, err = r.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, errs.ErrNotFound)

	users, _ = r.List(ctx)
	require.Len(t, users, 2)
}

func TestUserRepo_WriteFailure(t *testing.T) {
	r := NewUserRepo(readOnly{newStore(t)})
	err := r.Create(context.Background(), model.UserRecord{Email: "a@b.co"})
	require.ErrorIs(t, err, errs.ErrUnexpected)
}

func TestRepos_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newStore(t)

	users := NewUserRepo(s)
	require.ErrorIs(t, users.Create(ctx, model.UserRecord{Email: "a@b.co"}), context.Canceled)
	_, err := users.GetByEmail(ctx, "a@b.co")
	require.ErrorIs(t, err, context.Canceled)

	apps := NewApplicationRepo(s)
	require.ErrorIs(t, apps.Add(ctx, model.Application{JobID: 1}), context.Canceled)
	_, err = apps.AppliedJobs(ctx)
	require.ErrorIs(t, err, context.Canceled)

	list, err := users.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list, "nothing was written")
}

func TestApplicationRepo(t *testing.T) {
	ctx := context.Background()
	r := NewApplicationRepo(newStore(t))

	ids, err := r.AppliedJobs(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, r.Add(ctx, model.Application{JobID: 3, Resume: "cv.pdf"}))
	require.NoError(t, r.Add(ctx, model.Application{JobID: 1, Resume: "cv.pdf"}))
	require.NoError(t, r.Add(ctx, model.Application{JobID: 3, Resume: "cv-v2.pdf"}))

	ids, _ = r.AppliedJobs(ctx)
	require.Equal(t, []int{3, 1}, ids)

	apps, _ := r.List(ctx)
	require.Len(t, apps, 3)
	require.Equal(t, "cv-v2.pdf", apps[2].Resume)

	require.ErrorIs(t, NewApplicationRepo(readOnly{newStore(t)}).Add(ctx, model.Application{JobID: 1}), errs.ErrUnexpected)
}

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepo(newStore(t))

	_, err := r.CurrentUser(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = r.LastActivity(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)

	t0 := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	u := model.User{ID: "1", Name: "Ann", Email: "ann@example.com", CreatedAt: t0}
	require.NoError(t, r.Start(ctx, u, t0))
	require.NoError(t, r.SetToken(ctx, "tok"))

	got, err := r.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, u, got)

	require.NoError(t, r.Touch(ctx, t0.Add(time.Minute)))
	require.NoError(t, r.Touch(ctx, t0.Add(30*time.Second)))
	last, err := r.LastActivity(ctx)
	require.NoError(t, err)
	require.True(t, last.Equal(t0.Add(time.Minute)), "last activity must not move backwards")

	tok, err := r.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok", tok)

	r.End(ctx)
	_, err = r.CurrentUser(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = r.LastActivity(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = r.Token(ctx)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
