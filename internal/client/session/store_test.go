package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/billyrestey/golfstrategy/internal/client/api"
	"github.com/billyrestey/golfstrategy/internal/client/kv"
)

type fakeBackend struct {
	loginRes    *api.AuthResult
	loginErr    error
	registerRes *api.AuthResult
	registerErr error
	ghinRes     *api.AuthGHINResult
	meRes       *api.Profile
	meErr       error

	token   string
	meCalls int
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeBackend) Register(ctx context.Context, email, password, name string) (*api.AuthResult, error) {
	return f.registerRes, f.registerErr
}

func (f *fakeBackend) RegisterWithGHIN(ctx context.Context, email, password, name, ghinNumber string) (*api.AuthGHINResult, error) {
	return f.ghinRes, f.registerErr
}

func (f *fakeBackend) Me(ctx context.Context) (*api.Profile, error) {
	f.meCalls++
	return f.meRes, f.meErr
}

func (f *fakeBackend) SetToken(token string) { f.token = token }

type fakePending struct{ cleared int }

func (f *fakePending) Clear() error {
	f.cleared++
	return nil
}

func newKV(t *testing.T, dir string) *kv.FileStore {
	t.Helper()
	store, err := kv.NewFileStore(filepath.Join(dir, "coach.json"))
	require.NoError(t, err)
	return store
}

func authResult() *api.AuthResult {
	return &api.AuthResult{
		Token: "tok",
		User:  api.Profile{ID: "user-1", Email: "a@b.com", Name: "Billy", Tier: "free", Credits: 1},
	}
}

func TestLoginSetsIdentityAndPersistsToken(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{loginRes: authResult()}
	store := NewStore(backend, newKV(t, dir), &fakePending{})

	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	snap := store.Snapshot()
	require.True(t, snap.Authenticated)
	require.Equal(t, "user-1", snap.UserID)
	require.Equal(t, 1, snap.Credits)
	require.Equal(t, "tok", backend.token)
	require.Equal(t, "tok", store.Token())

	var persisted string
	ok, err := newKV(t, dir).Get("session_token", &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok", persisted)
}

func TestLoginFailureDoesNotMutateIdentity(t *testing.T) {
	backend := &fakeBackend{loginErr: &api.Error{Kind: api.KindNetwork, Message: "timeout"}}
	store := NewStore(backend, newKV(t, t.TempDir()), &fakePending{})

	err := store.Login(context.Background(), "a@b.com", "secret")
	require.Error(t, err)
	require.True(t, api.IsKind(err, api.KindNetwork))
	require.False(t, store.Snapshot().Authenticated)
	require.Empty(t, store.Token())
	require.Error(t, store.LastErr())
}

func TestLogoutClearsTokenAndPending(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{loginRes: authResult()}
	pend := &fakePending{}
	store := NewStore(backend, newKV(t, dir), pend)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	store.Logout()

	require.False(t, store.Snapshot().Authenticated)
	require.Empty(t, store.Token())
	require.Empty(t, backend.token)
	require.Equal(t, 1, pend.cleared)

	var persisted string
	ok, err := newKV(t, dir).Get("session_token", &persisted)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateCreditsIsLocal(t *testing.T) {
	backend := &fakeBackend{loginRes: authResult()}
	store := NewStore(backend, newKV(t, t.TempDir()), &fakePending{})
	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))
	before := backend.meCalls

	store.UpdateCredits(4)

	require.Equal(t, 4, store.Snapshot().Credits)
	require.Equal(t, before, backend.meCalls, "UpdateCredits must not hit the network")
}

func TestSubscribeNotifiedOnMutations(t *testing.T) {
	backend := &fakeBackend{loginRes: authResult()}
	store := NewStore(backend, newKV(t, t.TempDir()), &fakePending{})

	var seen []Snapshot
	store.Subscribe(func(s Snapshot) { seen = append(seen, s) })
	require.Len(t, seen, 1, "subscription delivers the current snapshot")

	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))
	require.True(t, seen[len(seen)-1].Authenticated)

	store.UpdateCredits(7)
	require.Equal(t, 7, seen[len(seen)-1].Credits)

	store.Logout()
	require.False(t, seen[len(seen)-1].Authenticated)
}

func TestRefreshProfileRequiresAuth(t *testing.T) {
	store := NewStore(&fakeBackend{}, newKV(t, t.TempDir()), &fakePending{})
	require.ErrorIs(t, store.RefreshProfile(context.Background()), ErrNotAuthenticated)
}

func TestRefreshProfileUnauthorizedLogsOut(t *testing.T) {
	backend := &fakeBackend{loginRes: authResult()}
	store := NewStore(backend, newKV(t, t.TempDir()), &fakePending{})
	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	backend.meErr = &api.Error{Kind: api.KindUnauthorized, Message: "token expired"}
	err := store.RefreshProfile(context.Background())
	require.Error(t, err)
	require.False(t, store.Snapshot().Authenticated)
	require.Empty(t, store.Token())
}

func TestResumeRestoresSession(t *testing.T) {
	dir := t.TempDir()
	store := newKV(t, dir)
	require.NoError(t, store.Set("session_token", "tok"))

	backend := &fakeBackend{meRes: &api.Profile{ID: "user-1", Tier: "pro", Credits: 0}}
	sess := NewStore(backend, store, &fakePending{})
	require.NoError(t, sess.Resume(context.Background()))

	snap := sess.Snapshot()
	require.True(t, snap.Authenticated)
	require.True(t, snap.IsPro())
	require.Equal(t, "tok", backend.token)
}

func TestResumeDropsRejectedToken(t *testing.T) {
	dir := t.TempDir()
	store := newKV(t, dir)
	require.NoError(t, store.Set("session_token", "stale"))

	backend := &fakeBackend{meErr: &api.Error{Kind: api.KindUnauthorized, Message: "expired"}}
	sess := NewStore(backend, store, &fakePending{})
	require.NoError(t, sess.Resume(context.Background()))

	require.False(t, sess.Snapshot().Authenticated)
	var persisted string
	ok, err := store.Get("session_token", &persisted)
	require.NoError(t, err)
	require.False(t, ok)
}
