package unlock

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/billyrestey/golfstrategy/internal/client/api"
	"github.com/billyrestey/golfstrategy/internal/client/kv"
	"github.com/billyrestey/golfstrategy/internal/client/pending"
	"github.com/billyrestey/golfstrategy/internal/client/session"
)

type fakeSession struct {
	snap session.Snapshot
	subs []func(session.Snapshot)

	updatedCredits []int
}

func (f *fakeSession) Snapshot() session.Snapshot { return f.snap }

func (f *fakeSession) UpdateCredits(credits int) {
	f.snap.Credits = credits
	f.updatedCredits = append(f.updatedCredits, credits)
	for _, fn := range f.subs {
		fn(f.snap)
	}
}

func (f *fakeSession) Subscribe(fn func(session.Snapshot)) {
	f.subs = append(f.subs, fn)
	fn(f.snap)
}

type fakeCommitter struct {
	res   *api.CommitResult
	err   error
	calls int
	// onCommit lets a test interleave a duplicate signal mid-commit.
	onCommit func()
}

func (f *fakeCommitter) Commit(ctx context.Context, payload, formSnapshot json.RawMessage) (*api.CommitResult, error) {
	f.calls++
	if f.onCommit != nil {
		f.onCommit()
	}
	return f.res, f.err
}

func newHolder(t *testing.T) *pending.Holder {
	t.Helper()
	store, err := kv.NewFileStore(filepath.Join(t.TempDir(), "coach.json"))
	require.NoError(t, err)
	return pending.NewHolder(store)
}

func entitled() session.Snapshot {
	return session.Snapshot{Authenticated: true, UserID: "user-1", Tier: "free", Credits: 1}
}

func newOrchestrator(sess *fakeSession, holder *pending.Holder, committer *fakeCommitter) *Orchestrator {
	return New(Options{
		Session:        sess,
		Holder:         holder,
		Committer:      committer,
		RequirePayment: true,
		Logger:         zerolog.Nop(),
	})
}

func TestDuplicateSignalsCommitOnce(t *testing.T) {
	holder := newHolder(t)
	require.NoError(t, holder.Store(json.RawMessage(`{"summary":"s"}`), json.RawMessage(`{}`)))
	sess := &fakeSession{snap: entitled()}
	committer := &fakeCommitter{res: &api.CommitResult{AnalysisID: "a-1", RemainingCredits: 0}}
	o := newOrchestrator(sess, holder, committer)

	require.NoError(t, o.Signal(context.Background()))
	require.NoError(t, o.Signal(context.Background()))
	require.NoError(t, o.Signal(context.Background()))

	require.Equal(t, 1, committer.calls)
	require.Equal(t, Done, o.State())
	require.Equal(t, []int{0}, sess.updatedCredits)
	_, ok := holder.Restore()
	require.False(t, ok, "restore after a successful commit must return nothing")
}

func TestInterleavedSignalDuringCommitNoOps(t *testing.T) {
	holder := newHolder(t)
	require.NoError(t, holder.Store(json.RawMessage(`{}`), json.RawMessage(`{}`)))
	sess := &fakeSession{snap: entitled()}
	committer := &fakeCommitter{res: &api.CommitResult{AnalysisID: "a-1", RemainingCredits: 0}}
	o := newOrchestrator(sess, holder, committer)
	committer.onCommit = func() {
		// A concurrent refresh lands while the commit is in flight.
		require.NoError(t, o.Signal(context.Background()))
	}

	require.NoError(t, o.Signal(context.Background()))
	require.Equal(t, 1, committer.calls)
	require.Equal(t, Done, o.State())
}

func TestSessionChangeTriggersCommit(t *testing.T) {
	holder := newHolder(t)
	require.NoError(t, holder.Store(json.RawMessage(`{}`), json.RawMessage(`{}`)))
	sess := &fakeSession{}
	committer := &fakeCommitter{res: &api.CommitResult{AnalysisID: "a-1", RemainingCredits: 2}}
	o := newOrchestrator(sess, holder, committer)

	o.Start()
	require.Equal(t, AwaitingEntitlement, o.State(), "anonymous session leaves the result pending")
	require.Zero(t, committer.calls)

	// Login completes and the store notifies its subscribers.
	sess.snap = entitled()
	for _, fn := range sess.subs {
		fn(sess.snap)
	}

	require.Equal(t, 1, committer.calls)
	require.Equal(t, Done, o.State())
	require.Equal(t, 2, sess.snap.Credits)
}

func TestCommitFailureKeepsPendingAndRetries(t *testing.T) {
	holder := newHolder(t)
	require.NoError(t, holder.Store(json.RawMessage(`{"summary":"s"}`), json.RawMessage(`{}`)))
	sess := &fakeSession{snap: entitled()}
	committer := &fakeCommitter{err: errors.New("backend down")}
	o := newOrchestrator(sess, holder, committer)

	require.Error(t, o.Signal(context.Background()))
	require.Equal(t, Failed, o.State())
	require.Error(t, o.Err())

	result, ok := holder.Restore()
	require.True(t, ok, "failed commit must leave the result restorable")
	require.JSONEq(t, `{"summary":"s"}`, string(result.Payload))

	// Retry after the backend recovers.
	committer.err = nil
	committer.res = &api.CommitResult{AnalysisID: "a-1", RemainingCredits: 0}
	require.NoError(t, o.Signal(context.Background()))
	require.Equal(t, Done, o.State())
	require.NoError(t, o.Err())
	require.Equal(t, 2, committer.calls)
	_, ok = holder.Restore()
	require.False(t, ok)
}

func TestNoPendingResultNoCommit(t *testing.T) {
	holder := newHolder(t)
	sess := &fakeSession{snap: entitled()}
	committer := &fakeCommitter{}
	o := newOrchestrator(sess, holder, committer)

	require.NoError(t, o.Signal(context.Background()))
	require.Zero(t, committer.calls)
	require.Equal(t, Idle, o.State())
}

func TestOnUnlockedFiresOncePerResult(t *testing.T) {
	holder := newHolder(t)
	require.NoError(t, holder.Store(json.RawMessage(`{}`), json.RawMessage(`{}`)))
	sess := &fakeSession{snap: entitled()}
	committer := &fakeCommitter{res: &api.CommitResult{AnalysisID: "a-1", RemainingCredits: 0}}

	var unlocked []string
	o := New(Options{
		Session:        sess,
		Holder:         holder,
		Committer:      committer,
		RequirePayment: true,
		Logger:         zerolog.Nop(),
		OnUnlocked:     func(res api.CommitResult) { unlocked = append(unlocked, res.AnalysisID) },
	})

	require.NoError(t, o.Signal(context.Background()))
	require.NoError(t, o.Signal(context.Background()))
	require.Equal(t, []string{"a-1"}, unlocked)
}
