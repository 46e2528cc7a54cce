package session

import (
	"context"
	"errors"
	"sync"

	"github.com/billyrestey/golfstrategy/internal/client/api"
	"github.com/billyrestey/golfstrategy/internal/client/kv"
	"github.com/billyrestey/golfstrategy/internal/ghin"
)

// tokenKey is the durable KV key for the auth token.
const tokenKey = "session_token"

// ErrBusy is returned when a user-triggered operation is already in flight.
// The busy flag guards re-entrancy; a second action is rejected, not queued.
var ErrBusy = errors.New("session: operation already in progress")

// ErrNotAuthenticated is returned by operations that need a logged-in user.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Backend is the slice of the API client the session store drives.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Register(ctx context.Context, email, password, name string) (*api.AuthResult, error)
	RegisterWithGHIN(ctx context.Context, email, password, name, ghinNumber string) (*api.AuthGHINResult, error)
	Me(ctx context.Context) (*api.Profile, error)
	SetToken(token string)
}

// PendingClearer lets logout drop any pending analysis, durable copy
// included, so a stale preview never leaks into the next account.
type PendingClearer interface {
	Clear() error
}

// Snapshot is an immutable view of the session, safe to hand to the paywall
// gate and to subscribers.
type Snapshot struct {
	Authenticated bool
	UserID        string
	Email         string
	Name          string
	Tier          string
	Credits       int
}

// IsPro reports whether the account has unlimited analyses.
func (s Snapshot) IsPro() bool { return s.Authenticated && s.Tier == "pro" }

// Store owns the client-side identity. It starts Anonymous, becomes
// Authenticated on login or register, and reverts on logout or a rejected
// token. Every mutation notifies subscribers synchronously after the state
// is updated; the unlock orchestrator is driven by these notifications.
type Store struct {
	backend Backend
	kv      *kv.FileStore
	pending PendingClearer

	mu      sync.Mutex
	snap    Snapshot
	token   string
	busy    bool
	lastErr error
	subs    []func(Snapshot)
}

func NewStore(backend Backend, store *kv.FileStore, pending PendingClearer) *Store {
	return &Store{backend: backend, kv: store, pending: pending}
}

// Resume restores a persisted token and re-fetches the profile. A rejected
// token is treated as implicit logout; a network failure keeps the durable
// token for the next attempt and leaves the session anonymous for now.
func (s *Store) Resume(ctx context.Context) error {
	var token string
	ok, err := s.kv.Get(tokenKey, &token)
	if err != nil || !ok || token == "" {
		return err
	}
	s.backend.SetToken(token)
	profile, err := s.backend.Me(ctx)
	if err != nil {
		if api.IsKind(err, api.KindUnauthorized) {
			s.backend.SetToken("")
			_ = s.kv.Delete(tokenKey)
			return nil
		}
		s.backend.SetToken("")
		return err
	}
	s.mu.Lock()
	s.token = token
	s.applyProfileLocked(profile)
	s.mu.Unlock()
	s.notify()
	return nil
}

// Subscribe registers an observer called after every identity or profile
// change. The current snapshot is delivered immediately.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	snap := s.snap
	s.mu.Unlock()
	fn(snap)
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// LastErr returns the error from the most recent operation, nil on success.
func (s *Store) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Token returns the current auth token. Non-empty exactly when the session
// is authenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	release, err := s.begin()
	if err != nil {
		return err
	}
	defer release()
	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.setErr(err)
		return err
	}
	s.adoptAuth(res)
	return nil
}

func (s *Store) Register(ctx context.Context, email, password, name string) error {
	release, err := s.begin()
	if err != nil {
		return err
	}
	defer release()
	res, err := s.backend.Register(ctx, email, password, name)
	if err != nil {
		s.setErr(err)
		return err
	}
	s.adoptAuth(res)
	return nil
}

// RegisterWithGHIN registers and returns the golfer profile from the
// handicap service when the backend could fetch one.
func (s *Store) RegisterWithGHIN(ctx context.Context, email, password, name, ghinNumber string) (*ghin.Profile, error) {
	release, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer release()
	res, err := s.backend.RegisterWithGHIN(ctx, email, password, name, ghinNumber)
	if err != nil {
		s.setErr(err)
		return nil, err
	}
	s.adoptAuth(&res.AuthResult)
	return res.GHINProfile, nil
}

// Logout reverts to Anonymous. The durable token and both copies of any
// pending analysis are removed.
func (s *Store) Logout() {
	s.mu.Lock()
	s.snap = Snapshot{}
	s.token = ""
	s.lastErr = nil
	s.mu.Unlock()
	s.backend.SetToken("")
	_ = s.kv.Delete(tokenKey)
	if s.pending != nil {
		_ = s.pending.Clear()
	}
	s.notify()
}

// RefreshProfile re-fetches the profile. Idempotent; safe to call after a
// payment redirect. A rejected token logs the session out; a network
// failure changes nothing.
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.mu.Lock()
	if !s.snap.Authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.mu.Unlock()

	profile, err := s.backend.Me(ctx)
	if err != nil {
		if api.IsKind(err, api.KindUnauthorized) {
			s.Logout()
			return err
		}
		s.setErr(err)
		return err
	}
	s.mu.Lock()
	s.applyProfileLocked(profile)
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// UpdateCredits applies a locally known balance without a network call,
// typically the remaining_credits echoed by a commit.
func (s *Store) UpdateCredits(credits int) {
	s.mu.Lock()
	if !s.snap.Authenticated {
		s.mu.Unlock()
		return
	}
	s.snap.Credits = credits
	s.mu.Unlock()
	s.notify()
}

func (s *Store) begin() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, ErrBusy
	}
	s.busy = true
	return func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}, nil
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store) adoptAuth(res *api.AuthResult) {
	s.mu.Lock()
	s.token = res.Token
	s.applyProfileLocked(&res.User)
	s.lastErr = nil
	s.mu.Unlock()
	s.backend.SetToken(res.Token)
	_ = s.kv.Set(tokenKey, res.Token)
	s.notify()
}

func (s *Store) applyProfileLocked(p *api.Profile) {
	s.snap = Snapshot{
		Authenticated: true,
		UserID:        p.ID,
		Email:         p.Email,
		Name:          p.Name,
		Tier:          p.Tier,
		Credits:       p.Credits,
	}
}

// notify delivers the current snapshot to every subscriber, outside the
// store lock so a subscriber may call back into the store.
func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	snap := s.snap
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}
