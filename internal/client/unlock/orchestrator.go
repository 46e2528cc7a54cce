package unlock

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/billyrestey/golfstrategy/internal/client/api"
	"github.com/billyrestey/golfstrategy/internal/client/paywall"
	"github.com/billyrestey/golfstrategy/internal/client/pending"
	"github.com/billyrestey/golfstrategy/internal/client/session"
)

// State of the unlock flow for the current pending analysis.
type State int

const (
	Idle State = iota
	AwaitingEntitlement
	Committing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingEntitlement:
		return "awaiting_entitlement"
	case Committing:
		return "committing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Committer persists an analysis server-side, consuming a credit.
type Committer interface {
	Commit(ctx context.Context, payload, formSnapshot json.RawMessage) (*api.CommitResult, error)
}

// Session is the slice of the session store the orchestrator needs.
type Session interface {
	Snapshot() session.Snapshot
	UpdateCredits(credits int)
	Subscribe(fn func(session.Snapshot))
}

// Orchestrator watches the session and, the moment entitlement becomes
// Granted while a pending analysis exists, commits it exactly once. The
// at-most-once guarantee rests on Holder.Take removing both copies before
// the network call: a duplicate signal observes no pending result.
type Orchestrator struct {
	session        Session
	holder         *pending.Holder
	committer      Committer
	requirePayment bool
	logger         zerolog.Logger
	onUnlocked     func(api.CommitResult)

	mu      sync.Mutex
	state   State
	lastErr error
}

type Options struct {
	Session        Session
	Holder         *pending.Holder
	Committer      Committer
	RequirePayment bool
	Logger         zerolog.Logger
	// OnUnlocked runs after a successful commit, once per pending result.
	OnUnlocked func(api.CommitResult)
}

func New(opts Options) *Orchestrator {
	return &Orchestrator{
		session:        opts.Session,
		holder:         opts.Holder,
		committer:      opts.Committer,
		requirePayment: opts.RequirePayment,
		logger:         opts.Logger,
		onUnlocked:     opts.OnUnlocked,
	}
}

// Start subscribes to session changes. Every identity or profile mutation
// becomes a signal, so a login, register, profile refresh, or credit update
// can each complete the unlock.
func (o *Orchestrator) Start() {
	o.session.Subscribe(func(session.Snapshot) {
		o.Signal(context.Background())
	})
}

// State returns the current unlock state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err returns the failure from the last commit attempt, nil otherwise.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Signal re-evaluates entitlement and commits the pending analysis when it
// is Granted. Safe to call from any path: a session notification, the
// payment=success return, code activation, or a manual retry after Failed.
// Duplicate and interleaved signals are harmless.
func (o *Orchestrator) Signal(ctx context.Context) error {
	decision := paywall.Decide(o.session.Snapshot(), o.requirePayment)

	o.mu.Lock()
	if o.state == Committing {
		o.mu.Unlock()
		return nil
	}
	if decision != paywall.Granted {
		if _, ok := o.holder.Restore(); ok {
			o.state = AwaitingEntitlement
		}
		o.mu.Unlock()
		return nil
	}
	result, ok := o.holder.Take()
	if !ok {
		o.mu.Unlock()
		return nil
	}
	o.state = Committing
	o.mu.Unlock()

	res, err := o.committer.Commit(ctx, result.Payload, result.FormSnapshot)
	if err != nil {
		// Keep the result so the user can retry. Entitlement is not
		// revoked: a paying user keeps seeing the revealed content and
		// persistence stays best effort.
		if storeErr := o.holder.Store(result.Payload, result.FormSnapshot); storeErr != nil {
			o.logger.Error().Err(storeErr).Msg("re-store pending analysis failed")
		}
		o.mu.Lock()
		o.state = Failed
		o.lastErr = err
		o.mu.Unlock()
		o.logger.Warn().Err(err).Msg("analysis commit failed")
		return err
	}

	o.session.UpdateCredits(res.RemainingCredits)
	o.mu.Lock()
	o.state = Done
	o.lastErr = nil
	o.mu.Unlock()
	o.logger.Info().Str("analysis_id", res.AnalysisID).Msg("pending analysis committed")
	if o.onUnlocked != nil {
		o.onUnlocked(*res)
	}
	return nil
}
