package pending

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/billyrestey/golfstrategy/internal/client/kv"
)

// storageKey is fixed: there is at most one pending analysis at a time and
// a new preview overwrites the previous one.
const storageKey = "pending_analysis"

// PendingResult is a computed-but-not-yet-saved analysis, carried across a
// login or payment round trip.
type PendingResult struct {
	Payload      json.RawMessage `json:"payload"`
	FormSnapshot json.RawMessage `json:"form_snapshot"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Holder keeps the pending result in memory and mirrored in the durable KV,
// so it survives a full process restart (for example a redirect to an
// external payment page and back).
type Holder struct {
	mu  sync.Mutex
	mem *PendingResult
	kv  *kv.FileStore
}

func NewHolder(store *kv.FileStore) *Holder {
	return &Holder{kv: store}
}

// Store overwrites both copies with a new pending result.
func (h *Holder) Store(payload, formSnapshot json.RawMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := &PendingResult{Payload: payload, FormSnapshot: formSnapshot, CreatedAt: time.Now().UTC()}
	h.mem = result
	return h.kv.Set(storageKey, result)
}

// Restore returns the pending result if any, preferring the in-memory copy
// and falling back to the durable one.
func (h *Holder) Restore() (*PendingResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.restoreLocked()
}

func (h *Holder) restoreLocked() (*PendingResult, bool) {
	if h.mem != nil {
		return h.mem, true
	}
	var result PendingResult
	ok, err := h.kv.Get(storageKey, &result)
	if err != nil || !ok {
		return nil, false
	}
	h.mem = &result
	return &result, true
}

// Clear removes both copies.
func (h *Holder) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clearLocked()
}

func (h *Holder) clearLocked() error {
	h.mem = nil
	return h.kv.Delete(storageKey)
}

// Take restores and clears in one synchronous step. It is the commit guard:
// whoever takes the result owns the commit, and any concurrent trigger that
// arrives later observes nothing and no-ops.
func (h *Holder) Take() (*PendingResult, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	result, ok := h.restoreLocked()
	if !ok {
		return nil, false
	}
	_ = h.clearLocked()
	return result, true
}
