// Package ledger holds the in-memory authoritative map from user identity
// to ledger record. All economic invariants live here: balances never go
// negative, additions saturate at the configured maximum, and counters
// only increase. Persistence is elsewhere (internal/store); the ledger is
// loaded once at startup and snapshotted for saves.
//
// Per-user atomicity: every operation on one user's record runs under that
// record's own mutex, so two handlers racing on the same user serialize
// while unrelated users never contend. No operation blocks on I/O; the
// identity-lookup and badge collaborators are invoked as detached
// follow-ups.
package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"telegram-lottery-bot/internal/collab"
	"telegram-lottery-bot/internal/model"
)

// ErrInsufficientFunds is returned when a debit would take a balance below
// zero. Callers are expected to pre-validate wagers, so hitting this is a
// programming-contract violation; the operation fails, the process does
// not.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Config holds the ledger limits and collaborators.
type Config struct {
	// MaxBalance caps every balance; zero or negative means math.MaxInt64.
	MaxBalance int64
	// BadgeThreshold is the balance at which a threshold-crossing event is
	// emitted; zero disables events.
	BadgeThreshold int64
	// Records seeds the ledger, typically from store.Load.
	Records map[int64]*model.LedgerRecord
	// Identity resolves display names; may be nil.
	Identity collab.IdentityLookup
	// Publish receives threshold-crossing events; may be nil.
	Publish func(ThresholdCrossing)
}

// entry pairs a record with its own mutex.
type entry struct {
	mu  sync.Mutex
	rec *model.LedgerRecord
}

// Ledger is the in-memory authoritative per-user economic state.
type Ledger struct {
	mu      sync.RWMutex
	entries map[int64]*entry

	max       int64
	threshold int64
	identity  collab.IdentityLookup
	publish   func(ThresholdCrossing)

	// dirty is set by every mutation and consumed by the ranking layer so
	// leaderboards only resort when something changed.
	dirty atomic.Bool
}

// New creates a ledger seeded with the given records.
func New(cfg Config) *Ledger {
	max := cfg.MaxBalance
	if max <= 0 {
		max = math.MaxInt64
	}

	l := &Ledger{
		entries:   make(map[int64]*entry, len(cfg.Records)),
		max:       max,
		threshold: cfg.BadgeThreshold,
		identity:  cfg.Identity,
		publish:   cfg.Publish,
	}
	for id, rec := range cfg.Records {
		l.entries[id] = &entry{rec: rec}
	}
	l.dirty.Store(true)
	return l
}

// SetIdentityLookup wires the display-name collaborator. Setup-time only:
// call before command handlers run.
func (l *Ledger) SetIdentityLookup(identity collab.IdentityLookup) {
	l.identity = identity
}

// entryFor returns the user's entry, creating a zero-initialized record on
// first sight. Creation registers the record for iteration and kicks off a
// best-effort display-name refresh.
func (l *Ledger) entryFor(userID int64) *entry {
	l.mu.RLock()
	e, ok := l.entries[userID]
	l.mu.RUnlock()
	if ok {
		return e
	}

	l.mu.Lock()
	if e, ok = l.entries[userID]; !ok {
		e = &entry{rec: model.NewLedgerRecord(userID)}
		l.entries[userID] = e
		l.dirty.Store(true)
	}
	l.mu.Unlock()

	if !ok && l.identity != nil {
		go l.refreshName(context.Background(), userID)
	}
	return e
}

// Get returns a copy of the user's record, creating it if absent. It never
// fails; callers get a clone and cannot mutate ledger state through it.
func (l *Ledger) Get(userID int64) *model.LedgerRecord {
	e := l.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Clone()
}

// SetName updates the cached display name. Best-effort metadata: it does
// not emit events.
func (l *Ledger) SetName(userID int64, name string) {
	if name == "" {
		return
	}
	e := l.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rec.DisplayName != name {
		e.rec.DisplayName = name
		l.dirty.Store(true)
	}
}

// AddBalance applies a delta to the user's balance. Positive deltas
// saturate at the maximum; a negative delta that would go below zero fails
// with ErrInsufficientFunds and mutates nothing. Returns the new balance.
func (l *Ledger) AddBalance(userID int64, delta int64) (int64, error) {
	e := l.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := l.shifted(e.rec.Balance, delta)
	if err != nil {
		return e.rec.Balance, err
	}
	l.setBalanceLocked(e.rec, next)
	return e.rec.Balance, nil
}

// SetBalance sets the balance to an exact value, clamped to [0, max].
// Returns the new balance.
func (l *Ledger) SetBalance(userID int64, value int64) int64 {
	e := l.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if value < 0 {
		value = 0
	}
	if value > l.max {
		value = l.max
	}
	l.setBalanceLocked(e.rec, value)
	return e.rec.Balance
}

// RecordOutcome applies one finished wagering game: the family counters
// and the balance delta move together under the record lock, so no reader
// observes counters from one game and a balance from another. A debit that
// would overdraw fails with ErrInsufficientFunds and mutates nothing.
func (l *Ledger) RecordOutcome(userID int64, family model.GameFamily, won, allIn bool, delta int64) (int64, error) {
	e := l.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := l.shifted(e.rec.Balance, delta)
	if err != nil {
		return e.rec.Balance, err
	}
	if tally := e.rec.Tally(family); tally != nil {
		tally.Record(won, allIn)
	}
	l.setBalanceLocked(e.rec, next)
	return e.rec.Balance, nil
}

// ApplyClaim records a granted daily claim: claim time, new streak and the
// credit move together under the record lock. Returns the new balance.
func (l *Ledger) ApplyClaim(userID int64, claimedAt int64, newStreak int, credit int64) int64 {
	e := l.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rec.LastClaimAt = claimedAt
	e.rec.Streak = newStreak
	next, _ := l.shifted(e.rec.Balance, credit)
	l.setBalanceLocked(e.rec, next)
	return e.rec.Balance
}

// Snapshot returns a point-in-time copy of every record, each cloned under
// its own lock. Used by persistence saves and leaderboard resorts.
func (l *Ledger) Snapshot() map[int64]*model.LedgerRecord {
	l.mu.RLock()
	entries := make([]*entry, 0, len(l.entries))
	for _, e := range l.entries {
		entries = append(entries, e)
	}
	l.mu.RUnlock()

	snap := make(map[int64]*model.LedgerRecord, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		rec := e.rec.Clone()
		e.mu.Unlock()
		snap[rec.UserID] = rec
	}
	return snap
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// ConsumeDirty reports whether any mutation happened since the last call,
// and resets the flag.
func (l *Ledger) ConsumeDirty() bool {
	return l.dirty.Swap(false)
}

// RefreshAllNames re-resolves every record's display name, fire-and-forget
// per user.
func (l *Ledger) RefreshAllNames(ctx context.Context) {
	if l.identity == nil {
		return
	}
	l.mu.RLock()
	ids := make([]int64, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	for _, id := range ids {
		go l.refreshName(ctx, id)
	}
}

// refreshName resolves and caches one display name. Runs outside every
// lock held by the caller; failures are logged and dropped.
func (l *Ledger) refreshName(ctx context.Context, userID int64) {
	name, err := l.identity.DisplayName(ctx, userID)
	if err != nil {
		log.Debug().Err(err).Int64("user_id", userID).Msg("Display name lookup failed")
		return
	}
	l.SetName(userID, name)
}

// shifted computes balance+delta with saturation at the maximum and an
// ErrInsufficientFunds guard below zero.
func (l *Ledger) shifted(balance, delta int64) (int64, error) {
	if delta >= 0 {
		if balance > l.max-delta {
			return l.max, nil
		}
		return balance + delta, nil
	}
	if balance+delta < 0 {
		return 0, ErrInsufficientFunds
	}
	return balance + delta, nil
}

// setBalanceLocked updates the balance, marks the ledger dirty, and emits
// a threshold-crossing event when the old and new values sit on opposite
// sides of the badge threshold. The record lock must be held.
func (l *Ledger) setBalanceLocked(rec *model.LedgerRecord, newValue int64) {
	oldValue := rec.Balance
	rec.Balance = newValue
	l.dirty.Store(true)

	if l.publish == nil || l.threshold <= 0 {
		return
	}
	wasBelow := oldValue < l.threshold
	isBelow := newValue < l.threshold
	if wasBelow == isBelow {
		return
	}
	l.publish(ThresholdCrossing{UserID: rec.UserID, Above: !isBelow})
}
