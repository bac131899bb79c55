// Package session tracks which mini-game, if any, each user is currently
// playing. The registry enforces at most one active session per user: the
// check-and-insert in TryStart is atomic, so concurrent starts for the
// same user yield exactly one winner.
//
// Sessions are ephemeral: they are never persisted and are dropped on
// process restart. Only ledger records are durable.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/model"
)

// ErrNoActiveSession is returned when an operation needs a session and the
// user has none.
var ErrNoActiveSession = errors.New("no active game session")

// AlreadyPlayingError is returned by TryStart when the user already has a
// session; it carries the kind of the game in progress so the caller can
// report it.
type AlreadyPlayingError struct {
	Kind model.GameKind
}

func (e *AlreadyPlayingError) Error() string {
	return fmt.Sprintf("already playing %s", e.Kind)
}

// WrongGameKindError is returned by Require when the user's active session
// is a different game than the operation expects.
type WrongGameKindError struct {
	Actual model.GameKind
}

func (e *WrongGameKindError) Error() string {
	return fmt.Sprintf("playing a different game: %s", e.Actual)
}

// Session is the ephemeral state of one in-progress mini-game.
type Session struct {
	UserID    int64
	Game      game.MiniGame
	Wager     int64
	AllIn     bool
	Family    model.GameFamily
	StartedAt time.Time
}

// Kind returns the kind of the game being played.
func (s *Session) Kind() model.GameKind {
	return s.Game.Kind()
}

// Registry is the in-memory map from user to their single active session.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
	}
}

// TryStart atomically checks that the user has no session and inserts a
// new one. It never overwrites: if a session exists, it fails with
// AlreadyPlayingError carrying the existing game's kind.
func (r *Registry) TryStart(userID int64, g game.MiniGame, wager int64, allIn bool) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[userID]; ok {
		return nil, &AlreadyPlayingError{Kind: existing.Kind()}
	}

	s := &Session{
		UserID:    userID,
		Game:      g,
		Wager:     wager,
		AllIn:     allIn,
		Family:    model.FamilyOf(g.Kind()),
		StartedAt: time.Now(),
	}
	r.sessions[userID] = s
	return s, nil
}

// Get returns the user's active session, if any. Read-only.
func (r *Registry) Get(userID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Require returns the user's active session if it is of the given kind.
// It fails with ErrNoActiveSession or WrongGameKindError otherwise.
func (r *Registry) Require(userID int64, kind model.GameKind) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if s.Kind() != kind {
		return nil, &WrongGameKindError{Actual: s.Kind()}
	}
	return s, nil
}

// End atomically removes and returns the user's session. Ending twice is
// safe: the second call is a no-op returning false.
func (r *Registry) End(userID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if ok {
		delete(r.sessions, userID)
	}
	return s, ok
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
