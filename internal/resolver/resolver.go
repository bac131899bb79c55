// Package resolver settles finished game sessions against the ledger.
// Settlement of one session is a single logical transaction: the session
// is removed, the balance moves, and the family counters update, all under
// the user's lock, so no concurrent handler observes a half-settled state.
package resolver

import (
	"github.com/rs/zerolog/log"

	"telegram-lottery-bot/internal/ledger"
	"telegram-lottery-bot/internal/model"
	"telegram-lottery-bot/internal/pkg/lock"
	"telegram-lottery-bot/internal/session"
)

// Settlement reports what resolving a session did to the user's record.
type Settlement struct {
	Session *session.Session
	Outcome model.Outcome
	// Delta is the signed balance change applied, zero for draws and for
	// unwagered sessions.
	Delta int64
	// Balance is the user's balance after settlement.
	Balance int64
}

// Resolver ends sessions and applies their economic consequences.
type Resolver struct {
	ledger   *ledger.Ledger
	sessions *session.Registry
	locks    *lock.UserLock
}

// New creates a Resolver over the given ledger and session registry.
func New(l *ledger.Ledger, sessions *session.Registry, locks *lock.UserLock) *Resolver {
	return &Resolver{
		ledger:   l,
		sessions: sessions,
		locks:    locks,
	}
}

// Resolve settles the user's active session with the given outcome and
// removes it. Wins credit the wager, losses and abandonments debit it,
// draws move nothing. Abandonment forfeits the stake but does not count as
// a played game, so the family counters stay untouched. Fails with
// session.ErrNoActiveSession when the user is not playing.
func (r *Resolver) Resolve(userID int64, outcome model.Outcome) (*Settlement, error) {
	r.locks.Lock(userID)
	defer r.locks.Unlock(userID)
	return r.resolveLocked(userID, outcome)
}

// ResolveLocked is Resolve for callers that already hold the user's lock,
// such as handlers that validate, start and settle a round in one critical
// section.
func (r *Resolver) ResolveLocked(userID int64, outcome model.Outcome) (*Settlement, error) {
	return r.resolveLocked(userID, outcome)
}

func (r *Resolver) resolveLocked(userID int64, outcome model.Outcome) (*Settlement, error) {
	s, ok := r.sessions.Get(userID)
	if !ok {
		return nil, session.ErrNoActiveSession
	}

	delta := settlementDelta(s, outcome)

	var (
		balance int64
		err     error
	)
	switch {
	case s.Family != "" && s.Wager > 0 && (outcome == model.OutcomeWon || outcome == model.OutcomeLost):
		balance, err = r.ledger.RecordOutcome(userID, s.Family, outcome == model.OutcomeWon, s.AllIn, delta)
	case delta != 0:
		balance, err = r.ledger.AddBalance(userID, delta)
	default:
		balance = r.ledger.Get(userID).Balance
	}
	if err != nil {
		// The wager was validated against the balance at start and the
		// user's lock has been held since, so a failed debit means a
		// bookkeeping bug. Drop the session anyway rather than wedging
		// the user.
		log.Error().Err(err).
			Int64("user_id", userID).
			Str("game", string(s.Kind())).
			Int64("wager", s.Wager).
			Msg("Settlement debit failed")
		r.sessions.End(userID)
		return nil, err
	}

	r.sessions.End(userID)

	log.Info().
		Int64("user_id", userID).
		Str("game", string(s.Kind())).
		Str("outcome", outcome.String()).
		Int64("delta", delta).
		Int64("balance", balance).
		Msg("Session settled")

	return &Settlement{
		Session: s,
		Outcome: outcome,
		Delta:   delta,
		Balance: balance,
	}, nil
}

// settlementDelta maps an outcome to a signed balance change.
func settlementDelta(s *session.Session, outcome model.Outcome) int64 {
	if s.Wager <= 0 {
		return 0
	}
	switch outcome {
	case model.OutcomeWon:
		return s.Wager
	case model.OutcomeLost, model.OutcomeAbandoned:
		return -s.Wager
	default:
		return 0
	}
}
