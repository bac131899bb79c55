package ledger

import (
	"context"

	"github.com/rs/zerolog/log"

	"telegram-lottery-bot/internal/collab"
)

// ThresholdCrossing is emitted when a balance moves from one side of the
// badge threshold to the other. Above is true when the new balance is at
// or above the threshold.
type ThresholdCrossing struct {
	UserID int64
	Above  bool
}

// Dispatcher decouples ledger mutations from the badge collaborator: the
// ledger publishes events synchronously and the dispatcher performs the
// platform calls on its own goroutine, so no external call ever runs
// inside a per-user critical section.
type Dispatcher struct {
	ch chan ThresholdCrossing
}

// NewDispatcher creates a dispatcher with the given event buffer.
func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{ch: make(chan ThresholdCrossing, buffer)}
}

// Publish enqueues an event without blocking. The badge is re-derivable
// from the balance, so when the buffer is full the event is dropped with a
// warning rather than stalling a ledger mutation.
func (d *Dispatcher) Publish(ev ThresholdCrossing) {
	select {
	case d.ch <- ev:
	default:
		log.Warn().
			Int64("user_id", ev.UserID).
			Bool("above", ev.Above).
			Msg("Event buffer full, dropping threshold crossing")
	}
}

// Run consumes events until the context is cancelled, granting or revoking
// the badge per event. Collaborator failures are logged and dropped.
func (d *Dispatcher) Run(ctx context.Context, badges collab.BadgeAssigner) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.ch:
			var err error
			if ev.Above {
				err = badges.GrantBadge(ctx, ev.UserID)
			} else {
				err = badges.RevokeBadge(ctx, ev.UserID)
			}
			if err != nil {
				log.Warn().Err(err).
					Int64("user_id", ev.UserID).
					Bool("above", ev.Above).
					Msg("Badge update failed")
			}
		}
	}
}
