package resolver

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-lottery-bot/internal/game/bet"
	"telegram-lottery-bot/internal/game/tictactoe"
	"telegram-lottery-bot/internal/ledger"
	"telegram-lottery-bot/internal/model"
	"telegram-lottery-bot/internal/pkg/lock"
	"telegram-lottery-bot/internal/session"
)

func newTestResolver(t *testing.T) (*Resolver, *ledger.Ledger, *session.Registry) {
	t.Helper()
	l := ledger.New(ledger.Config{})
	sessions := session.NewRegistry()
	return New(l, sessions, lock.NewUserLock()), l, sessions
}

func TestResolver_NoSession(t *testing.T) {
	r, _, _ := newTestResolver(t)

	_, err := r.Resolve(1, model.OutcomeWon)
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
}

func TestResolver_WageredOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome model.Outcome
		delta   int64
		balance int64
		tally   model.Tally
	}{
		{"win credits the wager", model.OutcomeWon, 100, 600, model.Tally{Won: 1}},
		{"loss debits the wager", model.OutcomeLost, -100, 400, model.Tally{Lost: 1}},
		{"draw moves nothing", model.OutcomeDrawn, 0, 500, model.Tally{}},
		{"abandon forfeits without counting", model.OutcomeAbandoned, -100, 400, model.Tally{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, l, sessions := newTestResolver(t)
			l.SetBalance(1, 500)
			_, err := sessions.TryStart(1, bet.NewWithFlip(func() bool { return true }), 100, false)
			require.NoError(t, err)

			st, err := r.Resolve(1, tt.outcome)
			require.NoError(t, err)
			assert.Equal(t, tt.delta, st.Delta)
			assert.Equal(t, tt.balance, st.Balance)
			assert.Equal(t, tt.tally, l.Get(1).Bet)

			_, ok := sessions.Get(1)
			assert.False(t, ok, "session must be removed")
		})
	}
}

func TestResolver_AllInMarksCounters(t *testing.T) {
	r, l, sessions := newTestResolver(t)
	l.SetBalance(1, 300)
	_, err := sessions.TryStart(1, bet.NewWithFlip(func() bool { return true }), 300, true)
	require.NoError(t, err)

	st, err := r.Resolve(1, model.OutcomeWon)
	require.NoError(t, err)
	assert.Equal(t, int64(600), st.Balance)
	assert.Equal(t, model.Tally{Won: 1, AllInWon: 1}, l.Get(1).Bet)
}

func TestResolver_UnwageredBoardGame(t *testing.T) {
	r, l, sessions := newTestResolver(t)
	l.SetBalance(1, 500)
	_, err := sessions.TryStart(1, tictactoe.New(), 0, false)
	require.NoError(t, err)

	st, err := r.Resolve(1, model.OutcomeWon)
	require.NoError(t, err)
	assert.Zero(t, st.Delta)
	assert.Equal(t, int64(500), st.Balance)
	// Board games carry no wagering counters
	assert.Zero(t, l.Get(1).Bet)
	assert.Zero(t, l.Get(1).Slot)
}

func TestResolver_ResolveTwice(t *testing.T) {
	r, l, sessions := newTestResolver(t)
	l.SetBalance(1, 500)
	_, err := sessions.TryStart(1, bet.NewWithFlip(func() bool { return true }), 100, false)
	require.NoError(t, err)

	_, err = r.Resolve(1, model.OutcomeWon)
	require.NoError(t, err)

	_, err = r.Resolve(1, model.OutcomeWon)
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
	assert.Equal(t, int64(600), l.Get(1).Balance)
}

func TestResolver_ConcurrentResolveSettlesOnce(t *testing.T) {
	r, l, sessions := newTestResolver(t)
	l.SetBalance(1, 500)
	_, err := sessions.TryStart(1, bet.NewWithFlip(func() bool { return true }), 100, false)
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	settled := make(chan *Settlement, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if st, err := r.Resolve(1, model.OutcomeWon); err == nil {
				settled <- st
			}
		}()
	}
	wg.Wait()
	close(settled)

	count := 0
	for range settled {
		count++
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, int64(600), l.Get(1).Balance)
	assert.Equal(t, model.Tally{Won: 1}, l.Get(1).Bet)
}
