package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-lottery-bot/internal/model"
)

func newTestLedger(t *testing.T, cfg Config) (*Ledger, *[]ThresholdCrossing) {
	t.Helper()
	var events []ThresholdCrossing
	var mu sync.Mutex
	cfg.Publish = func(ev ThresholdCrossing) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}
	return New(cfg), &events
}

func TestLedger_GetCreatesZeroRecord(t *testing.T) {
	l, _ := newTestLedger(t, Config{})

	rec := l.Get(42)
	require.NotNil(t, rec)
	assert.Equal(t, int64(42), rec.UserID)
	assert.Zero(t, rec.Balance)
	assert.Zero(t, rec.Streak)
	assert.Equal(t, 1, l.Len())

	// Mutating the returned clone must not touch ledger state
	rec.Balance = 999
	assert.Zero(t, l.Get(42).Balance)
}

func TestLedger_AddBalance(t *testing.T) {
	l, _ := newTestLedger(t, Config{MaxBalance: 1000})

	bal, err := l.AddBalance(1, 600)
	require.NoError(t, err)
	assert.Equal(t, int64(600), bal)

	t.Run("saturates at the maximum", func(t *testing.T) {
		bal, err := l.AddBalance(1, 600)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), bal)
	})

	t.Run("debit below zero fails without mutating", func(t *testing.T) {
		_, err := l.AddBalance(1, -1500)
		require.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, int64(1000), l.Get(1).Balance)
	})

	t.Run("valid debit", func(t *testing.T) {
		bal, err := l.AddBalance(1, -1000)
		require.NoError(t, err)
		assert.Zero(t, bal)
	})
}

func TestLedger_SetBalanceThresholdEvents(t *testing.T) {
	l, events := newTestLedger(t, Config{BadgeThreshold: 100000})

	// 99999 -> 100001 crosses upward, 100001 -> 100050 does not
	l.SetBalance(7, 99999)
	l.SetBalance(7, 100001)
	l.SetBalance(7, 100050)

	require.Len(t, *events, 1)
	assert.Equal(t, ThresholdCrossing{UserID: 7, Above: true}, (*events)[0])

	// Dropping back below crosses downward
	l.SetBalance(7, 50)
	require.Len(t, *events, 2)
	assert.Equal(t, ThresholdCrossing{UserID: 7, Above: false}, (*events)[1])
}

func TestLedger_RecordOutcome(t *testing.T) {
	l, _ := newTestLedger(t, Config{})
	l.SetBalance(3, 500)

	bal, err := l.RecordOutcome(3, model.FamilyBet, true, false, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(700), bal)

	bal, err = l.RecordOutcome(3, model.FamilyBet, false, true, -700)
	require.NoError(t, err)
	assert.Zero(t, bal)

	rec := l.Get(3)
	assert.Equal(t, model.Tally{Won: 1, Lost: 1, AllInLost: 1}, rec.Bet)
	assert.Zero(t, rec.Slot)

	t.Run("overdraw leaves counters untouched", func(t *testing.T) {
		_, err := l.RecordOutcome(3, model.FamilyBet, false, false, -100)
		require.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, model.Tally{Won: 1, Lost: 1, AllInLost: 1}, l.Get(3).Bet)
	})

	t.Run("slot family has its own counters", func(t *testing.T) {
		_, err := l.RecordOutcome(3, model.FamilySlot, true, false, 50)
		require.NoError(t, err)
		rec := l.Get(3)
		assert.Equal(t, model.Tally{Won: 1}, rec.Slot)
	})
}

func TestLedger_ApplyClaim(t *testing.T) {
	l, _ := newTestLedger(t, Config{})
	now := time.Now().Unix()

	bal := l.ApplyClaim(9, now, 6, 200)
	assert.Equal(t, int64(200), bal)

	rec := l.Get(9)
	assert.Equal(t, now, rec.LastClaimAt)
	assert.Equal(t, 6, rec.Streak)
}

func TestLedger_DirtyFlag(t *testing.T) {
	l, _ := newTestLedger(t, Config{})

	// A fresh ledger is dirty so consumers do their first sort
	assert.True(t, l.ConsumeDirty())
	assert.False(t, l.ConsumeDirty())

	l.SetBalance(1, 10)
	assert.True(t, l.ConsumeDirty())
	assert.False(t, l.ConsumeDirty())

	// Reads do not dirty the ledger
	l.Get(1)
	assert.False(t, l.ConsumeDirty())
}

func TestLedger_SnapshotIsDetached(t *testing.T) {
	l, _ := newTestLedger(t, Config{})
	l.SetBalance(1, 100)
	l.SetBalance(2, 200)

	snap := l.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, int64(100), snap[1].Balance)

	snap[1].Balance = 12345
	assert.Equal(t, int64(100), l.Get(1).Balance)
}

// slowIdentity resolves names after a delay, to prove record creation does
// not wait for the collaborator.
type slowIdentity struct {
	delay time.Duration
	name  string
}

func (s *slowIdentity) DisplayName(ctx context.Context, userID int64) (string, error) {
	time.Sleep(s.delay)
	return s.name, nil
}

func TestLedger_NameRefreshDoesNotBlock(t *testing.T) {
	l, _ := newTestLedger(t, Config{})
	l.SetIdentityLookup(&slowIdentity{delay: 50 * time.Millisecond, name: "alice"})

	start := time.Now()
	rec := l.Get(5)
	require.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Empty(t, rec.DisplayName)

	assert.Eventually(t, func() bool {
		return l.Get(5).DisplayName == "alice"
	}, time.Second, 5*time.Millisecond)
}

func TestLedger_SeededRecords(t *testing.T) {
	seed := map[int64]*model.LedgerRecord{
		1: {UserID: 1, Balance: 500, Streak: 3},
	}
	l, _ := newTestLedger(t, Config{Records: seed})

	rec := l.Get(1)
	assert.Equal(t, int64(500), rec.Balance)
	assert.Equal(t, 3, rec.Streak)
	assert.Equal(t, 1, l.Len())
}
