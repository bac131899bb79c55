package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const now int64 = 1700000000

func TestEvaluate_Cooldown(t *testing.T) {
	rw := DefaultRewards()

	t.Run("denied within 24h", func(t *testing.T) {
		res := Evaluate(now, now-3600, 5, rw)
		require.False(t, res.Granted)
		assert.Equal(t, time.Duration(CooldownSeconds-3600)*time.Second, res.Wait)
		assert.Zero(t, res.Credit)
	})

	t.Run("denied at one second short", func(t *testing.T) {
		res := Evaluate(now, now-CooldownSeconds+1, 5, rw)
		require.False(t, res.Granted)
		assert.Equal(t, time.Second, res.Wait)
	})

	t.Run("granted exactly at 24h", func(t *testing.T) {
		res := Evaluate(now, now-CooldownSeconds, 5, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 6, res.NewStreak)
	})

	t.Run("never claimed", func(t *testing.T) {
		res := Evaluate(now, 0, 0, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 1, res.NewStreak)
		assert.Equal(t, rw.Daily, res.Credit)
	})
}

func TestEvaluate_StreakContinuity(t *testing.T) {
	rw := DefaultRewards()

	t.Run("25h ago continues streak", func(t *testing.T) {
		res := Evaluate(now, now-90000, 5, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 6, res.NewStreak)
	})

	t.Run("over 48h ago restarts streak", func(t *testing.T) {
		res := Evaluate(now, now-200000, 5, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 1, res.NewStreak)
	})

	t.Run("exactly 48h restarts streak", func(t *testing.T) {
		res := Evaluate(now, now-BreakSeconds, 5, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 1, res.NewStreak)
	})
}

func TestEvaluate_BonusTiers(t *testing.T) {
	rw := DefaultRewards()

	t.Run("weekly only", func(t *testing.T) {
		res := Evaluate(now, now-90000, 6, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 7, res.NewStreak)
		assert.True(t, res.Weekly)
		assert.False(t, res.Monthly)
		assert.Equal(t, rw.Daily+rw.Weekly, res.Credit)
	})

	t.Run("monthly only", func(t *testing.T) {
		res := Evaluate(now, now-90000, 29, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 30, res.NewStreak)
		assert.False(t, res.Weekly)
		assert.True(t, res.Monthly)
		assert.Equal(t, rw.Daily+rw.Monthly, res.Credit)
	})

	t.Run("weekly and monthly co-occur at 210", func(t *testing.T) {
		res := Evaluate(now, now-90000, 209, rw)
		require.True(t, res.Granted)
		assert.Equal(t, 210, res.NewStreak)
		assert.True(t, res.Weekly)
		assert.True(t, res.Monthly)
		assert.False(t, res.Yearly)
		assert.Equal(t, rw.Daily+rw.Weekly+rw.Monthly, res.Credit)
	})

	t.Run("yearly at 365", func(t *testing.T) {
		res := Evaluate(now, now-90000, 364, rw)
		require.True(t, res.Granted)
		assert.True(t, res.Yearly)
		assert.False(t, res.Weekly)
		assert.False(t, res.Monthly)
		assert.Equal(t, rw.Daily+rw.Yearly, res.Credit)
	})

	t.Run("no bonus on plain day", func(t *testing.T) {
		res := Evaluate(now, now-90000, 3, rw)
		require.True(t, res.Granted)
		assert.Equal(t, rw.Daily, res.Credit)
	})
}

func TestResult_WaitHMS(t *testing.T) {
	res := Result{Wait: 3*time.Hour + 25*time.Minute + 42*time.Second}
	h, m, s := res.WaitHMS()
	assert.Equal(t, 3, h)
	assert.Equal(t, 25, m)
	assert.Equal(t, 42, s)
}
