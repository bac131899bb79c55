package bet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-lottery-bot/internal/model"
)

func TestGame_Play(t *testing.T) {
	t.Run("winning flip", func(t *testing.T) {
		g := NewWithFlip(func() bool { return true })
		assert.False(t, g.Over())

		won := g.Play()
		require.True(t, won)
		assert.True(t, g.Over())
		assert.Equal(t, model.OutcomeWon, g.Outcome())
	})

	t.Run("losing flip", func(t *testing.T) {
		g := NewWithFlip(func() bool { return false })
		won := g.Play()
		require.False(t, won)
		assert.Equal(t, model.OutcomeLost, g.Outcome())
	})

	t.Run("replaying returns the recorded result", func(t *testing.T) {
		calls := 0
		g := NewWithFlip(func() bool { calls++; return true })
		g.Play()
		g.Play()
		assert.Equal(t, 1, calls)
	})
}

// TestGame_FlipDistribution checks the flip is roughly fair. The bounds are
// wide enough that a fair coin fails with negligible probability.
func TestGame_FlipDistribution(t *testing.T) {
	const rounds = 10000
	wins := 0
	for i := 0; i < rounds; i++ {
		if New().Play() {
			wins++
		}
	}
	assert.Greater(t, wins, 4000)
	assert.Less(t, wins, 6000)
}

func TestLauncher(t *testing.T) {
	l := NewLauncher()
	assert.Equal(t, model.KindBet, l.Kind())
	assert.Equal(t, "bet", l.Command())

	g := l.Start()
	assert.Equal(t, model.KindBet, g.Kind())
	assert.False(t, g.Over())
}
