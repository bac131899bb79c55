// Package bet implements the coin-flip wagering game. A round is a single
// unconditional 50/50 flip: win doubles the wager's effect on the balance,
// loss forfeits it. There is deliberately no house edge.
package bet

import (
	"math/rand/v2"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/model"
)

// Game is one coin-flip round. It is created per session and terminal as
// soon as it has been flipped.
type Game struct {
	flipped bool
	won     bool
	flip    func() bool
}

// New creates a fresh round.
func New() *Game {
	return &Game{flip: func() bool { return rand.IntN(2) == 0 }}
}

// NewWithFlip creates a round with an injected flip, for tests.
func NewWithFlip(flip func() bool) *Game {
	return &Game{flip: flip}
}

// Kind returns the game kind.
func (g *Game) Kind() model.GameKind {
	return model.KindBet
}

// Over reports whether the round has been played.
func (g *Game) Over() bool {
	return g.flipped
}

// Play flips the coin and returns whether the player won. Playing a
// finished round returns the recorded result.
func (g *Game) Play() bool {
	if !g.flipped {
		g.won = g.flip()
		g.flipped = true
	}
	return g.won
}

// Outcome returns the terminal outcome of a played round.
func (g *Game) Outcome() model.Outcome {
	if g.won {
		return model.OutcomeWon
	}
	return model.OutcomeLost
}

// Launcher starts bet rounds.
type Launcher struct{}

// NewLauncher creates the bet game launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Kind returns the game kind this launcher starts.
func (l *Launcher) Kind() model.GameKind {
	return model.KindBet
}

// Command returns the command that triggers this game.
func (l *Launcher) Command() string {
	return "bet"
}

// Description returns a brief description of the game.
func (l *Launcher) Description() string {
	return "Flip a coin: win and gain your wager, lose and forfeit it."
}

// Start returns a fresh round.
func (l *Launcher) Start() game.MiniGame {
	return New()
}
