// Package slot implements the three-reel slot machine wagering game.
package slot

import (
	"fmt"
	"math/rand/v2"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/model"
)

// Symbol constants for the reels.
const (
	SymbolBAR = iota + 1
	SymbolGrape
	SymbolLemon
	SymbolSeven
)

// symbolCount is the number of distinct symbols per reel.
const symbolCount = 4

// SymbolNames maps symbols to their display form.
var SymbolNames = map[int]string{
	SymbolBAR:   "BAR",
	SymbolGrape: "🍇",
	SymbolLemon: "🍋",
	SymbolSeven: "7️⃣",
}

// Game is one spin of the machine, created per session and terminal once
// spun.
type Game struct {
	spun  bool
	reels [3]int
	roll  func() int
}

// New creates a fresh spin.
func New() *Game {
	return &Game{roll: func() int { return rand.IntN(symbolCount) + 1 }}
}

// NewWithRoll creates a spin with an injected reel roll, for tests.
func NewWithRoll(roll func() int) *Game {
	return &Game{roll: roll}
}

// Kind returns the game kind.
func (g *Game) Kind() model.GameKind {
	return model.KindSlot
}

// Over reports whether the spin has happened.
func (g *Game) Over() bool {
	return g.spun
}

// Spin rolls the reels and returns them. Spinning a finished game returns
// the recorded reels.
func (g *Game) Spin() [3]int {
	if !g.spun {
		for i := range g.reels {
			g.reels[i] = g.roll()
		}
		g.spun = true
	}
	return g.reels
}

// Outcome returns the terminal outcome of a played spin: three matching
// symbols win, two match is a push, no match loses.
func (g *Game) Outcome() model.Outcome {
	return Classify(g.reels[0], g.reels[1], g.reels[2])
}

// Render returns the reels in display form.
func (g *Game) Render() string {
	return fmt.Sprintf("%s %s %s",
		SymbolNames[g.reels[0]], SymbolNames[g.reels[1]], SymbolNames[g.reels[2]])
}

// Classify maps a reel combination to an outcome:
//   - three matching symbols: won
//   - exactly two matching: drawn (wager returned)
//   - all different: lost
func Classify(left, middle, right int) model.Outcome {
	switch {
	case left == middle && middle == right:
		return model.OutcomeWon
	case left == middle || middle == right || left == right:
		return model.OutcomeDrawn
	default:
		return model.OutcomeLost
	}
}

// Launcher starts slot spins.
type Launcher struct{}

// NewLauncher creates the slot game launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Kind returns the game kind this launcher starts.
func (l *Launcher) Kind() model.GameKind {
	return model.KindSlot
}

// Command returns the command that triggers this game.
func (l *Launcher) Command() string {
	return "slot"
}

// Description returns a brief description of the game.
func (l *Launcher) Description() string {
	return "Spin three reels: 3 matches win, 2 matches push, no match loses."
}

// Start returns a fresh spin.
func (l *Launcher) Start() game.MiniGame {
	return New()
}
