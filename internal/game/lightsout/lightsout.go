// Package lightsout implements the lights-out puzzle on a 5x5 grid.
// Pressing a cell toggles it and its orthogonal neighbours; the puzzle is
// solved when every light is off. It is a solo puzzle: the only terminal
// outcomes are solved or abandoned.
package lightsout

import (
	"errors"
	"math/rand/v2"
	"strings"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/model"
)

// Size is the board edge length.
const Size = 5

// scrambles is the number of random presses used to generate a board,
// which guarantees solvability.
const scrambles = 20

// Move errors.
var (
	ErrOutOfRange = errors.New("row and column must be between 1 and 5")
	ErrGameOver   = errors.New("puzzle is already solved")
)

// Game is one lights-out puzzle.
type Game struct {
	lights [Size][Size]bool
	moves  int
	over   bool
}

// New creates a scrambled, solvable puzzle.
func New() *Game {
	g := &Game{}
	for i := 0; i < scrambles; i++ {
		g.toggle(rand.IntN(Size), rand.IntN(Size))
	}
	// A scramble can cancel itself out; an already-dark board is no puzzle
	if g.dark() {
		g.toggle(Size/2, Size/2)
	}
	return g
}

// NewFromLights creates a puzzle with a fixed starting position, for tests.
func NewFromLights(lights [Size][Size]bool) *Game {
	return &Game{lights: lights}
}

// Kind returns the game kind.
func (g *Game) Kind() model.GameKind {
	return model.KindLightsOut
}

// Over reports whether the puzzle has been solved.
func (g *Game) Over() bool {
	return g.over
}

// Moves returns how many presses the player has made.
func (g *Game) Moves() int {
	return g.moves
}

// Press toggles the cell at row, col (1-5) and its neighbours.
func (g *Game) Press(row, col int) error {
	if g.over {
		return ErrGameOver
	}
	if row < 1 || row > Size || col < 1 || col > Size {
		return ErrOutOfRange
	}

	g.toggle(row-1, col-1)
	g.moves++
	if g.dark() {
		g.over = true
	}
	return nil
}

// Render returns the board, lit cells as squares.
func (g *Game) Render() string {
	var b strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g.lights[r][c] {
				b.WriteString("🟨")
			} else {
				b.WriteString("⬛")
			}
		}
		if r < Size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (g *Game) toggle(row, col int) {
	flip := func(r, c int) {
		if r >= 0 && r < Size && c >= 0 && c < Size {
			g.lights[r][c] = !g.lights[r][c]
		}
	}
	flip(row, col)
	flip(row-1, col)
	flip(row+1, col)
	flip(row, col-1)
	flip(row, col+1)
}

func (g *Game) dark() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g.lights[r][c] {
				return false
			}
		}
	}
	return true
}

// Launcher starts lights-out sessions.
type Launcher struct{}

// NewLauncher creates the lights-out launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Kind returns the game kind this launcher starts.
func (l *Launcher) Kind() model.GameKind {
	return model.KindLightsOut
}

// Command returns the command that triggers this game.
func (l *Launcher) Command() string {
	return "lo"
}

// Description returns a brief description of the game.
func (l *Launcher) Description() string {
	return "Turn every light off. Press with /lo <row> <col>."
}

// Start returns a scrambled puzzle.
func (l *Launcher) Start() game.MiniGame {
	return New()
}
