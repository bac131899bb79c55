// Package tictactoe implements tic-tac-toe against the bot. The player is
// X and moves first; the bot answers with a random empty cell.
package tictactoe

import (
	"errors"
	"math/rand/v2"
	"strings"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/model"
)

// Cell marks.
const (
	Empty  byte = 0
	Player byte = 'X'
	Bot    byte = 'O'
)

// Move errors.
var (
	ErrOutOfRange = errors.New("cell must be between 1 and 9")
	ErrOccupied   = errors.New("cell is already taken")
	ErrGameOver   = errors.New("game is already over")
)

// winLines are the eight three-in-a-row index triples.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Game is one tic-tac-toe board.
type Game struct {
	cells  [9]byte
	over   bool
	result model.Outcome
	pick   func(empty []int) int
}

// New creates an empty board.
func New() *Game {
	return &Game{pick: func(empty []int) int { return empty[rand.IntN(len(empty))] }}
}

// NewWithPick creates a board with an injected bot move picker, for tests.
func NewWithPick(pick func(empty []int) int) *Game {
	return &Game{pick: pick}
}

// Kind returns the game kind.
func (g *Game) Kind() model.GameKind {
	return model.KindTicTacToe
}

// Over reports whether the board reached a terminal position.
func (g *Game) Over() bool {
	return g.over
}

// Result returns the terminal outcome; valid only once Over is true.
func (g *Game) Result() model.Outcome {
	return g.result
}

// Place puts the player's mark on cell 1-9, then lets the bot answer.
func (g *Game) Place(cell int) error {
	if g.over {
		return ErrGameOver
	}
	if cell < 1 || cell > 9 {
		return ErrOutOfRange
	}
	idx := cell - 1
	if g.cells[idx] != Empty {
		return ErrOccupied
	}

	g.cells[idx] = Player
	if g.wins(Player) {
		g.finish(model.OutcomeWon)
		return nil
	}
	empty := g.emptyCells()
	if len(empty) == 0 {
		g.finish(model.OutcomeDrawn)
		return nil
	}

	g.cells[g.pick(empty)] = Bot
	if g.wins(Bot) {
		g.finish(model.OutcomeLost)
		return nil
	}
	if len(g.emptyCells()) == 0 {
		g.finish(model.OutcomeDrawn)
	}
	return nil
}

// Render returns the board as three rows, empty cells shown as their number.
func (g *Game) Render() string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			idx := row*3 + col
			switch g.cells[idx] {
			case Player:
				b.WriteString("❌")
			case Bot:
				b.WriteString("⭕")
			default:
				b.WriteByte(byte('1' + idx))
			}
		}
		if row < 2 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (g *Game) finish(result model.Outcome) {
	g.over = true
	g.result = result
}

func (g *Game) wins(mark byte) bool {
	for _, line := range winLines {
		if g.cells[line[0]] == mark && g.cells[line[1]] == mark && g.cells[line[2]] == mark {
			return true
		}
	}
	return false
}

func (g *Game) emptyCells() []int {
	var empty []int
	for i, c := range g.cells {
		if c == Empty {
			empty = append(empty, i)
		}
	}
	return empty
}

// Launcher starts tic-tac-toe sessions.
type Launcher struct{}

// NewLauncher creates the tic-tac-toe launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Kind returns the game kind this launcher starts.
func (l *Launcher) Kind() model.GameKind {
	return model.KindTicTacToe
}

// Command returns the command that triggers this game.
func (l *Launcher) Command() string {
	return "ttt"
}

// Description returns a brief description of the game.
func (l *Launcher) Description() string {
	return "Tic-tac-toe against the bot. Place with /ttt <1-9>."
}

// Start returns an empty board.
func (l *Launcher) Start() game.MiniGame {
	return New()
}
