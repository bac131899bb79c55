// Package connectfour implements connect-four against the bot on the
// standard 7x6 board. The player drops first; the bot answers with a
// random legal column.
package connectfour

import (
	"errors"
	"math/rand/v2"
	"strings"

	"telegram-lottery-bot/internal/game"
	"telegram-lottery-bot/internal/model"
)

// Board dimensions.
const (
	Columns = 7
	Rows    = 6
)

// Cell marks.
const (
	Empty  byte = 0
	Player byte = 'R'
	Bot    byte = 'Y'
)

// Move errors.
var (
	ErrOutOfRange = errors.New("column must be between 1 and 7")
	ErrColumnFull = errors.New("column is full")
	ErrGameOver   = errors.New("game is already over")
)

// Game is one connect-four board. grid is column-major; grid[c][0] is the
// bottom cell of column c.
type Game struct {
	grid   [Columns][Rows]byte
	height [Columns]int
	over   bool
	result model.Outcome
	pick   func(open []int) int
}

// New creates an empty board.
func New() *Game {
	return &Game{pick: func(open []int) int { return open[rand.IntN(len(open))] }}
}

// NewWithPick creates a board with an injected bot column picker, for tests.
func NewWithPick(pick func(open []int) int) *Game {
	return &Game{pick: pick}
}

// Kind returns the game kind.
func (g *Game) Kind() model.GameKind {
	return model.KindConnectFour
}

// Over reports whether the board reached a terminal position.
func (g *Game) Over() bool {
	return g.over
}

// Result returns the terminal outcome; valid only once Over is true.
func (g *Game) Result() model.Outcome {
	return g.result
}

// Drop places the player's piece in column 1-7, then lets the bot answer.
func (g *Game) Drop(column int) error {
	if g.over {
		return ErrGameOver
	}
	if column < 1 || column > Columns {
		return ErrOutOfRange
	}
	col := column - 1
	if g.height[col] == Rows {
		return ErrColumnFull
	}

	if g.place(col, Player) {
		g.finish(model.OutcomeWon)
		return nil
	}
	open := g.openColumns()
	if len(open) == 0 {
		g.finish(model.OutcomeDrawn)
		return nil
	}

	if g.place(g.pick(open), Bot) {
		g.finish(model.OutcomeLost)
		return nil
	}
	if len(g.openColumns()) == 0 {
		g.finish(model.OutcomeDrawn)
	}
	return nil
}

// Render returns the board top row first.
func (g *Game) Render() string {
	var b strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Columns; col++ {
			switch g.grid[col][row] {
			case Player:
				b.WriteString("🔴")
			case Bot:
				b.WriteString("🟡")
			default:
				b.WriteString("⚪")
			}
		}
		if row > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// place drops a piece into col and reports whether it completes four in a
// row.
func (g *Game) place(col int, mark byte) bool {
	row := g.height[col]
	g.grid[col][row] = mark
	g.height[col]++
	return g.connects(col, row, mark)
}

func (g *Game) finish(result model.Outcome) {
	g.over = true
	g.result = result
}

// connects checks the four line directions through (col, row).
func (g *Game) connects(col, row int, mark byte) bool {
	dirs := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1
		count += g.run(col, row, d[0], d[1], mark)
		count += g.run(col, row, -d[0], -d[1], mark)
		if count >= 4 {
			return true
		}
	}
	return false
}

// run counts consecutive marks from (col, row) exclusive in one direction.
func (g *Game) run(col, row, dc, dr int, mark byte) int {
	count := 0
	for {
		col += dc
		row += dr
		if col < 0 || col >= Columns || row < 0 || row >= Rows {
			return count
		}
		if g.grid[col][row] != mark {
			return count
		}
		count++
	}
}

func (g *Game) openColumns() []int {
	var open []int
	for c := 0; c < Columns; c++ {
		if g.height[c] < Rows {
			open = append(open, c)
		}
	}
	return open
}

// Launcher starts connect-four sessions.
type Launcher struct{}

// NewLauncher creates the connect-four launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Kind returns the game kind this launcher starts.
func (l *Launcher) Kind() model.GameKind {
	return model.KindConnectFour
}

// Command returns the command that triggers this game.
func (l *Launcher) Command() string {
	return "c4"
}

// Description returns a brief description of the game.
func (l *Launcher) Description() string {
	return "Connect four against the bot. Drop with /c4 <1-7>."
}

// Start returns an empty board.
func (l *Launcher) Start() game.MiniGame {
	return New()
}
