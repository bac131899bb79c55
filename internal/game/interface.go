// Package game defines the mini-game interfaces and registry.
// The session and resolver layers treat game state as opaque: all they
// need from a game is its kind and whether it has reached a terminal state.
package game

import "telegram-lottery-bot/internal/model"

// MiniGame is the opaque per-session game state. Implementations own their
// own rules; the core only consults Kind and Over.
type MiniGame interface {
	// Kind returns the tagged kind of this game.
	Kind() model.GameKind

	// Over reports whether the game has reached a terminal state.
	Over() bool
}

// Board is implemented by games with a renderable board, used by the
// query-session command to show the current position.
type Board interface {
	MiniGame

	// Render returns a text rendering of the current position.
	Render() string
}

// Launcher creates fresh game sessions and describes the game to the
// command layer. Adding a new game only requires implementing Launcher
// and registering it.
type Launcher interface {
	// Kind returns the kind of game this launcher starts.
	Kind() model.GameKind

	// Command returns the slash command that starts this game (e.g. "bet").
	Command() string

	// Description returns a brief description of the game.
	Description() string

	// Start returns a fresh game state for one session.
	Start() MiniGame
}
