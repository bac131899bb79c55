package game

import (
	"fmt"
	"sync"
)

// Registry manages game registration and lookup.
// It provides a thread-safe way to register and retrieve games by command.
type Registry struct {
	games map[string]Launcher
	mu    sync.RWMutex
}

// NewRegistry creates a new game registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]Launcher),
	}
}

// Register adds a game to the registry.
// If a game with the same command already exists, it will be replaced.
func (r *Registry) Register(l Launcher) error {
	if l == nil {
		return fmt.Errorf("cannot register nil game")
	}
	if l.Command() == "" {
		return fmt.Errorf("game command cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[l.Command()] = l
	return nil
}

// Get retrieves a game by its command.
// Returns the game and true if found, nil and false otherwise.
func (r *Registry) Get(command string) (Launcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.games[command]
	return l, ok
}

// List returns all registered games.
// The returned slice is a copy, so modifications won't affect the registry.
func (r *Registry) List() []Launcher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Launcher, 0, len(r.games))
	for _, l := range r.games {
		games = append(games, l)
	}
	return games
}

// Commands returns all registered game commands.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]string, 0, len(r.games))
	for cmd := range r.games {
		commands = append(commands, cmd)
	}
	return commands
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
