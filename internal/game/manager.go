package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager keeps the games of a process in memory, keyed by id.
type Manager struct {
	logger   *zap.Logger
	defaults Options

	mu      sync.RWMutex
	games   map[string]*Game
	created int64
}

// NewManager creates a manager whose games start from defaults. Each game
// gets its own id and random source; defaults.ID and defaults.Rand are
// ignored. A non-zero defaults.Seed seeds the first game, and each later
// game uses the next seed, so runs stay reproducible without every game
// being dealt the same hands.
func NewManager(logger *zap.Logger, defaults Options) *Manager {
	defaults.ID = ""
	defaults.Rand = nil
	return &Manager{
		logger:   logger,
		defaults: defaults,
		games:    make(map[string]*Game),
	}
}

// Create deals a new game and registers it.
func (m *Manager) Create() (*Game, error) {
	opts := m.defaults
	opts.ID = uuid.NewString()

	m.mu.Lock()
	if opts.Seed != 0 {
		opts.Seed += m.created
	}
	m.created++
	m.mu.Unlock()

	g, err := New(m.logger, opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.games[g.ID()] = g
	count := len(m.games)
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("game created",
			zap.String("game_id", g.ID()),
			zap.Int("active_games", count),
		)
	}
	return g, nil
}

// Add registers an existing game, replacing any game with the same id.
func (m *Manager) Add(g *Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID()] = g
}

// Get looks a game up by id.
func (m *Manager) Get(gameID string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// List returns the ids of every registered game in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered games.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Remove drops a game.
func (m *Manager) Remove(gameID string) error {
	m.mu.Lock()
	g, ok := m.games[gameID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	delete(m.games, gameID)
	m.mu.Unlock()

	if m.logger != nil {
		state := g.State()
		m.logger.Info("game removed",
			zap.String("game_id", gameID),
			zap.Stringer("phase", state.Phase),
			zap.Stringer("winner", state.Winner),
		)
	}
	return nil
}
