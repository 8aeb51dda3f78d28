package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vmunix/fijkbridge/internal/events"
)

// ErrNotFound is returned when no player has the requested id.
var ErrNotFound = errors.New("player not found")

// CoreFactory creates the native engine for a new player.
type CoreFactory func(id int64) (Core, error)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Engine  *Engine
	Cores   CoreFactory // nil creates NopCore engines
	Bus     *events.Bus
	Logger  *slog.Logger
	Options map[string]int // default host options for new players
}

// Manager owns the live players and hands out their ids.
type Manager struct {
	mu      sync.RWMutex
	players map[int64]*Player
	nextID  atomic.Int64

	engine  *Engine
	cores   CoreFactory
	bus     *events.Bus
	logger  *slog.Logger
	options map[string]int
}

// NewManager creates an empty manager.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = NewEngine(nil, cfg.Bus, logger)
	}
	cores := cfg.Cores
	if cores == nil {
		cores = func(int64) (Core, error) { return NopCore{}, nil }
	}
	return &Manager{
		players: make(map[int64]*Player),
		engine:  engine,
		cores:   cores,
		bus:     cfg.Bus,
		logger:  logger,
		options: cfg.Options,
	}
}

// Engine returns the shared engine.
func (m *Manager) Engine() *Engine {
	return m.engine
}

// Create creates a player with the next free id. Ids start at 1.
func (m *Manager) Create() (*Player, error) {
	id := m.nextID.Add(1)
	core, err := m.cores(id)
	if err != nil {
		return nil, fmt.Errorf("create core for player %d: %w", id, err)
	}

	p := New(Config{
		ID:      id,
		Core:    core,
		Engine:  m.engine,
		Bus:     m.bus,
		Logger:  m.logger,
		Options: m.options,
	})

	m.mu.Lock()
	m.players[id] = p
	m.mu.Unlock()

	m.logger.Debug("player created", "player", id)
	return p, nil
}

// Get returns the player with id.
func (m *Manager) Get(id int64) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

// IDs returns the ids of live players in ascending order.
func (m *Manager) IDs() []int64 {
	m.mu.RLock()
	ids := make([]int64, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count returns the number of live players.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// Release releases and forgets the player with id.
func (m *Manager) Release(ctx context.Context, id int64) error {
	m.mu.Lock()
	p, ok := m.players[id]
	delete(m.players, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return p.Release(ctx)
}

// ReleaseAll releases every player.
func (m *Manager) ReleaseAll(ctx context.Context) error {
	m.mu.Lock()
	players := m.players
	m.players = make(map[int64]*Player)
	m.mu.Unlock()

	var errs []error
	for id, p := range players {
		if err := p.Release(ctx); err != nil {
			errs = append(errs, fmt.Errorf("player %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
