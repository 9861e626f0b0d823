package dispatch

import (
	"sync"

	"github.com/cardtable/tablesvc/internal/game"
)

// Manager multiplexes timer.LaneDispatcher across every live lane: the
// supervisor knows nothing about individual games, only that an
// expired (gameID, seat) pair needs to reach whichever lane owns it.
type Manager struct {
	mu    sync.RWMutex
	lanes map[string]*Lane
}

// NewManager constructs an empty lane manager.
func NewManager() *Manager {
	return &Manager{lanes: make(map[string]*Lane)}
}

// Register starts tracking a lane under its game id. Callers are
// expected to have already started l.Run in its own goroutine.
func (m *Manager) Register(l *Lane) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lanes[l.Game.ID] = l
}

// Unregister stops tracking a lane, e.g. once its game is finished and
// cleaned up.
func (m *Manager) Unregister(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lanes, gameID)
}

// ExpireTurn implements timer.LaneDispatcher by forwarding to the
// owning lane, if it is still registered.
func (m *Manager) ExpireTurn(gameID string, seat game.SeatPosition) {
	m.mu.RLock()
	l, ok := m.lanes[gameID]
	m.mu.RUnlock()
	if !ok {
		return
	}
	l.ExpireTurn(gameID, seat)
}
