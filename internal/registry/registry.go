// Package registry implements the process-wide name reservation set
// and the lobby/table registry (§3 "Name Registry", "Lobby/Table
// Registry"): a mapping from lobby id to the tables within it, read
// by lobby views and written by table/game lanes, kept internally
// consistent under a single mutex the way the teacher's GameManager
// guards its game map (internal/server/game_manager.go).
package registry

import (
	"sync"

	"github.com/cardtable/tablesvc/internal/game"
)

// Registry owns every lobby's table set. A single process normally
// runs one lobby, but the map keeps the door open for more without
// the engine caring.
type Registry struct {
	mu     sync.RWMutex
	lobbys map[string]map[string]*Table
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{lobbys: make(map[string]map[string]*Table)}
}

// CreateTable registers a new table under lobbyID. It reports false
// if a table with this id already exists in that lobby (§7 State:
// "table already exists").
func (r *Registry) CreateTable(lobbyID string, t *Table) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables, ok := r.lobbys[lobbyID]
	if !ok {
		tables = make(map[string]*Table)
		r.lobbys[lobbyID] = tables
	}
	if _, exists := tables[t.ID]; exists {
		return false
	}
	tables[t.ID] = t
	return true
}

// GetTable retrieves a table by lobby and table id.
func (r *Registry) GetTable(lobbyID, tableID string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tables, ok := r.lobbys[lobbyID]
	if !ok {
		return nil, false
	}
	t, ok := tables[tableID]
	return t, ok
}

// DeleteTable removes a table from its lobby.
func (r *Registry) DeleteTable(lobbyID, tableID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tables, ok := r.lobbys[lobbyID]; ok {
		delete(tables, tableID)
	}
}

// ListTables returns a snapshot of every table in lobbyID, in no
// particular order; callers needing a stable order sort by ID.
func (r *Registry) ListTables(lobbyID string) []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tables := r.lobbys[lobbyID]
	out := make([]*Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, t)
	}
	return out
}

// LiveGames implements timer.GameSource: every live game across every
// lobby and table, for the timeout supervisor's periodic scan (§4.8).
func (r *Registry) LiveGames() []*game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*game.Game
	for _, tables := range r.lobbys {
		for _, t := range tables {
			if t.IsLive() {
				out = append(out, t.Game)
			}
		}
	}
	return out
}

// TableOwning returns the table that owns gameID, if any, so a lane
// dispatcher can find it on expiry without a separate game→table
// index.
func (r *Registry) TableOwning(gameID string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tables := range r.lobbys {
		for _, t := range tables {
			if t.Game != nil && t.Game.ID == gameID {
				return t, true
			}
		}
	}
	return nil, false
}
