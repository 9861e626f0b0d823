package dispatch

import (
	"sync"

	"github.com/cardtable/tablesvc/internal/game"
)

// Room names the three audience scopes a single table fans events out
// to (§4.9).
func gameRoom(gameID string) string      { return "game-" + gameID }
func spectatorRoom(tableID string) string { return "spectator-" + tableID }
func tableRoom(tableID string) string    { return "table-" + tableID }

// Rooms is a process-wide membership index: room name -> member
// sessions. Grounded on the teacher's pool/hub map-of-subscribers
// shape (internal/server/pool.go) but generalized from one flat pool
// to named rooms.
type Rooms struct {
	mu      sync.RWMutex
	members map[string]map[*Session]bool
}

// NewRooms constructs an empty room index.
func NewRooms() *Rooms {
	return &Rooms{members: make(map[string]map[*Session]bool)}
}

// Join adds sess to room.
func (r *Rooms) Join(room string, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.members[room]
	if !ok {
		set = make(map[*Session]bool)
		r.members[room] = set
	}
	set[sess] = true
}

// Leave removes sess from room.
func (r *Rooms) Leave(room string, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.members[room]; ok {
		delete(set, sess)
		if len(set) == 0 {
			delete(r.members, room)
		}
	}
}

// LeaveAll removes sess from every room it belongs to, for
// disconnect cleanup.
func (r *Rooms) LeaveAll(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for room, set := range r.members {
		if set[sess] {
			delete(set, sess)
			if len(set) == 0 {
				delete(r.members, room)
			}
		}
	}
}

// broadcast sends msg to every session in room.
func (r *Rooms) broadcast(room string, msg Outbound) {
	r.mu.RLock()
	set := r.members[room]
	sessions := make([]*Session, 0, len(set))
	for s := range set {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		_ = s.Send(msg)
	}
}

// DispatchGame implements the §4.9 dispatch rule: if g is live,
// broadcast to game-{id} and spectator-{tableId}; otherwise to
// table-{id}.
func (r *Rooms) DispatchGame(g *game.Game, msg Outbound) {
	if msg.Game == nil {
		msg.Game = NewGameSnapshot(g)
	}
	if g.Phase != game.PhaseFinished {
		r.broadcast(gameRoom(g.ID), msg)
		r.broadcast(spectatorRoom(g.TableID), msg)
		return
	}
	r.broadcast(tableRoom(g.TableID), msg)
}

// DispatchTable broadcasts a table-scoped message (pre-game or
// game-less events such as table_updated, table_deleted).
func (r *Rooms) DispatchTable(tableID string, msg Outbound) {
	r.broadcast(tableRoom(tableID), msg)
}

// JoinGameRooms seats sess into a freshly started game's room, per
// "game-{id}: joined by all seated players at game start" (§4.9).
func (r *Rooms) JoinGameRooms(g *game.Game, sess *Session) {
	r.Join(gameRoom(g.ID), sess)
	r.Join(tableRoom(g.TableID), sess)
}

// JoinSpectatorRooms adds a spectator socket to both the
// spectator-only room and the game room of a live table.
func (r *Rooms) JoinSpectatorRooms(tableID string, liveGameID string, sess *Session) {
	r.Join(spectatorRoom(tableID), sess)
	r.Join(tableRoom(tableID), sess)
	if liveGameID != "" {
		r.Join(gameRoom(liveGameID), sess)
	}
}
