package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/tablesvc/internal/game"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return &Session{ID: "s1", send: make(chan Outbound, 8), done: make(chan struct{})}
}

func TestRooms_JoinAndBroadcastDeliversToMembers(t *testing.T) {
	r := NewRooms()
	sess := newTestSession(t)
	r.Join("table-t1", sess)

	r.broadcast("table-t1", Outbound{Kind: OutboundTableUpdated})

	select {
	case msg := <-sess.send:
		assert.Equal(t, OutboundTableUpdated, msg.Kind)
	default:
		t.Fatal("expected broadcast to deliver to joined session")
	}
}

func TestRooms_LeaveRemovesMembership(t *testing.T) {
	r := NewRooms()
	sess := newTestSession(t)
	r.Join("table-t1", sess)
	r.Leave("table-t1", sess)

	r.broadcast("table-t1", Outbound{Kind: OutboundTableUpdated})

	select {
	case <-sess.send:
		t.Fatal("expected no delivery after leaving the room")
	default:
	}
}

func TestDispatchGame_RoutesToGameAndSpectatorRoomsWhileLive(t *testing.T) {
	r := NewRooms()
	gameSess := newTestSession(t)
	tableSess := newTestSession(t)
	r.Join(gameRoom("g1"), gameSess)
	r.Join(tableRoom("t1"), tableSess)

	g := &game.Game{ID: "g1", TableID: "t1", Phase: game.PhaseBidding, TeamScores: map[game.Team]int{}, RoundScores: map[game.Team]int{}, Passed: map[game.SeatPosition]bool{}}
	r.DispatchGame(g, Outbound{Kind: OutboundBidMade})

	require.Len(t, gameSess.send, 1)
	assert.Len(t, tableSess.send, 0)
}

func TestDispatchGame_RoutesToTableRoomWhenFinished(t *testing.T) {
	r := NewRooms()
	gameSess := newTestSession(t)
	tableSess := newTestSession(t)
	r.Join(gameRoom("g1"), gameSess)
	r.Join(tableRoom("t1"), tableSess)

	g := &game.Game{ID: "g1", TableID: "t1", Phase: game.PhaseFinished, TeamScores: map[game.Team]int{}, RoundScores: map[game.Team]int{}, Passed: map[game.SeatPosition]bool{}}
	r.DispatchGame(g, Outbound{Kind: OutboundGameEnded})

	assert.Len(t, gameSess.send, 0)
	require.Len(t, tableSess.send, 1)
}
