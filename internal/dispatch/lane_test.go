package dispatch

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/tablesvc/internal/bot"
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
	"github.com/cardtable/tablesvc/internal/registry"
	"github.com/cardtable/tablesvc/internal/transcript"
)

func newLaneTestGame(t *testing.T) *game.Game {
	t.Helper()
	g := game.NewGame("g1", "t1", cards.Variant36, 200, false, true, false, 30*time.Second, rand.New(rand.NewSource(5)))
	for s := 0; s < 4; s++ {
		g.Seats[s] = &game.Player{ID: seatID(s), Position: game.SeatPosition(s)}
	}
	game.Deal(g)
	g.Phase = game.PhaseBidding
	g.SetCurrentSeat(g.DealerSeat.NextClockwise())
	return g
}

func seatID(s int) string {
	return []string{"p0", "p1", "p2", "p3"}[s]
}

func newTestLane(t *testing.T, g *game.Game) (*Lane, *Rooms) {
	t.Helper()
	rooms := NewRooms()
	tbl := registry.NewTable("t1", "Standard Table", "p0")
	tr := transcript.New(g, tbl.Name, time.Now())
	logger := log.NewWithOptions(io.Discard, log.Options{})
	l := NewLane(g, tbl, bot.Seats{}, tr, rooms, logger, false)
	go l.Run()
	t.Cleanup(l.Stop)
	return l, rooms
}

// drain processes one enqueued command synchronously by waiting for
// the inbox to empty; the lane's own goroutine does the work.
func drain(t *testing.T, l *Lane) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for lane to drain")
		default:
			if len(l.inbox) == 0 {
				time.Sleep(time.Millisecond)
				return
			}
		}
	}
}

func TestLane_MakeBidAppliesAndDispatches(t *testing.T) {
	g := newLaneTestGame(t)
	bidder := g.CurrentSeat
	l, rooms := newTestLane(t, g)
	sess := newTestSession(t)
	rooms.Join(gameRoom("g1"), sess)

	l.MakeBid(bidder, 50, cards.Hearts)
	drain(t, l)

	assert.NotNil(t, g.CurrentBid)
	if g.CurrentBid != nil {
		assert.Equal(t, 50, g.CurrentBid.Points)
	}
	require.NotEmpty(t, sess.send)
}

func TestLane_RejectedActionDoesNotMutate(t *testing.T) {
	g := newLaneTestGame(t)
	wrongSeat := g.CurrentSeat.NextClockwise()
	l, _ := newTestLane(t, g)

	l.MakeBid(wrongSeat, 50, cards.Hearts)
	drain(t, l)

	assert.Nil(t, g.CurrentBid)
}
