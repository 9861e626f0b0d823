package game

import (
	"math/rand"
	"time"

	"github.com/cardtable/tablesvc/internal/cards"
)

// newTestGame builds a fully-seated game ready for dealing, with a
// deterministic rng so tests are reproducible.
func newTestGame(variant cards.Variant, kitty bool) *Game {
	g := NewGame("game-1", "table-1", variant, 200, kitty, true, false, 30*time.Second, rand.New(rand.NewSource(7)))
	for s := 0; s < 4; s++ {
		g.Seats[s] = &Player{ID: seatPlayerID(s), DisplayName: seatPlayerID(s), Position: SeatPosition(s)}
	}
	return g
}

func seatPlayerID(s int) string {
	names := []string{"p0", "p1", "p2", "p3"}
	return names[s]
}

// startBidding deals and opens the bidding phase with the seat next
// clockwise of the dealer acting first, matching §4.3's scenarios.
func startBidding(g *Game) {
	Deal(g)
	g.Phase = PhaseBidding
	g.SetCurrentSeat(g.DealerSeat.NextClockwise())
}
