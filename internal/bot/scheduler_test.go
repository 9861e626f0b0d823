package bot

import (
	"math/rand"
	"testing"
	"time"

	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

func newBotTestGame(t *testing.T, botSeats map[int]bool) *game.Game {
	t.Helper()
	g := game.NewGame("g1", "t1", cards.Variant36, 200, false, true, false, 30*time.Second, rand.New(rand.NewSource(3)))
	for s := 0; s < 4; s++ {
		g.Seats[s] = &game.Player{ID: "p", Position: game.SeatPosition(s), IsBot: botSeats[s]}
	}
	game.Deal(g)
	g.Phase = game.PhaseBidding
	g.SetCurrentSeat(g.DealerSeat.NextClockwise())
	return g
}

func TestRunTurn_AdvancesThroughConsecutiveBotsThenStopsAtHuman(t *testing.T) {
	// Seats 0,1,2 are bots; seat 3 is human. All bots always pass, so
	// the scheduler should stop with seat 3 on the turn.
	g := newBotTestGame(t, map[int]bool{0: true, 1: true, 2: true})
	policies := Seats{
		0: alwaysPass{},
		1: alwaysPass{},
		2: alwaysPass{},
	}

	events, err := RunTurn(g, policies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.CurrentSeat != 3 {
		t.Fatalf("expected scheduler to stop at human seat 3, got %s", g.CurrentSeat)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 pass events, got %d", len(events))
	}
}

func TestRunTurn_StopsImmediatelyWhenCurrentSeatIsHuman(t *testing.T) {
	g := newBotTestGame(t, map[int]bool{1: true, 2: true, 3: true})
	policies := Seats{1: alwaysPass{}, 2: alwaysPass{}, 3: alwaysPass{}}

	events, err := RunTurn(g, policies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no bot actions when seat 0 (human) holds the turn, got %d events", len(events))
	}
	if g.CurrentSeat != 0 {
		t.Errorf("expected current seat to remain 0, got %s", g.CurrentSeat)
	}
}

func TestStepOnce_CommitsExactlyOneDecisionPerCall(t *testing.T) {
	// Seats 0,1,2 are bots; seat 3 is human. Each StepOnce call should
	// advance by exactly one seat, letting a caller pause between
	// calls (§5 "between a bot's decision and its commit").
	g := newBotTestGame(t, map[int]bool{0: true, 1: true, 2: true})
	policies := Seats{0: alwaysPass{}, 1: alwaysPass{}, 2: alwaysPass{}}

	first := g.CurrentSeat
	events, acted, err := StepOnce(g, policies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acted {
		t.Fatal("expected StepOnce to act on the first bot seat")
	}
	if len(events) == 0 {
		t.Fatal("expected at least one event from the committed decision")
	}
	if g.CurrentSeat == first {
		t.Fatalf("expected current seat to advance past %s after one step", first)
	}

	steps := 1
	for {
		_, acted, err := StepOnce(g, policies)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !acted {
			break
		}
		steps++
		if steps > 3 {
			t.Fatal("expected scheduler to stop once the human seat holds the turn")
		}
	}
	if g.CurrentSeat != 3 {
		t.Fatalf("expected scheduler to stop at human seat 3, got %s", g.CurrentSeat)
	}
	if steps != 3 {
		t.Errorf("expected exactly 3 single-decision steps for 3 consecutive bots, got %d", steps)
	}
}

// alwaysPass is a minimal Policy stub that always passes in bidding
// and plays the first playable card otherwise.
type alwaysPass struct{}

func (alwaysPass) MakeBid(hand []cards.Card, view game.GameView, mySeat game.SeatPosition, skill game.BotSkill) BidDecision {
	return BidDecision{Pass: true}
}

func (alwaysPass) MakeCardPlay(hand []cards.Card, playable []cards.Card, view game.GameView, mySeat game.SeatPosition) cards.Card {
	return playable[0]
}

func (alwaysPass) OnRoundStart() {}
func (alwaysPass) Observe(events []game.Event) {}
