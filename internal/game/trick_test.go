package game

import (
	"testing"

	"github.com/cardtable/tablesvc/internal/cards"
)

func newPlayingGame(t *testing.T, trump cards.Suit) *Game {
	t.Helper()
	g := newTestGame(cards.Variant36, false)
	g.Phase = PhasePlaying
	g.TrumpSuit = trump
	g.ContractorTeam = Team1
	g.CurrentTrick = &Trick{}
	for s := 0; s < 4; s++ {
		g.Seats[s].Hand = nil
	}
	return g
}

// S5: follow-suit enforcement.
func TestPlay_FollowSuitEnforcement(t *testing.T) {
	g := newPlayingGame(t, cards.Clubs)
	g.Seats[0].Hand = []cards.Card{cards.New(cards.Hearts, cards.Ace)}
	g.Seats[1].Hand = []cards.Card{cards.New(cards.Hearts, cards.Five), cards.New(cards.Spades, cards.Ten)}
	g.SetCurrentSeat(0)

	if _, err := Play(g, 0, cards.New(cards.Hearts, cards.Ace)); err != nil {
		t.Fatalf("unexpected error leading: %v", err)
	}

	_, err := Play(g, 1, cards.New(cards.Spades, cards.Ten))
	if err == nil || err.Code != CodeMustFollowSuit {
		t.Fatalf("expected must-follow-suit error, got %v", err)
	}

	if _, err := Play(g, 1, cards.New(cards.Hearts, cards.Five)); err != nil {
		t.Fatalf("expected legal follow-suit play to succeed: %v", err)
	}
}

// S6: trump wins over lead suit.
func TestPlay_TrumpWinsOverLeadSuit(t *testing.T) {
	g := newPlayingGame(t, cards.Clubs)
	g.Seats[0].Hand = []cards.Card{cards.New(cards.Spades, cards.Ace), cards.New(cards.Diamonds, cards.Nine)}
	g.Seats[1].Hand = []cards.Card{cards.New(cards.Spades, cards.King), cards.New(cards.Diamonds, cards.Eight)}
	g.Seats[2].Hand = []cards.Card{cards.New(cards.Clubs, cards.Five), cards.New(cards.Diamonds, cards.Seven)}
	g.Seats[3].Hand = []cards.Card{cards.New(cards.Spades, cards.Ten), cards.New(cards.Diamonds, cards.Six)}
	g.SetCurrentSeat(0)

	plays := []struct {
		seat SeatPosition
		card cards.Card
	}{
		{0, cards.New(cards.Spades, cards.Ace)},
		{1, cards.New(cards.Spades, cards.King)},
		{2, cards.New(cards.Clubs, cards.Five)},
		{3, cards.New(cards.Spades, cards.Ten)},
	}

	var events []Event
	for _, pl := range plays {
		evs, err := Play(g, pl.seat, pl.card)
		if err != nil {
			t.Fatalf("unexpected error playing %s: %v", pl.card, err)
		}
		events = append(events, evs...)
	}

	if g.LastTrick == nil || g.LastTrick.Winner == nil {
		t.Fatalf("expected a completed trick with a winner")
	}
	if *g.LastTrick.Winner != 2 {
		t.Errorf("expected seat 2 (only trump) to win, got seat %s", *g.LastTrick.Winner)
	}
	if g.LastTrick.Points != 25 {
		t.Errorf("expected trick points 25, got %d", g.LastTrick.Points)
	}
	if g.RoundScores[Team1] != 25 {
		t.Errorf("expected team1 (seat 2's team) credited 25, got %d", g.RoundScores[Team1])
	}

	found := false
	for _, e := range events {
		if e.Kind == EventTrickComplete {
			found = true
		}
	}
	if !found {
		t.Error("expected a trick_complete event")
	}
}

func TestPlay_HighestLeadSuitWinsWhenNoTrump(t *testing.T) {
	g := newPlayingGame(t, cards.Clubs)
	g.Seats[0].Hand = []cards.Card{cards.New(cards.Hearts, cards.Nine), cards.New(cards.Diamonds, cards.Eight)}
	g.Seats[1].Hand = []cards.Card{cards.New(cards.Hearts, cards.Ace), cards.New(cards.Diamonds, cards.Seven)}
	g.Seats[2].Hand = []cards.Card{cards.New(cards.Spades, cards.Ace), cards.New(cards.Diamonds, cards.Six)}
	g.Seats[3].Hand = []cards.Card{cards.New(cards.Hearts, cards.King), cards.New(cards.Diamonds, cards.Five)}
	g.SetCurrentSeat(0)

	plays := []cards.Card{
		g.Seats[0].Hand[0], g.Seats[1].Hand[0], g.Seats[2].Hand[0], g.Seats[3].Hand[0],
	}
	for i, s := range []SeatPosition{0, 1, 2, 3} {
		if _, err := Play(g, s, plays[i]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if *g.LastTrick.Winner != 1 {
		t.Errorf("expected seat 1 (ace of lead suit) to win, got seat %s", *g.LastTrick.Winner)
	}
}

func TestPlay_RejectsCardNotInHand(t *testing.T) {
	g := newPlayingGame(t, cards.Clubs)
	g.Seats[0].Hand = []cards.Card{cards.New(cards.Hearts, cards.Ace)}
	g.SetCurrentSeat(0)

	_, err := Play(g, 0, cards.New(cards.Spades, cards.King))
	if err == nil || err.Code != CodeCardNotInHand {
		t.Fatalf("expected card-not-in-hand error, got %v", err)
	}
}
