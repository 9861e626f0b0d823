package game

import (
	"testing"

	"github.com/cardtable/tablesvc/internal/cards"
)

func newKittyPhaseGame(t *testing.T) *Game {
	t.Helper()
	g := newTestGame(cards.Variant40, true)
	Deal(g)
	g.Phase = PhaseKitty
	g.CurrentBid = &Bid{Seat: 1, Points: 55, Suit: cards.Hearts}
	g.SetCurrentSeat(1)
	return g
}

func TestKitty_TakeThenDiscardCompletesKittyPhase(t *testing.T) {
	g := newKittyPhaseGame(t)

	if _, err := TakeKitty(g, 1); err != nil {
		t.Fatalf("unexpected error taking kitty: %v", err)
	}
	if len(g.Seats[1].Hand) != 13 {
		t.Fatalf("expected bidder's hand to grow to 13, got %d", len(g.Seats[1].Hand))
	}
	if len(g.Kitty) != 0 {
		t.Fatalf("expected kitty emptied after taking, got %d", len(g.Kitty))
	}

	zeroValue := make([]cards.Card, 0, 4)
	for _, c := range g.Seats[1].Hand {
		if c.Value() == 0 {
			zeroValue = append(zeroValue, c)
		}
		if len(zeroValue) == 4 {
			break
		}
	}
	if len(zeroValue) != 4 {
		t.Fatalf("test setup needs 4 zero-value cards in the bidder's hand, found %d", len(zeroValue))
	}

	if _, err := DiscardToKitty(g, 1, zeroValue, cards.Hearts); err != nil {
		t.Fatalf("unexpected error discarding: %v", err)
	}

	if !g.KittyPhaseCompleted {
		t.Error("expected kittyPhaseCompleted=true")
	}
	if len(g.Seats[1].Hand) != 9 {
		t.Errorf("expected bidder's hand to settle at 9, got %d", len(g.Seats[1].Hand))
	}
	if len(g.KittyDiscards) != 4 {
		t.Errorf("expected 4 kitty discards, got %d", len(g.KittyDiscards))
	}
	if g.Phase != PhasePlaying {
		t.Errorf("expected phase=playing, got %s", g.Phase)
	}
	if g.ContractorTeam != TeamOf(1) {
		t.Errorf("expected contractor team set from bidder's seat")
	}
	if g.CurrentSeat != 1 {
		t.Errorf("expected current seat = bidder, got %s", g.CurrentSeat)
	}
}

func TestKitty_RejectsTrumpChange(t *testing.T) {
	g := newKittyPhaseGame(t)
	if _, err := TakeKitty(g, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	discards := g.Seats[1].Hand[:4]
	_, err := DiscardToKitty(g, 1, discards, cards.Spades)
	if err == nil || err.Code != CodeInvalidDiscards {
		t.Fatalf("expected trump-change rejection, got %v", err)
	}
}

func TestKitty_RejectsPointCardDiscardWhenDisallowed(t *testing.T) {
	g := newKittyPhaseGame(t)
	g.AllowPointCardDiscards = false
	if _, err := TakeKitty(g, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var discards []cards.Card
	for _, c := range g.Seats[1].Hand {
		if c.Value() > 0 {
			discards = append(discards, c)
			break
		}
	}
	for _, c := range g.Seats[1].Hand {
		if len(discards) == 4 {
			break
		}
		if c.Value() == 0 {
			discards = append(discards, c)
		}
	}
	if len(discards) != 4 {
		t.Fatalf("test setup needs a point card plus 3 zero-value cards, got %d", len(discards))
	}

	_, err := DiscardToKitty(g, 1, discards, cards.Hearts)
	if err == nil || err.Code != CodeInvalidDiscards {
		t.Fatalf("expected point-card discard rejection, got %v", err)
	}
}
