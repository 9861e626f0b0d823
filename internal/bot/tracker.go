package bot

import (
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

// tracker accumulates what an advanced policy has observed this round:
// every card played, each seat's inferred voids, and each seat's own
// play history. Reset at round boundaries via OnRoundStart (§9).
type tracker struct {
	played  map[string]bool
	voids   map[game.SeatPosition]map[cards.Suit]bool
	history map[game.SeatPosition][]cards.Card
}

func newTracker() *tracker {
	return &tracker{
		played:  map[string]bool{},
		voids:   map[game.SeatPosition]map[cards.Suit]bool{},
		history: map[game.SeatPosition][]cards.Card{},
	}
}

func (tr *tracker) reset() {
	tr.played = map[string]bool{}
	tr.voids = map[game.SeatPosition]map[cards.Suit]bool{}
	tr.history = map[game.SeatPosition][]cards.Card{}
}

// observeTrick folds a completed trick's plays into the tracker,
// inferring a void whenever a seat failed to follow the trick's lead
// suit.
func (tr *tracker) observeTrick(t *game.Trick) {
	if t == nil || len(t.Plays) == 0 {
		return
	}
	lead := t.LeadSuit()
	for _, pl := range t.Plays {
		tr.played[pl.Card.ID] = true
		tr.history[pl.Seat] = append(tr.history[pl.Seat], pl.Card)
		if pl.Card.Suit != lead {
			tr.voidSeat(pl.Seat, lead)
		}
	}
}

func (tr *tracker) voidSeat(seat game.SeatPosition, suit cards.Suit) {
	if tr.voids[seat] == nil {
		tr.voids[seat] = map[cards.Suit]bool{}
	}
	tr.voids[seat][suit] = true
}

func (tr *tracker) isVoid(seat game.SeatPosition, suit cards.Suit) bool {
	return tr.voids[seat][suit]
}

// remainingHighRanks returns which of A/K/Q of suit have not yet
// been played and are not in hand, i.e. are still live against us.
func (tr *tracker) remainingHighRanks(suit cards.Suit, hand []cards.Card) []cards.Rank {
	inHand := map[string]bool{}
	for _, c := range hand {
		inHand[c.ID] = true
	}
	var remaining []cards.Rank
	for _, r := range []cards.Rank{cards.Ace, cards.King, cards.Queen} {
		id := cards.New(suit, r).ID
		if !tr.played[id] && !inHand[id] {
			remaining = append(remaining, r)
		}
	}
	return remaining
}

// remainingTrumpCount reports how many trump cards are still unseen
// (not played, not in the policy's own hand), used by the
// conserve-trump classification.
func (tr *tracker) remainingTrumpCount(trump cards.Suit, variant cards.Variant, hand []cards.Card) int {
	inHand := map[string]bool{}
	for _, c := range hand {
		inHand[c.ID] = true
	}
	count := 0
	for _, c := range cards.Build(variant) {
		if c.Suit != trump {
			continue
		}
		if tr.played[c.ID] || inHand[c.ID] {
			continue
		}
		count++
	}
	return count
}
