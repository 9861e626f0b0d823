// Package bot implements the AI that drives seats flagged IsBot through
// bidding, the kitty phase, and trick play. Policies are pure functions
// over an explicit game.GameView (§9 "Bot policies as strategies": no
// hidden captures of *game.Game), so they are trivially testable
// without a live game.
package bot

import (
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

// BidDecision is a policy's answer to "bid or pass".
type BidDecision struct {
	Pass   bool
	Points int
	Suit   cards.Suit
}

// Policy is the strategy pair a bot seat plays by: choose-bid and
// choose-card over an explicit view, plus a round-boundary reset and
// an event observer for policies that carry state across a round (the
// advanced policy's card tracker). Kitty discards are not part of the
// interface; every tier uses KittyDiscard.
type Policy interface {
	MakeBid(hand []cards.Card, view game.GameView, mySeat game.SeatPosition, skill game.BotSkill) BidDecision
	MakeCardPlay(hand []cards.Card, playable []cards.Card, view game.GameView, mySeat game.SeatPosition) cards.Card
	// OnRoundStart resets any per-round tracking state (§9: "reset at
	// round boundaries via an explicit on-round-start hook").
	OnRoundStart()
	// Observe lets a policy update tracking state from events it did
	// not itself produce (other seats' bids and plays). Baseline
	// ignores it.
	Observe(events []game.Event)
}

// KittyDiscard is shared by every skill tier: given the hand with the
// kitty already taken, it sorts by ascending point value and returns
// the lowest 4 as discards, subject to the table's point-card-discard
// policy (§4.4). Taking the kitty and keeping the trump are the caller's.
func KittyDiscard(hand []cards.Card, allowPointCardDiscards bool) []cards.Card {
	sorted := append([]cards.Card(nil), hand...)
	sortByAscendingValue(sorted)

	if allowPointCardDiscards {
		return append([]cards.Card(nil), sorted[:4]...)
	}

	discards := make([]cards.Card, 0, 4)
	for _, c := range sorted {
		if len(discards) == 4 {
			break
		}
		if c.Value() == 0 {
			discards = append(discards, c)
		}
	}
	// Table policy forbids point-card discards but the hand may not
	// hold 4 zero-value cards; fall back to the lowest-value cards
	// overall rather than leaving an incomplete discard.
	if len(discards) < 4 {
		for _, c := range sorted {
			if len(discards) == 4 {
				break
			}
			if containsCard(discards, c) {
				continue
			}
			discards = append(discards, c)
		}
	}
	return discards
}

func containsCard(cs []cards.Card, c cards.Card) bool {
	for _, existing := range cs {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}

func sortByAscendingValue(cs []cards.Card) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j-1].Value() > cs[j].Value(); j-- {
			cs[j-1], cs[j] = cs[j], cs[j-1]
		}
	}
}
