package bot

import (
	"testing"

	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

func TestAdvanced_DumpsToWinningPartner(t *testing.T) {
	p := NewAdvancedPolicy()
	// seat 2 is partner of seat 0 (both even); seat 2 currently winning
	// the trick with the ace of the lead suit. Seat 1 is the only seat
	// left to act and is known void in both the lead suit and trump,
	// so the win is certain even though we are not last to play.
	p.tr.voidSeat(1, cards.Hearts)
	p.tr.voidSeat(1, cards.Clubs)
	trick := &game.Trick{Plays: []game.TrickPlay{
		{Seat: 3, Card: cards.New(cards.Hearts, cards.Seven)},
		{Seat: 2, Card: cards.New(cards.Hearts, cards.Ace)},
	}}
	view := game.GameView{CurrentTrick: trick, TrumpSuit: cards.Clubs, DeckVariant: cards.Variant36}
	playable := []cards.Card{cards.New(cards.Hearts, cards.Five), cards.New(cards.Hearts, cards.King)}

	card := p.MakeCardPlay(playable, playable, view, 0)
	if card.Rank != cards.Five {
		t.Errorf("expected to dump a five to partner rather than a king, got %s", card)
	}
}

func TestAdvanced_DumpsDearestWhenOpponentMightStillOutrank(t *testing.T) {
	p := NewAdvancedPolicy()
	// Same position as above, but with no tracking info on seat 1: it
	// might still hold a higher heart or a trump, so the win is not
	// certain and the policy dumps its highest-value lead-suit card:
	// the five (5 points) over the king (0 points).
	trick := &game.Trick{Plays: []game.TrickPlay{
		{Seat: 3, Card: cards.New(cards.Hearts, cards.Seven)},
		{Seat: 2, Card: cards.New(cards.Hearts, cards.Ace)},
	}}
	view := game.GameView{CurrentTrick: trick, TrumpSuit: cards.Clubs, DeckVariant: cards.Variant36}
	playable := []cards.Card{cards.New(cards.Hearts, cards.Five), cards.New(cards.Hearts, cards.King)}

	card := p.MakeCardPlay(playable, playable, view, 0)
	if card.Rank != cards.Five {
		t.Errorf("expected to dump the dearest lead-suit card (the five), got %s", card)
	}
}

func TestAdvanced_WinsTrickWithCheapestOutranker(t *testing.T) {
	p := NewAdvancedPolicy()
	trick := &game.Trick{Plays: []game.TrickPlay{
		{Seat: 3, Card: cards.New(cards.Hearts, cards.Nine)},
		{Seat: 1, Card: cards.New(cards.Hearts, cards.Ten)},
	}}
	view := game.GameView{CurrentTrick: trick, TrumpSuit: cards.Clubs, DeckVariant: cards.Variant36}
	playable := []cards.Card{cards.New(cards.Hearts, cards.King), cards.New(cards.Hearts, cards.Ace)}

	card := p.MakeCardPlay(playable, playable, view, 2)
	if card.Rank != cards.King {
		t.Errorf("expected cheapest out-ranking card (king over ace), got %s", card)
	}
}

func TestAdvanced_RoundStartResetsTracker(t *testing.T) {
	p := NewAdvancedPolicy()
	p.tr.played["hearts-A"] = true
	p.OnRoundStart()
	if len(p.tr.played) != 0 {
		t.Errorf("expected tracker reset at round start, still has %d entries", len(p.tr.played))
	}
}

func TestAdvanced_ObserveTracksOtherSeatsPlays(t *testing.T) {
	p := NewAdvancedPolicy()
	events := []game.Event{
		{Kind: game.EventCardPlayed, Payload: game.CardPlayedPayload{Seat: 1, Card: cards.New(cards.Spades, cards.Ace)}},
	}
	p.Observe(events)
	if !p.tr.played[cards.New(cards.Spades, cards.Ace).ID] {
		t.Error("expected observed card_played event to mark the card as played")
	}
}
