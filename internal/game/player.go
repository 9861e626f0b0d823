package game

import "github.com/cardtable/tablesvc/internal/cards"

// Player is a single seat occupant: a human or a bot.
type Player struct {
	ID          string
	DisplayName string
	IsBot       bool
	BotSkill    BotSkill
	Position    SeatPosition
	Hand        []cards.Card
	Ready       bool
	Spectator   bool
}

// HasCard reports whether the player currently holds c.
func (p *Player) HasCard(c cards.Card) bool {
	for _, h := range p.Hand {
		if h.Equal(c) {
			return true
		}
	}
	return false
}

// HasSuit reports whether the player holds any card of suit s.
func (p *Player) HasSuit(s cards.Suit) bool {
	for _, h := range p.Hand {
		if h.Suit == s {
			return true
		}
	}
	return false
}

// RemoveCard removes the first matching card from the hand. It
// reports false if the card was not found.
func (p *Player) RemoveCard(c cards.Card) bool {
	for i, h := range p.Hand {
		if h.Equal(c) {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HandValue sums the point value of every card in hand, the input to
// the baseline bidding heuristic (§4.7).
func (p *Player) HandValue() int {
	total := 0
	for _, c := range p.Hand {
		total += c.Value()
	}
	return total
}

// SuitCards returns the subset of the hand matching suit s, in hand
// order.
func (p *Player) SuitCards(s cards.Suit) []cards.Card {
	var out []cards.Card
	for _, c := range p.Hand {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}
