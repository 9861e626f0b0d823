package game

import "github.com/cardtable/tablesvc/internal/cards"

// dealStandard distributes the full deck 9 (36-card variant) or 10
// (40-card, no kitty) cards per seat round-robin starting at seat 0.
func dealStandard(g *Game, deck []cards.Card) {
	for i, c := range deck {
		seat := SeatPosition(i % 4)
		p := g.PlayerAt(seat)
		p.Hand = append(p.Hand, c)
	}
	g.RemainingDeck = nil
}

// dealKitty distributes the 40-card deck in the 3-2-3-2-3 packet
// pattern: 3 per seat, 2 to kitty, 3 per seat, 2 to kitty, 3 per seat.
// Final state: 9 per seat, 4 in kitty.
func dealKitty(g *Game, deck []cards.Card) {
	cursor := 0
	take := func(n int) []cards.Card {
		out := deck[cursor : cursor+n]
		cursor += n
		return out
	}
	dealSeats := func(n int) {
		for seat := 0; seat < 4; seat++ {
			p := g.PlayerAt(SeatPosition(seat))
			p.Hand = append(p.Hand, take(n)...)
		}
	}

	dealSeats(3)
	g.Kitty = append(g.Kitty, take(2)...)
	dealSeats(3)
	g.Kitty = append(g.Kitty, take(2)...)
	dealSeats(3)

	g.RemainingDeck = nil
}

// Deal builds a fresh shuffled deck and distributes it per the table's
// dealing discipline (§4.2). It must be called with all 4 seats
// occupied and with every seat's hand already cleared.
func Deal(g *Game) {
	deck := cards.Build(g.DeckVariant)
	cards.Shuffle(deck, g.rng)

	g.Kitty = nil
	if g.KittyEnabled && g.DeckVariant == cards.Variant40 {
		dealKitty(g, deck)
		return
	}
	dealStandard(g, deck)
}
