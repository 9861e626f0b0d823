package game

import "github.com/cardtable/tablesvc/internal/cards"

// Play enacts a single card play (§4.5).
func Play(g *Game, seat SeatPosition, card cards.Card) ([]Event, *Error) {
	if g.Phase != PhasePlaying {
		return nil, stateErr(g, CodeWrongPhase, "play_card is only legal during play, phase=%s", g.Phase)
	}
	if seat != g.CurrentSeat {
		return nil, legalityErr(g, CodeNotYourTurn, "seat %s acted out of turn", seat)
	}
	p := g.PlayerAt(seat)
	if !p.HasCard(card) {
		return nil, legalityErr(g, CodeCardNotInHand, "card %s not in seat %s's hand", card, seat)
	}
	if lead := g.CurrentTrick.LeadSuit(); lead != "" && card.Suit != lead && p.HasSuit(lead) {
		return nil, legalityErr(g, CodeMustFollowSuit, "seat %s holds lead suit %s and must follow", seat, lead)
	}

	p.RemoveCard(card)
	g.CurrentTrick.Plays = append(g.CurrentTrick.Plays, TrickPlay{Seat: seat, Card: card})

	events := []Event{newEvent(g, EventCardPlayed, CardPlayedPayload{Seat: seat, Card: card})}

	if len(g.CurrentTrick.Plays) < 4 {
		advancePlaying(g)
		return events, nil
	}

	trickEvents := completeTrick(g)
	return append(events, trickEvents...), nil
}

func advancePlaying(g *Game) {
	g.SetCurrentSeat(g.CurrentSeat.NextClockwise())
}

// completeTrick scores the finished trick, determines its winner, and
// either finalizes the round or opens the next trick (§4.5 step 4).
func completeTrick(g *Game) []Event {
	trick := g.CurrentTrick
	trick.Points = 0
	for _, pl := range trick.Plays {
		trick.Points += pl.Card.Value()
	}

	winner := trickWinner(trick, g.TrumpSuit)
	trick.Winner = &winner

	g.LastTrick = trick
	g.RoundTricks = append(g.RoundTricks, trick)
	g.RoundScores[TeamOf(winner)] += trick.Points

	events := []Event{newEvent(g, EventTrickComplete, TrickCompletePayload{
		Winner: winner,
		Points: trick.Points,
		Plays:  trick.Plays,
	})}

	if g.AllHandsEmpty() {
		g.CurrentTrick = nil
		events = append(events, finalizeRound(g)...)
		return events
	}

	g.CurrentTrick = &Trick{}
	g.SetCurrentSeat(winner)
	return events
}

// trickWinner applies the rules of §4.5: trump beats non-trump
// regardless of rank; among trump, higher rank wins; otherwise only
// lead-suit cards contend and the higher rank wins.
func trickWinner(t *Trick, trump cards.Suit) SeatPosition {
	lead := t.LeadSuit()
	best := t.Plays[0]
	bestIsTrump := best.Card.Suit == trump

	for _, pl := range t.Plays[1:] {
		isTrump := pl.Card.Suit == trump
		switch {
		case isTrump && !bestIsTrump:
			best = pl
			bestIsTrump = true
		case isTrump && bestIsTrump:
			if pl.Card.Priority() > best.Card.Priority() {
				best = pl
			}
		case !isTrump && !bestIsTrump:
			if pl.Card.Suit == lead && best.Card.Suit == lead && pl.Card.Priority() > best.Card.Priority() {
				best = pl
			} else if pl.Card.Suit == lead && best.Card.Suit != lead {
				best = pl
			}
		}
		// !isTrump && bestIsTrump: best keeps the trick, off-suit
		// non-trump never wins over a trump card.
	}
	return best.Seat
}
