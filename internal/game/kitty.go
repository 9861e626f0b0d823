package game

import "github.com/cardtable/tablesvc/internal/cards"

const kittyDiscardCount = 4

// TakeKitty moves the kitty cards into the bidder's hand (§4.4). Only
// legal once per round, for the seat that currently holds the turn in
// the kitty phase.
func TakeKitty(g *Game, seat SeatPosition) ([]Event, *Error) {
	if g.Phase != PhaseKitty {
		return nil, stateErr(g, CodeWrongPhase, "take_kitty is only legal during the kitty phase, phase=%s", g.Phase)
	}
	if seat != g.CurrentSeat {
		return nil, legalityErr(g, CodeNotYourTurn, "seat %s acted out of turn", seat)
	}
	if len(g.Kitty) == 0 {
		return nil, stateErr(g, CodeWrongPhase, "kitty already taken")
	}

	p := g.PlayerAt(seat)
	taken := g.Kitty
	p.Hand = append(p.Hand, taken...)
	g.Kitty = nil

	return []Event{newEvent(g, EventKittyPick, KittyPickPayload{Seat: seat, Cards: taken})}, nil
}

// DiscardToKitty accepts the bidder's 4-card discard and confirmed
// trump suit (§4.4). trumpSuit must equal the winning bid's declared
// suit: the table's trump-change policy defaults to "unchanged" (§9
// open question, resolved against allowing a change, since the spec
// states no table flag exists to opt into it).
func DiscardToKitty(g *Game, seat SeatPosition, discards []cards.Card, trumpSuit cards.Suit) ([]Event, *Error) {
	if g.Phase != PhaseKitty {
		return nil, stateErr(g, CodeWrongPhase, "discard_to_kitty is only legal during the kitty phase, phase=%s", g.Phase)
	}
	if seat != g.CurrentSeat {
		return nil, legalityErr(g, CodeNotYourTurn, "seat %s acted out of turn", seat)
	}
	if len(g.Kitty) != 0 {
		return nil, stateErr(g, CodeWrongPhase, "kitty must be taken before discarding")
	}
	if len(discards) != kittyDiscardCount {
		return nil, legalityErr(g, CodeInvalidDiscards, "must discard exactly %d cards, got %d", kittyDiscardCount, len(discards))
	}
	if g.CurrentBid == nil || trumpSuit != g.CurrentBid.Suit {
		return nil, legalityErr(g, CodeInvalidDiscards, "trump suit may not change after the kitty bid")
	}

	p := g.PlayerAt(seat)
	for _, c := range discards {
		if !p.HasCard(c) {
			return nil, legalityErr(g, CodeCardNotInHand, "discard %s not in seat %s's hand", c, seat)
		}
	}
	if !g.AllowPointCardDiscards {
		for _, c := range discards {
			if c.Value() > 0 {
				return nil, legalityErr(g, CodeInvalidDiscards, "point card %s may not be discarded at this table", c)
			}
		}
	}

	for _, c := range discards {
		p.RemoveCard(c)
	}
	g.KittyDiscards = append(g.KittyDiscards, discards...)
	g.KittyPhaseCompleted = true
	g.TrumpSuit = trumpSuit
	g.ContractorTeam = TeamOf(seat)
	g.Phase = PhasePlaying
	g.CurrentTrick = &Trick{}
	g.SetCurrentSeat(seat)

	return []Event{newEvent(g, EventKittyDiscard, KittyDiscardPayload{Seat: seat, Discards: discards, TrumpSuit: trumpSuit})}, nil
}
