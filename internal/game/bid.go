package game

import "github.com/cardtable/tablesvc/internal/cards"

// minBid is the lowest legal bid. Bids rise in multiples of 5 up to
// maxBid.
const (
	minBid = 50
	maxBid = 100
	bidStep = 5
)

// advance moves the current seat to the next not-yet-passed seat,
// skipping seats already in Passed. The skip is capped at 4 steps to
// prevent livelock if every seat has passed.
func advance(g *Game) {
	next := g.CurrentSeat.NextClockwise()
	for i := 0; i < 4 && g.Passed[next]; i++ {
		next = next.NextClockwise()
	}
	g.SetCurrentSeat(next)
}

// biddingDone evaluates the four completion rules of §4.3.
func biddingDone(g *Game) bool {
	if g.CurrentBid != nil && g.CurrentBid.Points == maxBid {
		return true
	}
	if len(g.Passed) >= 3 && g.CurrentBid != nil {
		return true
	}
	if g.CurrentBid != nil {
		notPassed := 0
		var lone SeatPosition
		for s := SeatPosition(0); s < 4; s++ {
			if !g.Passed[s] {
				notPassed++
				lone = s
			}
		}
		if notPassed == 1 && lone == g.CurrentBid.Seat {
			return true
		}
	}
	if len(g.Passed) == 4 {
		return true
	}
	return false
}

// Bid records an accepted bid for seat. points=0 should be routed to
// Pass by the caller; Bid rejects it as a legality error here for
// symmetry.
func Bid(g *Game, seat SeatPosition, points int, suit cards.Suit) ([]Event, *Error) {
	if g.Phase != PhaseBidding {
		return nil, stateErr(g, CodeWrongPhase, "bid is only legal during bidding, phase=%s", g.Phase)
	}
	if seat != g.CurrentSeat {
		return nil, legalityErr(g, CodeNotYourTurn, "seat %s acted out of turn", seat)
	}
	if g.Passed[seat] {
		return nil, legalityErr(g, CodeAlreadyPassed, "seat %s already passed", seat)
	}
	if points <= 0 {
		return nil, legalityErr(g, CodeBidTooLow, "bid points must be positive")
	}
	if points%bidStep != 0 {
		return nil, legalityErr(g, CodeBidNotMultiple, "bid %d is not a multiple of %d", points, bidStep)
	}
	if points < minBid || points > maxBid {
		return nil, legalityErr(g, CodeBidTooLow, "bid %d outside [%d,%d]", points, minBid, maxBid)
	}
	if !suit.Valid() {
		return nil, legalityErr(g, CodeBidTooLow, "bid requires a suit")
	}
	floor := 0
	if g.CurrentBid != nil {
		floor = g.CurrentBid.Points
	}
	if points <= floor {
		return nil, legalityErr(g, CodeBidTooLow, "bid %d does not exceed current bid %d", points, floor)
	}

	// The pre-mutation contractor team is "the team currently leading
	// the bidding", i.e. the team of the previous high bidder (NoTeam
	// before any bid). Track the opposing side's high bid against that
	// value before we overwrite it with this bid's team.
	priorContractor := g.ContractorTeam
	bidTeam := TeamOf(seat)
	if priorContractor != NoTeam && bidTeam != priorContractor {
		if points > g.OpposingTeamHighBid {
			g.OpposingTeamHighBid = points
		}
	}

	p := g.PlayerAt(seat)
	g.CurrentBid = &Bid{BidderID: p.ID, Seat: seat, Points: points, Suit: suit}
	g.ContractorTeam = bidTeam
	g.BiddingPasses = 0

	events := []Event{newEvent(g, EventBidMade, BidMadePayload{Seat: seat, Points: points, Suit: suit})}

	if biddingDone(g) {
		events = append(events, completeBidding(g)...)
		return events, nil
	}
	advance(g)
	return events, nil
}

// Pass records a pass for seat.
func Pass(g *Game, seat SeatPosition) ([]Event, *Error) {
	if g.Phase != PhaseBidding {
		return nil, stateErr(g, CodeWrongPhase, "pass is only legal during bidding, phase=%s", g.Phase)
	}
	if seat != g.CurrentSeat {
		return nil, legalityErr(g, CodeNotYourTurn, "seat %s acted out of turn", seat)
	}
	if g.Passed[seat] {
		return nil, legalityErr(g, CodeAlreadyPassed, "seat %s already passed", seat)
	}

	g.Passed[seat] = true
	g.BiddingPasses++

	events := []Event{newEvent(g, EventBidPass, BidPassPayload{Seat: seat})}

	if biddingDone(g) {
		events = append(events, completeBidding(g)...)
		return events, nil
	}
	advance(g)
	return events, nil
}

// completeBidding applies one of the two end-of-bidding transitions:
// an all-pass redeal, or a transition into the kitty or playing phase
// with a winning bid.
func completeBidding(g *Game) []Event {
	if g.CurrentBid == nil {
		return redealAllPass(g)
	}

	bid := g.CurrentBid
	if g.KittyEnabled && g.DeckVariant == cards.Variant40 && len(g.Kitty) > 0 && !g.KittyPhaseCompleted {
		g.Phase = PhaseKitty
		g.SetCurrentSeat(bid.Seat)
		return []Event{newEvent(g, EventBiddingComplete, BiddingCompletePayload{
			Bidder:         bid.Seat,
			TrumpSuit:      bid.Suit,
			ContractorTeam: g.ContractorTeam,
			NextPhase:      PhaseKitty,
		})}
	}

	g.Phase = PhasePlaying
	g.TrumpSuit = bid.Suit
	g.ContractorTeam = TeamOf(bid.Seat)
	g.SetCurrentSeat(bid.Seat)
	g.CurrentTrick = &Trick{}
	return []Event{newEvent(g, EventBiddingComplete, BiddingCompletePayload{
		Bidder:         bid.Seat,
		TrumpSuit:      bid.Suit,
		ContractorTeam: g.ContractorTeam,
		NextPhase:      PhasePlaying,
	})}
}

// redealAllPass restarts the round with the same score state, a fresh
// deck, and the dealer rotated one seat clockwise (§4.3 rule 4).
func redealAllPass(g *Game) []Event {
	events := []Event{newEvent(g, EventBiddingComplete, BiddingCompletePayload{AllPass: true, NextPhase: PhaseBidding})}
	events = append(events, startNewRound(g)...)
	return events
}
