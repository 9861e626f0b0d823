package bot

import (
	"github.com/cardtable/tablesvc/internal/game"
)

// Seats maps a seat position to the policy driving it, when that seat
// is a bot. Human seats are simply absent from the map.
type Seats map[game.SeatPosition]Policy

// RunTurn advances bot turns on the game lane starting from whatever
// seat currently holds the turn, committing every consecutive bot
// decision in one call with no pacing between them. It exists for
// callers (tests) that want a whole chain resolved at once; the live
// lane instead calls StepOnce per decision so it can pause between
// each one (§5 "between a bot's decision and its commit").
func RunTurn(g *game.Game, policies Seats) ([]game.Event, *game.Error) {
	var all []game.Event
	for {
		events, acted, err := StepOnce(g, policies)
		if err != nil {
			return all, err
		}
		all = append(all, events...)
		if !acted {
			return all, nil
		}
	}
}

// StepOnce commits a single bot decision for whichever seat currently
// holds the turn. It reports acted=false without error when the
// acting seat is human, the phase has ended, or no policy is
// registered for the seat — the caller's cue to stop looping. Per
// §9's "bot recursion to iteration" redesign this replaces a
// recursive call chain with an explicit, externally pace-able step.
func StepOnce(g *game.Game, policies Seats) (events []game.Event, acted bool, err *game.Error) {
	if g.Phase == game.PhaseFinished || g.Phase == game.PhaseWaiting {
		return nil, false, nil
	}
	p := g.CurrentPlayer()
	if p == nil || !p.IsBot {
		return nil, false, nil
	}
	policy, ok := policies[p.Position]
	if !ok {
		return nil, false, nil
	}

	events, err = step(g, p, policy)
	if err != nil {
		return nil, false, err
	}

	for seat, pol := range policies {
		if seat != p.Position {
			pol.Observe(events)
		}
	}
	for _, e := range events {
		if e.Kind == game.EventRoundStart {
			for _, pol := range policies {
				pol.OnRoundStart()
			}
		}
	}
	return events, true, nil
}

// step runs a single bot action for whichever phase the game is
// currently in (§4.7).
func step(g *game.Game, p *game.Player, policy Policy) ([]game.Event, *game.Error) {
	switch g.Phase {
	case game.PhaseBidding:
		if g.Passed[p.Position] {
			// Already passed: nothing for this seat to do; the
			// scheduler should not have been invoked for it, but stop
			// cleanly rather than erroring the game.
			return nil, nil
		}
		decision := policy.MakeBid(p.Hand, g.View(), p.Position, p.BotSkill)
		if decision.Pass {
			return game.Pass(g, p.Position)
		}
		return game.Bid(g, p.Position, decision.Points, decision.Suit)

	case game.PhaseKitty:
		events, err := game.TakeKitty(g, p.Position)
		if err != nil {
			return nil, err
		}
		trump := g.CurrentBid.Suit
		discards := KittyDiscard(p.Hand, g.AllowPointCardDiscards)
		more, err := game.DiscardToKitty(g, p.Position, discards, trump)
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil

	case game.PhasePlaying:
		playable := game.PlayableCards(g, p.Position)
		card := policy.MakeCardPlay(p.Hand, playable, g.View(), p.Position)
		return game.Play(g, p.Position, card)

	default:
		return nil, nil
	}
}
