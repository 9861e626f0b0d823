package bot

import (
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

// action is the advanced policy's per-trick classification (§4.7 step 2).
type action int

const (
	actionDefault action = iota
	actionDumpPointsToPartner
	actionWinTrick
	actionLoseTrick
	actionConserveTrump
)

// AdvancedPolicy carries round-scoped card-tracking state and follows
// the analyze/classify/select pipeline of §4.7.
type AdvancedPolicy struct {
	tr *tracker
}

func NewAdvancedPolicy() *AdvancedPolicy {
	return &AdvancedPolicy{tr: newTracker()}
}

func (a *AdvancedPolicy) OnRoundStart() {
	a.tr.reset()
}

// Observe folds trick-completion and card-played events from other
// seats into the round-scoped tracker.
func (a *AdvancedPolicy) Observe(events []game.Event) {
	for _, e := range events {
		switch e.Kind {
		case game.EventCardPlayed:
			p := e.Payload.(game.CardPlayedPayload)
			a.tr.played[p.Card.ID] = true
		case game.EventTrickComplete:
			p := e.Payload.(game.TrickCompletePayload)
			a.tr.observeTrick(&game.Trick{Plays: p.Plays, Winner: &p.Winner, Points: p.Points})
		}
	}
}

// analyzeTrick reports whether the partner currently holds the trick,
// whether any trump has been played, the points on the table, and
// whether a seat still to act this trick could out-rank the current
// winner given the round's void and remaining-high-card tracking
// (§4.7 step 1).
func (a *AdvancedPolicy) analyzeTrick(hand []cards.Card, view game.GameView, mySeat game.SeatPosition) (partnerWinning, trumpPlayed, canOutrank bool, pointsOnTable int) {
	t := view.CurrentTrick
	if t == nil || len(t.Plays) == 0 {
		return false, false, true, 0
	}
	lead := t.LeadSuit()
	best := t.Plays[0]
	bestIsTrump := best.Card.Suit == view.TrumpSuit
	for _, pl := range t.Plays[1:] {
		pointsOnTable += pl.Card.Value()
		isTrump := pl.Card.Suit == view.TrumpSuit
		if isTrump {
			trumpPlayed = true
		}
		switch {
		case isTrump && !bestIsTrump:
			best = pl
			bestIsTrump = true
		case isTrump && bestIsTrump && pl.Card.Priority() > best.Card.Priority():
			best = pl
		case !isTrump && !bestIsTrump && pl.Card.Suit == lead && pl.Card.Priority() > best.Card.Priority():
			best = pl
		}
	}
	pointsOnTable += t.Plays[0].Card.Value()
	if bestIsTrump {
		trumpPlayed = true
	}
	canOutrank = a.opponentsCanOutrank(hand, view, mySeat, lead, bestIsTrump)
	return game.TeamOf(best.Seat) == game.TeamOf(mySeat), trumpPlayed, canOutrank, pointsOnTable
}

// seatsStillToAct returns the seats that have not yet played to the
// current trick, excluding mySeat (who is deciding now).
func seatsStillToAct(view game.GameView, mySeat game.SeatPosition) []game.SeatPosition {
	played := map[game.SeatPosition]bool{mySeat: true}
	for _, pl := range view.CurrentTrick.Plays {
		played[pl.Seat] = true
	}
	var remaining []game.SeatPosition
	for _, s := range []game.SeatPosition{0, 1, 2, 3} {
		if !played[s] {
			remaining = append(remaining, s)
		}
	}
	return remaining
}

// opponentsCanOutrank reports whether any opposing seat still to act
// this trick is both un-voided in the suit it would need and has a
// higher card left unseen, per the tracker's known voids and
// remaining high ranks (§4.7 step 1).
func (a *AdvancedPolicy) opponentsCanOutrank(hand []cards.Card, view game.GameView, mySeat game.SeatPosition, lead cards.Suit, bestIsTrump bool) bool {
	myTeam := game.TeamOf(mySeat)
	for _, s := range seatsStillToAct(view, mySeat) {
		if game.TeamOf(s) == myTeam {
			continue
		}
		if bestIsTrump {
			if !a.tr.isVoid(s, view.TrumpSuit) {
				return true
			}
			continue
		}
		if !a.tr.isVoid(s, view.TrumpSuit) {
			return true
		}
		if !a.tr.isVoid(s, lead) && len(a.tr.remainingHighRanks(lead, hand)) > 0 {
			return true
		}
	}
	return false
}

// classify picks the §4.7 step-2 action for the current trick, along
// with whether a dump-to-partner is certain (we are last to act, or
// no opponent can still out-rank the winner).
func (a *AdvancedPolicy) classify(hand []cards.Card, view game.GameView, mySeat game.SeatPosition) (action, bool) {
	partnerWinning, _, opponentsCanOutrank, pointsOnTable := a.analyzeTrick(hand, view, mySeat)
	isLastToPlay := len(view.CurrentTrick.Plays) == 3

	if partnerWinning {
		// Certain either because no one is left to act (we are last)
		// or because tracking proves no remaining opponent can still
		// out-rank the partner's card (§4.7 step 3).
		return actionDumpPointsToPartner, isLastToPlay || !opponentsCanOutrank
	}
	if len(view.CurrentTrick.Plays) > 0 && pointsOnTable >= 5 {
		return actionWinTrick, false
	}
	if isLastToPlay && pointsOnTable < 10 {
		return actionLoseTrick, false
	}
	lead := view.CurrentTrick.LeadSuit()
	if lead != view.TrumpSuit && a.tr.remainingTrumpCount(view.TrumpSuit, view.DeckVariant, hand) <= 2 {
		return actionConserveTrump, false
	}
	return actionDefault, false
}

// MakeCardPlay runs the analyze → classify → select pipeline of §4.7.
func (a *AdvancedPolicy) MakeCardPlay(hand []cards.Card, playable []cards.Card, view game.GameView, mySeat game.SeatPosition) cards.Card {
	act, partnerCertain := a.classify(hand, view, mySeat)
	switch act {
	case actionDumpPointsToPartner:
		return selectDump(playable, view, partnerCertain)
	case actionWinTrick:
		return selectWin(playable, view)
	case actionLoseTrick:
		return selectLose(playable, view)
	case actionConserveTrump:
		return selectConserve(playable, view)
	default:
		return selectLose(playable, view)
	}
}

// selectWin plays the cheapest card that out-ranks the current trick
// winner, preferring to follow suit over trumping, only trumping when
// ≥5 points are at stake (the classify gate already enforces that).
func selectWin(playable []cards.Card, view game.GameView) cards.Card {
	t := view.CurrentTrick
	lead := t.LeadSuit()

	currentBest := t.Plays[0]
	bestIsTrump := currentBest.Card.Suit == view.TrumpSuit
	for _, pl := range t.Plays[1:] {
		isTrump := pl.Card.Suit == view.TrumpSuit
		if (isTrump && !bestIsTrump) || (isTrump == bestIsTrump && pl.Card.Priority() > currentBest.Card.Priority()) {
			currentBest = pl
			bestIsTrump = isTrump
		}
	}

	var followCandidates, trumpCandidates []cards.Card
	for _, c := range playable {
		if c.Suit == lead && !bestIsTrump && c.Priority() > currentBest.Card.Priority() {
			followCandidates = append(followCandidates, c)
		}
		if c.Suit == view.TrumpSuit && (bestIsTrump && c.Priority() > currentBest.Card.Priority() || !bestIsTrump) {
			trumpCandidates = append(trumpCandidates, c)
		}
	}

	if len(followCandidates) > 0 {
		return cheapest(followCandidates)
	}
	if len(trumpCandidates) > 0 {
		return cheapest(trumpCandidates)
	}
	return selectLose(playable, view)
}

// selectLose plays the lowest-point-value card of lead suit when
// held, else the lowest-point-value card overall.
func selectLose(playable []cards.Card, view game.GameView) cards.Card {
	lead := view.CurrentTrick.LeadSuit()
	var leadCards []cards.Card
	for _, c := range playable {
		if c.Suit == lead {
			leadCards = append(leadCards, c)
		}
	}
	if len(leadCards) > 0 {
		return cheapest(leadCards)
	}
	return cheapest(playable)
}

// selectDump prefers handing the partner a 5 to save tens/aces when
// the win is certain (we are last, or no opponent could still
// out-rank); otherwise plays the highest-point-value lead-suit card.
// Never cuts the partner with trump when lacking the lead suit.
func selectDump(playable []cards.Card, view game.GameView, certain bool) cards.Card {
	lead := view.CurrentTrick.LeadSuit()
	var leadCards []cards.Card
	for _, c := range playable {
		if c.Suit == lead {
			leadCards = append(leadCards, c)
		}
	}
	if len(leadCards) > 0 {
		if certain {
			for _, c := range leadCards {
				if c.Rank == cards.Five {
					return c
				}
			}
		}
		return dearest(leadCards)
	}

	var nonTrump []cards.Card
	for _, c := range playable {
		if c.Suit != view.TrumpSuit {
			nonTrump = append(nonTrump, c)
		}
	}
	if len(nonTrump) > 0 {
		return cheapest(nonTrump)
	}
	return cheapest(playable)
}

// selectConserve plays the lowest non-trump card, falling back to the
// lowest trump card only when forced to follow trump.
func selectConserve(playable []cards.Card, view game.GameView) cards.Card {
	var nonTrump []cards.Card
	for _, c := range playable {
		if c.Suit != view.TrumpSuit {
			nonTrump = append(nonTrump, c)
		}
	}
	if len(nonTrump) > 0 {
		return cheapest(nonTrump)
	}
	return cheapest(playable)
}

func cheapest(cs []cards.Card) cards.Card {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Value() < best.Value() {
			best = c
		}
	}
	return best
}

func dearest(cs []cards.Card) cards.Card {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Value() > best.Value() {
			best = c
		}
	}
	return best
}

// MakeBid extends the baseline hand-value table with a trump-value
// term, a long-suit positional bonus, and the "100+ rule" strategic
// adjustments (§4.7).
func (a *AdvancedPolicy) MakeBid(hand []cards.Card, view game.GameView, mySeat game.SeatPosition, skill game.BotSkill) BidDecision {
	handValue := 0
	for _, c := range hand {
		handValue += c.Value()
	}

	trump, trumpCount := dominantSuit(hand)
	trumpValue := trumpCount * 3
	longSuitBonus := 0
	if trumpCount >= 5 {
		longSuitBonus = (trumpCount - 4) * 2
	}

	adjusted := handValue + trumpValue + longSuitBonus

	myTeam := game.TeamOf(mySeat)
	if view.TeamScores[myTeam] >= 100 {
		// Must bid or risk a shutout this round under the
		// opposing-team-bid rule: bid more readily.
		adjusted += 10
	}
	if view.TeamScores[game.Opponent(myTeam)] >= 100 {
		// Deny the opponent a shutout round by contesting the bid.
		adjusted += 5
	}

	suggestion, shouldBid := suggestBid(adjusted)
	if !shouldBid {
		return BidDecision{Pass: true}
	}
	suggestion = floorToMultiple(min(suggestion, 100), 5)
	if suggestion < 50 {
		return BidDecision{Pass: true}
	}

	if view.CurrentBid != nil && game.TeamOf(view.CurrentBid.Seat) == myTeam {
		return BidDecision{Pass: true}
	}
	floor := 0
	if view.CurrentBid != nil {
		floor = view.CurrentBid.Points
	}
	if floor > 0 {
		suggestion = max(suggestion, floor+5)
	}
	if suggestion > 100 || suggestion < 50 {
		return BidDecision{Pass: true}
	}

	return BidDecision{Points: suggestion, Suit: trump}
}

func dominantSuit(hand []cards.Card) (cards.Suit, int) {
	counts := map[cards.Suit]int{}
	for _, c := range hand {
		counts[c.Suit]++
	}
	var best cards.Suit
	bestCount := -1
	for _, s := range cards.Suits {
		if counts[s] > bestCount {
			best = s
			bestCount = counts[s]
		}
	}
	return best, bestCount
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
