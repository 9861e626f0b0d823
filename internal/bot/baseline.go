package bot

import (
	"math/rand"

	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

// BaselinePolicy implements the §4.7 hand-value bidding thresholds and
// the simple lead/follow/dump card rule.
type BaselinePolicy struct {
	rng *rand.Rand
}

// NewBaselinePolicy constructs a baseline policy driven by rng for its
// one random choice (leading when no information favors a card).
func NewBaselinePolicy(rng *rand.Rand) *BaselinePolicy {
	return &BaselinePolicy{rng: rng}
}

func (b *BaselinePolicy) OnRoundStart() {}

func (b *BaselinePolicy) Observe(events []game.Event) {}

// skillOffset is the aggressiveness bonus added to the suggested bid
// before capping at 100 (§4.7).
func skillOffset(skill game.BotSkill) int {
	switch skill {
	case game.SkillEasy:
		return 5
	case game.SkillMedium:
		return 10
	case game.SkillHard:
		return 15
	default:
		return 0
	}
}

// suggestBid applies the §4.7 hand-value table before the skill
// offset and refinements.
func suggestBid(handValue int) (suggestion int, shouldBid bool) {
	switch {
	case handValue < 30:
		return 0, false
	case handValue < 40:
		return min(handValue+10, 70), true
	case handValue < 50:
		return min(handValue+5, 80), true
	default:
		return min(handValue, 100), true
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func floorToMultiple(n, step int) int {
	return (n / step) * step
}

func (b *BaselinePolicy) MakeBid(hand []cards.Card, view game.GameView, mySeat game.SeatPosition, skill game.BotSkill) BidDecision {
	handValue := 0
	for _, c := range hand {
		handValue += c.Value()
	}

	suggestion, shouldBid := suggestBid(handValue)
	if !shouldBid {
		return BidDecision{Pass: true}
	}

	suggestion = min(suggestion+skillOffset(skill), 100)
	suggestion = floorToMultiple(suggestion, 5)
	if suggestion < 50 {
		return BidDecision{Pass: true}
	}

	// Never out-bid one's own partner.
	if view.CurrentBid != nil && game.TeamOf(view.CurrentBid.Seat) == game.TeamOf(mySeat) {
		return BidDecision{Pass: true}
	}

	floor := 0
	if view.CurrentBid != nil {
		floor = view.CurrentBid.Points
	}
	if floor > 0 && suggestion < floor+5 {
		suggestion = floor + 5
		if suggestion > 100 {
			return BidDecision{Pass: true}
		}
	}
	if suggestion < 50 || (floor > 0 && suggestion <= floor) {
		return BidDecision{Pass: true}
	}

	return BidDecision{Points: suggestion, Suit: longestSuit(hand)}
}

// longestSuit returns the suit with the most cards in hand, the
// natural trump declaration for a baseline bidder.
func longestSuit(hand []cards.Card) cards.Suit {
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
	return best
}

// MakeCardPlay implements the baseline card policy (§4.7): with no
// lead-suit information in the trick yet play at random, otherwise
// follow the highest lead-suit card held, otherwise dump the lowest
// point-value card.
func (b *BaselinePolicy) MakeCardPlay(hand []cards.Card, playable []cards.Card, view game.GameView, mySeat game.SeatPosition) cards.Card {
	lead := view.CurrentTrick.LeadSuit()
	if lead == "" {
		return playable[b.rng.Intn(len(playable))]
	}

	var holdLead []cards.Card
	for _, c := range playable {
		if c.Suit == lead {
			holdLead = append(holdLead, c)
		}
	}
	if len(holdLead) > 0 {
		best := holdLead[0]
		for _, c := range holdLead[1:] {
			if c.Priority() > best.Priority() {
				best = c
			}
		}
		return best
	}

	lowest := playable[0]
	for _, c := range playable[1:] {
		if c.Value() < lowest.Value() {
			lowest = c
		}
	}
	return lowest
}
