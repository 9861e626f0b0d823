package game

import (
	"math/rand"
	"time"

	"github.com/cardtable/tablesvc/internal/cards"
)

// Bid is a single bidding offer. Suit is only meaningful when Points > 0.
type Bid struct {
	BidderID string
	Seat     SeatPosition
	Points   int
	Suit     cards.Suit
}

// TrickPlay records one card played to a trick.
type TrickPlay struct {
	Seat SeatPosition
	Card cards.Card
}

// Trick is an in-progress or completed set of up to 4 plays.
type Trick struct {
	Plays  []TrickPlay
	Winner *SeatPosition
	Points int
}

// LeadSuit returns the suit of the first play, or "" if the trick is
// empty.
func (t *Trick) LeadSuit() cards.Suit {
	if len(t.Plays) == 0 {
		return ""
	}
	return t.Plays[0].Card.Suit
}

// Round is one completed deal: its tricks and the scoring state that
// produced them.
type Round struct {
	Index          int
	ContractorTeam Team
	TrumpSuit      cards.Suit
	WinningBid     *Bid
	Tricks         []*Trick
	TeamScores     map[Team]int
}

// Game is the authoritative state of a single table's live game. The
// engine mutates it in place; the transition guards are in bid.go,
// kitty.go and trick.go.
type Game struct {
	ID      string
	TableID string

	Seats      [4]*Player
	DealerSeat SeatPosition
	CurrentSeat SeatPosition
	Phase      Phase

	DeckVariant cards.Variant
	ScoreTarget int

	KittyEnabled             bool
	AllowPointCardDiscards   bool
	EnforceOpposingTeamBidRule bool

	RemainingDeck []cards.Card
	Kitty         []cards.Card
	KittyDiscards []cards.Card
	KittyPhaseCompleted bool

	CurrentBid   *Bid
	TrumpSuit    cards.Suit
	ContractorTeam Team
	OpposingTeamHighBid int

	CurrentTrick *Trick
	LastTrick    *Trick
	RoundTricks  []*Trick

	RoundIndex  int
	RoundScores map[Team]int
	TeamScores  map[Team]int
	Rounds      []*Round

	Passed         map[SeatPosition]bool
	BiddingPasses  int

	TurnStart map[SeatPosition]time.Time
	TimeoutBudget time.Duration

	SpectatorIDs []string

	rng *rand.Rand
}

// NewGame constructs a game in PhaseWaiting with no deck yet; Deal
// builds and shuffles one. Default dealer seat is 3, so that the
// first bidder (next clockwise of the dealer) defaults to seat 0.
func NewGame(id, tableID string, variant cards.Variant, scoreTarget int, kittyEnabled, allowPointDiscards, enforceOpposingBid bool, timeoutBudget time.Duration, rng *rand.Rand) *Game {
	g := &Game{
		ID:                         id,
		TableID:                    tableID,
		DealerSeat:                 3,
		Phase:                      PhaseWaiting,
		DeckVariant:                variant,
		ScoreTarget:                scoreTarget,
		KittyEnabled:               kittyEnabled,
		AllowPointCardDiscards:     allowPointDiscards,
		EnforceOpposingTeamBidRule: enforceOpposingBid,
		TeamScores:                 map[Team]int{Team1: 0, Team2: 0},
		RoundScores:                map[Team]int{Team1: 0, Team2: 0},
		Passed:                     map[SeatPosition]bool{},
		TurnStart:                  map[SeatPosition]time.Time{},
		TimeoutBudget:              timeoutBudget,
		rng:                        rng,
	}
	return g
}

// PlayerAt returns the seat occupant, or nil if the seat is empty.
func (g *Game) PlayerAt(s SeatPosition) *Player {
	return g.Seats[int(s)]
}

// CurrentPlayer returns the occupant of the current turn's seat.
func (g *Game) CurrentPlayer() *Player {
	return g.PlayerAt(g.CurrentSeat)
}

// SetCurrentSeat updates whose turn it is and resets that seat's turn
// timer (§4.8: timeouts reset whenever the current player changes).
func (g *Game) SetCurrentSeat(s SeatPosition) {
	g.CurrentSeat = s
	g.TurnStart[s] = time.Now()
}

// FullySeated reports whether all 4 seats are occupied.
func (g *Game) FullySeated() bool {
	for _, p := range g.Seats {
		if p == nil {
			return false
		}
	}
	return true
}

// HandSizesEqual reports whether every seated player holds the same
// number of cards, used to check the data-model invariant that all
// hands are equal in size at the start of a trick.
func (g *Game) HandSizesEqual() bool {
	size := -1
	for _, p := range g.Seats {
		if p == nil {
			continue
		}
		if size == -1 {
			size = len(p.Hand)
		} else if len(p.Hand) != size {
			return false
		}
	}
	return true
}

// CardTotal sums hand sizes, current trick size, kitty, kitty discards
// and remaining deck, the multiset-conservation invariant (§3, §8.1).
func (g *Game) CardTotal() int {
	total := len(g.RemainingDeck) + len(g.Kitty) + len(g.KittyDiscards)
	for _, p := range g.Seats {
		if p != nil {
			total += len(p.Hand)
		}
	}
	if g.CurrentTrick != nil {
		total += len(g.CurrentTrick.Plays)
	}
	return total
}

// AllHandsEmpty reports whether every seated player has played out,
// the round-end condition checked after each completed trick.
func (g *Game) AllHandsEmpty() bool {
	for _, p := range g.Seats {
		if p != nil && len(p.Hand) > 0 {
			return false
		}
	}
	return true
}
