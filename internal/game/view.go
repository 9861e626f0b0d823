package game

import "github.com/cardtable/tablesvc/internal/cards"

// GameView is a read-only projection of Game passed to bot policies
// (§9 "Bot policies as strategies": pure functions over an explicit
// view, no hidden captures of *Game).
type GameView struct {
	Phase          Phase
	CurrentSeat    SeatPosition
	DealerSeat     SeatPosition
	CurrentBid     *Bid
	TrumpSuit      cards.Suit
	ContractorTeam Team
	CurrentTrick   *Trick
	LastTrick      *Trick
	Passed         map[SeatPosition]bool
	TeamScores     map[Team]int
	RoundScores    map[Team]int
	ScoreTarget    int
	DeckVariant    cards.Variant
	Hands          [4]int
}

// View snapshots g into an immutable GameView for a policy call. Hand
// sizes for all seats are included so a policy can reason about
// remaining cards without seeing other seats' concealed contents.
func (g *Game) View() GameView {
	v := GameView{
		Phase:          g.Phase,
		CurrentSeat:    g.CurrentSeat,
		DealerSeat:     g.DealerSeat,
		CurrentBid:     g.CurrentBid,
		TrumpSuit:      g.TrumpSuit,
		ContractorTeam: g.ContractorTeam,
		CurrentTrick:   g.CurrentTrick,
		LastTrick:      g.LastTrick,
		ScoreTarget:    g.ScoreTarget,
		DeckVariant:    g.DeckVariant,
	}
	v.Passed = make(map[SeatPosition]bool, len(g.Passed))
	for s, p := range g.Passed {
		v.Passed[s] = p
	}
	v.TeamScores = map[Team]int{Team1: g.TeamScores[Team1], Team2: g.TeamScores[Team2]}
	v.RoundScores = map[Team]int{Team1: g.RoundScores[Team1], Team2: g.RoundScores[Team2]}
	for i, p := range g.Seats {
		if p != nil {
			v.Hands[i] = len(p.Hand)
		}
	}
	return v
}

// PassedSeats returns the seats that have passed this bidding round as
// a deterministic, seat-ordered sequence (§4.9 "sets on the wire").
func (g *Game) PassedSeats() []SeatPosition {
	var out []SeatPosition
	for s := SeatPosition(0); s < 4; s++ {
		if g.Passed[s] {
			out = append(out, s)
		}
	}
	return out
}

// PlayableCards returns the subset of seat's hand that is legal to
// play against the current trick's lead suit (§4.5 guard 1, reused by
// the bot scheduler to compute its playable set per §4.7).
func PlayableCards(g *Game, seat SeatPosition) []cards.Card {
	p := g.PlayerAt(seat)
	lead := g.CurrentTrick.LeadSuit()
	if lead == "" || !p.HasSuit(lead) {
		return append([]cards.Card(nil), p.Hand...)
	}
	return p.SuitCards(lead)
}
