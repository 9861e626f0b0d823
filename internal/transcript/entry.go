package transcript

import (
	"time"

	"github.com/cardtable/tablesvc/internal/game"
)

// Entry is one append-only transcript record: the event that
// occurred plus a full game-state snapshot, including every seat's
// hand, so the transcript doubles as a replay log (§3 "Transcript").
type Entry struct {
	Timestamp time.Time
	Kind      game.EventKind
	Payload   any
	Snapshot  Snapshot
}

// Snapshot is the full state captured alongside an entry, unlike
// game.GameView (§9's spectator/bot-facing projection), which omits
// hidden hands on purpose. The transcript needs the hidden
// information to be a faithful replay.
type Snapshot struct {
	Phase          game.Phase
	CurrentSeat    game.SeatPosition
	DealerSeat     game.SeatPosition
	CurrentBid     *game.Bid
	TrumpSuit      string
	ContractorTeam game.Team
	RoundIndex     int
	TeamScores     map[game.Team]int
	RoundScores    map[game.Team]int
	Hands          [4][]string // per-seat card IDs, seat 0..3
	KittyDiscards  []string
}

// NewSnapshot captures g's full current state, including hidden hands.
func NewSnapshot(g *game.Game) Snapshot {
	s := Snapshot{
		Phase:          g.Phase,
		CurrentSeat:    g.CurrentSeat,
		DealerSeat:     g.DealerSeat,
		CurrentBid:     g.CurrentBid,
		TrumpSuit:      string(g.TrumpSuit),
		ContractorTeam: g.ContractorTeam,
		RoundIndex:     g.RoundIndex,
		TeamScores:     copyTeamMap(g.TeamScores),
		RoundScores:    copyTeamMap(g.RoundScores),
	}
	for i, p := range g.Seats {
		if p == nil {
			continue
		}
		ids := make([]string, len(p.Hand))
		for j, c := range p.Hand {
			ids[j] = c.ID
		}
		s.Hands[i] = ids
	}
	for _, c := range g.KittyDiscards {
		s.KittyDiscards = append(s.KittyDiscards, c.ID)
	}
	return s
}

func copyTeamMap(m map[game.Team]int) map[game.Team]int {
	out := make(map[game.Team]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
