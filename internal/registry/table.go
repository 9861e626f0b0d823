package registry

import (
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

// MaxSeats is the fixed seat count for a "200" table (§3 Table: "max
// seats (4)").
const MaxSeats = 4

// Table is the pre-game and post-game container for a single table:
// seat roster, configuration, spectators, and at most one live game
// (§3 "Table").
type Table struct {
	ID                         string
	Name                       string
	Seats                      [MaxSeats]*game.Player
	Game                       *game.Game
	Private                    bool
	Password                   string
	CreatorName                string
	TimeoutBudget              int64 // milliseconds
	DeckVariant                cards.Variant
	ScoreTarget                int
	KittyEnabled               bool
	AllowPointCardDiscards     bool
	EnforceOpposingTeamBidRule bool
	SpectatorIDs               []string
}

// NewTable constructs a table with no seats occupied.
func NewTable(id, name, creatorName string) *Table {
	return &Table{
		ID:                     id,
		Name:                   name,
		CreatorName:            creatorName,
		TimeoutBudget:          30_000,
		DeckVariant:            cards.Variant36,
		ScoreTarget:            200,
		AllowPointCardDiscards: true,
	}
}

// SeatCount returns the number of occupied seats.
func (t *Table) SeatCount() int {
	n := 0
	for _, p := range t.Seats {
		if p != nil {
			n++
		}
	}
	return n
}

// LowestEmptySeat returns the lowest-index empty seat and true, or
// false if the table is full (§6 join_table: "occupy lowest-index
// empty seat").
func (t *Table) LowestEmptySeat() (game.SeatPosition, bool) {
	for i, p := range t.Seats {
		if p == nil {
			return game.SeatPosition(i), true
		}
	}
	return 0, false
}

// IsLive reports whether the table currently owns an unfinished game.
func (t *Table) IsLive() bool {
	return t.Game != nil && t.Game.Phase != game.PhaseFinished
}

// ResetToBots clears every human seat and evicts spectators, leaving
// only bot seats occupied and no live game, per the game-end and
// timeout cleanup rules (§4.6 "reset the table to contain only bots";
// §5 "reset the table to contain only bot seats").
func (t *Table) ResetToBots() {
	for i, p := range t.Seats {
		if p != nil && !p.IsBot {
			t.Seats[i] = nil
		}
	}
	t.SpectatorIDs = nil
	t.Game = nil
}
