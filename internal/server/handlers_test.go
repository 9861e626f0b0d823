package server

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardtable/tablesvc/internal/bot"
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
	"github.com/cardtable/tablesvc/internal/registry"
)

func TestParseVariant_AcceptsKnownDeckSizes(t *testing.T) {
	v, ok := parseVariant("36")
	assert.True(t, ok)
	assert.Equal(t, cards.Variant36, v)

	v, ok = parseVariant("40")
	assert.True(t, ok)
	assert.Equal(t, cards.Variant40, v)
}

func TestParseVariant_RejectsUnknownOrUnparseable(t *testing.T) {
	_, ok := parseVariant("52")
	assert.False(t, ok)

	_, ok = parseVariant("not-a-number")
	assert.False(t, ok)
}

func TestTableRoomName_PrefixesTableID(t *testing.T) {
	assert.Equal(t, "table-abc123", tableRoomName("abc123"))
}

func TestSeatsFor_SkipsHumanAndEmptySeats(t *testing.T) {
	tbl := registry.NewTable("t1", "Table", "alice")
	tbl.Seats[0] = &game.Player{ID: "p0", IsBot: false}
	tbl.Seats[1] = &game.Player{ID: "p1", IsBot: true, BotSkill: game.SkillMedium}
	tbl.Seats[2] = nil
	tbl.Seats[3] = &game.Player{ID: "p3", IsBot: true, BotSkill: game.SkillAdvanced}

	rng := rand.New(rand.NewSource(1))
	seats := seatsFor(tbl, rng)

	assert.Len(t, seats, 2)
	assert.NotContains(t, seats, game.SeatPosition(0))
	assert.NotContains(t, seats, game.SeatPosition(2))
	assert.IsType(t, &bot.AdvancedPolicy{}, seats[game.SeatPosition(3)])
	assert.IsType(t, &bot.BaselinePolicy{}, seats[game.SeatPosition(1)])
}
