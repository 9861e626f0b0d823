package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

func TestDefaultTableDoc_HasFourNamedTables(t *testing.T) {
	doc := DefaultTableDoc()
	require.Len(t, doc.Tables, 4)

	names := make([]string, len(doc.Tables))
	for i, tbl := range doc.Tables {
		names[i] = tbl.Name
	}
	assert.Equal(t, []string{"Standard Table", "Kitty Table", "Big Bub", "Acadie"}, names)
}

func TestDefaultTableDoc_EachTableSeedsThreeBots(t *testing.T) {
	for _, tbl := range DefaultTableDoc().Tables {
		assert.Lenf(t, tbl.Bots, 3, "table %s", tbl.Name)
	}
}

func TestTableFixture_VariantResolvesDeckSize(t *testing.T) {
	f := TableFixture{DeckVariant: "40"}
	assert.Equal(t, cards.Variant40, f.Variant())

	bad := TableFixture{DeckVariant: "garbage"}
	assert.Equal(t, cards.Variant36, bad.Variant())
}

func TestBotFixture_SkillResolvesKnownLevels(t *testing.T) {
	assert.Equal(t, game.SkillEasy, BotFixture{Skill: "easy"}.BotSkill())
	assert.Equal(t, game.SkillHard, BotFixture{Skill: "hard"}.BotSkill())
	assert.Equal(t, game.SkillAdvanced, BotFixture{Skill: "advanced"}.BotSkill())
	assert.Equal(t, game.SkillMedium, BotFixture{Skill: "unknown"}.BotSkill())
}

func TestLoadTableDoc_MissingFileFallsBackToDefaults(t *testing.T) {
	doc, err := LoadTableDoc(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTableDoc(), doc)
}

func TestLoadTableDoc_EmptyPathFallsBackToDefaults(t *testing.T) {
	doc, err := LoadTableDoc("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTableDoc(), doc)
}
