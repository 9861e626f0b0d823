package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
)

// TableDoc is the HCL document describing the tables seeded at
// startup (§6 "Default tables"), grounded on the teacher's
// ServerConfig/TableConfig/BotConfig HCL shape.
type TableDoc struct {
	Tables []TableFixture `hcl:"table,block"`
}

// TableFixture describes one default table and its bot roster.
type TableFixture struct {
	Name                       string       `hcl:"name,label"`
	DeckVariant                string       `hcl:"deck_variant,optional"`
	ScoreTarget                int          `hcl:"score_target,optional"`
	KittyEnabled               bool         `hcl:"kitty_enabled,optional"`
	AllowPointCardDiscards     bool         `hcl:"allow_point_card_discards,optional"`
	EnforceOpposingTeamBidRule bool         `hcl:"enforce_opposing_team_bid_rule,optional"`
	TimeoutMs                  int          `hcl:"timeout_ms,optional"`
	Bots                       []BotFixture `hcl:"bot,block"`
}

// BotFixture seeds one named bot seat.
type BotFixture struct {
	Name  string `hcl:"name,label"`
	Skill string `hcl:"skill,optional"`
}

// DefaultTableDoc returns the built-in fixture set named in §6:
// "Standard Table", "Kitty Table", "Big Bub", "Acadie".
func DefaultTableDoc() TableDoc {
	return TableDoc{Tables: []TableFixture{
		{
			Name:                   "Standard Table",
			DeckVariant:            "36",
			ScoreTarget:            200,
			AllowPointCardDiscards: true,
			TimeoutMs:              30_000,
			Bots: []BotFixture{
				{Name: "Ace", Skill: "medium"},
				{Name: "Blaze", Skill: "medium"},
				{Name: "Cleo", Skill: "medium"},
			},
		},
		{
			Name:                   "Kitty Table",
			DeckVariant:            "40",
			ScoreTarget:            200,
			KittyEnabled:           true,
			AllowPointCardDiscards: true,
			TimeoutMs:              30_000,
			Bots: []BotFixture{
				{Name: "Duke", Skill: "hard"},
				{Name: "Edie", Skill: "hard"},
				{Name: "Fig", Skill: "hard"},
			},
		},
		{
			Name:                   "Big Bub",
			DeckVariant:            "40",
			ScoreTarget:            500,
			KittyEnabled:           true,
			AllowPointCardDiscards: false,
			TimeoutMs:              45_000,
			Bots: []BotFixture{
				{Name: "Gus", Skill: "advanced"},
				{Name: "Hazel", Skill: "advanced"},
				{Name: "Inez", Skill: "advanced"},
			},
		},
		{
			Name:                       "Acadie",
			DeckVariant:                "40",
			ScoreTarget:                300,
			KittyEnabled:               true,
			AllowPointCardDiscards:     true,
			EnforceOpposingTeamBidRule: true,
			TimeoutMs:                  30_000,
			Bots: []BotFixture{
				{Name: "Jolene", Skill: "easy"},
				{Name: "Kit", Skill: "medium"},
				{Name: "Leo", Skill: "hard"},
			},
		},
	}}
}

// LoadTableDoc parses an HCL file at path, falling back to
// DefaultTableDoc if path does not exist — the same
// file-not-found-is-fine behavior as the teacher's LoadServerConfig.
func LoadTableDoc(path string) (TableDoc, error) {
	if path == "" {
		return DefaultTableDoc(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultTableDoc(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return TableDoc{}, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	var doc TableDoc
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return TableDoc{}, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}
	applyFixtureDefaults(&doc)
	return doc, nil
}

func applyFixtureDefaults(doc *TableDoc) {
	for i := range doc.Tables {
		t := &doc.Tables[i]
		if t.DeckVariant == "" {
			t.DeckVariant = "36"
		}
		if t.ScoreTarget == 0 {
			t.ScoreTarget = 200
		}
		if t.TimeoutMs == 0 {
			t.TimeoutMs = 30_000
		}
		for j := range t.Bots {
			if t.Bots[j].Skill == "" {
				t.Bots[j].Skill = "medium"
			}
		}
	}
}

// Variant resolves the fixture's string deck_variant to cards.Variant,
// defaulting to the 36-card deck on anything unrecognized.
func (f TableFixture) Variant() cards.Variant {
	n, err := strconv.Atoi(f.DeckVariant)
	if err != nil || !cards.Variant(n).Valid() {
		return cards.Variant36
	}
	return cards.Variant(n)
}

// BotSkill resolves the fixture's string skill to game.BotSkill.
func (f BotFixture) BotSkill() game.BotSkill {
	switch f.Skill {
	case "easy":
		return game.SkillEasy
	case "hard":
		return game.SkillHard
	case "advanced":
		return game.SkillAdvanced
	default:
		return game.SkillMedium
	}
}
