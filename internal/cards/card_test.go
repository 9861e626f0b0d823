package cards

import (
	"math/rand"
	"testing"
)

func TestBuildDeckSizes(t *testing.T) {
	d36 := Build(Variant36)
	if len(d36) != 36 {
		t.Errorf("expected 36 cards, got %d", len(d36))
	}
	for _, c := range d36 {
		if c.Rank == Six {
			t.Errorf("36-card deck must not contain rank 6, found %s", c.ID)
		}
	}

	d40 := Build(Variant40)
	if len(d40) != 40 {
		t.Errorf("expected 40 cards, got %d", len(d40))
	}
}

func TestBuildDeckUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Build(Variant40) {
		if seen[c.ID] {
			t.Errorf("duplicate card id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	deck := Build(Variant40)
	before := make(map[string]bool)
	for _, c := range deck {
		before[c.ID] = true
	}

	Shuffle(deck, rand.New(rand.NewSource(42)))

	if len(deck) != 40 {
		t.Fatalf("shuffle changed deck length to %d", len(deck))
	}
	for _, c := range deck {
		if !before[c.ID] {
			t.Errorf("shuffled deck contains unexpected card %s", c.ID)
		}
		delete(before, c.ID)
	}
	if len(before) != 0 {
		t.Errorf("shuffle lost %d cards", len(before))
	}
}

func TestCardValueAndPriority(t *testing.T) {
	cases := []struct {
		rank  Rank
		value int
	}{
		{Ace, 10}, {Ten, 10}, {Five, 5},
		{King, 0}, {Queen, 0}, {Jack, 0}, {Nine, 0}, {Eight, 0}, {Seven, 0}, {Six, 0},
	}
	for _, tc := range cases {
		c := New(Hearts, tc.rank)
		if got := c.Value(); got != tc.value {
			t.Errorf("Value(%s) = %d, want %d", tc.rank, got, tc.value)
		}
	}

	if New(Hearts, Ace).Priority() <= New(Hearts, King).Priority() {
		t.Error("ace should outrank king")
	}
	if New(Hearts, Five).Priority() >= New(Hearts, Six).Priority() {
		t.Error("five should rank below six")
	}
}
