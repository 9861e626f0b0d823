// Package transcript implements the process-wide, append-only
// per-game replay log (§3 "Transcript"): a size-bounded store that
// outlives the game itself, grounded on the teacher's
// internal/server/hand_history manager's mutex-guarded map lifecycle
// but simplified to pure in-memory retention (no on-disk flush — the
// spec treats persistence beyond in-memory retention as out of
// scope).
package transcript

import (
	"strconv"
	"time"

	"github.com/cardtable/tablesvc/internal/game"
)

// Metadata is a Transcript's listing form (id, table, start/end times,
// entry count, deck variant, score target, kitty flag, seat names) — without the heavy per-entry
// snapshots, for lobby/table listing views (§3 "can be enumerated as
// metadata").
type Metadata struct {
	GameID       string
	TableID      string
	TableName    string
	StartedAt    time.Time
	EndedAt      time.Time
	EntryCount   int
	DeckVariant  string
	ScoreTarget  int
	KittyEnabled bool
	SeatNames    [4]string
}

// Transcript is one game's full append-only log.
type Transcript struct {
	GameID       string
	TableID      string
	TableName    string
	StartedAt    time.Time
	EndedAt      time.Time
	DeckVariant  string
	ScoreTarget  int
	KittyEnabled bool
	SeatNames    [4]string
	Entries      []Entry
}

// New starts a transcript for a freshly started game.
func New(g *game.Game, tableName string, startedAt time.Time) *Transcript {
	t := &Transcript{
		GameID:       g.ID,
		TableID:      g.TableID,
		TableName:    tableName,
		StartedAt:    startedAt,
		DeckVariant:  strconv.Itoa(int(g.DeckVariant)),
		ScoreTarget:  g.ScoreTarget,
		KittyEnabled: g.KittyEnabled,
	}
	for i, p := range g.Seats {
		if p != nil {
			t.SeatNames[i] = p.DisplayName
		}
	}
	return t
}

// Append records one event against g's current state. now is injected
// so callers can stay deterministic under test rather than calling
// time.Now() inside this package.
func (t *Transcript) Append(g *game.Event, now time.Time, snap Snapshot) {
	t.Entries = append(t.Entries, Entry{
		Timestamp: now,
		Kind:      g.Kind,
		Payload:   g.Payload,
		Snapshot:  snap,
	})
}

// Finish marks the transcript's end time, once, at game completion or
// timeout.
func (t *Transcript) Finish(endedAt time.Time) {
	if t.EndedAt.IsZero() {
		t.EndedAt = endedAt
	}
}

// Metadata reduces the transcript to its lightweight listing form.
func (t *Transcript) Metadata() Metadata {
	return Metadata{
		GameID:       t.GameID,
		TableID:      t.TableID,
		TableName:    t.TableName,
		StartedAt:    t.StartedAt,
		EndedAt:      t.EndedAt,
		EntryCount:   len(t.Entries),
		DeckVariant:  t.DeckVariant,
		ScoreTarget:  t.ScoreTarget,
		KittyEnabled: t.KittyEnabled,
		SeatNames:    t.SeatNames,
	}
}
