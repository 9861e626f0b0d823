// Package timer implements the periodic turn-timeout supervisor
// (§4.8): a single ~1s cadence task that scans every live game and
// hands expired turns off to the owning game's lane rather than
// mutating state itself (§5 "Timers").
package timer

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardtable/tablesvc/internal/game"
)

// DefaultInterval is the supervisor's scan cadence (§4.8 "tick ≈ 1s").
const DefaultInterval = time.Second

// GameSource lists the games currently live, so the supervisor never
// needs to own the registry itself (§5 "Shared resources").
type GameSource interface {
	LiveGames() []*game.Game
}

// LaneDispatcher hands an expire notification to the owning game's
// lane. The supervisor never mutates *game.Game directly — only the
// lane that already serializes that game's mutations may do so.
type LaneDispatcher interface {
	ExpireTurn(gameID string, seat game.SeatPosition)
}

// Supervisor is the periodic task described by §4.8.
type Supervisor struct {
	clock      quartz.Clock
	interval   time.Duration
	games      GameSource
	dispatcher LaneDispatcher
	logger     *log.Logger
}

// New constructs a supervisor. clock is injected so tests can use
// quartz.NewMock to advance time deterministically instead of
// sleeping real wall-clock seconds.
func New(clock quartz.Clock, games GameSource, dispatcher LaneDispatcher, logger *log.Logger) *Supervisor {
	return &Supervisor{
		clock:      clock,
		interval:   DefaultInterval,
		games:      games,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run blocks, ticking every interval until ctx is canceled.
func (s *Supervisor) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval, "timer-supervisor")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan()
		}
	}
}

// scan checks every live game's current turn against its timeout
// budget and notifies the owning lane of any expiry.
func (s *Supervisor) scan() {
	now := s.clock.Now()
	for _, g := range s.games.LiveGames() {
		expired, seat := s.expiredSeat(g, now)
		if !expired {
			continue
		}
		s.logger.Warn("turn timed out", "game_id", g.ID, "seat", seat)
		s.dispatcher.ExpireTurn(g.ID, seat)
	}
}

func (s *Supervisor) expiredSeat(g *game.Game, now time.Time) (bool, game.SeatPosition) {
	if g.Phase == game.PhaseWaiting || g.Phase == game.PhaseFinished {
		return false, 0
	}
	start, ok := g.TurnStart[g.CurrentSeat]
	if !ok {
		return false, 0
	}
	if now.Sub(start) < g.TimeoutBudget {
		return false, 0
	}
	return true, g.CurrentSeat
}

// ApplyTimeout finishes g due to timeout by setting its phase to
// finished. Supervisor.scan never calls it; scan only notifies the
// LaneDispatcher.
func ApplyTimeout(g *game.Game) {
	g.Phase = game.PhaseFinished
}
