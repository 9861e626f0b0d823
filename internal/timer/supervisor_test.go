package timer

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardtable/tablesvc/internal/game"
)

func newTestSupervisor() *Supervisor {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(quartz.NewReal(), nil, nil, logger)
}

func newTimerTestGame(budget time.Duration) *game.Game {
	g := game.NewGame("g1", "t1", 36, 200, false, true, false, budget, nil)
	g.Phase = game.PhaseBidding
	g.SetCurrentSeat(0)
	return g
}

func TestExpiredSeat_NotExpiredBeforeBudget(t *testing.T) {
	s := newTestSupervisor()
	g := newTimerTestGame(30 * time.Second)

	expired, _ := s.expiredSeat(g, g.TurnStart[0].Add(10*time.Second))
	if expired {
		t.Error("expected no expiry before the timeout budget elapses")
	}
}

func TestExpiredSeat_ExpiredAfterBudget(t *testing.T) {
	s := newTestSupervisor()
	g := newTimerTestGame(30 * time.Second)

	expired, seat := s.expiredSeat(g, g.TurnStart[0].Add(31*time.Second))
	if !expired {
		t.Fatal("expected expiry once the timeout budget has elapsed")
	}
	if seat != 0 {
		t.Errorf("expected expired seat 0, got %s", seat)
	}
}

func TestExpiredSeat_NeverExpiresWhenFinished(t *testing.T) {
	s := newTestSupervisor()
	g := newTimerTestGame(time.Millisecond)
	g.Phase = game.PhaseFinished

	expired, _ := s.expiredSeat(g, g.TurnStart[0].Add(time.Hour))
	if expired {
		t.Error("expected a finished game never to expire")
	}
}

type fakeGameSource struct{ games []*game.Game }

func (f fakeGameSource) LiveGames() []*game.Game { return f.games }

type fakeDispatcher struct {
	expired []string
}

func (f *fakeDispatcher) ExpireTurn(gameID string, seat game.SeatPosition) {
	f.expired = append(f.expired, gameID)
}

func TestScan_NotifiesDispatcherForExpiredGames(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	g := newTimerTestGame(time.Millisecond)
	g.TurnStart[0] = time.Now().Add(-time.Hour)
	dispatcher := &fakeDispatcher{}

	s := New(quartz.NewReal(), fakeGameSource{games: []*game.Game{g}}, dispatcher, logger)
	s.scan()

	if len(dispatcher.expired) != 1 || dispatcher.expired[0] != "g1" {
		t.Errorf("expected dispatcher notified for g1, got %v", dispatcher.expired)
	}
}
