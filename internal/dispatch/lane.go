package dispatch

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/cardtable/tablesvc/internal/bot"
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
	"github.com/cardtable/tablesvc/internal/registry"
	"github.com/cardtable/tablesvc/internal/transcript"
)

// Pacing delays for the engine's cooperative suspension points (§5):
// between a bot's decision and its commit, after a completed trick,
// and after game end before the table resets. Skippable entirely
// under INTEGRATION_TEST (see config.Pacing).
const (
	BotDecisionPause  = time.Second
	TrickCompletePause = 2 * time.Second
	GameEndPause       = 3 * time.Second
)

// command is one serialized mutation request processed by a Lane's
// run loop — the per-game actor mailbox (§5 "one scheduling lane per
// game"), grounded on the teacher's internal/server/hand_runner.go
// single-hand actor shape, generalized to the whole game lifecycle
// instead of one poker hand.
type command func(l *Lane)

// Lane serializes every mutation to one *game.Game onto a single
// goroutine, fans resulting events out via Rooms, appends them to the
// game's Transcript, and drives the bot scheduler between human
// turns.
type Lane struct {
	Game       *game.Game
	Table      *registry.Table
	Policies   bot.Seats
	Transcript *transcript.Transcript

	rooms  *Rooms
	logger *log.Logger
	pacing bool // true = apply real pacing delays; false under INTEGRATION_TEST

	inbox chan command
	done  chan struct{}

	onFinished func(l *Lane)
}

// SetOnFinished registers a hook invoked once, after the table has
// been reset to bots, when this lane's game ends (completion or
// timeout). The server wires this to close out the transcript and
// unregister the lane from the Manager.
func (l *Lane) SetOnFinished(fn func(l *Lane)) {
	l.onFinished = fn
}

// NewLane constructs a lane for an already-dealt game.
func NewLane(g *game.Game, table *registry.Table, policies bot.Seats, tr *transcript.Transcript, rooms *Rooms, logger *log.Logger, pacing bool) *Lane {
	return &Lane{
		Game:       g,
		Table:      table,
		Policies:   policies,
		Transcript: tr,
		rooms:      rooms,
		logger:     logger,
		pacing:     pacing,
		inbox:      make(chan command, 64),
		done:       make(chan struct{}),
	}
}

// Run processes commands until Stop is called or the channel closes.
func (l *Lane) Run() {
	for {
		select {
		case cmd, ok := <-l.inbox:
			if !ok {
				return
			}
			cmd(l)
		case <-l.done:
			return
		}
	}
}

// Stop shuts the lane down; in-flight commands already dequeued still
// finish.
func (l *Lane) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

// enqueue schedules cmd, dropping it silently if the lane has
// stopped (mirrors the teacher's best-effort channel sends under a
// closed-bot guard).
func (l *Lane) enqueue(cmd command) {
	select {
	case l.inbox <- cmd:
	case <-l.done:
	}
}

// MakeBid enqueues a bid attempt.
func (l *Lane) MakeBid(seat game.SeatPosition, points int, suit cards.Suit) {
	l.enqueue(func(l *Lane) {
		events, err := game.Bid(l.Game, seat, points, suit)
		l.finish(events, err)
	})
}

// Pass enqueues a pass attempt.
func (l *Lane) Pass(seat game.SeatPosition) {
	l.enqueue(func(l *Lane) {
		events, err := game.Pass(l.Game, seat)
		l.finish(events, err)
	})
}

// TakeKitty enqueues a take-kitty attempt.
func (l *Lane) TakeKitty(seat game.SeatPosition) {
	l.enqueue(func(l *Lane) {
		events, err := game.TakeKitty(l.Game, seat)
		l.finish(events, err)
	})
}

// DiscardToKitty enqueues a discard-to-kitty attempt.
func (l *Lane) DiscardToKitty(seat game.SeatPosition, discards []cards.Card, trump cards.Suit) {
	l.enqueue(func(l *Lane) {
		events, err := game.DiscardToKitty(l.Game, seat, discards, trump)
		l.finish(events, err)
	})
}

// PlayCard enqueues a card play.
func (l *Lane) PlayCard(seat game.SeatPosition, c cards.Card) {
	l.enqueue(func(l *Lane) {
		events, err := game.Play(l.Game, seat, c)
		l.finish(events, err)
	})
}

// ExpireTurn implements timer.LaneDispatcher: the supervisor hands
// expiry off to the lane rather than mutating the game itself (§5
// "Timers").
func (l *Lane) ExpireTurn(gameID string, seat game.SeatPosition) {
	l.enqueue(func(l *Lane) {
		if l.Game.ID != gameID || l.Game.Phase == game.PhaseFinished {
			return
		}
		timeoutApplyAndNotify(l, seat)
	})
}

// ExitPlayer removes a human seat (exit_game or disconnect, §5
// "Cancellation"). If fewer than 4 seats remain and the game is not
// finished, the lane finishes it and resets the table.
func (l *Lane) ExitPlayer(seat game.SeatPosition) {
	l.enqueue(func(l *Lane) {
		if l.Game.Phase == game.PhaseFinished {
			return
		}
		p := l.Game.PlayerAt(seat)
		if p != nil {
			l.rooms.broadcast(gameRoom(l.Game.ID), Outbound{
				Kind:    OutboundPlayerExitedGame,
				Payload: game.PlayerExitPayload{Seat: seat, PlayerID: p.ID},
			})
		}
		l.Game.Seats[seat] = nil
		if l.Game.FullySeated() {
			return
		}
		l.Game.Phase = game.PhaseFinished
		l.rooms.DispatchGame(l.Game, Outbound{Kind: OutboundGameEnded, Game: NewGameSnapshot(l.Game)})
		l.afterGameEnd()
	})
}

// finish records events to the transcript, dispatches them, and then
// drives any eligible bot turns, honoring the §5 suspension points.
func (l *Lane) finish(events []game.Event, err *game.Error) {
	if err != nil {
		l.logger.Warn("engine rejected action", "code", err.Code, "kind", err.Kind)
		return
	}
	l.record(events)
	l.runBots()
}

func (l *Lane) record(events []game.Event) {
	now := time.Now()
	for _, e := range events {
		if l.Transcript != nil {
			l.Transcript.Append(&e, now, transcript.NewSnapshot(l.Game))
		}
		l.dispatchEvent(e)
		if e.Kind == game.EventTrickComplete {
			l.pause(TrickCompletePause)
		}
		if e.Kind == game.EventGameComplete {
			l.pause(GameEndPause)
			l.afterGameEnd()
		}
	}
}

func (l *Lane) dispatchEvent(e game.Event) {
	kind, ok := outboundKindFor(e.Kind)
	if !ok {
		return
	}
	l.rooms.DispatchGame(l.Game, Outbound{Kind: kind, Game: NewGameSnapshot(l.Game), Payload: e.Payload})
}

func outboundKindFor(k game.EventKind) (OutboundKind, bool) {
	switch k {
	case game.EventBidMade, game.EventBidPass, game.EventBiddingComplete:
		return OutboundBidMade, true
	case game.EventCardPlayed:
		return OutboundCardPlayed, true
	case game.EventTrickComplete:
		return OutboundTrickCompleted, true
	case game.EventRoundComplete:
		return OutboundRoundCompleted, true
	case game.EventGameComplete:
		return OutboundGameEnded, true
	case game.EventPlayerExit:
		return OutboundPlayerExitedGame, true
	default:
		return OutboundGameUpdated, true
	}
}

// runBots drives the iterative bot scheduler (§9 "Bot recursion to
// iteration") one decision at a time, pausing before every single
// commit per the §5 decision-pause suspension point — not just before
// the first of a chain.
func (l *Lane) runBots() {
	for {
		if l.Game.Phase == game.PhaseFinished {
			return
		}
		p := l.Game.CurrentPlayer()
		if p == nil || !p.IsBot || l.Policies[p.Position] == nil {
			return
		}
		l.pause(BotDecisionPause)
		events, acted, err := bot.StepOnce(l.Game, l.Policies)
		if err != nil {
			l.logger.Error("bot turn failed", "err", err)
			return
		}
		if !acted {
			return
		}
		l.record(events)
	}
}

func (l *Lane) pause(d time.Duration) {
	if l.pacing {
		time.Sleep(d)
	}
}

func (l *Lane) afterGameEnd() {
	if l.Transcript != nil {
		l.Transcript.Finish(time.Now())
	}
	if l.Table != nil {
		l.Table.ResetToBots()
	}
	if l.onFinished != nil {
		l.onFinished(l)
	}
}

// timeoutApplyAndNotify finishes the game on timeout and notifies the
// game room, mirroring §4.8's cleanup rule.
func timeoutApplyAndNotify(l *Lane, seat game.SeatPosition) {
	l.Game.Phase = game.PhaseFinished
	l.rooms.DispatchGame(l.Game, Outbound{Kind: OutboundGameTimeout, Game: NewGameSnapshot(l.Game), Payload: map[string]any{"seat": seat}})
	l.afterGameEnd()
}
