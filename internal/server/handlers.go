package server

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardtable/tablesvc/internal/bot"
	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/dispatch"
	"github.com/cardtable/tablesvc/internal/game"
	"github.com/cardtable/tablesvc/internal/registry"
	"github.com/cardtable/tablesvc/internal/transcript"
)

// HandleInbound implements dispatch.Handler, routing one decoded
// client message to the table/game operation it names (§6 "Inbound
// events").
func (s *Server) HandleInbound(sess *dispatch.Session, in dispatch.Inbound) {
	st := s.state(sess)
	if st == nil {
		return
	}

	switch in.Kind {
	case dispatch.InboundJoinLobby:
		s.handleJoinLobby(sess, st, in)
	case dispatch.InboundCreateTable:
		s.handleCreateTable(sess, st, in)
	case dispatch.InboundJoinTable:
		s.handleJoinTable(sess, st, in)
	case dispatch.InboundJoinSpectator:
		s.handleJoinSpectator(sess, st, in)
	case dispatch.InboundAddBot:
		s.handleAddBot(sess, st, in)
	case dispatch.InboundRemoveBot:
		s.handleRemoveBot(sess, st, in)
	case dispatch.InboundMovePlayer:
		s.handleMovePlayer(sess, st, in)
	case dispatch.InboundStartGame:
		s.handleStartGame(sess, st, in)
	case dispatch.InboundUpdateTable:
		s.handleUpdateTable(sess, st, in)
	case dispatch.InboundMakeBid:
		s.handleMakeBid(sess, st, in)
	case dispatch.InboundTakeKitty:
		s.handleTakeKitty(sess, st, in)
	case dispatch.InboundDiscardToKitty:
		s.handleDiscardToKitty(sess, st, in)
	case dispatch.InboundPlayCard:
		s.handlePlayCard(sess, st, in)
	case dispatch.InboundExitGame:
		s.handleExitGameMessage(sess, st, in)
	case dispatch.InboundGetTranscript:
		s.handleGetTranscript(sess, in)
	case dispatch.InboundGetAllTranscripts:
		s.handleGetAllTranscripts(sess)
	default:
		s.reject(sess, game.KindLegality, "", "unknown message kind")
	}
}

func (s *Server) reject(sess *dispatch.Session, kind game.ErrorKind, gameID, message string) {
	_ = sess.Send(dispatch.Outbound{
		Kind: dispatch.OutboundError,
		Payload: dispatch.ErrorPayload{
			Message: message,
			Kind:    kind,
			GameID:  gameID,
		},
	})
}

func (s *Server) handleJoinLobby(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.JoinLobbyPayload
	if err := decode(in, &p); err != nil || p.PlayerName == "" {
		s.reject(sess, game.KindLegality, "", "join_lobby requires playerName")
		return
	}
	lobbyID := p.LobbyID
	if lobbyID == "" {
		lobbyID = defaultLobbyID
	}

	s.names.TryReserve(p.PlayerName)

	s.mu.Lock()
	st.lobbyID = lobbyID
	st.playerID = uuid.NewString()
	st.displayName = p.PlayerName
	s.mu.Unlock()

	tables := s.registry.ListTables(lobbyID)
	snapshots := make([]*dispatch.TableSnapshot, 0, len(tables))
	for _, t := range tables {
		snapshots = append(snapshots, dispatch.NewTableSnapshot(t))
	}
	_ = sess.Send(dispatch.Outbound{
		Kind:    dispatch.OutboundLobbyJoined,
		Payload: map[string]any{"playerId": st.playerID, "tables": snapshots},
	})
}

func (s *Server) handleCreateTable(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.CreateTablePayload
	if err := decode(in, &p); err != nil || p.TableID == "" {
		s.reject(sess, game.KindLegality, "", "create_table requires tableId")
		return
	}
	if st.playerID == "" {
		s.reject(sess, game.KindIdentity, "", "join_lobby before creating a table")
		return
	}

	t := registry.NewTable(p.TableID, p.TableName, st.displayName)
	t.Private = p.IsPrivate
	t.Password = p.Password
	if p.TimeoutDuration > 0 {
		t.TimeoutBudget = p.TimeoutDuration
	}
	if variant, ok := parseVariant(p.DeckVariant); ok {
		t.DeckVariant = variant
	}
	if p.ScoreTarget != 0 {
		t.ScoreTarget = p.ScoreTarget
	}
	t.KittyEnabled = p.HasKitty
	t.AllowPointCardDiscards = p.AllowPointCardDiscards
	t.EnforceOpposingTeamBidRule = p.EnforceOpposingTeamBidRule
	t.Seats[0] = &game.Player{ID: st.playerID, DisplayName: st.displayName, Position: 0}

	if !s.registry.CreateTable(st.lobbyID, t) {
		s.reject(sess, game.KindState, "", "table already exists")
		return
	}

	s.mu.Lock()
	st.tableID = t.ID
	st.seat = 0
	st.seated = true
	s.mu.Unlock()

	s.rooms.Join(tableRoomName(t.ID), sess)
	_ = sess.Send(dispatch.Outbound{Kind: dispatch.OutboundTableJoined, Payload: dispatch.NewTableSnapshot(t)})
	s.rooms.DispatchTable(t.ID, dispatch.Outbound{Kind: dispatch.OutboundTableUpdated, Payload: dispatch.NewTableSnapshot(t)})
}

func (s *Server) handleJoinTable(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.JoinTablePayload
	if err := decode(in, &p); err != nil || p.TableID == "" {
		s.reject(sess, game.KindLegality, "", "join_table requires tableId")
		return
	}
	t, ok := s.registry.GetTable(st.lobbyID, p.TableID)
	if !ok {
		s.reject(sess, game.KindState, "", "unknown table")
		return
	}
	if t.Private && t.Password != p.Password {
		s.reject(sess, game.KindPrecondition, "", "wrong password")
		return
	}
	seat, ok := t.LowestEmptySeat()
	if !ok {
		s.reject(sess, game.KindState, "", "table full")
		return
	}
	if st.playerID == "" {
		s.reject(sess, game.KindIdentity, "", "join_lobby before joining a table")
		return
	}

	t.Seats[seat] = &game.Player{ID: st.playerID, DisplayName: st.displayName, Position: seat}
	s.mu.Lock()
	st.tableID = t.ID
	st.seat = seat
	st.seated = true
	s.mu.Unlock()

	s.rooms.Join(tableRoomName(t.ID), sess)
	_ = sess.Send(dispatch.Outbound{Kind: dispatch.OutboundTableJoined, Payload: dispatch.NewTableSnapshot(t)})
	s.rooms.DispatchTable(t.ID, dispatch.Outbound{
		Kind:    dispatch.OutboundPlayerJoinedTable,
		Payload: dispatch.NewTableSnapshot(t),
	})

	if t.SeatCount() == registry.MaxSeats {
		s.startGame(t)
	}
}

func (s *Server) handleJoinSpectator(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.JoinSpectatorPayload
	if err := decode(in, &p); err != nil || p.TableID == "" {
		s.reject(sess, game.KindLegality, "", "join_as_spectator requires tableId")
		return
	}
	t, ok := s.registry.GetTable(st.lobbyID, p.TableID)
	if !ok {
		s.reject(sess, game.KindState, "", "unknown table")
		return
	}
	if t.Private {
		s.reject(sess, game.KindPrecondition, "", "cannot spectate a private table")
		return
	}
	if !t.IsLive() {
		s.reject(sess, game.KindPrecondition, "", "table has no live game")
		return
	}

	t.SpectatorIDs = append(t.SpectatorIDs, st.playerID)
	s.mu.Lock()
	st.tableID = t.ID
	st.spectating = true
	s.mu.Unlock()

	s.rooms.JoinSpectatorRooms(t.ID, t.Game.ID, sess)
	_ = sess.Send(dispatch.Outbound{
		Kind: dispatch.OutboundSpectatorJoined,
		Game: dispatch.NewGameSnapshot(t.Game),
	})
}

func (s *Server) requireCreator(sess *dispatch.Session, st *clientState, t *registry.Table) bool {
	if t.CreatorName != st.displayName {
		s.reject(sess, game.KindAuthorization, "", "only the table creator may do this")
		return false
	}
	return true
}

func (s *Server) handleAddBot(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.BotPayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "add_bot requires tableId and position")
		return
	}
	t, ok := s.registry.GetTable(st.lobbyID, p.TableID)
	if !ok || !s.requireCreator(sess, st, t) {
		return
	}
	if t.IsLive() {
		s.reject(sess, game.KindAuthorization, "", "cannot add bots after the game has started")
		return
	}
	if p.Position < 0 || p.Position >= registry.MaxSeats {
		s.reject(sess, game.KindLegality, "", "invalid seat position")
		return
	}
	if t.Seats[p.Position] != nil {
		s.reject(sess, game.KindState, "", "position occupied")
		return
	}
	skill := p.Skill
	if skill == "" {
		skill = game.SkillMedium
	}
	t.Seats[p.Position] = &game.Player{
		ID:          uuid.NewString(),
		DisplayName: "Bot-" + strconv.Itoa(p.Position),
		IsBot:       true,
		BotSkill:    skill,
		Position:    game.SeatPosition(p.Position),
	}
	s.rooms.DispatchTable(t.ID, dispatch.Outbound{Kind: dispatch.OutboundTableUpdated, Payload: dispatch.NewTableSnapshot(t)})

	if t.SeatCount() == registry.MaxSeats {
		s.startGame(t)
	}
}

func (s *Server) handleRemoveBot(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.BotPayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "remove_bot requires tableId and position")
		return
	}
	t, ok := s.registry.GetTable(st.lobbyID, p.TableID)
	if !ok || !s.requireCreator(sess, st, t) {
		return
	}
	if t.IsLive() {
		s.reject(sess, game.KindAuthorization, "", "cannot remove bots after the game has started")
		return
	}
	if p.Position < 0 || p.Position >= registry.MaxSeats || t.Seats[p.Position] == nil || !t.Seats[p.Position].IsBot {
		s.reject(sess, game.KindLegality, "", "no bot at that position")
		return
	}
	t.Seats[p.Position] = nil
	s.rooms.DispatchTable(t.ID, dispatch.Outbound{Kind: dispatch.OutboundTableUpdated, Payload: dispatch.NewTableSnapshot(t)})
}

func (s *Server) handleMovePlayer(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.MovePlayerPayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "move_player requires tableId and newPosition")
		return
	}
	t, ok := s.registry.GetTable(st.lobbyID, p.TableID)
	if !ok || !s.requireCreator(sess, st, t) {
		return
	}
	if p.NewPosition < 0 || p.NewPosition >= registry.MaxSeats {
		s.reject(sess, game.KindLegality, "", "invalid seat position")
		return
	}
	if t.Seats[p.NewPosition] != nil {
		s.reject(sess, game.KindState, "", "position occupied")
		return
	}
	old := t.Seats[st.seat]
	t.Seats[st.seat] = nil
	old.Position = game.SeatPosition(p.NewPosition)
	t.Seats[p.NewPosition] = old
	s.mu.Lock()
	st.seat = game.SeatPosition(p.NewPosition)
	s.mu.Unlock()
	s.rooms.DispatchTable(t.ID, dispatch.Outbound{Kind: dispatch.OutboundTableUpdated, Payload: dispatch.NewTableSnapshot(t)})
}

func (s *Server) handleStartGame(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.StartGamePayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "start_game requires tableId")
		return
	}
	t, ok := s.registry.GetTable(st.lobbyID, p.TableID)
	if !ok || !s.requireCreator(sess, st, t) {
		return
	}
	if t.SeatCount() != registry.MaxSeats {
		s.reject(sess, game.KindState, "", "start_game requires exactly 4 seats")
		return
	}
	s.startGame(t)
}

func (s *Server) handleUpdateTable(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.UpdateTablePayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "update_table requires tableId")
		return
	}
	t, ok := s.registry.GetTable(st.lobbyID, p.TableID)
	if !ok || !s.requireCreator(sess, st, t) {
		return
	}
	if t.IsLive() {
		s.reject(sess, game.KindAuthorization, "", "cannot update a started table")
		return
	}
	if p.TableName != nil {
		t.Name = *p.TableName
	}
	if p.TimeoutDuration != nil {
		t.TimeoutBudget = *p.TimeoutDuration
	}
	if p.DeckVariant != nil {
		if variant, ok := parseVariant(*p.DeckVariant); ok {
			t.DeckVariant = variant
		}
	}
	if p.ScoreTarget != nil {
		t.ScoreTarget = *p.ScoreTarget
	}
	if p.HasKitty != nil {
		t.KittyEnabled = *p.HasKitty
	}
	if t.KittyEnabled && t.DeckVariant != cards.Variant40 {
		s.reject(sess, game.KindLegality, "", "kitty requires the 40-card deck")
		return
	}
	if p.AllowPointCardDiscards != nil {
		t.AllowPointCardDiscards = *p.AllowPointCardDiscards
	}
	if p.EnforceOpposingTeamBidRule != nil {
		t.EnforceOpposingTeamBidRule = *p.EnforceOpposingTeamBidRule
	}
	if p.IsPrivate != nil {
		t.Private = *p.IsPrivate
	}
	if p.Password != nil {
		t.Password = *p.Password
	}
	s.rooms.DispatchTable(t.ID, dispatch.Outbound{Kind: dispatch.OutboundTableUpdated, Payload: dispatch.NewTableSnapshot(t)})
}

var serverRNG = struct {
	mu  sync.Mutex
	rng *rand.Rand
}{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}

func withRNG(fn func(*rand.Rand)) {
	serverRNG.mu.Lock()
	defer serverRNG.mu.Unlock()
	fn(serverRNG.rng)
}

// startGame deals a fresh game for t, wires a lane for it, and joins
// every seated player's session into the game's rooms (§6 join_table:
// "when 4 seats filled, auto-start game").
func (s *Server) startGame(t *registry.Table) {
	var g *game.Game
	withRNG(func(rng *rand.Rand) {
		g = game.NewGame(uuid.NewString(), t.ID, t.DeckVariant, t.ScoreTarget, t.KittyEnabled, t.AllowPointCardDiscards, t.EnforceOpposingTeamBidRule, time.Duration(t.TimeoutBudget)*time.Millisecond, rng)
		g.Seats = t.Seats
		game.Deal(g)
		g.Phase = game.PhaseBidding
		g.SetCurrentSeat(g.DealerSeat.NextClockwise())
	})
	t.Game = g

	var policies bot.Seats
	withRNG(func(rng *rand.Rand) { policies = seatsFor(t, rng) })

	tr := transcript.New(g, t.Name, time.Now())
	lane := dispatch.NewLane(g, t, policies, tr, s.rooms, s.logger, s.Env.Pacing())
	lane.SetOnFinished(func(l *dispatch.Lane) {
		s.transcripts.Put(l.Transcript)
		s.lanes.Unregister(l.Game.ID)
		s.mu.Lock()
		delete(s.gamesByID, l.Game.ID)
		s.mu.Unlock()
	})

	s.mu.Lock()
	if s.gamesByID == nil {
		s.gamesByID = make(map[string]*dispatch.Lane)
	}
	s.gamesByID[g.ID] = lane
	s.mu.Unlock()

	s.lanes.Register(lane)
	go lane.Run()

	s.mu.Lock()
	for sess, st := range s.sessions {
		if st.tableID == t.ID && st.seated {
			s.rooms.JoinGameRooms(g, sess)
		}
	}
	s.mu.Unlock()

	s.rooms.DispatchGame(g, dispatch.Outbound{Kind: dispatch.OutboundGameStarted, Game: dispatch.NewGameSnapshot(g)})
}

func (s *Server) laneFor(gameID string) (*dispatch.Lane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.gamesByID[gameID]
	return l, ok
}

func (s *Server) handleMakeBid(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.MakeBidPayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "make_bid requires gameId and points")
		return
	}
	l, ok := s.laneFor(p.GameID)
	if !ok {
		s.reject(sess, game.KindState, p.GameID, "unknown game")
		return
	}
	if p.Points == 0 {
		l.Pass(st.seat)
		return
	}
	l.MakeBid(st.seat, p.Points, p.Suit)
}

func (s *Server) handleTakeKitty(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.TakeKittyPayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "take_kitty requires gameId")
		return
	}
	l, ok := s.laneFor(p.GameID)
	if !ok {
		s.reject(sess, game.KindState, p.GameID, "unknown game")
		return
	}
	l.TakeKitty(st.seat)
}

func (s *Server) handleDiscardToKitty(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.DiscardToKittyPayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "discard_to_kitty requires gameId, cards, trumpSuit")
		return
	}
	l, ok := s.laneFor(p.GameID)
	if !ok {
		s.reject(sess, game.KindState, p.GameID, "unknown game")
		return
	}
	l.DiscardToKitty(st.seat, p.Cards, p.TrumpSuit)
}

func (s *Server) handlePlayCard(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.PlayCardPayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "play_card requires gameId and card")
		return
	}
	l, ok := s.laneFor(p.GameID)
	if !ok {
		s.reject(sess, game.KindState, p.GameID, "unknown game")
		return
	}
	l.PlayCard(st.seat, p.Card)
}

func (s *Server) handleExitGameMessage(sess *dispatch.Session, st *clientState, in dispatch.Inbound) {
	var p dispatch.ExitGamePayload
	if err := decode(in, &p); err != nil {
		s.reject(sess, game.KindLegality, "", "exit_game requires gameId")
		return
	}
	l, ok := s.laneFor(p.GameID)
	if !ok {
		s.reject(sess, game.KindState, p.GameID, "unknown game")
		return
	}
	l.ExitPlayer(st.seat)
	s.mu.Lock()
	st.seated = false
	s.mu.Unlock()
}

// exitPlayer handles the disconnect path (§5 "Cancellation": "the seat
// is removed; if the game is no longer viable, finish it").
func (s *Server) exitPlayer(st *clientState) {
	t, ok := s.registry.GetTable(st.lobbyID, st.tableID)
	if !ok {
		return
	}
	if t.IsLive() {
		if l, ok := s.laneFor(t.Game.ID); ok {
			l.ExitPlayer(st.seat)
			return
		}
	}
	t.Seats[st.seat] = nil
	s.rooms.DispatchTable(t.ID, dispatch.Outbound{Kind: dispatch.OutboundPlayerLeftTable, Payload: dispatch.NewTableSnapshot(t)})
}

func (s *Server) handleGetTranscript(sess *dispatch.Session, in dispatch.Inbound) {
	var p dispatch.GetTranscriptPayload
	if err := decode(in, &p); err != nil || p.GameID == "" {
		s.reject(sess, game.KindLegality, "", "get_game_transcript requires gameId")
		return
	}
	tr, ok := s.transcripts.Get(p.GameID)
	if !ok {
		s.reject(sess, game.KindState, p.GameID, "no transcript for that game")
		return
	}
	_ = sess.Send(dispatch.Outbound{Kind: dispatch.OutboundGameTranscript, Payload: tr})
}

func (s *Server) handleGetAllTranscripts(sess *dispatch.Session) {
	_ = sess.Send(dispatch.Outbound{Kind: dispatch.OutboundAllTranscripts, Payload: s.transcripts.List()})
}

func parseVariant(v string) (cards.Variant, bool) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	variant := cards.Variant(n)
	return variant, variant.Valid()
}

func tableRoomName(tableID string) string { return "table-" + tableID }
