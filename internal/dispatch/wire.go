// Package dispatch routes outbound game/table/lobby updates to their
// audiences and serializes per-game mutation onto one lane per game
// (§4.9, §5, §9 "From dynamic event-bus coupling to typed messages").
package dispatch

import (
	"encoding/json"

	"github.com/cardtable/tablesvc/internal/cards"
	"github.com/cardtable/tablesvc/internal/game"
	"github.com/cardtable/tablesvc/internal/registry"
)

// InboundKind names a client->server event (§6 "Inbound events").
type InboundKind string

const (
	InboundJoinLobby       InboundKind = "join_lobby"
	InboundCreateTable     InboundKind = "create_table"
	InboundJoinTable       InboundKind = "join_table"
	InboundJoinSpectator   InboundKind = "join_as_spectator"
	InboundAddBot          InboundKind = "add_bot"
	InboundRemoveBot       InboundKind = "remove_bot"
	InboundMovePlayer      InboundKind = "move_player"
	InboundStartGame       InboundKind = "start_game"
	InboundUpdateTable     InboundKind = "update_table"
	InboundMakeBid         InboundKind = "make_bid"
	InboundTakeKitty       InboundKind = "take_kitty"
	InboundDiscardToKitty  InboundKind = "discard_to_kitty"
	InboundPlayCard        InboundKind = "play_card"
	InboundExitGame        InboundKind = "exit_game"
	InboundGetTranscript   InboundKind = "get_game_transcript"
	InboundGetAllTranscripts InboundKind = "get_all_transcripts"
)

// Inbound is the envelope every client message arrives in: a typed
// kind plus a JSON payload whose shape depends on Kind, decoded by the
// caller once the kind is known (mirrors the teacher's
// protocol.Connect/Action split but as one typed enum, not a loose
// handler table — §9).
type Inbound struct {
	Kind   InboundKind     `json:"kind"`
	Raw    json.RawMessage `json:"payload"`
}

// MakeBidPayload decodes an InboundMakeBid message.
type MakeBidPayload struct {
	GameID string     `json:"gameId"`
	Points int        `json:"points"`
	Suit   cards.Suit `json:"suit,omitempty"`
}

// TakeKittyPayload decodes an InboundTakeKitty message.
type TakeKittyPayload struct {
	GameID string `json:"gameId"`
}

// DiscardToKittyPayload decodes an InboundDiscardToKitty message.
type DiscardToKittyPayload struct {
	GameID    string       `json:"gameId"`
	Cards     []cards.Card `json:"cards"`
	TrumpSuit cards.Suit   `json:"trumpSuit"`
}

// PlayCardPayload decodes an InboundPlayCard message.
type PlayCardPayload struct {
	GameID string     `json:"gameId"`
	Card   cards.Card `json:"card"`
}

// ExitGamePayload decodes an InboundExitGame message.
type ExitGamePayload struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
}

// JoinLobbyPayload decodes an InboundJoinLobby message.
type JoinLobbyPayload struct {
	PlayerName string `json:"playerName"`
	LobbyID    string `json:"lobbyId,omitempty"`
}

// CreateTablePayload decodes an InboundCreateTable message.
type CreateTablePayload struct {
	TableID                    string `json:"tableId"`
	TableName                  string `json:"tableName"`
	TimeoutDuration            int64  `json:"timeoutDuration,omitempty"`
	DeckVariant                string `json:"deckVariant,omitempty"`
	ScoreTarget                int    `json:"scoreTarget,omitempty"`
	HasKitty                   bool   `json:"hasKitty,omitempty"`
	AllowPointCardDiscards     bool   `json:"allowPointCardDiscards,omitempty"`
	EnforceOpposingTeamBidRule bool   `json:"enforceOpposingTeamBidRule,omitempty"`
	IsPrivate                  bool   `json:"isPrivate,omitempty"`
	Password                   string `json:"password,omitempty"`
}

// JoinTablePayload decodes an InboundJoinTable message.
type JoinTablePayload struct {
	TableID  string `json:"tableId"`
	Password string `json:"password,omitempty"`
}

// JoinSpectatorPayload decodes an InboundJoinSpectator message.
type JoinSpectatorPayload struct {
	TableID string `json:"tableId"`
}

// BotPayload decodes InboundAddBot/InboundRemoveBot messages.
type BotPayload struct {
	TableID  string         `json:"tableId"`
	Position int            `json:"position"`
	Skill    game.BotSkill  `json:"skill,omitempty"`
}

// MovePlayerPayload decodes an InboundMovePlayer message.
type MovePlayerPayload struct {
	TableID     string `json:"tableId"`
	NewPosition int    `json:"newPosition"`
}

// StartGamePayload decodes an InboundStartGame message.
type StartGamePayload struct {
	TableID string `json:"tableId"`
}

// UpdateTablePayload decodes an InboundUpdateTable message. Zero-value
// fields are distinguished from absent ones by pointer fields (nil
// means absent) so a
// client can change one setting without restating the rest.
type UpdateTablePayload struct {
	TableID                    string  `json:"tableId"`
	TableName                  *string `json:"tableName,omitempty"`
	TimeoutDuration             *int64  `json:"timeoutDuration,omitempty"`
	DeckVariant                *string `json:"deckVariant,omitempty"`
	ScoreTarget                *int    `json:"scoreTarget,omitempty"`
	HasKitty                   *bool   `json:"hasKitty,omitempty"`
	AllowPointCardDiscards     *bool   `json:"allowPointCardDiscards,omitempty"`
	EnforceOpposingTeamBidRule *bool   `json:"enforceOpposingTeamBidRule,omitempty"`
	IsPrivate                  *bool   `json:"isPrivate,omitempty"`
	Password                   *string `json:"password,omitempty"`
}

// GetTranscriptPayload decodes InboundGetTranscript messages.
type GetTranscriptPayload struct {
	GameID string `json:"gameId"`
}

// OutboundKind names a server->client event (§6 "Outbound events").
type OutboundKind string

const (
	OutboundLobbyJoined           OutboundKind = "lobby_joined"
	OutboundLobbyUpdated          OutboundKind = "lobby_updated"
	OutboundTableJoined           OutboundKind = "table_joined"
	OutboundTableUpdated          OutboundKind = "table_updated"
	OutboundTableLeft             OutboundKind = "table_left"
	OutboundTableDeleted          OutboundKind = "table_deleted"
	OutboundPlayerJoinedTable     OutboundKind = "player_joined_table"
	OutboundPlayerLeftTable       OutboundKind = "player_left_table"
	OutboundSpectatorJoined       OutboundKind = "spectator_joined"
	OutboundSpectatorLeft         OutboundKind = "spectator_left"
	OutboundGameStarted           OutboundKind = "game_started"
	OutboundGameUpdated           OutboundKind = "game_updated"
	OutboundBidMade               OutboundKind = "bid_made"
	OutboundCardPlayed            OutboundKind = "card_played"
	OutboundTrickCompleted        OutboundKind = "trick_completed"
	OutboundRoundCompleted        OutboundKind = "round_completed"
	OutboundGameEnded             OutboundKind = "game_ended"
	OutboundGameEndedForSpectator OutboundKind = "game_ended_for_spectator"
	OutboundPlayerExitedGame      OutboundKind = "player_exited_game"
	OutboundGameTimeout           OutboundKind = "game_timeout"
	OutboundGameTranscript        OutboundKind = "game_transcript"
	OutboundAllTranscripts        OutboundKind = "all_transcripts"
	OutboundError                 OutboundKind = "error"
)

// Outbound is the envelope every server message is sent in.
type Outbound struct {
	Kind    OutboundKind `json:"kind"`
	Game    *GameSnapshot `json:"game,omitempty"`
	Payload any          `json:"payload,omitempty"`
}

// ErrorPayload is attached to an OutboundError message (§7).
type ErrorPayload struct {
	Message string        `json:"message"`
	Kind    game.ErrorKind `json:"kind,omitempty"`
	Code    game.Code     `json:"code,omitempty"`
	GameID  string        `json:"gameId,omitempty"`
	Phase   game.Phase    `json:"phase,omitempty"`
}

// GameSnapshot is the wire projection of a *game.Game: set-typed
// fields converted to ordered sequences before serialization (§4.9
// "Outbound payloads must convert set-typed fields... to ordered
// sequences").
type GameSnapshot struct {
	ID                   string             `json:"id"`
	TableID              string             `json:"tableId"`
	Phase                game.Phase         `json:"phase"`
	CurrentSeat          game.SeatPosition  `json:"currentSeat"`
	DealerSeat           game.SeatPosition  `json:"dealerSeat"`
	CurrentBid           *game.Bid          `json:"currentBid,omitempty"`
	TrumpSuit            cards.Suit         `json:"trumpSuit,omitempty"`
	ContractorTeam       game.Team          `json:"contractorTeam"`
	CurrentTrick         *game.Trick        `json:"currentTrick,omitempty"`
	LastTrick            *game.Trick        `json:"lastTrick,omitempty"`
	RoundIndex           int                `json:"roundIndex"`
	TeamScores           map[game.Team]int  `json:"teamScores"`
	RoundScores          map[game.Team]int  `json:"roundScores"`
	PlayersWhoHavePassed []game.SeatPosition `json:"playersWhoHavePassed"`
}

// SeatSummary is the wire projection of one table seat.
type SeatSummary struct {
	Occupied    bool          `json:"occupied"`
	PlayerID    string        `json:"playerId,omitempty"`
	DisplayName string        `json:"displayName,omitempty"`
	IsBot       bool          `json:"isBot,omitempty"`
	BotSkill    game.BotSkill `json:"botSkill,omitempty"`
}

// TableSnapshot is the wire projection of a *registry.Table (§6
// outbound payloads carrying table state).
type TableSnapshot struct {
	ID                         string       `json:"id"`
	Name                       string       `json:"name"`
	Seats                      [4]SeatSummary `json:"seats"`
	Private                    bool         `json:"private"`
	CreatorName                string       `json:"creatorName"`
	TimeoutBudget              int64        `json:"timeoutBudget"`
	DeckVariant                int          `json:"deckVariant"`
	ScoreTarget                int          `json:"scoreTarget"`
	KittyEnabled               bool         `json:"kittyEnabled"`
	AllowPointCardDiscards     bool         `json:"allowPointCardDiscards"`
	EnforceOpposingTeamBidRule bool         `json:"enforceOpposingTeamBidRule"`
	IsLive                     bool         `json:"isLive"`
	SpectatorCount             int          `json:"spectatorCount"`
}

// NewTableSnapshot projects t to its wire form.
func NewTableSnapshot(t *registry.Table) *TableSnapshot {
	snap := &TableSnapshot{
		ID:                         t.ID,
		Name:                       t.Name,
		Private:                    t.Private,
		CreatorName:                t.CreatorName,
		TimeoutBudget:              t.TimeoutBudget,
		DeckVariant:                int(t.DeckVariant),
		ScoreTarget:                t.ScoreTarget,
		KittyEnabled:               t.KittyEnabled,
		AllowPointCardDiscards:     t.AllowPointCardDiscards,
		EnforceOpposingTeamBidRule: t.EnforceOpposingTeamBidRule,
		IsLive:                     t.IsLive(),
		SpectatorCount:             len(t.SpectatorIDs),
	}
	for i, p := range t.Seats {
		if p == nil {
			continue
		}
		snap.Seats[i] = SeatSummary{
			Occupied:    true,
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			IsBot:       p.IsBot,
			BotSkill:    p.BotSkill,
		}
	}
	return snap
}

// NewGameSnapshot projects g to its wire form.
func NewGameSnapshot(g *game.Game) *GameSnapshot {
	return &GameSnapshot{
		ID:                   g.ID,
		TableID:              g.TableID,
		Phase:                g.Phase,
		CurrentSeat:          g.CurrentSeat,
		DealerSeat:           g.DealerSeat,
		CurrentBid:           g.CurrentBid,
		TrumpSuit:            g.TrumpSuit,
		ContractorTeam:       g.ContractorTeam,
		CurrentTrick:         g.CurrentTrick,
		LastTrick:            g.LastTrick,
		RoundIndex:           g.RoundIndex,
		TeamScores:           map[game.Team]int{game.Team1: g.TeamScores[game.Team1], game.Team2: g.TeamScores[game.Team2]},
		RoundScores:          map[game.Team]int{game.Team1: g.RoundScores[game.Team1], game.Team2: g.RoundScores[game.Team2]},
		PlayersWhoHavePassed: g.PassedSeats(),
	}
}
