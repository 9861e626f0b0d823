package game

import "github.com/cardtable/tablesvc/internal/cards"

// EventKind names a transcript/dispatch-worthy occurrence. These are
// exactly the transcript entry kinds from the data model (§3).
type EventKind string

const (
	EventGameStart        EventKind = "game_start"
	EventRoundStart        EventKind = "round_start"
	EventBidMade            EventKind = "bid_made"
	EventBidPass             EventKind = "bid_pass"
	EventBiddingComplete  EventKind = "bidding_complete"
	EventKittyPick            EventKind = "kitty_pick"
	EventKittyDiscard      EventKind = "kitty_discard"
	EventCardPlayed        EventKind = "card_played"
	EventTrickComplete    EventKind = "trick_complete"
	EventRoundComplete    EventKind = "round_complete"
	EventGameComplete     EventKind = "game_complete"
	EventPlayerExit          EventKind = "player_exit"
)

// Event is a single occurrence produced by an engine operation. It
// carries only the game id and a payload; a caller holding the *Game
// snapshots full state (including hands) for the transcript, so the
// engine needs no storage dependency.
type Event struct {
	Kind    EventKind
	GameID  string
	Payload any
}

func newEvent(g *Game, kind EventKind, payload any) Event {
	return Event{Kind: kind, GameID: g.ID, Payload: payload}
}

// BidMadePayload documents an accepted bid.
type BidMadePayload struct {
	Seat   SeatPosition
	Points int
	Suit   cards.Suit
}

// BidPassPayload documents a pass.
type BidPassPayload struct {
	Seat SeatPosition
}

// BiddingCompletePayload documents the bidding→{kitty,playing} or
// bidding→bidding (all-pass redeal) transition.
type BiddingCompletePayload struct {
	AllPass        bool
	Bidder         SeatPosition
	TrumpSuit      cards.Suit
	ContractorTeam Team
	NextPhase      Phase
}

// KittyPickPayload documents the bidder taking the kitty.
type KittyPickPayload struct {
	Seat  SeatPosition
	Cards []cards.Card
}

// KittyDiscardPayload documents the bidder's kitty discard.
type KittyDiscardPayload struct {
	Seat      SeatPosition
	Discards  []cards.Card
	TrumpSuit cards.Suit
}

// CardPlayedPayload documents a single card played to the current
// trick.
type CardPlayedPayload struct {
	Seat SeatPosition
	Card cards.Card
}

// TrickCompletePayload documents a completed trick.
type TrickCompletePayload struct {
	Winner SeatPosition
	Points int
	Plays  []TrickPlay
}

// RoundCompletePayload documents round finalization deltas.
type RoundCompletePayload struct {
	ContractorTeam  Team
	ContractorDelta int
	OpponentDelta   int
	KittyCredit     int
	ContractMade    bool
}

// GameCompletePayload documents game end.
type GameCompletePayload struct {
	WinningTeam Team
	TeamScores  map[Team]int
	Reason      string
}

// PlayerExitPayload documents a seat leaving mid-game.
type PlayerExitPayload struct {
	Seat     SeatPosition
	PlayerID string
}

// RoundStartPayload documents a new deal.
type RoundStartPayload struct {
	RoundIndex int
	DealerSeat SeatPosition
}

// GameStartPayload documents the game transitioning out of waiting.
type GameStartPayload struct {
	DealerSeat SeatPosition
}
