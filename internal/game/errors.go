package game

import "fmt"

// ErrorKind classifies an engine error for §7 error-handling policy:
// Legality/Authorization errors are recovered locally (no mutation,
// reply to the offending socket); Invariant errors are fatal to the
// game.
type ErrorKind string

const (
	KindIdentity      ErrorKind = "identity"
	KindAuthorization ErrorKind = "authorization"
	KindLegality      ErrorKind = "legality"
	KindState         ErrorKind = "state"
	KindPrecondition  ErrorKind = "precondition"
	KindInvariant     ErrorKind = "invariant"
)

// Code is a stable, client-facing error code.
type Code string

const (
	CodeNotYourTurn        Code = "not_your_turn"
	CodeAlreadyPassed      Code = "already_passed"
	CodeBidTooLow          Code = "bid_too_low"
	CodeBidNotMultiple     Code = "bid_not_multiple_of_five"
	CodeCardNotInHand      Code = "card_not_in_hand"
	CodeMustFollowSuit     Code = "must_follow_suit"
	CodeWrongPhase         Code = "wrong_phase"
	CodeNotCreator         Code = "not_creator"
	CodeGameAlreadyStarted Code = "game_already_started"
	CodeTableFull          Code = "table_full"
	CodePositionOccupied   Code = "position_occupied"
	CodeTableExists        Code = "table_already_exists"
	CodeWrongPassword      Code = "wrong_password"
	CodeNoLiveGame         Code = "no_live_game"
	CodeNotPrivate         Code = "not_private"
	CodeAlreadyInGame      Code = "already_in_active_game"
	CodeNotInGame          Code = "not_in_game"
	CodeUnknownPlayer      Code = "unknown_player"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInvalidDiscards    Code = "invalid_discards"
)

// Error is the engine's typed error: a one-line message, the kind for
// dispatch-policy purposes, the offending game id (when available),
// the phase at the time of the error, and a stable code.
type Error struct {
	Kind    ErrorKind
	Code    Code
	Message string
	GameID  string
	Phase   Phase
}

func (e *Error) Error() string {
	if e.GameID != "" {
		return fmt.Sprintf("%s: %s (game=%s phase=%s)", e.Kind, e.Message, e.GameID, e.Phase)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, code Code, g *Game, format string, args ...any) *Error {
	err := &Error{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
	if g != nil {
		err.GameID = g.ID
		err.Phase = g.Phase
	}
	return err
}

func legalityErr(g *Game, code Code, format string, args ...any) *Error {
	return newError(KindLegality, code, g, format, args...)
}

func stateErr(g *Game, code Code, format string, args ...any) *Error {
	return newError(KindState, code, g, format, args...)
}

func invariantErr(g *Game, code Code, format string, args ...any) *Error {
	return newError(KindInvariant, code, g, format, args...)
}
