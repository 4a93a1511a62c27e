package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Category classifies a failure for the boundary layer. None of these are
// retryable by the engine itself.
type Category int

const (
	// CategoryStructural covers lifecycle violations: the caller must stop
	// issuing hand-level commands until state changes externally.
	CategoryStructural Category = iota
	// CategoryActionLegality covers rejected player commands; the player
	// remains the current actor and may retry with a legal action.
	CategoryActionLegality
	// CategoryReferential indicates a caller or integration bug, such as a
	// player id that is not part of this game.
	CategoryReferential
)

func (c Category) String() string {
	switch c {
	case CategoryStructural:
		return "structural"
	case CategoryActionLegality:
		return "action"
	case CategoryReferential:
		return "referential"
	default:
		return "unknown"
	}
}

// Code is a stable machine-readable error code.
type Code string

const (
	CodeInvalidPlayerCount   Code = "invalidPlayerCount"
	CodeInvalidBlinds        Code = "invalidBlinds"
	CodeInvalidStack         Code = "invalidStack"
	CodeEvaluatorRequired    Code = "evaluatorRequired"
	CodeGameFinished         Code = "gameFinished"
	CodeHandInProgress       Code = "handInProgress"
	CodeNotEnoughPlayers     Code = "notEnoughPlayers"
	CodeInvalidAmount        Code = "invalidAmount"
	CodeNotPlayersTurn       Code = "notPlayersTurn"
	CodePlayerFolded         Code = "playerFolded"
	CodePlayerAllIn          Code = "playerAllIn"
	CodeCannotCheckFacingBet Code = "cannotCheckFacingBet"
	CodeBetNotAllowed        Code = "betNotAllowed"
	CodeRaiseNotAllowed      Code = "raiseNotAllowed"
	CodeInvalidBetAmount     Code = "invalidBetAmount"
	CodeInvalidRaiseAmount   Code = "invalidRaiseAmount"
	CodeInsufficientChips    Code = "insufficientChips"
	CodeUnknownPlayer        Code = "unknownPlayer"
	CodeNoCurrentPlayer      Code = "noCurrentPlayer"
)

// GameError is a categorized engine failure carrying enough context for the
// boundary layer to render a precise message without re-deriving state.
type GameError struct {
	Code     Code
	Category Category
	Message  string
	Context  map[string]any
}

func (e *GameError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, " "))
}

// Is matches two GameErrors by code, so errors.Is works against the bare
// sentinels produced by newError.
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

// With attaches a context value and returns the error for chaining.
func (e *GameError) With(key string, value any) *GameError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newError(code Code, category Category, message string) *GameError {
	return &GameError{Code: code, Category: category, Message: message}
}

func structuralError(code Code, message string) *GameError {
	return newError(code, CategoryStructural, message)
}

func actionError(code Code, message string) *GameError {
	return newError(code, CategoryActionLegality, message)
}

func referentialError(code Code, message string) *GameError {
	return newError(code, CategoryReferential, message)
}

// IsCode reports whether err is a GameError with the given code.
func IsCode(err error, code Code) bool {
	var ge *GameError
	return errors.As(err, &ge) && ge.Code == code
}

// CategoryOf returns the category of err when it is a GameError.
func CategoryOf(err error) (Category, bool) {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Category, true
	}
	return 0, false
}
