package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every business error wraps exactly one of them so callers can
// classify with errors.Is.
var (
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrAlreadyRecorded  = kind(ErrConflict, "match already recorded")
	ErrPairingsExist    = kind(ErrConflict, "pairings already exist for this week")
	ErrPlayerHasHistory = kind(ErrConflict, "player has matches or attendance; delete with cascade")
	ErrWeekNotLocked    = kind(ErrConflict, "week has no results password")

	ErrInvalidKFactor     = kind(ErrValidation, "k-factor must be 10 (casual) or 40 (competitive)")
	ErrInvalidResult      = kind(ErrValidation, "result must be one of a_win, b_win, draw")
	ErrInvalidFaction     = kind(ErrValidation, "unknown faction")
	ErrInvalidWeek        = kind(ErrValidation, "invalid week id")
	ErrInvalidManualOrder = kind(ErrValidation, "invalid manual pairing order")
	ErrInvalidPlayerName  = kind(ErrValidation, "player name is required")
	ErrInvalidRating      = kind(ErrValidation, "starting rating must be between 400 and 3000")
	ErrSamePlayer         = kind(ErrValidation, "player A and player B must be different")
	ErrInactivePlayer     = kind(ErrValidation, "archived players cannot be paired")
	ErrWrongWeekPassword  = kind(ErrValidation, "wrong password for this week")

	ErrPlayerNotFound = kind(ErrNotFound, "player not found")
	ErrMatchNotFound  = kind(ErrNotFound, "match not found")
)

type kindError struct {
	kind error
	msg  string
}

func kind(k error, msg string) error {
	return &kindError{kind: k, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// detail attaches context to a business error without losing its identity.
func detail(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}
