package game

import "errors"

var (
	// ErrInvalidRosterSize means setup was attempted outside 3-10 players.
	ErrInvalidRosterSize = errors.New("match requires between 3 and 10 players")
	// ErrDeckExhausted means the deal ran out of order cards for a category.
	// Unreachable with the fixed catalog; kept as a guard against a
	// catalog/roster mismatch.
	ErrDeckExhausted = errors.New("order deck exhausted during deal")
	// ErrCardNotFound means a discard referenced a card id not in the center.
	// Recoverable: the caller re-displays the center and the actor re-picks.
	ErrCardNotFound = errors.New("kitchen card not found in center")
)
