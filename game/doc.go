// Package game implements the rules engine for the Camarero guessing game.
//
// The main type is Match, which holds the full state of one game: players
// and their hidden order cards, the shared kitchen table, turn order and the
// score ledger.
//
// # Basic Usage
//
// Create a match and resolve declared actions:
//
//	rng := randutil.New(42)
//	m, err := game.NewMatch(rng, roster)
//	out, err := m.Discard(game.DiscardAction{Actor: id, CardID: cardID})
//	// out.Match is the new snapshot; the caller commits it.
//
// # Purity
//
// Every operation is a pure transformation: the receiver Match is cloned and
// never observably mutated, and the returned Outcome carries the new snapshot
// plus the point and complaint deltas it produced. Callers must not apply an
// Outcome twice.
//
// All randomness is parameterized by a *rand.Rand so tests can substitute a
// fixed seed. The engine performs no I/O and acquires no locks; serializing
// concurrent action proposals against one Match is the caller's job.
package game
