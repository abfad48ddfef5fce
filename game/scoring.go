package game

// Scoring constants. Complaints never erase earned points; the penalty is
// folded in when computing a player's effective score.
const (
	// FullMatchPoints is awarded for guessing dish and variant exactly,
	// whether by serving or by ringing the bell first.
	FullMatchPoints = 3
	// UncontestedDiscardPoints is awarded for a discard nobody claimed.
	UncontestedDiscardPoints = 1
	// ComplaintPenalty is the per-complaint score deduction.
	ComplaintPenalty = -2
)

// applyScores adds the point and complaint deltas to the ledger. Deltas are
// always non-negative, so totals are monotonically non-decreasing.
func (m *Match) applyScores(points, complaints map[string]int) {
	for id, pts := range points {
		if p, ok := m.Players[id]; ok {
			p.Points += pts
		}
	}
	for id, n := range complaints {
		if p, ok := m.Players[id]; ok {
			p.Complaints += n
		}
	}
}

// MaxDiscardsPerTurn returns how many discards one turn may attempt for the
// given connected-player count. The engine does not count discards itself;
// the room layer enforces this.
func MaxDiscardsPerTurn(players int) int {
	switch {
	case players <= 4:
		return 3
	case players <= 6:
		return 2
	default:
		return 1
	}
}
