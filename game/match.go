package game

import (
	"slices"

	"github.com/ilcamarero/camarero/menu"
)

// Status is the lifecycle stage of a match.
type Status string

const (
	// StatusWaiting is the pre-game state while the lobby fills.
	StatusWaiting Status = "WAITING"
	// StatusInProgress is the active game state.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusFinished is terminal; no further actions are accepted.
	StatusFinished Status = "FINISHED"
)

// Player holds one participant's hand and score ledger.
type Player struct {
	ID         string
	Name       string
	Avatar     string
	Hand       []menu.Card
	Points     int
	Complaints int
}

// Score is the player's effective score: earned points minus the complaint
// penalty. Points and Complaints only ever grow; the penalty is applied at
// read time.
func (p *Player) Score() int {
	return p.Points + p.Complaints*ComplaintPenalty
}

// firstUnserved returns the index of the player's first unserved order card
// in the category, or -1.
func (p *Player) firstUnserved(category string) int {
	return slices.IndexFunc(p.Hand, func(c menu.Card) bool {
		return c.Category == category && !c.Served
	})
}

// Table is the shared state in the middle of the room.
type Table struct {
	// Center holds the face-up kitchen cards, kept at 8 while the kitchen
	// deck lasts.
	Center []menu.Card
	// KitchenDeck is the face-down remainder that replenishes Center.
	KitchenDeck []menu.Card
	// OrderDeck is what the deal left over. Never replenished or drawn from
	// again.
	OrderDeck []menu.Card
	// Revealed is the append-only public log of order cards shown to the
	// room as a result of an adjudication.
	Revealed []menu.Card
	// DiscardPile is the append-only log of kitchen cards removed from
	// Center by discard actions.
	DiscardPile []menu.Card
}

// Match is the authoritative state of one game.
type Match struct {
	Status  Status
	Players map[string]*Player
	// TurnOrder is fixed at setup and never re-shuffled.
	TurnOrder   []string
	CurrentTurn string
	Table       Table
}

// Clone returns a deep copy. Operations clone the receiver once and mutate
// the copy, so the original snapshot is never observably changed.
func (m *Match) Clone() *Match {
	next := &Match{
		Status:      m.Status,
		Players:     make(map[string]*Player, len(m.Players)),
		TurnOrder:   slices.Clone(m.TurnOrder),
		CurrentTurn: m.CurrentTurn,
		Table: Table{
			Center:      slices.Clone(m.Table.Center),
			KitchenDeck: slices.Clone(m.Table.KitchenDeck),
			OrderDeck:   slices.Clone(m.Table.OrderDeck),
			Revealed:    slices.Clone(m.Table.Revealed),
			DiscardPile: slices.Clone(m.Table.DiscardPile),
		},
	}
	for id, p := range m.Players {
		cp := *p
		cp.Hand = slices.Clone(p.Hand)
		next.Players[id] = &cp
	}
	return next
}

// displayName resolves a player id to a name for outcome messages.
func (m *Match) displayName(id string) string {
	if p, ok := m.Players[id]; ok && p.Name != "" {
		return p.Name
	}
	return id
}

// advanceTurn moves CurrentTurn to the next id in turn order, wrapping.
// Finished matches keep their last turn holder.
func (m *Match) advanceTurn() {
	if m.Status == StatusFinished || m.CurrentTurn == "" {
		return
	}
	idx := slices.Index(m.TurnOrder, m.CurrentTurn)
	if idx < 0 {
		return
	}
	m.CurrentTurn = m.TurnOrder[(idx+1)%len(m.TurnOrder)]
}
