package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/ilcamarero/camarero/menu"
)

const (
	// MinPlayers and MaxPlayers bound the roster size.
	MinPlayers = 3
	MaxPlayers = 10
	// CenterSize is how many kitchen cards stay face-up on the table.
	CenterSize = 8
)

// Seat is one roster entry handed in by the lobby.
type Seat struct {
	ID     string
	Name   string
	Avatar string
}

// NewMatch builds and shuffles both decks, deals every player one order card
// per category, lays out the center and picks a turn order. The returned
// match is IN_PROGRESS with the first player in turn order to act.
func NewMatch(rng *rand.Rand, roster []Seat) (*Match, error) {
	if len(roster) < MinPlayers || len(roster) > MaxPlayers {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRosterSize, len(roster))
	}

	orderDeck := Shuffle(rng, menu.BuildDeck(menu.RoleOrder))
	kitchenDeck := Shuffle(rng, menu.BuildDeck(menu.RoleKitchen))

	players := make(map[string]*Player, len(roster))
	ids := make([]string, 0, len(roster))
	for _, seat := range roster {
		if _, dup := players[seat.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate player id %s", ErrInvalidRosterSize, seat.ID)
		}
		hand := make([]menu.Card, 0, len(menu.Categories))
		for _, category := range menu.Categories {
			idx := slices.IndexFunc(orderDeck, func(c menu.Card) bool {
				return c.Category == category
			})
			if idx < 0 {
				return nil, fmt.Errorf("%w: no %s cards left for %s", ErrDeckExhausted, category, seat.ID)
			}
			hand = append(hand, orderDeck[idx])
			orderDeck = slices.Delete(orderDeck, idx, idx+1)
		}
		players[seat.ID] = &Player{ID: seat.ID, Name: seat.Name, Avatar: seat.Avatar, Hand: hand}
		ids = append(ids, seat.ID)
	}

	centerSize := min(CenterSize, len(kitchenDeck))
	center := slices.Clone(kitchenDeck[:centerSize])
	kitchenDeck = kitchenDeck[centerSize:]

	turnOrder := Shuffle(rng, ids)

	return &Match{
		Status:      StatusInProgress,
		Players:     players,
		TurnOrder:   turnOrder,
		CurrentTurn: turnOrder[0],
		Table: Table{
			Center:      center,
			KitchenDeck: kitchenDeck,
			OrderDeck:   orderDeck,
			Revealed:    []menu.Card{},
			DiscardPile: []menu.Card{},
		},
	}, nil
}
