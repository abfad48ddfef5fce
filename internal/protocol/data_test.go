package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilcamarero/camarero/game"
	"github.com/ilcamarero/camarero/menu"
)

func TestPlayerViewRedactsOtherHands(t *testing.T) {
	t.Parallel()

	p := &game.Player{
		ID:   "beto",
		Name: "Beto",
		Hand: []menu.Card{
			{ID: "a", Category: menu.CategoryEntrada, Dish: "Empanada", Variant: "Carne"},
			{ID: "b", Category: menu.CategoryPostre, Dish: "Flan", Variant: "Mixto", Served: true},
			{ID: "c", Category: menu.CategoryBebida, Dish: "Vino", Variant: "Tinto"},
		},
		Points:     3,
		Complaints: 1,
	}

	view := PlayerViewFor(p, "ana", true)
	require.Len(t, view.Hand, 1, "only served cards are public")
	assert.Equal(t, "b", view.Hand[0].ID)
	assert.Equal(t, 3, view.HandSize)
	assert.Equal(t, 1, view.Score)
}

func TestPlayerViewOwnHandIsComplete(t *testing.T) {
	t.Parallel()

	p := &game.Player{
		ID:   "beto",
		Hand: []menu.Card{{ID: "a"}, {ID: "b", Served: true}},
	}

	view := PlayerViewFor(p, "beto", false)
	assert.Len(t, view.Hand, 2)
	assert.False(t, view.Connected)
}

func TestPlayerViewDoesNotAliasHand(t *testing.T) {
	t.Parallel()

	p := &game.Player{ID: "ana", Hand: []menu.Card{{ID: "a"}}}
	view := PlayerViewFor(p, "ana", true)
	view.Hand[0].Served = true
	assert.False(t, p.Hand[0].Served)
}

func TestStandingsFromMatchRanksByScore(t *testing.T) {
	t.Parallel()

	m := &game.Match{Players: map[string]*game.Player{
		"ana":   {ID: "ana", Name: "Ana", Points: 4, Complaints: 0},
		"beto":  {ID: "beto", Name: "Beto", Points: 9, Complaints: 1},
		"carla": {ID: "carla", Name: "Carla", Points: 4, Complaints: 0},
		"dana":  {ID: "dana", Name: "Dana", Points: 0, Complaints: 2},
	}}

	standings := StandingsFromMatch(m)
	require.Len(t, standings, 4)
	assert.Equal(t, "beto", standings[0].PlayerID)
	// Ana and Carla tie on 4 and fall back to name order.
	assert.Equal(t, "ana", standings[1].PlayerID)
	assert.Equal(t, "carla", standings[2].PlayerID)
	assert.Equal(t, "dana", standings[3].PlayerID)
	assert.Equal(t, -4, standings[3].Score)
}
