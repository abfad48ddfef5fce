package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilcamarero/camarero/menu"
)

func orderCard(id, category, dish, variant string) menu.Card {
	return menu.Card{ID: id, Category: category, Dish: dish, Variant: variant, Role: menu.RoleOrder}
}

func kitchenCard(id, category, dish, variant string) menu.Card {
	return menu.Card{ID: id, Category: category, Dish: dish, Variant: variant, Role: menu.RoleKitchen}
}

// testMatch builds a small rigged match: ana to act, beto holding a
// Milanesa Napolitana, carla a Flan Mixto and dana a Helado Crema.
func testMatch() *Match {
	return &Match{
		Status: StatusInProgress,
		Players: map[string]*Player{
			"ana":   {ID: "ana", Name: "Ana", Hand: []menu.Card{orderCard("o-vino", menu.CategoryBebida, "Vino", "Tinto")}},
			"beto":  {ID: "beto", Name: "Beto", Hand: []menu.Card{orderCard("o-mila", menu.CategoryPrincipal, "Milanesa", "Napolitana")}},
			"carla": {ID: "carla", Name: "Carla", Hand: []menu.Card{orderCard("o-flan", menu.CategoryPostre, "Flan", "Mixto")}},
			"dana":  {ID: "dana", Name: "Dana", Hand: []menu.Card{orderCard("o-helado", menu.CategoryPostre, "Helado", "Crema")}},
		},
		TurnOrder:   []string{"ana", "beto", "carla", "dana"},
		CurrentTurn: "ana",
		Table: Table{
			Center: []menu.Card{
				kitchenCard("k-flan", menu.CategoryPostre, "Flan", "Mixto"),
				kitchenCard("k-vino", menu.CategoryBebida, "Vino", "Blanco"),
			},
			KitchenDeck: []menu.Card{kitchenCard("k-deck", menu.CategoryEntrada, "Empanada", "Carne")},
			Revealed:    []menu.Card{},
			DiscardPile: []menu.Card{},
		},
	}
}

func TestServeExactMatch(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out := m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryPrincipal, Dish: "Milanesa", Variant: "Napolitana",
	})

	assert.Equal(t, map[string]int{"ana": FullMatchPoints}, out.Points)
	assert.Empty(t, out.Complaints)
	assert.Equal(t, "order served correctly", out.Message)

	beto := out.Match.Players["beto"]
	assert.True(t, beto.Hand[0].Served)
	require.Len(t, out.Match.Table.Revealed, 1)
	assert.True(t, out.Match.Table.Revealed[0].Served)
	assert.Equal(t, FullMatchPoints, out.Match.Players["ana"].Points)
	assert.Equal(t, "beto", out.Match.CurrentTurn)
}

func TestServeRightDishWrongVariant(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out := m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryPrincipal, Dish: "Milanesa", Variant: "Suiza",
	})

	assert.Empty(t, out.Points)
	assert.Equal(t, map[string]int{"ana": 1}, out.Complaints)
	assert.Equal(t, "right dish, wrong variant", out.Message)

	// The dish becomes public but the order stays pending.
	require.Len(t, out.Match.Table.Revealed, 1)
	assert.False(t, out.Match.Table.Revealed[0].Served)
	assert.False(t, out.Match.Players["beto"].Hand[0].Served)
}

func TestServeWrongDish(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out := m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryPrincipal, Dish: "Pizza", Variant: "Margarita",
	})

	assert.Empty(t, out.Points)
	assert.Equal(t, map[string]int{"ana": 1}, out.Complaints)
	assert.Equal(t, "wrong dish", out.Message)
	assert.Empty(t, out.Match.Table.Revealed)
}

func TestServeTargetWithoutCategory(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out := m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryEntrada, Dish: "Empanada", Variant: "Carne",
	})

	assert.Equal(t, map[string]int{"ana": 1}, out.Complaints)
	assert.Empty(t, out.Match.Table.Revealed)
	assert.Contains(t, out.Message, "no pending")
}

func TestServeAlreadyServedCountsAsMissing(t *testing.T) {
	t.Parallel()

	m := testMatch()
	m.Players["beto"].Hand[0].Served = true

	out := m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryPrincipal, Dish: "Milanesa", Variant: "Napolitana",
	})

	assert.Equal(t, map[string]int{"ana": 1}, out.Complaints)
	assert.Empty(t, out.Points)
	assert.Empty(t, out.Match.Table.Revealed)
}

func TestServeInvalidTarget(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out := m.Serve(ServeAction{
		Actor: "ana", Target: "nobody",
		Category: menu.CategoryPrincipal, Dish: "Milanesa", Variant: "Napolitana",
	})

	assert.Equal(t, map[string]int{"ana": 1}, out.Complaints)
	assert.Equal(t, "invalid target", out.Message)
	assert.Equal(t, "beto", out.Match.CurrentTurn, "a failed declaration still spends the turn")
}

func TestServeFirstChallengerPreemptsDeclarer(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out := m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryPrincipal, Dish: "Milanesa", Variant: "Napolitana",
		Challengers: []string{"carla", "dana"},
	})

	// Carla rang last (first in the list) and takes the whole award; dana is
	// never evaluated and ana's declaration is superseded.
	assert.Equal(t, map[string]int{"carla": FullMatchPoints}, out.Points)
	assert.Empty(t, out.Complaints)
	assert.Contains(t, out.Message, "Carla")
	assert.True(t, out.Match.Players["beto"].Hand[0].Served)
}

func TestServeFailedChallengersThenDeclarer(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out := m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryPrincipal, Dish: "Milanesa", Variant: "Suiza",
		Challengers: []string{"carla"},
	})

	// Challengers assert the declarer's guess, so a wrong variant costs both
	// the challenger and the declarer one complaint each.
	assert.Empty(t, out.Points)
	assert.Equal(t, map[string]int{"carla": 1, "ana": 1}, out.Complaints)
}

func TestDiscardUncontested(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out, err := m.Discard(DiscardAction{Actor: "ana", CardID: "k-flan"})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"ana": UncontestedDiscardPoints}, out.Points)
	assert.Empty(t, out.Complaints)

	table := out.Match.Table
	require.Len(t, table.DiscardPile, 1)
	assert.Equal(t, "k-flan", table.DiscardPile[0].ID)
	require.Len(t, table.Center, 2, "center replenishes from the kitchen deck")
	assert.Equal(t, "k-deck", table.Center[1].ID)
	assert.Empty(t, table.KitchenDeck)
	assert.Equal(t, StatusInProgress, out.Match.Status)
	assert.Equal(t, "beto", out.Match.CurrentTurn)
}

func TestDiscardUnknownCard(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out, err := m.Discard(DiscardAction{Actor: "ana", CardID: "k-nope"})
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Nil(t, out)
}

func TestDiscardClaimedByChallenger(t *testing.T) {
	t.Parallel()

	m := testMatch()
	out, err := m.Discard(DiscardAction{
		Actor: "ana", CardID: "k-flan",
		Challengers: []string{"carla"},
	})
	require.NoError(t, err)

	// Carla's own pending Flan Mixto matches the discarded card: she takes
	// the award and the order arrives served; ana pays a complaint and gets
	// no discard point.
	assert.Equal(t, map[string]int{"carla": FullMatchPoints}, out.Points)
	assert.Equal(t, map[string]int{"ana": 1}, out.Complaints)
	assert.Contains(t, out.Message, "Carla")

	carla := out.Match.Players["carla"]
	require.Len(t, carla.Hand, 1)
	assert.True(t, carla.Hand[0].Served)
	assert.Equal(t, "o-flan", carla.Hand[0].ID)
	require.Len(t, out.Match.Table.Revealed, 1)

	// The kitchen card itself still goes to the discard pile.
	require.Len(t, out.Match.Table.DiscardPile, 1)
	assert.Equal(t, "k-flan", out.Match.Table.DiscardPile[0].ID)
}

func TestDiscardChallengersScanStopsAtFirstExact(t *testing.T) {
	t.Parallel()

	m := testMatch()
	// Beto rings after carla and would also miss, but carla's exact claim
	// ends the scan before he is ever evaluated.
	out, err := m.Discard(DiscardAction{
		Actor: "ana", CardID: "k-flan",
		Challengers: []string{"dana", "carla", "beto"},
	})
	require.NoError(t, err)

	// Dana's first pending Postre is a Helado, so her claim misses.
	assert.Equal(t, map[string]int{"carla": FullMatchPoints}, out.Points)
	assert.Equal(t, map[string]int{"dana": 1, "ana": 1}, out.Complaints)
	assert.NotContains(t, out.Complaints, "beto")
	assert.Zero(t, out.Match.Players["beto"].Complaints)
}

func TestDiscardFinishesMatchWhenKitchenDeckEmpty(t *testing.T) {
	t.Parallel()

	m := testMatch()
	m.Table.KitchenDeck = nil

	out, err := m.Discard(DiscardAction{Actor: "ana", CardID: "k-vino"})
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, out.Match.Status)
	assert.Len(t, out.Match.Table.Center, 1)
	assert.Equal(t, "ana", out.Match.CurrentTurn, "turn does not advance once finished")
}

func TestOperationsDoNotMutateInput(t *testing.T) {
	t.Parallel()

	m := testMatch()
	snapshot := m.Clone()

	m.Serve(ServeAction{
		Actor: "ana", Target: "beto",
		Category: menu.CategoryPrincipal, Dish: "Milanesa", Variant: "Napolitana",
		Challengers: []string{"carla", "dana"},
	})
	_, err := m.Discard(DiscardAction{Actor: "ana", CardID: "k-flan", Challengers: []string{"carla"}})
	require.NoError(t, err)

	assert.Equal(t, snapshot, m)
}
