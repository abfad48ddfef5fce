package protocol

import (
	"cmp"
	"slices"
	"time"

	"github.com/ilcamarero/camarero/game"
	"github.com/ilcamarero/camarero/menu"
)

// Client → Server payloads

type JoinRoomData struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar,omitempty"`
}

type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

type StartGameData struct {
	RoomID string `json:"roomId"`
	// Seed pins the shuffle for reproducible games; 0 means pick one.
	Seed int64 `json:"seed,omitempty"`
}

type ServeData struct {
	RoomID   string `json:"roomId"`
	Target   string `json:"target"`
	Category string `json:"category"`
	Dish     string `json:"dish"`
	Variant  string `json:"variant"`
}

type DiscardData struct {
	RoomID string `json:"roomId"`
	CardID string `json:"cardId"`
}

type RingBellData struct {
	RoomID string `json:"roomId"`
}

type ResolveNowData struct {
	RoomID string `json:"roomId"`
}

// Server → Client payloads

type RoomJoinedData struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Host     string `json:"host"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayerView is one player as seen by a particular client. Hand carries the
// full hand only in the viewer's own entry; everyone else's exposes served
// cards alone, with HandSize giving the true count.
type PlayerView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Avatar     string      `json:"avatar,omitempty"`
	Connected  bool        `json:"connected"`
	Hand       []menu.Card `json:"hand"`
	HandSize   int         `json:"handSize"`
	Points     int         `json:"points"`
	Complaints int         `json:"complaints"`
	Score      int         `json:"score"`
}

// RoomStateData is the per-viewer snapshot broadcast after every change.
type RoomStateData struct {
	RoomID       string       `json:"roomId"`
	Status       game.Status  `json:"status"`
	Host         string       `json:"host"`
	CurrentTurn  string       `json:"currentTurn,omitempty"`
	Players      []PlayerView `json:"players"`
	Center       []menu.Card  `json:"center"`
	KitchenSize  int          `json:"kitchenSize"`
	Revealed     []menu.Card  `json:"revealed"`
	DiscardPile  []menu.Card  `json:"discardPile"`
	DiscardsLeft int          `json:"discardsLeft"`
}

// PendingActionData announces an open challenge window. Kind is "serve" or
// "discard"; the serve fields and CardID are populated per kind. Challengers
// is most recent ring first.
type PendingActionData struct {
	Kind        string    `json:"kind"`
	Actor       string    `json:"actor"`
	Target      string    `json:"target,omitempty"`
	Category    string    `json:"category,omitempty"`
	Dish        string    `json:"dish,omitempty"`
	Variant     string    `json:"variant,omitempty"`
	CardID      string    `json:"cardId,omitempty"`
	Challengers []string  `json:"challengers"`
	Deadline    time.Time `json:"deadline"`
}

type ResolutionData struct {
	Message    string         `json:"message"`
	Points     map[string]int `json:"points"`
	Complaints map[string]int `json:"complaints"`
}

type Standing struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Complaints int    `json:"complaints"`
	Score      int    `json:"score"`
}

type GameOverData struct {
	Standings []Standing `json:"standings"`
}

// Helpers to convert engine state into wire views

// PlayerViewFor renders one player for a given viewer. Viewers see their own
// hand in full; for anyone else only cards already served (and therefore
// public) are included.
func PlayerViewFor(p *game.Player, viewer string, connected bool) PlayerView {
	hand := p.Hand
	if p.ID != viewer {
		hand = servedOnly(p.Hand)
	}

	return PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Avatar:     p.Avatar,
		Connected:  connected,
		Hand:       slices.Clone(hand),
		HandSize:   len(p.Hand),
		Points:     p.Points,
		Complaints: p.Complaints,
		Score:      p.Score(),
	}
}

func servedOnly(hand []menu.Card) []menu.Card {
	served := make([]menu.Card, 0, len(hand))
	for _, c := range hand {
		if c.Served {
			served = append(served, c)
		}
	}
	return served
}

// StandingsFromMatch ranks players by effective score, best first, breaking
// ties by name.
func StandingsFromMatch(m *game.Match) []Standing {
	standings := make([]Standing, 0, len(m.Players))
	for _, p := range m.Players {
		standings = append(standings, Standing{
			PlayerID:   p.ID,
			Name:       p.Name,
			Points:     p.Points,
			Complaints: p.Complaints,
			Score:      p.Score(),
		})
	}
	slices.SortFunc(standings, func(a, b Standing) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return standings
}
