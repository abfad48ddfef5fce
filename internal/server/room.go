package server

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/ilcamarero/camarero/game"
	"github.com/ilcamarero/camarero/internal/protocol"
	"github.com/ilcamarero/camarero/internal/randutil"
	"github.com/ilcamarero/camarero/menu"
)

// Sender delivers an encoded message to one player in a room. The WebSocket
// server implements it; tests substitute a recorder.
type Sender interface {
	Send(roomID, playerID string, msg *protocol.Message)
}

// seat is one presence entry. Seats outlive disconnects while a game is in
// progress so the player can reconnect.
type seat struct {
	id        string
	name      string
	avatar    string
	joinedAt  time.Time
	connected bool
}

const (
	pendingServe   = "serve"
	pendingDiscard = "discard"
)

// pendingAction is the single open declaration of a room, waiting out its
// challenge window.
type pendingAction struct {
	kind     string
	actor    string
	target   string
	category string
	dish     string
	variant  string
	cardID   string
	// challengers is kept most recent ring first; resolution scans it in
	// this order.
	challengers []string
	deadline    time.Time
	timer       *quartz.Timer
	resolved    bool
}

// Room owns one table: the presence roster, the live match and the pending
// action. All state is guarded by mu; the engine itself is pure, so the room
// is the only writer of its match.
type Room struct {
	id     string
	logger *log.Logger
	clock  quartz.Clock
	window time.Duration
	sender Sender

	mu           sync.Mutex
	seats        map[string]*seat
	match        *game.Match
	pending      *pendingAction
	turnHolder   string
	discardsUsed int
}

// NewRoom creates an empty room with the given challenge window.
func NewRoom(id string, window time.Duration, clock quartz.Clock, sender Sender, logger *log.Logger) *Room {
	return &Room{
		id:     id,
		logger: logger.WithPrefix("room").With("room", id),
		clock:  clock,
		window: window,
		sender: sender,
		seats:  make(map[string]*seat),
	}
}

// Join adds a player to the roster, or reconnects a seat that went away
// mid-game. The first connected seat by join time is the host.
func (r *Room) Join(playerID, name, avatar string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID == "" {
		return fmt.Errorf("player name required")
	}

	r.resetIfOrphanedLocked()

	if s, ok := r.seats[playerID]; ok {
		if s.connected {
			return fmt.Errorf("player %s is already in the room", playerID)
		}
		s.connected = true
		r.logger.Info("Player reconnected", "player", playerID)
	} else {
		if r.match != nil && r.match.Status == game.StatusInProgress {
			return fmt.Errorf("game already in progress")
		}
		r.seats[playerID] = &seat{
			id:        playerID,
			name:      name,
			avatar:    avatar,
			joinedAt:  r.clock.Now(),
			connected: true,
		}
		r.logger.Info("Player joined", "player", playerID, "seats", len(r.seats))
	}

	r.sendLocked(playerID, protocol.MessageTypeRoomJoined, protocol.RoomJoinedData{
		RoomID:   r.id,
		PlayerID: playerID,
		Host:     r.hostLocked(),
	})
	r.broadcastStateLocked()
	return nil
}

// Leave removes a player. During a game the seat is kept disconnected so the
// player can come back; in the lobby it is dropped entirely.
func (r *Room) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seats[playerID]
	if !ok {
		return fmt.Errorf("player %s is not in the room", playerID)
	}

	if r.match != nil && r.match.Status == game.StatusInProgress {
		s.connected = false
	} else {
		delete(r.seats, playerID)
	}
	r.logger.Info("Player left", "player", playerID)

	r.broadcastStateLocked()
	return nil
}

// Start deals a new match. Only the host may start, and only with 3 to 10
// connected players. A zero seed picks one from the clock.
func (r *Room) Start(playerID string, seed int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.match != nil && r.match.Status == game.StatusInProgress {
		return fmt.Errorf("game already in progress")
	}
	if playerID != r.hostLocked() {
		return fmt.Errorf("only the host can start the game")
	}

	connected := r.connectedSeatsLocked()
	if len(connected) < game.MinPlayers || len(connected) > game.MaxPlayers {
		return fmt.Errorf("need %d to %d connected players, have %d", game.MinPlayers, game.MaxPlayers, len(connected))
	}

	if seed == 0 {
		seed = r.clock.Now().UnixNano()
	}
	roster := make([]game.Seat, len(connected))
	for i, s := range connected {
		roster[i] = game.Seat{ID: s.id, Name: s.name, Avatar: s.avatar}
	}

	m, err := game.NewMatch(randutil.New(seed), roster)
	if err != nil {
		return err
	}

	r.match = m
	r.pending = nil
	r.turnHolder = m.CurrentTurn
	r.discardsUsed = 0
	r.logger.Info("Game started", "players", len(roster), "seed", seed)

	r.broadcastStateLocked()
	return nil
}

// Serve opens a challenge window for a serve declaration by the turn holder.
func (r *Room) Serve(actor string, data protocol.ServeData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.canActLocked(actor); err != nil {
		return err
	}

	r.openWindowLocked(&pendingAction{
		kind:     pendingServe,
		actor:    actor,
		target:   data.Target,
		category: data.Category,
		dish:     data.Dish,
		variant:  data.Variant,
	})
	return nil
}

// Discard opens a challenge window for discarding a center card.
func (r *Room) Discard(actor, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.canActLocked(actor); err != nil {
		return err
	}
	if r.discardsUsed >= game.MaxDiscardsPerTurn(len(r.connectedSeatsLocked())) {
		return fmt.Errorf("discard limit reached for this turn")
	}
	if !slices.ContainsFunc(r.match.Table.Center, func(c menu.Card) bool { return c.ID == cardID }) {
		return fmt.Errorf("card not in the center: %s", cardID)
	}

	r.openWindowLocked(&pendingAction{
		kind:   pendingDiscard,
		actor:  actor,
		cardID: cardID,
	})
	return nil
}

// Ring records a bell ring against the pending action. The newest ringer
// moves to the front; ringing again while already first is a no-op.
func (r *Room) Ring(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.pending
	if p == nil {
		return fmt.Errorf("no action to challenge")
	}
	if playerID == p.actor {
		return fmt.Errorf("the acting player cannot ring the bell")
	}
	s, ok := r.seats[playerID]
	if !ok || !s.connected {
		return fmt.Errorf("player %s is not in the room", playerID)
	}

	if len(p.challengers) > 0 && p.challengers[0] == playerID {
		return nil
	}
	p.challengers = slices.DeleteFunc(p.challengers, func(id string) bool { return id == playerID })
	p.challengers = append([]string{playerID}, p.challengers...)

	r.broadcastPendingLocked(p)
	return nil
}

// ResolveNow closes the challenge window early. Only the actor or the host
// may force it.
func (r *Room) ResolveNow(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.pending
	if p == nil {
		return fmt.Errorf("no pending action")
	}
	if playerID != p.actor && playerID != r.hostLocked() {
		return fmt.Errorf("only the actor or the host can resolve early")
	}

	p.timer.Stop()
	r.resolveLocked(p)
	return nil
}

// canActLocked gates a new declaration: a running game, the declarer holding
// the turn, and no other action already pending.
func (r *Room) canActLocked(actor string) error {
	if r.match == nil || r.match.Status != game.StatusInProgress {
		return fmt.Errorf("no game in progress")
	}
	if r.pending != nil {
		return fmt.Errorf("an action is already pending")
	}
	if actor != r.match.CurrentTurn {
		return fmt.Errorf("not your turn")
	}
	return nil
}

func (r *Room) openWindowLocked(p *pendingAction) {
	p.challengers = []string{}
	p.deadline = r.clock.Now().Add(r.window)
	r.pending = p
	p.timer = r.clock.AfterFunc(r.window, func() { r.expire(p) })

	r.logger.Info("Challenge window opened", "kind", p.kind, "actor", p.actor)
	r.broadcastPendingLocked(p)
}

// expire is the timer callback; it resolves the window unless something else
// already did.
func (r *Room) expire(p *pendingAction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != p || p.resolved {
		return
	}
	r.resolveLocked(p)
}

// resolveLocked runs the pending action through the engine exactly once and
// commits the returned snapshot.
func (r *Room) resolveLocked(p *pendingAction) {
	p.resolved = true
	r.pending = nil

	var out *game.Outcome
	switch p.kind {
	case pendingServe:
		out = r.match.Serve(game.ServeAction{
			Actor:       p.actor,
			Target:      p.target,
			Category:    p.category,
			Dish:        p.dish,
			Variant:     p.variant,
			Challengers: slices.Clone(p.challengers),
		})
	case pendingDiscard:
		var err error
		out, err = r.match.Discard(game.DiscardAction{
			Actor:       p.actor,
			CardID:      p.cardID,
			Challengers: slices.Clone(p.challengers),
		})
		if err != nil {
			r.logger.Error("Discard failed", "error", err)
			r.sendLocked(p.actor, protocol.MessageTypeError, protocol.ErrorData{
				Code:    "discard_failed",
				Message: err.Error(),
			})
			return
		}
	}

	// The engine advances the turn on every resolved action while the match
	// runs, so the counter resets each resolution; the increment only applies
	// if a turn ever spans more than one action.
	r.match = out.Match
	if out.Match.CurrentTurn != r.turnHolder {
		r.turnHolder = out.Match.CurrentTurn
		r.discardsUsed = 0
	} else if p.kind == pendingDiscard {
		r.discardsUsed++
	}

	r.logger.Info("Action resolved", "kind", p.kind, "message", out.Message)
	r.broadcastLocked(protocol.MessageTypeResolution, protocol.ResolutionData{
		Message:    out.Message,
		Points:     out.Points,
		Complaints: out.Complaints,
	})
	r.broadcastStateLocked()

	if out.Match.Status == game.StatusFinished {
		r.broadcastLocked(protocol.MessageTypeGameOver, protocol.GameOverData{
			Standings: protocol.StandingsFromMatch(out.Match),
		})
	}
}

// resetIfOrphanedLocked returns an abandoned room (a match with nobody left
// connected) to the lobby so the next joiner gets a fresh table.
func (r *Room) resetIfOrphanedLocked() {
	if r.match == nil {
		return
	}
	for _, s := range r.seats {
		if s.connected {
			return
		}
	}
	r.logger.Info("Resetting orphaned room")
	if r.pending != nil && r.pending.timer != nil {
		r.pending.timer.Stop()
	}
	r.pending = nil
	r.match = nil
	clear(r.seats)
}

// hostLocked returns the earliest-joined connected seat, ties broken by id.
func (r *Room) hostLocked() string {
	host := ""
	var hostAt time.Time
	for _, s := range r.seats {
		if !s.connected {
			continue
		}
		if host == "" || s.joinedAt.Before(hostAt) || (s.joinedAt.Equal(hostAt) && s.id < host) {
			host = s.id
			hostAt = s.joinedAt
		}
	}
	return host
}

// connectedSeatsLocked returns connected seats in join order.
func (r *Room) connectedSeatsLocked() []*seat {
	seats := make([]*seat, 0, len(r.seats))
	for _, s := range r.seats {
		if s.connected {
			seats = append(seats, s)
		}
	}
	slices.SortFunc(seats, func(a, b *seat) int {
		if c := a.joinedAt.Compare(b.joinedAt); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	return seats
}

// stateForLocked builds the redacted snapshot one viewer is allowed to see.
func (r *Room) stateForLocked(viewer string) protocol.RoomStateData {
	state := protocol.RoomStateData{
		RoomID: r.id,
		Status: game.StatusWaiting,
		Host:   r.hostLocked(),
	}

	if r.match == nil {
		for _, s := range r.seatsInJoinOrderLocked() {
			state.Players = append(state.Players, protocol.PlayerView{
				ID:        s.id,
				Name:      s.name,
				Avatar:    s.avatar,
				Connected: s.connected,
			})
		}
		return state
	}

	m := r.match
	state.Status = m.Status
	state.CurrentTurn = m.CurrentTurn
	state.Center = slices.Clone(m.Table.Center)
	state.KitchenSize = len(m.Table.KitchenDeck)
	state.Revealed = slices.Clone(m.Table.Revealed)
	state.DiscardPile = slices.Clone(m.Table.DiscardPile)
	state.DiscardsLeft = max(0, game.MaxDiscardsPerTurn(len(r.connectedSeatsLocked()))-r.discardsUsed)

	for _, id := range m.TurnOrder {
		p, ok := m.Players[id]
		if !ok {
			continue
		}
		connected := r.seats[id] != nil && r.seats[id].connected
		state.Players = append(state.Players, protocol.PlayerViewFor(p, viewer, connected))
	}
	return state
}

func (r *Room) seatsInJoinOrderLocked() []*seat {
	seats := make([]*seat, 0, len(r.seats))
	for _, s := range r.seats {
		seats = append(seats, s)
	}
	slices.SortFunc(seats, func(a, b *seat) int {
		if c := a.joinedAt.Compare(b.joinedAt); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	return seats
}

// broadcastStateLocked fans the per-viewer snapshots out to every connected
// seat. Redaction happens here: each player gets their own view.
func (r *Room) broadcastStateLocked() {
	for _, s := range r.seats {
		if !s.connected {
			continue
		}
		r.sendLocked(s.id, protocol.MessageTypeRoomState, r.stateForLocked(s.id))
	}
}

func (r *Room) broadcastPendingLocked(p *pendingAction) {
	r.broadcastLocked(protocol.MessageTypePendingAction, protocol.PendingActionData{
		Kind:        p.kind,
		Actor:       p.actor,
		Target:      p.target,
		Category:    p.category,
		Dish:        p.dish,
		Variant:     p.variant,
		CardID:      p.cardID,
		Challengers: slices.Clone(p.challengers),
		Deadline:    p.deadline,
	})
}

// broadcastLocked sends the same payload to every connected seat.
func (r *Room) broadcastLocked(messageType protocol.MessageType, data interface{}) {
	for _, s := range r.seats {
		if s.connected {
			r.sendLocked(s.id, messageType, data)
		}
	}
}

func (r *Room) sendLocked(playerID string, messageType protocol.MessageType, data interface{}) {
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		r.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	r.sender.Send(r.id, playerID, msg)
}
