package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/ilcamarero/camarero/internal/protocol"
)

// RoomService owns the room registry and routes client commands to rooms.
// Rooms named in the config keep their configured challenge window; anything
// else is created on demand with the server default.
type RoomService struct {
	config *ServerConfig
	logger *log.Logger
	clock  quartz.Clock
	sender Sender

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRoomService creates a room service
func NewRoomService(config *ServerConfig, logger *log.Logger, clock quartz.Clock, sender Sender) *RoomService {
	return &RoomService{
		config: config,
		logger: logger.WithPrefix("rooms"),
		clock:  clock,
		sender: sender,
		rooms:  make(map[string]*Room),
	}
}

// Room returns the room with the given id, creating it if needed.
func (s *RoomService) Room(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[id]; ok {
		return room
	}

	windowMS := s.config.Server.ChallengeWindowMS
	if rc := s.config.GetRoomByName(id); rc != nil {
		windowMS = rc.ChallengeWindowMS
	}
	room := NewRoom(id, time.Duration(windowMS)*time.Millisecond, s.clock, s.sender, s.logger)
	s.rooms[id] = room
	s.logger.Info("Room created", "room", id, "windowMs", windowMS)
	return room
}

// JoinRoom adds a player to a room.
func (s *RoomService) JoinRoom(roomID, playerID, name, avatar string) error {
	if roomID == "" {
		return fmt.Errorf("room id required")
	}
	return s.Room(roomID).Join(playerID, name, avatar)
}

// LeaveRoom removes a player from a room.
func (s *RoomService) LeaveRoom(roomID, playerID string) error {
	room, err := s.existing(roomID)
	if err != nil {
		return err
	}
	return room.Leave(playerID)
}

// StartGame starts the match in a room on behalf of a player.
func (s *RoomService) StartGame(roomID, playerID string, seed int64) error {
	room, err := s.existing(roomID)
	if err != nil {
		return err
	}
	return room.Start(playerID, seed)
}

// Serve proposes a serve declaration.
func (s *RoomService) Serve(roomID, playerID string, data protocol.ServeData) error {
	room, err := s.existing(roomID)
	if err != nil {
		return err
	}
	return room.Serve(playerID, data)
}

// Discard proposes discarding a center card.
func (s *RoomService) Discard(roomID, playerID, cardID string) error {
	room, err := s.existing(roomID)
	if err != nil {
		return err
	}
	return room.Discard(playerID, cardID)
}

// RingBell records a challenge against the room's pending action.
func (s *RoomService) RingBell(roomID, playerID string) error {
	room, err := s.existing(roomID)
	if err != nil {
		return err
	}
	return room.Ring(playerID)
}

// ResolveNow closes the room's challenge window early.
func (s *RoomService) ResolveNow(roomID, playerID string) error {
	room, err := s.existing(roomID)
	if err != nil {
		return err
	}
	return room.ResolveNow(playerID)
}

func (s *RoomService) existing(roomID string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room not found: %s", roomID)
	}
	return room, nil
}
