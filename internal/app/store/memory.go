package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"drinkup/internal/app/game"
)

// Memory is an in-memory game.Store used by tests. All methods are safe for
// concurrent use. Returned players and rooms are copies, so callers cannot
// mutate the store through them.
type Memory struct {
	mu         sync.Mutex
	players    map[string]*game.Player
	rooms      map[int64]*game.Room
	nextRoomID int64
	seq        int
}

var _ game.Store = (*Memory)(nil)

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		players:    make(map[string]*game.Player),
		rooms:      make(map[int64]*game.Room),
		nextRoomID: 1,
	}
}

func copyPlayer(p *game.Player) *game.Player {
	cp := *p
	if p.RoomID != nil {
		id := *p.RoomID
		cp.RoomID = &id
	}
	if p.LastSeenAt != nil {
		t := *p.LastSeenAt
		cp.LastSeenAt = &t
	}
	return &cp
}

// CreatePlayer inserts a new player with zero intake and no room.
func (s *Memory) CreatePlayer(_ context.Context, id, handle, passwordHash string) (*game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.Handle == handle {
			return nil, game.ErrHandleTaken
		}
	}

	s.seq++
	p := &game.Player{
		ID:           id,
		Handle:       handle,
		PasswordHash: passwordHash,
		// Spread creation times so PlayersInRoom ordering matches the
		// registration order even within the same clock tick.
		CreatedAt: time.Now().Add(time.Duration(s.seq) * time.Microsecond),
	}
	s.players[id] = p
	return copyPlayer(p), nil
}

// GetPlayerByID fetches a player by id.
func (s *Memory) GetPlayerByID(_ context.Context, id string) (*game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return nil, game.ErrPlayerNotFound
	}
	return copyPlayer(p), nil
}

// GetPlayerByHandle fetches a player by their unique handle.
func (s *Memory) GetPlayerByHandle(_ context.Context, handle string) (*game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.Handle == handle {
			return copyPlayer(p), nil
		}
	}
	return nil, game.ErrPlayerNotFound
}

// CreateRoom inserts a new room with the given display name.
func (s *Memory) CreateRoom(_ context.Context, name string) (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &game.Room{
		ID:        s.nextRoomID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.nextRoomID++
	s.rooms[r.ID] = r

	cp := *r
	return &cp, nil
}

// GetRoomByID fetches a room by id.
func (s *Memory) GetRoomByID(_ context.Context, id int64) (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[id]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

// GetRoomByName fetches the oldest room with the exact given name.
func (s *Memory) GetRoomByName(_ context.Context, name string) (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest *game.Room
	for _, r := range s.rooms {
		if r.Name != name {
			continue
		}
		if oldest == nil || r.ID < oldest.ID {
			oldest = r
		}
	}
	if oldest == nil {
		return nil, game.ErrRoomNotFound
	}
	cp := *oldest
	return &cp, nil
}

// SetPlayerRoom replaces the player's room reference.
func (s *Memory) SetPlayerRoom(_ context.Context, playerID string, roomID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return game.ErrPlayerNotFound
	}
	if roomID == nil {
		p.RoomID = nil
		return nil
	}
	id := *roomID
	p.RoomID = &id
	return nil
}

// AddIntake increments the player's cumulative intake and returns the new total.
func (s *Memory) AddIntake(_ context.Context, playerID string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return 0, game.ErrPlayerNotFound
	}
	p.WaterIntake += amount
	return p.WaterIntake, nil
}

// PlayersInRoom returns the derived member set of a room in registration order.
func (s *Memory) PlayersInRoom(_ context.Context, roomID int64) ([]*game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]*game.Player, 0)
	for _, p := range s.players {
		if p.RoomID != nil && *p.RoomID == roomID {
			members = append(members, copyPlayer(p))
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

// UpdateAvatar replaces the player's avatar storage key.
func (s *Memory) UpdateAvatar(_ context.Context, playerID, avatarKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return game.ErrPlayerNotFound
	}
	p.AvatarKey = avatarKey
	return nil
}

// UpdateLastSeen stamps the player's last activity time.
func (s *Memory) UpdateLastSeen(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return game.ErrPlayerNotFound
	}
	now := time.Now()
	p.LastSeenAt = &now
	return nil
}
