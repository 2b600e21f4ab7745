package game

import (
	"context"
	"errors"
	"fmt"
)

// MembershipService manages room creation and the player's room reference.
// It enforces the one-room-at-a-time rule: assigning a new room always
// replaces the previous reference in a single write.
type MembershipService struct {
	store Store
}

// NewMembershipService constructs a MembershipService backed by the given store.
func NewMembershipService(store Store) *MembershipService {
	return &MembershipService{store: store}
}

// PersonalRoomName derives the default room name for a handle.
func PersonalRoomName(handle string) string {
	return fmt.Sprintf("%s's Room", handle)
}

// CreateOrJoinPersonalRoom places the player into their personal room.
//
// The room name is derived from the player's handle. If a room with that
// exact name already exists the player joins it, regardless of who created
// it — name collisions between players merge into one room. Otherwise a new
// room is created. Either way the player's previous room reference, if any,
// is replaced. The player struct is updated in place on success.
func (s *MembershipService) CreateOrJoinPersonalRoom(ctx context.Context, p *Player) (*Room, error) {
	name := PersonalRoomName(p.Handle)

	room, err := s.store.GetRoomByName(ctx, name)
	if errors.Is(err, ErrRoomNotFound) {
		room, err = s.store.CreateRoom(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve personal room: %w", err)
	}

	if err := s.store.SetPlayerRoom(ctx, p.ID, &room.ID); err != nil {
		return nil, fmt.Errorf("assign personal room: %w", err)
	}

	roomID := room.ID
	p.RoomID = &roomID
	return room, nil
}

// JoinRoomByID places the player into the room with the given id.
// Returns ErrRoomNotFound if no such room exists; in that case the player's
// room reference is left untouched.
func (s *MembershipService) JoinRoomByID(ctx context.Context, p *Player, roomID int64) (*Room, error) {
	room, err := s.store.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetPlayerRoom(ctx, p.ID, &room.ID); err != nil {
		return nil, fmt.Errorf("assign room %d: %w", roomID, err)
	}

	id := room.ID
	p.RoomID = &id
	return room, nil
}

// LeaveRoom clears the player's room reference unconditionally.
// Leaving while not in a room is an idempotent no-op. The room itself is
// never deleted, even when its membership drops to zero.
func (s *MembershipService) LeaveRoom(ctx context.Context, p *Player) error {
	if err := s.store.SetPlayerRoom(ctx, p.ID, nil); err != nil {
		return fmt.Errorf("leave room: %w", err)
	}
	p.RoomID = nil
	return nil
}

// RequireMembership reports whether the player currently belongs to the
// given room. Room-scoped actions are gated on this so a player cannot act
// on a room they have since left.
func (s *MembershipService) RequireMembership(p *Player, roomID int64) bool {
	return p.InRoom(roomID)
}
