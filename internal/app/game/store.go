package game

import (
	"context"
	"errors"
)

// Sentinel errors returned by Store implementations. Handlers map these to
// user-facing business codes at the boundary.
var (
	// ErrPlayerNotFound is returned when a player lookup matches nothing.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrRoomNotFound is returned when a room lookup matches nothing.
	ErrRoomNotFound = errors.New("room not found")

	// ErrHandleTaken is returned when creating a player with a handle that
	// is already registered.
	ErrHandleTaken = errors.New("handle already taken")
)

// Store is the persistence collaborator for players and rooms.
// It is constructed explicitly and passed to the services by handle; the
// domain logic never reaches for ambient global state.
//
// Implementations must guarantee that every mutating method is atomic on
// its own: SetPlayerRoom replaces the room reference in a single write, and
// AddIntake increments the intake counter without a read-modify-write race.
// No method deletes players or rooms.
type Store interface {
	// CreatePlayer persists a new player with zero intake and no room.
	// Returns ErrHandleTaken if the handle is already registered.
	CreatePlayer(ctx context.Context, id, handle, passwordHash string) (*Player, error)

	// GetPlayerByID fetches a player by id, or ErrPlayerNotFound.
	GetPlayerByID(ctx context.Context, id string) (*Player, error)

	// GetPlayerByHandle fetches a player by handle, or ErrPlayerNotFound.
	GetPlayerByHandle(ctx context.Context, handle string) (*Player, error)

	// CreateRoom persists a new room with the given display name.
	CreateRoom(ctx context.Context, name string) (*Room, error)

	// GetRoomByID fetches a room by id, or ErrRoomNotFound.
	GetRoomByID(ctx context.Context, id int64) (*Room, error)

	// GetRoomByName fetches the oldest room with the exact given name,
	// or ErrRoomNotFound. Room names are not unique at the schema level;
	// picking the oldest keeps the lookup deterministic.
	GetRoomByName(ctx context.Context, name string) (*Room, error)

	// SetPlayerRoom sets the player's room reference. A nil roomID clears
	// it. Clearing an already-nil reference is a no-op, not an error.
	SetPlayerRoom(ctx context.Context, playerID string, roomID *int64) error

	// AddIntake atomically increments the player's cumulative intake by
	// amount milliliters and returns the new total. Callers must only pass
	// positive amounts.
	AddIntake(ctx context.Context, playerID string, amount int64) (int64, error)

	// PlayersInRoom returns every player whose room reference equals
	// roomID, in a deterministic order (by registration). An empty room
	// yields an empty slice.
	PlayersInRoom(ctx context.Context, roomID int64) ([]*Player, error)

	// UpdateAvatar replaces the player's avatar storage key.
	UpdateAvatar(ctx context.Context, playerID, avatarKey string) error

	// UpdateLastSeen stamps the player's last activity time.
	UpdateLastSeen(ctx context.Context, playerID string) error
}
