/*
Package game contains the core domain logic of the water drinking game:
room membership transitions, water intake accumulation, and leaderboard
ordering and formatting.

The package owns no storage of its own. All persistence goes through the
Store interface, which is implemented by the postgres and memory backends
in internal/app/store.
*/
package game

import "time"

// Player represents a registered participant.
// WaterIntake is the cumulative amount in milliliters; it never decreases.
// RoomID is nil while the player is not in any room.
type Player struct {
	// ID is the unique identifier of the player (UUID string).
	ID string `json:"id"`

	// Handle is the unique display/login name.
	Handle string `json:"handle"`

	// PasswordHash is the bcrypt hash of the player's password. Never serialized.
	PasswordHash string `json:"-"`

	// WaterIntake is the cumulative logged intake in milliliters.
	WaterIntake int64 `json:"waterIntake"`

	// RoomID references the room the player currently belongs to, if any.
	// A player belongs to at most one room at a time.
	RoomID *int64 `json:"roomId,omitempty"`

	// AvatarKey is the storage key of the player's avatar image, if one was uploaded.
	AvatarKey string `json:"-"`

	CreatedAt  time.Time  `json:"createdAt"`
	LastSeenAt *time.Time `json:"lastSeenAt,omitempty"`
}

// Room represents a shared room players log intake in.
// Rooms are never deleted; a room whose members all left persists as an orphan.
// Membership is fully derived from Player.RoomID — there is no member list here.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// InRoom reports whether the player currently belongs to the given room.
func (p *Player) InRoom(roomID int64) bool {
	return p.RoomID != nil && *p.RoomID == roomID
}
