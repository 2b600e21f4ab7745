/*
Package store provides the game.Store implementations: a PostgreSQL backend
used in production and an in-memory backend used in tests.
*/
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"drinkup/internal/app/db"
	"drinkup/internal/app/game"
)

const playerColumns = "id, handle, password_hash, water_intake, room_id, avatar_key, created_at, last_seen_at"

// Postgres implements game.Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ game.Store = (*Postgres)(nil)

// NewPostgres wraps an initialized connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func scanPlayer(row pgx.Row) (*game.Player, error) {
	var p game.Player
	err := row.Scan(
		&p.ID,
		&p.Handle,
		&p.PasswordHash,
		&p.WaterIntake,
		&p.RoomID,
		&p.AvatarKey,
		&p.CreatedAt,
		&p.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlayer inserts a new player with zero intake and no room.
func (s *Postgres) CreatePlayer(ctx context.Context, id, handle, passwordHash string) (*game.Player, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO players (id, handle, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING `+playerColumns,
		id, handle, passwordHash,
	)

	p, err := scanPlayer(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, game.ErrHandleTaken
		}
		return nil, fmt.Errorf("create player: %w", err)
	}
	return p, nil
}

// GetPlayerByID fetches a player by id.
func (s *Postgres) GetPlayerByID(ctx context.Context, id string) (*game.Player, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id)

	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player by id: %w", err)
	}
	return p, nil
}

// GetPlayerByHandle fetches a player by their unique handle.
func (s *Postgres) GetPlayerByHandle(ctx context.Context, handle string) (*game.Player, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE handle = $1`, handle)

	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player by handle: %w", err)
	}
	return p, nil
}

// CreateRoom inserts a new room with the given display name.
func (s *Postgres) CreateRoom(ctx context.Context, name string) (*game.Room, error) {
	var r game.Room
	err := s.pool.QueryRow(ctx,
		`INSERT INTO rooms (name) VALUES ($1) RETURNING id, name, created_at`,
		name,
	).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &r, nil
}

// GetRoomByID fetches a room by id.
func (s *Postgres) GetRoomByID(ctx context.Context, id int64) (*game.Room, error) {
	var r game.Room
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM rooms WHERE id = $1`, id,
	).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room by id: %w", err)
	}
	return &r, nil
}

// GetRoomByName fetches the oldest room with the exact given name.
func (s *Postgres) GetRoomByName(ctx context.Context, name string) (*game.Room, error) {
	var r game.Room
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM rooms WHERE name = $1 ORDER BY id LIMIT 1`, name,
	).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room by name: %w", err)
	}
	return &r, nil
}

// SetPlayerRoom replaces the player's room reference in a single UPDATE, so
// the clear-then-assign transition of a room switch is atomic.
func (s *Postgres) SetPlayerRoom(ctx context.Context, playerID string, roomID *int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE players SET room_id = $2 WHERE id = $1`, playerID, roomID)
	if err != nil {
		return fmt.Errorf("set player room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrPlayerNotFound
	}
	return nil
}

// AddIntake increments the cumulative intake counter in place and returns
// the new total. The increment happens inside the UPDATE, so concurrent
// logging never loses an amount.
func (s *Postgres) AddIntake(ctx context.Context, playerID string, amount int64) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx,
		`UPDATE players SET water_intake = water_intake + $2
		 WHERE id = $1
		 RETURNING water_intake`,
		playerID, amount,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, game.ErrPlayerNotFound
		}
		return 0, fmt.Errorf("add intake: %w", err)
	}
	return total, nil
}

// PlayersInRoom returns the derived member set of a room, ordered by
// registration time so the fetch order is deterministic.
func (s *Postgres) PlayersInRoom(ctx context.Context, roomID int64) ([]*game.Player, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+playerColumns+` FROM players WHERE room_id = $1 ORDER BY created_at, id`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("players in room: %w", err)
	}
	defer rows.Close()

	players := make([]*game.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("players in room: scan: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("players in room: %w", err)
	}
	return players, nil
}

// UpdateAvatar replaces the player's avatar storage key.
func (s *Postgres) UpdateAvatar(ctx context.Context, playerID, avatarKey string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE players SET avatar_key = $2 WHERE id = $1`, playerID, avatarKey)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrPlayerNotFound
	}
	return nil
}

// UpdateLastSeen stamps the player's last activity time.
func (s *Postgres) UpdateLastSeen(ctx context.Context, playerID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE players SET last_seen_at = now() WHERE id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("update last seen: %w", err)
	}
	return nil
}
