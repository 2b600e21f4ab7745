package game

import (
	"context"
	"fmt"
	"sort"
)

// ScoreService accumulates water intake and produces room leaderboards.
type ScoreService struct {
	store Store
}

// NewScoreService constructs a ScoreService backed by the given store.
func NewScoreService(store Store) *ScoreService {
	return &ScoreService{store: store}
}

// Entry is one leaderboard row: a player's handle and their cumulative
// intake, both raw (milliliters) and human-formatted.
type Entry struct {
	Handle   string `json:"handle"`
	IntakeMl int64  `json:"intakeMl"`
	Intake   string `json:"intake"`
}

// LogIntake adds amount milliliters to the player's cumulative intake.
//
// Only positive amounts are accepted. Zero and negative amounts are a
// silent no-op rather than an error, to keep the UI forgiving; accepted
// reports whether the intake was actually recorded. On acceptance the
// player struct is updated in place with the new total.
func (s *ScoreService) LogIntake(ctx context.Context, p *Player, amount int64) (accepted bool, err error) {
	if amount <= 0 {
		return false, nil
	}

	total, err := s.store.AddIntake(ctx, p.ID, amount)
	if err != nil {
		return false, fmt.Errorf("log intake: %w", err)
	}

	p.WaterIntake = total
	return true, nil
}

// Leaderboard returns the members of the given room ordered by cumulative
// intake, highest first. The sort is stable: players with equal intake keep
// the order the store returned them in (ties are otherwise unspecified).
// A room with no members yields an empty slice.
func (s *ScoreService) Leaderboard(ctx context.Context, roomID int64) ([]Entry, error) {
	players, err := s.store.PlayersInRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard for room %d: %w", roomID, err)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].WaterIntake > players[j].WaterIntake
	})

	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		entries = append(entries, Entry{
			Handle:   p.Handle,
			IntakeMl: p.WaterIntake,
			Intake:   FormatIntake(p.WaterIntake),
		})
	}

	return entries, nil
}

// FormatIntake renders a non-negative milliliter amount for display:
// "2 L 500 ml", "2 L" when there is no milliliter remainder, or "500 ml"
// below one liter. FormatIntake(0) is "0 ml".
func FormatIntake(amountMl int64) string {
	liters := amountMl / 1000
	milliliters := amountMl % 1000

	switch {
	case liters > 0 && milliliters > 0:
		return fmt.Sprintf("%d L %d ml", liters, milliliters)
	case liters > 0:
		return fmt.Sprintf("%d L", liters)
	default:
		return fmt.Sprintf("%d ml", milliliters)
	}
}
