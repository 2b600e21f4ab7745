package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"drinkup/internal/app/game"
	"drinkup/internal/app/store"
)

type ScoreSuite struct {
	suite.Suite

	ctx        context.Context
	store      *store.Memory
	membership *game.MembershipService
	scores     *game.ScoreService
}

func TestScoreSuite(t *testing.T) {
	suite.Run(t, new(ScoreSuite))
}

func (s *ScoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewMemory()
	s.membership = game.NewMembershipService(s.store)
	s.scores = game.NewScoreService(s.store)
}

func (s *ScoreSuite) createPlayerInRoom(id, handle string, roomID int64) *game.Player {
	p, err := s.store.CreatePlayer(s.ctx, id, handle, "hash")
	s.Require().NoError(err)
	s.Require().NoError(s.store.SetPlayerRoom(s.ctx, id, &roomID))
	p.RoomID = &roomID
	return p
}

func (s *ScoreSuite) TestLogIntakeAccumulates() {
	p, err := s.store.CreatePlayer(s.ctx, "p1", "alice", "hash")
	s.Require().NoError(err)

	accepted, err := s.scores.LogIntake(s.ctx, p, 250)
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(int64(250), p.WaterIntake)

	accepted, err = s.scores.LogIntake(s.ctx, p, 500)
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(int64(750), p.WaterIntake)

	stored, err := s.store.GetPlayerByID(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(int64(750), stored.WaterIntake)
}

func (s *ScoreSuite) TestLogIntakeRejectsNonPositive() {
	p, err := s.store.CreatePlayer(s.ctx, "p1", "alice", "hash")
	s.Require().NoError(err)

	for _, amount := range []int64{0, -1, -500} {
		accepted, err := s.scores.LogIntake(s.ctx, p, amount)
		s.Require().NoError(err)
		s.False(accepted)
	}

	stored, err := s.store.GetPlayerByID(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(int64(0), stored.WaterIntake)
}

func (s *ScoreSuite) TestLeaderboardOrdersByIntakeDescending() {
	room, err := s.store.CreateRoom(s.ctx, "hydration station")
	s.Require().NoError(err)

	alice := s.createPlayerInRoom("p1", "alice", room.ID)
	bob := s.createPlayerInRoom("p2", "bob", room.ID)

	_, err = s.scores.LogIntake(s.ctx, alice, 500)
	s.Require().NoError(err)
	_, err = s.scores.LogIntake(s.ctx, bob, 1500)
	s.Require().NoError(err)

	entries, err := s.scores.Leaderboard(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Equal(game.Entry{Handle: "bob", IntakeMl: 1500, Intake: "1 L 500 ml"}, entries[0])
	s.Equal(game.Entry{Handle: "alice", IntakeMl: 500, Intake: "500 ml"}, entries[1])
}

func (s *ScoreSuite) TestLeaderboardIsNonIncreasing() {
	room, err := s.store.CreateRoom(s.ctx, "big room")
	s.Require().NoError(err)

	amounts := []int64{300, 1200, 700, 1200, 50}
	for i, amount := range amounts {
		id := string(rune('a' + i))
		p := s.createPlayerInRoom(id, "player_"+id, room.ID)
		_, err := s.scores.LogIntake(s.ctx, p, amount)
		s.Require().NoError(err)
	}

	entries, err := s.scores.Leaderboard(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, len(amounts))

	for i := 1; i < len(entries); i++ {
		s.GreaterOrEqual(entries[i-1].IntakeMl, entries[i].IntakeMl)
	}
}

func (s *ScoreSuite) TestLeaderboardTiesKeepRegistrationOrder() {
	room, err := s.store.CreateRoom(s.ctx, "tied room")
	s.Require().NoError(err)

	first := s.createPlayerInRoom("p1", "first", room.ID)
	second := s.createPlayerInRoom("p2", "second", room.ID)

	_, err = s.scores.LogIntake(s.ctx, first, 1000)
	s.Require().NoError(err)
	_, err = s.scores.LogIntake(s.ctx, second, 1000)
	s.Require().NoError(err)

	entries, err := s.scores.Leaderboard(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("first", entries[0].Handle)
	s.Equal("second", entries[1].Handle)
}

func (s *ScoreSuite) TestLeaderboardEmptyRoom() {
	room, err := s.store.CreateRoom(s.ctx, "empty")
	s.Require().NoError(err)

	entries, err := s.scores.Leaderboard(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ScoreSuite) TestLeaderboardExcludesNonMembers() {
	room, err := s.store.CreateRoom(s.ctx, "members only")
	s.Require().NoError(err)

	alice := s.createPlayerInRoom("p1", "alice", room.ID)
	bob := s.createPlayerInRoom("p2", "bob", room.ID)

	_, err = s.scores.LogIntake(s.ctx, alice, 800)
	s.Require().NoError(err)
	_, err = s.scores.LogIntake(s.ctx, bob, 400)
	s.Require().NoError(err)

	s.Require().NoError(s.membership.LeaveRoom(s.ctx, bob))

	entries, err := s.scores.Leaderboard(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("alice", entries[0].Handle)
}
