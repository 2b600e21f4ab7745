package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"drinkup/internal/app/game"
	"drinkup/internal/app/store"
)

type MembershipSuite struct {
	suite.Suite

	ctx        context.Context
	store      *store.Memory
	membership *game.MembershipService
}

func TestMembershipSuite(t *testing.T) {
	suite.Run(t, new(MembershipSuite))
}

func (s *MembershipSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewMemory()
	s.membership = game.NewMembershipService(s.store)
}

func (s *MembershipSuite) createPlayer(id, handle string) *game.Player {
	p, err := s.store.CreatePlayer(s.ctx, id, handle, "hash")
	s.Require().NoError(err)
	return p
}

func (s *MembershipSuite) TestPersonalRoomName() {
	s.Equal("alice's Room", game.PersonalRoomName("alice"))
}

func (s *MembershipSuite) TestCreatePersonalRoom() {
	alice := s.createPlayer("p1", "alice")

	room, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)

	s.Equal("alice's Room", room.Name)
	s.Require().NotNil(alice.RoomID)
	s.Equal(room.ID, *alice.RoomID)

	stored, err := s.store.GetPlayerByID(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().NotNil(stored.RoomID)
	s.Equal(room.ID, *stored.RoomID)
}

func (s *MembershipSuite) TestPersonalRoomIsReusedByName() {
	alice := s.createPlayer("p1", "alice")

	first, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)

	// Rejoining resolves to the same room instead of creating a duplicate.
	second, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
}

func (s *MembershipSuite) TestPersonalRoomNameCollisionMerges() {
	alice := s.createPlayer("p1", "alice")
	_, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)

	// A pre-existing room with the derived name is joined even when the
	// current player did not create it.
	room, err := s.store.CreateRoom(s.ctx, "bob's Room")
	s.Require().NoError(err)

	bob := s.createPlayer("p2", "bob")
	joined, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, bob)
	s.Require().NoError(err)
	s.Equal(room.ID, joined.ID)
}

func (s *MembershipSuite) TestPersonalRoomReplacesPreviousRoom() {
	alice := s.createPlayer("p1", "alice")
	bob := s.createPlayer("p2", "bob")

	bobsRoom, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, bob)
	s.Require().NoError(err)

	_, err = s.membership.JoinRoomByID(s.ctx, alice, bobsRoom.ID)
	s.Require().NoError(err)

	alicesRoom, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)
	s.NotEqual(bobsRoom.ID, alicesRoom.ID)

	// Alice no longer shows up in Bob's room's derived member set.
	members, err := s.store.PlayersInRoom(s.ctx, bobsRoom.ID)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal("bob", members[0].Handle)
}

func (s *MembershipSuite) TestJoinRoomByID() {
	alice := s.createPlayer("p1", "alice")
	room, err := s.store.CreateRoom(s.ctx, "alice's Room")
	s.Require().NoError(err)

	joined, err := s.membership.JoinRoomByID(s.ctx, alice, room.ID)
	s.Require().NoError(err)
	s.Equal(room.ID, joined.ID)
	s.Require().NotNil(alice.RoomID)
	s.Equal(room.ID, *alice.RoomID)
}

func (s *MembershipSuite) TestJoinNonexistentRoomLeavesPlayerUnchanged() {
	alice := s.createPlayer("p1", "alice")
	room, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)

	_, err = s.membership.JoinRoomByID(s.ctx, alice, 9999)
	s.Require().ErrorIs(err, game.ErrRoomNotFound)

	// The failed join did not touch the current membership.
	s.Require().NotNil(alice.RoomID)
	s.Equal(room.ID, *alice.RoomID)

	stored, err := s.store.GetPlayerByID(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().NotNil(stored.RoomID)
	s.Equal(room.ID, *stored.RoomID)
}

func (s *MembershipSuite) TestLeaveRoomOrphansTheRoom() {
	alice := s.createPlayer("p1", "alice")
	room, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)

	s.Require().NoError(s.membership.LeaveRoom(s.ctx, alice))
	s.Nil(alice.RoomID)

	// The room survives with zero members.
	orphan, err := s.store.GetRoomByID(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(room.ID, orphan.ID)

	members, err := s.store.PlayersInRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *MembershipSuite) TestLeaveRoomIsIdempotent() {
	alice := s.createPlayer("p1", "alice")

	s.Require().NoError(s.membership.LeaveRoom(s.ctx, alice))
	s.Require().NoError(s.membership.LeaveRoom(s.ctx, alice))
	s.Nil(alice.RoomID)
}

func (s *MembershipSuite) TestRequireMembership() {
	alice := s.createPlayer("p1", "alice")
	room, err := s.membership.CreateOrJoinPersonalRoom(s.ctx, alice)
	s.Require().NoError(err)

	s.True(s.membership.RequireMembership(alice, room.ID))
	s.False(s.membership.RequireMembership(alice, room.ID+1))

	s.Require().NoError(s.membership.LeaveRoom(s.ctx, alice))
	s.False(s.membership.RequireMembership(alice, room.ID))
}
