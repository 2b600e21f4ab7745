package handler

import (
	"errors"
	"net/http"

	"drinkup/internal/app/game"
	"drinkup/internal/pkg/errs"
	"drinkup/internal/pkg/logx"
	"drinkup/internal/pkg/req"
	"drinkup/internal/pkg/resp"
)

func roomData(room *game.Room) map[string]any {
	return map[string]any{
		"id":   room.ID,
		"name": room.Name,
	}
}

// HandlePersonalRoom places the player into their personal room, creating
// it on first use or rejoining the existing room with the derived name.
func HandlePersonalRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		previousRoom := player.RoomID

		room, err := deps.Membership.CreateOrJoinPersonalRoom(r.Context(), player)
		if err != nil {
			logx.Error(err, "failed to create or join personal room", "player_id", player.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// The leaderboards of both the old and the new room changed.
		if previousRoom != nil && *previousRoom != room.ID {
			publishLeaderboard(r.Context(), deps, *previousRoom)
		}
		publishLeaderboard(r.Context(), deps, room.ID)

		resp.RespondSuccess(w, r, map[string]any{
			"room": roomData(room),
		})
	}
}

type JoinRoomInput struct {
	RoomID int64 `json:"roomId"`
}

// HandleJoinRoom places the player into an existing room by id.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input JoinRoomInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.RoomID <= 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		previousRoom := player.RoomID

		room, err := deps.Membership.JoinRoomByID(r.Context(), player, input.RoomID)
		if err != nil {
			if errors.Is(err, game.ErrRoomNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			logx.Error(err, "failed to join room", "player_id", player.ID, "room_id", input.RoomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if previousRoom != nil && *previousRoom != room.ID {
			publishLeaderboard(r.Context(), deps, *previousRoom)
		}
		publishLeaderboard(r.Context(), deps, room.ID)

		resp.RespondSuccess(w, r, map[string]any{
			"room": roomData(room),
		})
	}
}

// HandleLeaveRoom clears the player's room reference. Leaving while not in
// a room succeeds as a no-op. The left room persists even when empty.
func HandleLeaveRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		previousRoom := player.RoomID

		if err := deps.Membership.LeaveRoom(r.Context(), player); err != nil {
			logx.Error(err, "failed to leave room", "player_id", player.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if previousRoom != nil {
			publishLeaderboard(r.Context(), deps, *previousRoom)
		}

		resp.RespondSuccess(w, r, nil)
	}
}
