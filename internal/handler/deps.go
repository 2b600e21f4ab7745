/*
Package handler provides the HTTP handlers and routing for the drinkup server.
*/
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"drinkup/internal/app/game"
	"drinkup/internal/app/live"
	"drinkup/internal/app/storage"
	"drinkup/internal/configs"
	"drinkup/internal/pkg/auth/jwt"
	"drinkup/internal/pkg/errs"
	"drinkup/internal/pkg/logx"
)

// AppDeps bundles the collaborators the handlers need. It is constructed
// once in main and threaded through the handler factories.
type AppDeps struct {
	Config     *configs.AppConfig
	Store      game.Store
	Membership *game.MembershipService
	Scores     *game.ScoreService
	Live       *live.Manager

	// Avatars is nil when avatar storage is not configured; the avatar
	// endpoints then answer with a storage-unavailable code.
	Avatars storage.AvatarStorage
}

// currentPlayer resolves the authenticated player for the request, or a
// CustomError when the request is anonymous or the account is gone.
func currentPlayer(deps *AppDeps, r *http.Request) (*game.Player, *errs.CustomError) {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return nil, errs.NewError(errs.ErrUnauthorized)
	}

	player, err := deps.Store.GetPlayerByID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, game.ErrPlayerNotFound) {
			return nil, errs.NewError(errs.ErrUnauthorized)
		}
		logx.Error(err, "failed to load current player", "player_id", identity.ID)
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return player, nil
}

// roomIDParam parses the {roomID} URL parameter.
func roomIDParam(r *http.Request) (int64, bool) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil || roomID <= 0 {
		return 0, false
	}
	return roomID, true
}

// publishLeaderboard pushes a fresh snapshot of the room's leaderboard to
// live subscribers. Failures only cost a push, never the request.
func publishLeaderboard(ctx context.Context, deps *AppDeps, roomID int64) {
	entries, err := deps.Scores.Leaderboard(ctx, roomID)
	if err != nil {
		logx.Error(err, "failed to build leaderboard snapshot", "room_id", roomID)
		return
	}
	deps.Live.Publish(roomID, entries)
}
