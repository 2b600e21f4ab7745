package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"drinkup/internal/app/game"
	"drinkup/internal/app/live"
	"drinkup/internal/pkg/auth/jwt"
	"drinkup/internal/pkg/errs"
	"drinkup/internal/pkg/limiter"
	"drinkup/internal/pkg/logx"
	"drinkup/internal/pkg/resp"
)

// HandleLiveLeaderboard upgrades the request to a WebSocket subscription
// on the room's leaderboard feed. Browsers cannot set headers on WebSocket
// requests, so the session token is taken from the "token" query parameter.
func HandleLiveLeaderboard(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		roomID, ok := roomIDParam(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		identity, err := jwt.ParseToken(token, deps.Config.JWTSecret)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		player, err := deps.Store.GetPlayerByID(r.Context(), identity.ID)
		if err != nil {
			if errors.Is(err, game.ErrPlayerNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !deps.Membership.RequireMembership(player, roomID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotRoomMember))
			return
		}

		// Build the initial snapshot before upgrading; after the upgrade
		// only WebSocket frames can be written.
		entries, err := deps.Scores.Leaderboard(r.Context(), roomID)
		if err != nil {
			logx.Error(err, "failed to build initial snapshot", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		initial, err := json.Marshal(live.Snapshot{
			Type:    live.SnapshotType,
			RoomID:  roomID,
			Entries: entries,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		hub := deps.Live.Hub(roomID)
		client := live.NewClient(hub, conn, player.ID)

		go client.WritePump()

		hub.Register(client)
		client.Send(initial)

		logx.Info("Leaderboard subscription established",
			"player_id", player.ID, "room_id", roomID)

		client.ReadPump()
	}
}
