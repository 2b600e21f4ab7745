package handler

import (
	"net/http"
	"strconv"

	"drinkup/internal/app/game"
	"drinkup/internal/pkg/errs"
	"drinkup/internal/pkg/logx"
	"drinkup/internal/pkg/req"
	"drinkup/internal/pkg/resp"
)

type LogIntakeInput struct {
	// Amount is deliberately loose-typed: the UI is forgiving, so numbers,
	// numeric strings, and garbage are all accepted, with garbage treated
	// as a no-op rather than an error.
	Amount any `json:"amount"`
}

// parseAmount extracts a positive integer milliliter amount from the loose
// input value. Anything else reports ok=false, which callers treat as a
// no-op log request.
func parseAmount(v any) (int64, bool) {
	switch amount := v.(type) {
	case float64:
		// JSON numbers decode as float64; only accept integral values.
		if amount != float64(int64(amount)) {
			return 0, false
		}
		return int64(amount), true
	case string:
		n, err := strconv.ParseInt(amount, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// HandleLogIntake records a water intake amount for the current player in
// the given room. Non-positive and non-numeric amounts change nothing and
// still answer success, mirroring the forgiving form behavior of the UI.
func HandleLogIntake(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		roomID, ok := roomIDParam(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !deps.Membership.RequireMembership(player, roomID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotRoomMember))
			return
		}

		var input LogIntakeInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		amount, _ := parseAmount(input.Amount)

		accepted, err := deps.Scores.LogIntake(r.Context(), player, amount)
		if err != nil {
			logx.Error(err, "failed to log intake", "player_id", player.ID, "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if accepted {
			publishLeaderboard(r.Context(), deps, roomID)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"accepted": accepted,
			"intakeMl": player.WaterIntake,
			"intake":   game.FormatIntake(player.WaterIntake),
		})
	}
}

// HandleLeaderboard returns the room's leaderboard: members ordered by
// cumulative intake, highest first, with formatted amounts.
func HandleLeaderboard(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		roomID, ok := roomIDParam(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !deps.Membership.RequireMembership(player, roomID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotRoomMember))
			return
		}

		room, err := deps.Store.GetRoomByID(r.Context(), roomID)
		if err != nil {
			logx.Error(err, "failed to load room for leaderboard", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		entries, err := deps.Scores.Leaderboard(r.Context(), roomID)
		if err != nil {
			logx.Error(err, "failed to build leaderboard", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room":    roomData(room),
			"entries": entries,
		})
	}
}
