package handler

import (
	"errors"
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"drinkup/internal/app/game"
	"drinkup/internal/pkg/auth/jwt"
	"drinkup/internal/pkg/errs"
	"drinkup/internal/pkg/logx"
	"drinkup/internal/pkg/randx"
	"drinkup/internal/pkg/req"
	"drinkup/internal/pkg/resp"
)

var handleRegex = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

type RegisterInput struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// playerData builds the player summary returned after auth and on profile reads.
func playerData(p *game.Player) map[string]any {
	data := map[string]any{
		"id":       p.ID,
		"handle":   p.Handle,
		"intakeMl": p.WaterIntake,
		"intake":   game.FormatIntake(p.WaterIntake),
	}
	if p.RoomID != nil {
		data["roomId"] = *p.RoomID
	}
	return data
}

// HandleRegister creates a new player account and signs them in.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !handleRegex.MatchString(input.Handle) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidHandle))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		player, err := deps.Store.CreatePlayer(r.Context(), randx.PlayerID(), input.Handle, string(hashedPassword))
		if err != nil {
			if errors.Is(err, game.ErrHandleTaken) {
				logx.Warn("registration conflict: handle already exists", "handle", input.Handle)
				resp.RespondError(w, r, errs.NewError(errs.ErrHandleTaken))
				return
			}

			logx.Error(err, "failed to create player")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Store.UpdateLastSeen(r.Context(), player.ID); err != nil {
			logx.Error(err, "register: failed to update last_seen_at", "player_id", player.ID)
		}

		payload := &jwt.Payload{
			ID:     player.ID,
			Handle: player.Handle,
		}

		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":  token,
			"player": playerData(player),
		})
	}
}

type LoginInput struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a session token. Unknown
// handle and wrong password produce the same generic error, so the
// response does not leak which accounts exist.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		player, err := deps.Store.GetPlayerByHandle(r.Context(), input.Handle)
		if err != nil {
			logx.Warn("login: player fetch failed", "handle", input.Handle, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "handle", input.Handle)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := deps.Store.UpdateLastSeen(r.Context(), player.ID); err != nil {
			logx.Error(err, "login: failed to update last_seen_at", "player_id", player.ID)
		}

		payload := &jwt.Payload{
			ID:     player.ID,
			Handle: player.Handle,
		}

		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "login: token generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":  token,
			"player": playerData(player),
		})
	}
}
