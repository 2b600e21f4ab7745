package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"drinkup/internal/pkg/errs"
	"drinkup/internal/pkg/logx"
	"drinkup/internal/pkg/randx"
	"drinkup/internal/pkg/req"
	"drinkup/internal/pkg/resp"
)

const (
	// maxAvatarBytes caps the declared avatar upload size.
	maxAvatarBytes = 2 << 20 // 2 MB

	// presignUploadTTL is how long a presigned upload URL stays valid.
	presignUploadTTL = 10 * time.Minute

	// presignDownloadTTL is how long presigned avatar links stay valid.
	presignDownloadTTL = 1 * time.Hour
)

var allowedAvatarTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// avatarURL resolves a presigned download URL for an avatar key, or ""
// when there is no avatar or no storage.
func avatarURL(ctx context.Context, deps *AppDeps, key string) string {
	if key == "" || deps.Avatars == nil {
		return ""
	}

	url, err := deps.Avatars.PresignDownload(ctx, key, presignDownloadTTL)
	if err != nil {
		logx.Error(err, "failed to presign avatar download", "key", key)
		return ""
	}
	return url
}

// HandleGetProfile returns the current player's profile.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		data := playerData(player)
		data["avatar"] = avatarURL(r.Context(), deps, player.AvatarKey)
		if player.LastSeenAt != nil {
			data["lastSeenAt"] = player.LastSeenAt.Format(time.RFC3339)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"player": data,
		})
	}
}

type PresignAvatarInput struct {
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatar hands the client a presigned URL to upload a new
// avatar image directly to the bucket.
func HandlePresignAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if deps.Avatars == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarStorageUnavailable))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if _, ok := allowedAvatarTypes[input.MimeType]; !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarInvalid))
			return
		}

		if input.FileSize <= 0 || input.FileSize > maxAvatarBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarInvalid))
			return
		}

		key, err := randx.AvatarKey(player.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		uploadURL, err := deps.Avatars.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, presignUploadTTL)
		if err != nil {
			logx.Error(err, "failed to presign avatar upload", "player_id", player.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"key":       key,
			"uploadUrl": uploadURL,
		})
	}
}

type ConfirmAvatarInput struct {
	Key string `json:"key"`
}

// HandleConfirmAvatar records an uploaded avatar key on the player after
// verifying the object actually landed in the bucket. The previous avatar
// object, if any, is deleted in the background.
func HandleConfirmAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, customErr := currentPlayer(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if deps.Avatars == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarStorageUnavailable))
			return
		}

		var input ConfirmAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		// Players may only confirm keys inside their own avatar prefix.
		if !strings.HasPrefix(input.Key, "avatars/"+player.ID+"/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarInvalid))
			return
		}

		exists, err := deps.Avatars.ObjectExists(r.Context(), input.Key)
		if err != nil {
			logx.Error(err, "failed to verify avatar upload", "key", input.Key)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !exists {
			resp.RespondError(w, r, errs.NewError(errs.ErrAvatarInvalid))
			return
		}

		oldKey := player.AvatarKey

		if err := deps.Store.UpdateAvatar(r.Context(), player.ID, input.Key); err != nil {
			logx.Error(err, "failed to save avatar key", "player_id", player.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if oldKey != "" && oldKey != input.Key {
			go func(k string) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = deps.Avatars.Delete(ctx, k)
			}(oldKey)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"avatar": avatarURL(r.Context(), deps, input.Key),
		})
	}
}
