package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"drinkup/internal/pkg/auth/jwt"
	"drinkup/internal/pkg/limiter"
	"drinkup/internal/pkg/logx"
	"drinkup/internal/pkg/resp"
)

const (
	// AuthRate limits account creation and sign-in attempts per IP.
	AuthRate  = 0.2
	AuthBurst = 5

	// SubscribeRate limits WebSocket subscription attempts per IP.
	SubscribeRate  = 0.5
	SubscribeBurst = 5
)

// Router builds the HTTP routing table with CORS, request logging, rate
// limiting and the identity-extraction middleware applied.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	subscribeLimiter := limiter.NewIPRateLimiter(rate.Limit(SubscribeRate), SubscribeBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "drinkup",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
		})

		api.Route("/player", func(player chi.Router) {
			player.Get("/profile", HandleGetProfile(deps))
			player.Post("/avatar/presign", HandlePresignAvatar(deps))
			player.Post("/avatar", HandleConfirmAvatar(deps))
		})

		api.Route("/room", func(room chi.Router) {
			room.Post("/personal", HandlePersonalRoom(deps))
			room.Post("/join", HandleJoinRoom(deps))
			room.Post("/leave", HandleLeaveRoom(deps))
			room.Get("/{roomID}/leaderboard", HandleLeaderboard(deps))
			room.Post("/{roomID}/intake", HandleLogIntake(deps))
		})
	})

	r.Get("/ws/room/{roomID}", HandleLiveLeaderboard(wsUpgrader, subscribeLimiter, deps))

	return r
}
