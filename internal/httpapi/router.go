package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vntrieu/shadowquest/internal/httpapi/handler"
	"github.com/vntrieu/shadowquest/internal/metrics"
	"github.com/vntrieu/shadowquest/internal/ratelimit"
	"github.com/vntrieu/shadowquest/internal/websocket"

	_ "github.com/vntrieu/shadowquest/docs" // swag docs
)

// GameStore is everything the HTTP layer reads and writes about games.
type GameStore interface {
	handler.GameStore
	handler.LatestGameLookup
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	// DB backs /readyz; nil serves /readyz like /healthz.
	DB          handler.Pinger
	Rooms       handler.RoomStore
	Games       GameStore
	Viewer      handler.Viewer
	WS          *websocket.WSHandler
	TokenSecret []byte
	TokenExpiry time.Duration
	// RateLimiter guards room creation and joining per client IP; nil disables it.
	RateLimiter ratelimit.Limiter
	CORSOrigins []string
}

// NewRouter builds the root HTTP router.
//
// @title            Shadowquest API
// @version          1.0
// @description      Rooms, games and private views for the hidden-role quest game.
// @BasePath         /
// @SecurityDefinitions.apikey  BearerAuth
// @in               header
// @name             Authorization
func NewRouter(d Deps) http.Handler {
	limiter := d.RateLimiter
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(d.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handler.Healthz)
	if d.DB != nil {
		r.Get("/readyz", handler.Readyz(d.DB))
	} else {
		r.Get("/readyz", handler.Healthz)
	}
	r.Handle("/metrics", metrics.Handler())
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	if d.WS != nil {
		r.Get("/ws/rooms/{code}", d.WS.HandleRoomWebSocket)
	}

	rateLimitByIP := RateLimitMiddleware(limiter, RateLimitKeyByIP)
	rooms := handler.NewRoomHandler(d.Rooms, d.Games, d.TokenSecret, d.TokenExpiry)
	gamesHandler := handler.NewGameHandler(d.Games, d.Rooms, d.Viewer, d.TokenSecret)

	r.Route("/api", func(r chi.Router) {
		r.Use(LimitRequestBody(DefaultMaxBodyBytes))
		r.Post("/config/validate", handler.ValidateConfig)

		r.Route("/rooms", func(r chi.Router) {
			r.With(rateLimitByIP).Post("/", rooms.CreateRoom)
			r.Get("/{code}", rooms.GetRoom)
			r.With(rateLimitByIP).Post("/{code}/join", rooms.JoinRoom)
			r.Post("/{code}/games", gamesHandler.CreateGame)
		})
		r.Get("/games/{game_id}/view", gamesHandler.GetView)
	})
	return r
}

// DefaultRateLimiter is the single-instance limiter: 20 requests per minute per key.
func DefaultRateLimiter() ratelimit.Limiter {
	return ratelimit.NewInMemory(20, time.Minute)
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// OriginChecker returns a websocket origin check for the configured CORS origins. A wildcard (or
// no origins) returns nil, which accepts any origin.
func OriginChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[strings.TrimRight(o, "/")] = true
	}
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
