package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/config"
	"github.com/vntrieu/shadowquest/internal/database"
	"github.com/vntrieu/shadowquest/internal/games"
	"github.com/vntrieu/shadowquest/internal/httpapi"
	"github.com/vntrieu/shadowquest/internal/logging"
	"github.com/vntrieu/shadowquest/internal/ratelimit"
	"github.com/vntrieu/shadowquest/internal/store"
	"github.com/vntrieu/shadowquest/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	defer dbPool.Close()
	log.Info().Msg("connected to database")

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, dbPool); err != nil {
			log.Fatal().Err(err).Msg("database migrate")
		}
		log.Info().Msg("migrations up to date")
	}

	limiter := newLimiter(ctx, cfg)
	if c, ok := limiter.(interface{ Close() error }); ok {
		defer c.Close()
	}

	roomStore := store.NewRoomStore(dbPool)
	gameStore := store.NewGameStore(dbPool)
	eventStore := store.NewGameEventStore(dbPool)

	hub := websocket.NewHub(nil)
	engine := games.NewEngine(gameStore, eventStore, games.Config{
		QuizTimeout: cfg.QuizTimeout,
		Presence:    hub,
		Names:       gameStore,
	})
	events := websocket.NewEventHandler(hub, gameStore, engine, limiter)
	hub.SetEventHandler(events)
	go hub.Run(ctx)
	go games.NewSweeper(engine, events, cfg.SweepInterval).Run(ctx)

	tokenSecret := []byte(cfg.TokenSecret)
	router := httpapi.NewRouter(httpapi.Deps{
		DB:          dbPool,
		Rooms:       roomStore,
		Games:       gameStore,
		Viewer:      engine,
		WS:          websocket.NewWSHandler(hub, roomStore, tokenSecret, httpapi.OriginChecker(cfg.CORSOrigins)),
		TokenSecret: tokenSecret,
		TokenExpiry: cfg.TokenExpiry,
		RateLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("shadowquest listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newLimiter picks the Redis limiter when REDIS_URL is set and reachable, the in-memory one
// otherwise. A zero RATE_LIMIT disables limiting.
func newLimiter(ctx context.Context, cfg config.Config) ratelimit.Limiter {
	if cfg.RateLimit <= 0 {
		return ratelimit.Noop{}
	}
	if cfg.RedisURL != "" {
		rl, err := ratelimit.DialRedis(ctx, cfg.RedisURL, cfg.RateLimit, cfg.RateLimitWindow)
		if err == nil {
			log.Info().Msg("rate limiting through redis")
			return rl
		}
		log.Warn().Err(err).Msg("redis unavailable, rate limiting in memory")
	}
	return ratelimit.NewInMemory(cfg.RateLimit, cfg.RateLimitWindow)
}
