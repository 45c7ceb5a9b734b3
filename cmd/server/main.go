package main

import (
	"context"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/oggyb/muzz-realtime/internal/api"
	"github.com/oggyb/muzz-realtime/internal/app"
	"github.com/oggyb/muzz-realtime/internal/auth"
	"github.com/oggyb/muzz-realtime/internal/cache"
	"github.com/oggyb/muzz-realtime/internal/config"
	"github.com/oggyb/muzz-realtime/internal/db"
	"github.com/oggyb/muzz-realtime/internal/gateway"
	"github.com/oggyb/muzz-realtime/internal/logger"
	"github.com/oggyb/muzz-realtime/internal/presence"
	"github.com/oggyb/muzz-realtime/internal/server"
	"github.com/oggyb/muzz-realtime/internal/service/candidate"
	"github.com/oggyb/muzz-realtime/internal/service/chat"
	"github.com/oggyb/muzz-realtime/internal/service/match"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return 1
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return 1
	}
	defer redisCache.Client.Close()

	appCtx := app.New(cfg, database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database, logger.Component("seed")); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	// Presence: local registry plus the cross-instance mirror. Entries left
	// behind by a previous run of this instance are stale.
	registry := presence.NewRegistry()
	mirror := cache.NewPresenceMirror(redisCache, cfg.Presence.InstanceID)
	if err := mirror.Clear(context.Background()); err != nil {
		log.Warn("failed to clear stale presence", "instance", mirror.InstanceID(), "err", err)
	}
	hub := gateway.NewHub(registry, mirror, logger.Component("hub"))

	counter := match.NewLikeCounter(appCtx.Store, redisCache, logger.Component("likes"))
	engine := match.NewEngine(appCtx.Store, logger.Component("match"),
		match.WithNotifier(hub),
		match.WithLikeObserver(counter),
	)

	likes := match.NewLikes(appCtx.Store, cfg.Match.LikesPageSize)

	router := chat.NewRouter(engine, appCtx.Store, registry, logger.Component("chat"), chat.Config{
		SendTimeout:     cfg.Chat.SendTimeout,
		TypingDebounce:  cfg.Chat.TypingDebounce,
		HistoryPageSize: cfg.Chat.HistoryPageSize,
	})
	registry.Subscribe(hub)
	registry.Subscribe(router)

	limiter := cache.NewRateLimiter(redisCache, "ratelimit:msg:", cfg.Chat.RateLimit, cfg.Chat.RateWindow)
	gw := gateway.New(registry, hub, engine, router, limiter, logger.Component("gateway"), gateway.Config{
		SendBuffer:   cfg.Realtime.SendBuffer,
		WriteTimeout: cfg.Realtime.WriteTimeout,
	})
	handlers := api.NewHandlers(
		candidate.NewService(appCtx.Store, logger.Component("candidates")),
		engine, counter, likes, router, hub, logger.Component("api"),
	)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	httpServer := server.NewHTTPServer(cfg, log, verifier, handlers, gw)
	grpcServer := server.NewGRPCServer(cfg, log,
		match.NewRegistrar(match.NewMatchService(appCtx, engine, counter, likes)),
	)

	go func() {
		if err := grpcServer.Start(); err != nil {
			log.Error("gRPC server stopped", "err", err)
		}
	}()
	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error("HTTP server stopped", "err", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.App.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"grpc": func(ctx context.Context) error {
				return grpcServer.Stop(ctx)
			},
			"realtime": func(ctx context.Context) error {
				gw.CloseAll()
				err := httpServer.Stop(ctx)
				gw.Wait()
				router.Close()
				if cerr := mirror.Clear(ctx); cerr != nil {
					log.Warn("failed to clear presence", "err", cerr)
				}
				return err
			},
		},
	)

	exitCode := <-wait
	log.Info("server exited", "code", exitCode)
	return exitCode
}
