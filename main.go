package main

import (
	"chatrelay/internal/chat"
	"chatrelay/internal/config"
	"chatrelay/internal/database/db_client"
	"chatrelay/internal/http/http_server"
	"chatrelay/internal/http/roomhandler"
	"chatrelay/internal/redis/redis_client"
	"chatrelay/internal/roomaudit"
	"chatrelay/internal/roomid"
	"chatrelay/internal/ws"
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Room-id store: Redis set, or in-process for a single instance
	var store roomid.Store
	if cfg.RoomIDStore == "redis" {
		redisClient, err := redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
		if err != nil {
			Log.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		store = roomid.NewRedisStore(redisClient)
	} else {
		store = roomid.NewMemoryStore()
	}
	issuer := roomid.NewIssuer(store)

	// 4. Room lifecycle listeners: id recycling, plus the optional audit trail
	events := []chat.RoomEvents{issuer}
	if cfg.RoomAudit {
		pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
		if err != nil {
			Log.Fatal("pg-open", zap.Error(err))
		}
		defer pgDb.Close()
		events = append(events, roomaudit.NewRecorder(pgDb))
	}

	// 5. Registry + hub
	registry := chat.NewRegistry(cfg.RateLimit)
	hub := chat.NewHub(registry, events...)

	// 6. Initialize the WS server
	wsSrv := ws.NewWsServer(hub)

	// 7. HTTP + WS server
	roomHandler := roomhandler.New(issuer, hub)
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, roomHandler)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
