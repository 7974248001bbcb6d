// @title           POS Terminal Gateway
// @version         1.0
// @description     Local gateway for the AutoAccessories POS terminal: owns the
// @description     operator session, gates every screen via RBAC, and forwards
// @description     business calls to the central backend.

// @host      127.0.0.1:8090
// @BasePath  /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/autoaccessories/pos-gateway/internal/api"
	"github.com/autoaccessories/pos-gateway/internal/core/ports"
	"github.com/autoaccessories/pos-gateway/internal/core/rbac"
	"github.com/autoaccessories/pos-gateway/internal/core/service"
	"github.com/autoaccessories/pos-gateway/internal/infrastructure/backend"
	"github.com/autoaccessories/pos-gateway/internal/infrastructure/config"
	"github.com/autoaccessories/pos-gateway/internal/infrastructure/credstore"
	"github.com/autoaccessories/pos-gateway/internal/infrastructure/db/mongo"
	"github.com/autoaccessories/pos-gateway/internal/infrastructure/db/redis"
	"github.com/autoaccessories/pos-gateway/internal/infrastructure/queue"
	"github.com/autoaccessories/pos-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:    cfg.LogLevel,
		Pretty:   cfg.Env == "development",
		Terminal: cfg.TerminalID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Credential store ---
	var (
		store ports.CredentialStore
		rdb   *goredis.Client
	)
	switch cfg.Creds.Driver {
	case "memory":
		store = credstore.NewMemory()
	case "redis":
		client, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("redis credential store unavailable")
		}
		defer client.Close()
		rdb = client
		store = credstore.NewRedis(client, cfg.TerminalID)
	default:
		store = credstore.NewFile(cfg.Creds.Path)
	}

	// --- Audit trail ---
	var (
		auditRepo ports.AuditRepository
		mongoDB   *gomongo.Database
	)
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo audit store unavailable")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mongoDB = db

		repo := mongo.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit index creation failed")
		}
		auditRepo = repo
	} else {
		auditRepo = queue.NewLogAuditRepository(log)
	}

	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, auditRepo, log)
	audit.Start(ctx)

	// --- Core wiring ---
	gateway := backend.NewClient(store, backend.Options{
		BaseURL:    cfg.Backend.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Backend.Timeout},
		DomainKeys: cfg.Backend.DomainKeys,
		Logger:     log,
	})
	sessions := service.NewSessionService(gateway, store, audit, log)
	guard := rbac.NewGuard(audit, log)

	e := api.NewRouter(api.Deps{
		Backend:  gateway,
		Sessions: sessions,
		Guard:    guard,
		Logger:   log,
		Mongo:    mongoDB,
		Redis:    rdb,
	})

	go func() {
		addr := "127.0.0.1:" + cfg.Port
		log.Info().Str("addr", addr).Msg("terminal gateway listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
