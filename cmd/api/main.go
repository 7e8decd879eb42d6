// Command api serves the access-core HTTP API.
//
// @title                       Access Core API
// @version                     1.0
// @description                 Accounts, sessions and ownership-checked access to jobs, applications, saved jobs and chats.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentbridge/access-core/internal/api"
	"github.com/talentbridge/access-core/internal/api/handler"
	"github.com/talentbridge/access-core/internal/core/authz"
	"github.com/talentbridge/access-core/internal/core/service"
	mongostore "github.com/talentbridge/access-core/internal/infrastructure/db/mongo"
	redisstore "github.com/talentbridge/access-core/internal/infrastructure/db/redis"
	"github.com/talentbridge/access-core/internal/infrastructure/queue"
	"github.com/talentbridge/access-core/internal/pkg/config"
	"github.com/talentbridge/access-core/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "access-core"})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "access-core",
	})

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	accounts := mongostore.NewAccountRepository(db)
	stores := service.Stores{
		Accounts:     accounts,
		Jobs:         mongostore.NewJobRepository(db),
		Applications: mongostore.NewApplicationRepository(db),
		SavedJobs:    mongostore.NewSavedJobRepository(db),
		Chats:        mongostore.NewChatRepository(db),
		Messages:     mongostore.NewMessageRepository(db),
	}

	// --- Audit ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(db), logger.For("audit"))
	dispatcher.Start(auditCtx)

	// --- Core ---
	sessions, err := service.NewSessionManager(service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session manager")
	}
	engine := authz.New()
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	resolver := service.NewOwnershipResolver(stores, logger.For("ownership"))
	guard := service.NewAccessGuard(engine, resolver, dispatcher, logger.For("guard"))

	authService := service.NewAuthService(accounts, hasher, sessions, redisstore.NewLoginLimiter(rdb), service.AuthOptions{
		LoginMaxAttempts:         cfg.Auth.LoginMaxAttempts,
		LoginWindow:              cfg.Auth.LoginWindow,
		RequireRecruiterApproval: cfg.Auth.RequireRecruiterApproval,
	}, logger.For("auth"))
	accountService := service.NewAccountService(accounts, hasher, resolver, guard, logger.For("accounts"))
	jobService := service.NewJobService(stores.Jobs, resolver, guard, logger.For("jobs"))
	applicationService := service.NewApplicationService(stores.Applications, resolver, guard, logger.For("applications"))
	savedJobService := service.NewSavedJobService(stores.SavedJobs, resolver, guard, logger.For("saved_jobs"))
	chatService := service.NewChatService(accounts, stores.Chats, stores.Messages, resolver, guard, logger.For("chats"))

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Log:          logger.For("http"),
		Sessions:     sessions,
		Authorizer:   engine,
		Auth:         handler.NewAuthHandler(authService, !cfg.IsDevelopment()),
		Accounts:     handler.NewAccountHandler(accountService),
		Jobs:         handler.NewJobHandler(jobService, applicationService, savedJobService),
		Applications: handler.NewApplicationHandler(applicationService),
		SavedJobs:    handler.NewSavedJobHandler(savedJobService),
		Chats:        handler.NewChatHandler(chatService),
		Health: handler.NewHealthHandler(
			handler.DependencyCheck{Name: "mongodb", Check: func(ctx context.Context) error { return mongostore.Ping(ctx, db) }},
			handler.DependencyCheck{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
		),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Requests are drained; flush the audit queue before the store goes away.
	stopAudit()
	dispatcher.Wait()
}
