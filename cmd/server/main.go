// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	authhandler "todotrack/internal/auth/handler"
	authservice "todotrack/internal/auth/service"
	authstore "todotrack/internal/auth/store"
	"todotrack/internal/auth/store/revocation"
	"todotrack/internal/category"
	"todotrack/internal/jwttoken"
	"todotrack/internal/platform/audit"
	"todotrack/internal/platform/config"
	"todotrack/internal/platform/httpserver"
	"todotrack/internal/platform/logger"
	"todotrack/internal/platform/metrics"
	"todotrack/internal/platform/postgres"
	platformredis "todotrack/internal/platform/redis"
	taskhandler "todotrack/internal/task/handler"
	taskservice "todotrack/internal/task/service"
	taskstore "todotrack/internal/task/store"
	"todotrack/internal/todolist"
	httptransport "todotrack/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Optional backends: missing URLs fall back to in-memory implementations.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	pool, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	categoryNames := cfg.Categories
	if len(categoryNames) == 0 {
		categoryNames = category.DefaultCategories
	}
	staticValidator := category.NewStaticValidator(categoryNames)

	var categoryValidator todolist.CategoryValidator = staticValidator
	var trl revocation.List = revocation.NewInMemoryList()
	if redisClient != nil {
		redisValidator := category.NewRedisValidator(redisClient.Client, staticValidator, log)
		if err := redisValidator.Seed(ctx); err != nil {
			log.Warn("failed to seed categories in redis, using static set", "error", err)
		} else {
			categoryValidator = redisValidator
		}
		trl = revocation.NewRedisList(redisClient.Client)
	}

	var lists taskstore.Store = taskstore.NewInMemoryStore()
	if pool != nil {
		pgStore := taskstore.NewPostgresStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure task schema", "error", err)
			os.Exit(1)
		}
		lists = pgStore
	}

	auditRecorder := audit.NewRecorder(1024, log)
	auditStore := audit.NewInMemoryStore()
	auditWorker := audit.NewWorker(auditStore, auditRecorder.Events())

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	sessions := authstore.NewInMemorySessionStore()
	authSvc, err := authservice.New(
		authstore.NewInMemoryUserStore(),
		sessions,
		trl,
		tokens,
		authservice.WithLogger(log),
		authservice.WithAudit(auditRecorder),
		authservice.WithTokenTTL(cfg.TokenTTL),
		authservice.WithSessionTTL(cfg.SessionTTL),
	)
	if err != nil {
		log.Error("failed to build auth service", "error", err)
		os.Exit(1)
	}
	validator := authservice.NewTokenValidator(tokens, trl, sessions)

	taskSvc, err := taskservice.New(lists, categoryValidator,
		taskservice.WithLogger(log),
		taskservice.WithMetrics(m),
		taskservice.WithAudit(auditRecorder),
	)
	if err != nil {
		log.Error("failed to build task service", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Auth:     authhandler.New(authSvc, validator, log, m),
		Tasks:    taskhandler.New(taskSvc, log, m, validator),
		Audit:    audit.NewHandler(auditStore, validator, log),
		Registry: registry,
		Health: func(r *http.Request) error {
			if redisClient != nil {
				if err := redisClient.Health(r.Context()); err != nil {
					return err
				}
			}
			if pool != nil {
				return pool.Ping(r.Context())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := auditWorker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		log.Info("starting todotrack", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if pool != nil {
		pool.Close()
	}
	log.Info("todotrack stopped")
}
