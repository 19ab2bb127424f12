package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/config"
	"github.com/jwalitptl/clinic-api/internal/cache"
	appointmentHandler "github.com/jwalitptl/clinic-api/internal/handler/appointment"
	"github.com/jwalitptl/clinic-api/internal/handler/auth"
	"github.com/jwalitptl/clinic-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/clinic-api/internal/handler/patient"
	staffHandler "github.com/jwalitptl/clinic-api/internal/handler/staff"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/repository/memory"
	"github.com/jwalitptl/clinic-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-api/internal/router"
	appointmentService "github.com/jwalitptl/clinic-api/internal/service/appointment"
	coordinatorService "github.com/jwalitptl/clinic-api/internal/service/coordinator"
	identityService "github.com/jwalitptl/clinic-api/internal/service/identity"
	patientService "github.com/jwalitptl/clinic-api/internal/service/patient"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("clinic", registry)

	store, err := newStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer store.Close()

	listing, closeCache, err := newListingCache(ctx, cfg.Cache, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize listing cache")
	}
	defer closeCache()

	// Initialize services
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	identitySvc := identityService.NewService(store, hasher, listing, cfg.Security.DefaultPassword)
	patientSvc := patientService.NewService(store, listing)
	appointmentSvc := appointmentService.NewService(store, listing)
	coordinatorSvc := coordinatorService.NewService(store, identitySvc, listing, m)

	if cfg.Seed.Enabled {
		if err := identitySvc.Seed(ctx, seedMembers(cfg.Seed.Staff)); err != nil {
			log.Fatal().Err(err).Msg("failed to seed staff")
		}
	}

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	r := router.NewRouter(
		router.RouterConfig{
			RateLimit:      cfg.RateLimit,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Metrics:        m,
		},
		health.NewHandler(store, registry),
		auth.NewHandler(identitySvc),
		staffHandler.NewHandler(identitySvc, coordinatorSvc, cfg.Security.DefaultPassword),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc, coordinatorSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("store", cfg.Database.Driver).Str("cache", cfg.Cache.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func newStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewStore(), nil
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return postgres.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func newListingCache(ctx context.Context, cfg config.CacheConfig, m *metrics.Metrics) (appointmentService.ListingCache, func(), error) {
	switch cfg.Driver {
	case "none":
		return cache.Nop{}, func() {}, nil
	case "memory":
		backend := cache.NewLocal(cfg.CleanupInterval)
		return cache.NewListing(backend, cfg.TTL, m), func() { backend.Close() }, nil
	case "redis":
		backend, err := cache.NewRedis(ctx, cfg.Redis, cfg.Breaker, m)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewListing(backend, cfg.TTL, m), func() { backend.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

func seedMembers(staff []config.SeedStaff) []identityService.SeedMember {
	members := make([]identityService.SeedMember, 0, len(staff))
	for _, s := range staff {
		members = append(members, identityService.SeedMember{
			Code:          s.Code,
			Name:          s.Name,
			Role:          model.Role(s.Role),
			AvailableDays: s.AvailableDays,
			Password:      s.Password,
		})
	}
	return members
}
