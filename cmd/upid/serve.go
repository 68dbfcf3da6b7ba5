package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Siddarth2230/upid/internal/config"
	"github.com/Siddarth2230/upid/internal/handler"
	"github.com/Siddarth2230/upid/internal/middleware"
	"github.com/Siddarth2230/upid/internal/repository"
	"github.com/Siddarth2230/upid/internal/service"
	"github.com/Siddarth2230/upid/pkg/cache"
	"github.com/Siddarth2230/upid/pkg/idgen"
	"github.com/Siddarth2230/upid/pkg/log"
)

func newServeCommand() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the UPID issuing service",
		Long:  "Run the HTTP service that issues UPIDs, stores them in PostgreSQL and serves lookups through an LRU and Redis.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log.Init(cfg.Log)
	logger := log.L()

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// fail fast if the database is unreachable
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	repo := repository.NewUPIDRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	var l2 service.RemoteCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		})
		defer func() {
			_ = redisClient.Close()
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		l2 = cache.NewRedisCache(redisClient, cfg.Redis.Namespace, cfg.Redis.TTL)
	}

	svc := service.NewUPIDService(repo, idgen.NewUPIDGenerator(nil), l2, cfg.Cache.Size)
	handlers := handler.NewUPIDHandler(svc)

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	api := r.NewRoute().Subrouter()
	api.Use(log.HTTPMiddleware(logger), middleware.MetricsMiddleware)
	handlers.RegisterRoutes(api)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
