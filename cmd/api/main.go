package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/config"
	"inventory-catalog/internal/database"
	"inventory-catalog/internal/handlers"
	"inventory-catalog/internal/logger"
	"inventory-catalog/internal/metrics"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/routes"
)

const serviceName = "inventory-catalog"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	if cfg.EnvFileLoaded {
		zlog.Info(".env file loaded")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		_ = zlog.Sync()
		os.Exit(1)
	}
	_ = zlog.Sync()
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := database.New(cfg.MongoURI, cfg.MongoDB, zlog)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			zlog.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()

	var verifier auth.Verifier = auth.NewJWTVerifier(cfg.JWTSecret)
	if cfg.PrincipalCacheTTL > 0 {
		cached := auth.NewCachingVerifier(verifier, cfg.PrincipalCacheTTL)
		defer cached.Close()
		verifier = cached
	}

	m := metrics.New()
	repo := repository.NewProductRepository(store, cfg.DBTimeout, zlog)

	router := routes.NewRouter(routes.Dependencies{
		Products: handlers.NewProductHandler(repo, zlog, m),
		Health:   handlers.NewHealthHandler(store, zlog),
		Verifier: verifier,
		Metrics:  m,
		Log:      zlog,
	})

	servers := []*http.Server{{Addr: ":" + cfg.Port, Handler: router}}
	if cfg.MetricsPort != "" && cfg.MetricsPort != "0" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		servers = append(servers, &http.Server{Addr: ":" + cfg.MetricsPort, Handler: mux})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			zlog.Info("server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
