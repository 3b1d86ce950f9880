package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/patcito/nftickets/internal/di"
	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/events"
	"github.com/patcito/nftickets/internal/gateway"
	"github.com/patcito/nftickets/internal/render"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/pkg/config"
	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/middleware"
	"github.com/patcito/nftickets/pkg/money"
	"github.com/patcito/nftickets/pkg/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&logger.Config{
		Level:       logLevel(cfg),
		ServiceName: cfg.App.Name,
		Development: cfg.App.Environment == "development",
		OutputPath:  "stdout",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()
	defer func() { _ = log.Sync() }()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		log.Fatal("failed to init telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	metrics, err := telemetry.NewEngineMetrics()
	if err != nil {
		log.Fatal("failed to create metrics", zap.Error(err))
	}

	converter, err := money.NewConverter(cfg.Engine.Decimals)
	if err != nil {
		log.Fatal("invalid currency configuration", zap.Error(err))
	}

	seed := &domain.Settings{
		CatalogName:     cfg.Engine.CatalogName,
		Options:         domain.DefaultOptions(),
		SettlementAsset: domain.SettlementNative,
		MaxSupply:       cfg.Engine.MaxSupply,
	}

	var (
		store repository.Store
		ready func() error
		pool  *pgxpool.Pool
	)
	switch cfg.Engine.Store {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			log.Fatal("invalid database config", zap.Error(err))
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		pg := repository.NewPostgresStore(pool)
		if err := pg.InitSettings(ctx, seed); err != nil {
			log.Fatal("failed to seed settings", zap.Error(err))
		}
		store = pg
		ready = func() error { return pool.Ping(context.Background()) }
	default:
		store = repository.NewMemoryStore(seed)
	}

	var gw gateway.SettlementGateway
	if cfg.Stripe.SecretKey != "" {
		gw = gateway.NewStripeGateway(gateway.Config{
			APIKey:      cfg.Stripe.SecretKey,
			Environment: cfg.Stripe.Environment,
		})
	} else {
		gw = gateway.NewMockGateway()
	}
	log.Info("settlement gateway configured", zap.String("gateway", gw.Name()))

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.ClientID, cfg.Kafka.Topic, log)
		if err != nil {
			log.Fatal("failed to connect to kafka", zap.Error(err))
		}
		publisher = kp
	}
	defer publisher.Close()

	rateLimit := middleware.DefaultRateLimitConfig()
	if rdb := connectRedis(ctx, cfg, log); rdb != nil {
		defer func() { _ = rdb.Close() }()
		rateLimit.UseRedis = true
		rateLimit.RedisClient = rdb
	}

	container := di.NewContainer(&di.ContainerConfig{
		Store:        store,
		Gateway:      gw,
		Publisher:    publisher,
		Renderer:     render.NewSVGRenderer(cfg.Engine.CatalogName),
		Converter:    converter,
		Metrics:      metrics,
		Logger:       log,
		OwnerAddress: cfg.Engine.OwnerAddress,
		ServiceName:  cfg.App.Name,
		Ready:        ready,
	})

	router := di.SetupRouter(container, cfg, rateLimit)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("store", cfg.Engine.Store),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}

// connectRedis returns a client when Redis is reachable, nil otherwise.
// The rate limiter degrades to per-instance buckets without it.
func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, using local rate limiter", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func logLevel(cfg *config.Config) string {
	if cfg.App.Debug {
		return "debug"
	}
	return "info"
}
