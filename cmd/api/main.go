// Command api serves the trading HTTP API.
//
// @title                       Orbital Exchange Trading API
// @version                     1.0
// @description                 Players buy resources from planets and sell them back to the market.
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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/orbital-exchange/trading-api/docs"
	"github.com/orbital-exchange/trading-api/internal/api"
	"github.com/orbital-exchange/trading-api/internal/api/metrics"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
	"github.com/orbital-exchange/trading-api/internal/core/service"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/cache"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/catalog"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/config"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/db/mongo"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/db/redis"
	"github.com/orbital-exchange/trading-api/internal/infrastructure/queue"
	"github.com/orbital-exchange/trading-api/pkg/logger"
)

const (
	shutdownTimeout = 15 * time.Second
	localCacheSize  = 100_000
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "trading-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	var (
		rdb      *goredis.Client
		dedup    ports.TradeDedup
		denylist ports.TokenDenylist
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		dedup = redis.NewTradeDedup(rdb, cfg.Trade.IdempotencyTTL)
		denylist = redis.NewTokenDenylist(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		localDedup, err := cache.NewTradeDedup(localCacheSize, cfg.Trade.IdempotencyTTL)
		if err != nil {
			return err
		}
		localDenylist, err := cache.NewTokenDenylist(localCacheSize)
		if err != nil {
			return err
		}
		dedup, denylist = localDedup, localDenylist
		log.Warn().Msg("redis disabled, using in-process idempotency and token revocation")
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ledger := mongo.NewLedgerRepository(db)
	authRepo := mongo.NewAuthRepository(db)
	if err := ledger.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	tradeOpts := []service.TradeOption{service.WithRetry(cfg.Trade.MaxAttempts, cfg.Trade.RetryDelay)}
	if cfg.Mongo.Transactions {
		tradeOpts = append(tradeOpts, service.WithTxRunner(mongo.NewTxRunner(mongoClient)))
	}

	catalogSvc := service.NewCatalogService(ledger, cat, logger.Component("catalog"))
	accountSvc := service.NewAccountService(ledger, cat.Prices)
	tradeSvc := service.NewTradeService(ledger, cat.Prices, logger.Component("trades"), tradeOpts...)
	authSvc := service.NewAuthService(authRepo, ledger, denylist, service.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		TokenTTL:        cfg.TokenTTL,
		StartingCredits: cfg.StartingCredits,
	}, logger.Component("auth"))

	if cfg.SeedOnStartup {
		res, err := catalogSvc.Seed(ctx)
		if err != nil {
			return err
		}
		metrics.PlanetsSeededTotal.WithLabelValues("added").Add(float64(res.Added))
		metrics.PlanetsSeededTotal.WithLabelValues("updated").Add(float64(res.Updated))
		log.Info().Int("added", res.Added).Int("updated", res.Updated).Msg("catalog seeded")
	}

	dispatcher := queue.NewDispatcher(cfg.Trade.Workers, tradeSvc, logger.Component("dispatcher"))

	e := api.NewRouter(api.Deps{
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Accounts:  accountSvc,
		Trades:    tradeSvc,
		Executor:  dispatcher,
		Dedup:     dedup,
		Denylist:  denylist,
		JWTSecret: cfg.JWTSecret,
		Mongo:     db,
		Redis:     rdb,
		Logger:    logger.Component("http"),
	})

	// The dispatcher outlives the HTTP server so in-flight trades finish
	// during graceful shutdown.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()
	dispatcher.Start(dispatchCtx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(sctx)
		stopDispatch()
		dispatcher.Wait()
		return err
	})

	return g.Wait()
}
