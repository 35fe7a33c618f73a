// main wires the verification engine: configuration, store selection, the
// investigation service, the completion outbox, and the HTTP server.
// Business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	invchandler "github.com/edd1080/project-olympo-sub002/internal/investigation/handler"
	invcmetrics "github.com/edd1080/project-olympo-sub002/internal/investigation/metrics"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/service"
	"github.com/edd1080/project-olympo-sub002/internal/investigation/store"
	"github.com/edd1080/project-olympo-sub002/internal/platform/config"
	"github.com/edd1080/project-olympo-sub002/internal/platform/httpserver"
	"github.com/edd1080/project-olympo-sub002/internal/platform/logger"
	"github.com/edd1080/project-olympo-sub002/internal/platform/middleware"
	platformpg "github.com/edd1080/project-olympo-sub002/internal/platform/postgres"
	platformredis "github.com/edd1080/project-olympo-sub002/internal/platform/redis"
	"github.com/edd1080/project-olympo-sub002/internal/syncqueue"
	"github.com/edd1080/project-olympo-sub002/internal/token"
	httptransport "github.com/edd1080/project-olympo-sub002/internal/transport/http"
)

const (
	tokenIssuer   = "invc-engine"
	drainInterval = 5 * time.Second
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("engine exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recordStore, health, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	metrics := invcmetrics.New()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithDebounce(cfg.AutosaveDebounce),
	}

	var outbox *syncqueue.Outbox
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := syncqueue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer publisher.Close()
		outbox = syncqueue.NewOutbox(publisher, log)
		opts = append(opts, service.WithPublisher(outbox))
		log.Info("completion hand-off enabled", "topic", cfg.KafkaTopic)
	}

	svc, err := service.New(recordStore, opts...)
	if err != nil {
		return err
	}

	var validator middleware.TokenValidator
	if cfg.JWTSigningKey != "" {
		validator = token.NewService(cfg.JWTSigningKey, tokenIssuer)
	} else {
		log.Warn("investigator auth disabled; no signing key configured")
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Investigations: invchandler.New(svc, log),
		Logger:         log,
		TokenValidator: validator,
		Health:         health,
	})
	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("verification engine listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if outbox != nil {
		group.Go(func() error {
			outbox.Run(ctx, drainInterval)
			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Pending debounced writes go out before the listener closes so an
		// in-flight visit survives a redeploy.
		svc.FlushPending(shutdownCtx)
		if outbox != nil {
			outbox.Drain(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// buildStore picks the record store from configuration: Redis when a URL is
// set, then Postgres, then in-memory.
func buildStore(ctx context.Context, cfg config.Config, log *slog.Logger) (service.RecordStore, func(context.Context) error, func(), error) {
	noop := func() {}

	if cfg.RedisURL != "" {
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, noop, err
		}
		log.Info("using redis record store", "prefix", cfg.StorePrefix)
		return store.NewRedis(client.Client, store.WithKeyPrefix(cfg.StorePrefix)),
			client.Health,
			func() { _ = client.Close() },
			nil
	}

	if cfg.PostgresDSN != "" {
		db, err := platformpg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, noop, err
		}
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, noop, err
		}
		log.Info("using postgres record store")
		return pg, db.PingContext, func() { _ = db.Close() }, nil
	}

	log.Warn("using in-memory record store; investigations will not survive restarts")
	return store.NewInMemory(), nil, noop, nil
}
