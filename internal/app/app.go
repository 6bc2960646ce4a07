package app

import (
	"context"
	"errors"
	"io"

	"go-employees/internal/employee"
	"go-employees/internal/middleware"
	"go-employees/internal/shared/config"
	"go-employees/internal/shared/connection"
	"go-employees/internal/shared/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *gin.Engine

	closers []io.Closer
}

// BuildApp wires infrastructure and routes. The employees table is ensured
// before it returns; a failure there is logged and the app is still built.
func BuildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	log := logger.Named("app")
	a := &App{}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	conn, err := connection.NewProvider(cfg.Database, m, logger)
	if err != nil {
		return nil, err
	}

	if err := employee.NewSchemaInitializer(conn, logger).Ensure(ctx); err != nil {
		log.Warn("schema setup failed, serving anyway", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, idempotency disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			rdb = nil
		} else {
			a.closers = append(a.closers, rdb)
		}
	}

	publisher := employee.NewNoopEventPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		writer := connection.NewKafkaWriter(cfg.Kafka)
		a.closers = append(a.closers, writer)
		publisher = employee.NewKafkaEventPublisher(writer, cfg.Kafka.Topic)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
	)
	if m != nil {
		router.Use(middleware.Metrics(m))
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	registerModules(router, modules{
		conn:           conn,
		rdb:            rdb,
		idempotencyTTL: cfg.Redis.IdempotencyTTL,
		publisher:      publisher,
		logger:         logger,
	})

	a.Router = router
	return a, nil
}

// Close releases long-lived clients. Database connections are per request
// and need no closing here.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
