package connection

import (
	"context"
	"fmt"
	"time"

	"go-employees/internal/shared/config"
	"go-employees/internal/shared/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Provider scopes one database connection to one logical operation.
type Provider interface {
	// Do opens a connection, runs fn with it and closes it afterwards.
	// A failure while closing is logged and never replaces fn's result.
	Do(ctx context.Context, op string, fn func(db *gorm.DB) error) error
}

// Opener returns a gorm session backed by a freshly opened connection.
type Opener func(ctx context.Context) (*gorm.DB, error)

type provider struct {
	open    Opener
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewProvider(opts config.DatabaseOptions, m *metrics.Metrics, logger ...*zap.Logger) (Provider, error) {
	l := zap.L().Named("connection")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("connection")
	}

	dialector, err := NewDialector(opts)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:               newGormLogger(l, opts.LogLevel),
		DisableAutomaticPing: true,
	}
	return NewProviderWithOpener(DialectorOpener(dialector, gormCfg), m, l), nil
}

func NewProviderWithOpener(open Opener, m *metrics.Metrics, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.L().Named("connection")
	}
	return &provider{open: open, metrics: m, logger: logger}
}

// DialectorOpener opens a gorm session limited to a single underlying
// connection and pings it before handing it out.
func DialectorOpener(dialector func() gorm.Dialector, cfg *gorm.Config) Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		db, err := gorm.Open(dialector(), cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)

		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}
}

func (p *provider) Do(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	db, err := p.open(ctx)
	if err != nil {
		p.metrics.ConnectionError("open")
		p.logger.Error("database connection failed", zap.String("op", op), zap.Error(err))
		return err
	}
	p.metrics.ConnectionOpened()
	p.logger.Info("successfully connected to the database", zap.String("op", op))

	defer p.release(db, op)

	return fn(db.WithContext(ctx))
}

func (p *provider) release(db *gorm.DB, op string) {
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		p.metrics.ConnectionError("close")
		p.logger.Error("error closing the connection", zap.String("op", op), zap.Error(err))
		return
	}
	p.logger.Info("connection closed", zap.String("op", op))
}

func newGormLogger(l *zap.Logger, level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}

	return gormlogger.New(
		zap.NewStdLog(l.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
