package app

import (
	"time"

	"go-employees/internal/employee"
	"go-employees/internal/middleware"
	"go-employees/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type modules struct {
	conn           connection.Provider
	rdb            *redis.Client
	idempotencyTTL time.Duration
	publisher      employee.EventPublisher
	logger         *zap.Logger
}

func registerModules(router *gin.Engine, m modules) {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(nil)

	// --- Services ---
	employeeService := employee.NewService(m.conn, employeeRepo,
		employee.WithPublisher(m.publisher),
		employee.WithLogger(m.logger),
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, m.logger)

	// --- Routes Registration ---
	var createMiddleware []gin.HandlerFunc
	if m.rdb != nil {
		createMiddleware = append(createMiddleware, middleware.Idempotency(m.rdb, m.idempotencyTTL, m.logger))
	}
	employee.RegisterRoutes(router, employeeHandler, createMiddleware...)
}
