package employee

import (
	"context"
	"time"

	"go-employees/internal/events"
	"go-employees/internal/shared/connection"
	"go-employees/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
}

type Option func(*service)

// WithPublisher sets where employee_created events go. Defaults to a no-op.
func WithPublisher(p EventPublisher) Option {
	return func(s *service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the source of hire_date.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("employee.service")
		}
	}
}

type service struct {
	conn      connection.Provider
	repo      Repository
	publisher EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(conn connection.Provider, repo Repository, opts ...Option) Service {
	s := &service{
		conn:      conn,
		repo:      repo,
		publisher: NewNoopEventPublisher(),
		now:       time.Now,
		logger:    zap.L().Named("employee.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)
	log.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", string(req.Email)),
	)

	empl := &Employee{
		FirstName: string(req.FirstName),
		LastName:  string(req.LastName),
		Email:     string(req.Email),
		HireDate:  s.now(),
		JobTitle:  string(req.JobTitle),
	}

	err := s.conn.Do(ctx, "insert employee", func(db *gorm.DB) error {
		tx := db.Begin()
		if tx.Error != nil {
			return tx.Error
		}
		defer tx.Rollback()

		if err := s.repo.WithDB(tx).Create(ctx, empl); err != nil {
			return err
		}
		return tx.Commit().Error
	})
	if err != nil {
		log.Error("error inserting data", append(errorFields(err), zap.String("request_id", rid))...)
		return EmployeeResponse{}, err
	}

	event := events.EmployeeCreatedEvent{
		EventType:  events.EmployeeCreatedType,
		RequestID:  rid,
		EmployeeID: empl.EmployeeID,
		Email:      empl.Email,
		JobTitle:   empl.JobTitle,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishEmployeeCreated(ctx, event); err != nil {
		log.Warn("publish employee_created failed",
			zap.String("request_id", rid),
			zap.Int64("employee_id", empl.EmployeeID),
			zap.Error(err),
		)
	}

	log.Info("create employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", empl.EmployeeID),
	)
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("get all employees requested")

	var empls []Employee
	err := s.conn.Do(ctx, "list employees", func(db *gorm.DB) error {
		var err error
		empls, err = s.repo.WithDB(db).FindAll(ctx)
		return err
	})
	if err != nil {
		log.Error("error fetching data", errorFields(err)...)
		return nil, err
	}

	return mapToListResponse(empls), nil
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: empl.EmployeeID,
		FirstName:  empl.FirstName,
		LastName:   empl.LastName,
		Email:      empl.Email,
		HireDate:   empl.HireDate,
		JobTitle:   empl.JobTitle,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
