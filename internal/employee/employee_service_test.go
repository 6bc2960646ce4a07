package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-employees/internal/employee"
	employeeMock "go-employees/internal/employee/mock"
	"go-employees/internal/events"
	"go-employees/internal/shared/connection"
	"go-employees/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	publisher *employeeMock.MockEventPublisher
}

func mockOpener(db *sql.DB) connection.Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
			DisableAutomaticPing: true,
			Logger:               gormlogger.Discard,
		})
	}
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := employeeMock.NewMockRepository(ctrl)
	publisher := employeeMock.NewMockEventPublisher(ctrl)
	provider := connection.NewProviderWithOpener(mockOpener(db), nil, zap.NewNop())

	svc := employee.NewService(provider, repo,
		employee.WithPublisher(publisher),
		employee.WithClock(func() time.Time { return fixedNow }),
		employee.WithLogger(zap.NewNop()),
	)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		publisher: publisher,
	}
}

func adaRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		JobTitle:  "Engineer",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	t.Run("success - commits and publishes event", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := contextutil.WithRequestID(context.Background(), "REQ-123")
		req := adaRequest()

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Ada", e.FirstName)
				assert.Equal(t, "Lovelace", e.LastName)
				assert.Equal(t, "ada@example.com", e.Email)
				assert.Equal(t, "Engineer", e.JobTitle)
				assert.Equal(t, fixedNow, e.HireDate)
				assert.Zero(t, e.EmployeeID)
				e.EmployeeID = 42
				return nil
			})
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectClose()

		deps.publisher.EXPECT().
			PublishEmployeeCreated(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev events.EmployeeCreatedEvent) error {
				assert.Equal(t, events.EmployeeCreatedType, ev.EventType)
				assert.Equal(t, "REQ-123", ev.RequestID)
				assert.Equal(t, int64(42), ev.EmployeeID)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), resp.EmployeeID)
		assert.Equal(t, fixedNow, resp.HireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back and surfaces raw error", func(t *testing.T) {
		deps := setupServiceTest(t)
		insertErr := errors.New(`pq: value too long for type character varying(50)`)

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(insertErr)
		deps.sqlMock.ExpectRollback()
		deps.sqlMock.ExpectClose()

		_, err := deps.service.Create(context.Background(), adaRequest())

		assert.ErrorIs(t, err, insertErr)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("commit failure is reported", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.sqlMock.ExpectCommit().WillReturnError(errors.New("commit failed"))
		deps.sqlMock.ExpectClose()

		_, err := deps.service.Create(context.Background(), adaRequest())

		assert.EqualError(t, err, "commit failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("begin failure skips insert", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.sqlMock.ExpectBegin().WillReturnError(errors.New("begin failed"))
		deps.sqlMock.ExpectClose()

		_, err := deps.service.Create(context.Background(), adaRequest())

		assert.EqualError(t, err, "begin failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("publish failure does not fail the insert", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectClose()
		deps.publisher.EXPECT().
			PublishEmployeeCreated(gomock.Any(), gomock.Any()).
			Return(errors.New("kafka: leader not available"))

		_, err := deps.service.Create(context.Background(), adaRequest())

		assert.NoError(t, err)
	})

	t.Run("close failure after commit still succeeds", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectClose().WillReturnError(errors.New("close failed"))
		deps.publisher.EXPECT().PublishEmployeeCreated(gomock.Any(), gomock.Any()).Return(nil)

		_, err := deps.service.Create(context.Background(), adaRequest())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unreachable database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		provider := connection.NewProviderWithOpener(func(ctx context.Context) (*gorm.DB, error) {
			return nil, errors.New("dial tcp 10.0.0.1:5432: connect: connection refused")
		}, nil, zap.NewNop())
		svc := employee.NewService(provider, repo, employee.WithLogger(zap.NewNop()))

		_, err := svc.Create(context.Background(), adaRequest())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindAll(gomock.Any()).Return([]employee.Employee{
			{EmployeeID: 2, FirstName: "Grace", LastName: "Hopper", HireDate: fixedNow},
			{EmployeeID: 1, FirstName: "Ada", LastName: "Lovelace", HireDate: fixedNow},
		}, nil)
		deps.sqlMock.ExpectClose()

		resp, err := deps.service.GetAll(context.Background())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		// database order is kept
		assert.Equal(t, int64(2), resp[0].EmployeeID)
		assert.Equal(t, "Ada", resp[1].FirstName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindAll(gomock.Any()).Return(nil, nil)
		deps.sqlMock.ExpectClose()

		resp, err := deps.service.GetAll(context.Background())

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Empty(t, resp)
	})

	t.Run("query failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		queryErr := errors.New(`relation "employees" does not exist`)

		deps.repo.EXPECT().WithDB(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindAll(gomock.Any()).Return(nil, queryErr)
		deps.sqlMock.ExpectClose()

		resp, err := deps.service.GetAll(context.Background())

		assert.ErrorIs(t, err, queryErr)
		assert.Nil(t, resp)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
