package employee

import (
	"context"

	"go-employees/internal/shared/connection"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaInitializer makes sure the employees table exists.
type SchemaInitializer struct {
	conn   connection.Provider
	logger *zap.Logger
}

func NewSchemaInitializer(conn connection.Provider, logger ...*zap.Logger) *SchemaInitializer {
	l := zap.L().Named("employee.schema")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.schema")
	}
	return &SchemaInitializer{conn: conn, logger: l}
}

// Ensure creates the table when the catalog does not have it and leaves an
// existing table untouched. It is safe to call repeatedly.
func (s *SchemaInitializer) Ensure(ctx context.Context) error {
	err := s.conn.Do(ctx, "schema setup", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			m := tx.Migrator()
			if m.HasTable(&Employee{}) {
				s.logger.Info("table already exists", zap.String("table", TableName))
				return nil
			}
			if err := m.CreateTable(&Employee{}); err != nil {
				return err
			}
			s.logger.Info("table created", zap.String("table", TableName))
			return nil
		})
	})
	if err != nil {
		s.logger.Error("error setting up the database", errorFields(err)...)
		return err
	}

	s.logger.Info(`table "employees" checked/created successfully`)
	return nil
}
